package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipvid/backend/internal/repositories"
)

// countingUserRepo counts counter writes to observe idempotence.
type countingUserRepo struct {
	repositories.UserRepository
	counterWrites int
}

func (r *countingUserRepo) UpdateCounters(id uint, followingCount, followersCount int) error {
	r.counterWrites++
	return r.UserRepository.UpdateCounters(id, followingCount, followersCount)
}

func TestReconciler_RecomputesFromEdges(t *testing.T) {
	env := newTestEnv(t)
	rec := NewCounterReconciler(env.users, env.follows, 1, 16)
	a := env.seedUser(t, "alice")
	b := env.seedUser(t, "bob")
	c := env.seedUser(t, "carol")

	_, err := env.follows.Create(a.ID, b.ID)
	require.NoError(t, err)
	_, err = env.follows.Create(c.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, rec.Reconcile(a.ID))
	require.NoError(t, rec.Reconcile(b.ID))

	aAfter, err := env.users.GetUserByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, aAfter.FollowingCount)
	assert.Equal(t, 0, aAfter.FollowersCount)

	bAfter, err := env.users.GetUserByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, bAfter.FollowersCount)
	assert.Equal(t, 0, bAfter.FollowingCount)
}

// Drifted counters are overwritten with the edge-store truth, not adjusted.
func TestReconciler_HealsDriftedCounters(t *testing.T) {
	env := newTestEnv(t)
	rec := NewCounterReconciler(env.users, env.follows, 1, 16)
	a := env.seedUser(t, "alice")
	b := env.seedUser(t, "bob")

	_, err := env.follows.Create(a.ID, b.ID)
	require.NoError(t, err)

	// Simulate drift left behind by a partial failure
	require.NoError(t, env.users.UpdateCounters(b.ID, 7, 42))

	require.NoError(t, rec.Reconcile(b.ID))

	bAfter, err := env.users.GetUserByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, bAfter.FollowersCount)
	assert.Equal(t, 0, bAfter.FollowingCount)
}

func TestReconciler_IdempotentSkipsUnchangedWrite(t *testing.T) {
	env := newTestEnv(t)
	users := &countingUserRepo{UserRepository: env.users}
	rec := NewCounterReconciler(users, env.follows, 1, 16)
	a := env.seedUser(t, "alice")
	b := env.seedUser(t, "bob")

	_, err := env.follows.Create(a.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, rec.Reconcile(a.ID))
	assert.Equal(t, 1, users.counterWrites)

	// No intervening edge changes: the second reconcile writes nothing
	require.NoError(t, rec.Reconcile(a.ID))
	assert.Equal(t, 1, users.counterWrites)
}

func TestReconciler_ReconcileUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	rec := NewCounterReconciler(env.users, env.follows, 1, 16)

	assert.Error(t, rec.Reconcile(9999))
}

func TestReconciler_StopDrainsQueue(t *testing.T) {
	env := newTestEnv(t)
	rec := NewCounterReconciler(env.users, env.follows, 2, 16)
	a := env.seedUser(t, "alice")
	b := env.seedUser(t, "bob")

	_, err := env.follows.Create(a.ID, b.ID)
	require.NoError(t, err)

	rec.Start()
	rec.Enqueue(a.ID)
	rec.Enqueue(b.ID)
	rec.Stop()
	<-rec.Done()

	aAfter, err := env.users.GetUserByID(a.ID)
	require.NoError(t, err)
	bAfter, err := env.users.GetUserByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, aAfter.FollowingCount)
	assert.Equal(t, 1, bAfter.FollowersCount)
}

func TestReconciler_EnqueueAfterStopIsDropped(t *testing.T) {
	env := newTestEnv(t)
	rec := NewCounterReconciler(env.users, env.follows, 1, 16)
	rec.Start()
	rec.Stop()
	<-rec.Done()

	// Must not panic or block
	rec.Enqueue(1)
	rec.Stop() // second Stop is a no-op
}

func TestReconciler_QueueOverflowDrops(t *testing.T) {
	env := newTestEnv(t)
	// No workers started: the queue only fills
	rec := NewCounterReconciler(env.users, env.follows, 1, 2)

	// Must not block once the queue is full
	rec.Enqueue(1)
	rec.Enqueue(2)
	rec.Enqueue(3)
	assert.Len(t, rec.queue, 2)
}
