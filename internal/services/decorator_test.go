package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipvid/backend/internal/models"
	"github.com/snipvid/backend/internal/repositories"
)

// countingFollowRepo counts edge-store queries issued by the decorator.
type countingFollowRepo struct {
	repositories.FollowRepository
	batchQueries int
}

func (r *countingFollowRepo) FolloweesAmong(followerID uint, candidateIDs []uint) (map[uint]bool, error) {
	r.batchQueries++
	return r.FollowRepository.FolloweesAmong(followerID, candidateIDs)
}

func TestDecorator_StampsFlagsWithOneQuery(t *testing.T) {
	env := newTestEnv(t)
	follows := &countingFollowRepo{FollowRepository: env.follows}
	dec := NewFollowDecorator(follows)

	viewer := env.seedUser(t, "viewer")
	u1 := env.seedUser(t, "u1")
	u2 := env.seedUser(t, "u2")
	u3 := env.seedUser(t, "u3")

	_, err := env.follows.Create(viewer.ID, u1.ID)
	require.NoError(t, err)
	_, err = env.follows.Create(viewer.ID, u2.ID)
	require.NoError(t, err)

	// u1 appears twice, as it would in a comment thread
	refs := []*models.UserSummary{u1.ToSummary(), u2.ToSummary(), u3.ToSummary(), u1.ToSummary()}
	require.NoError(t, dec.DecorateUsers(viewer.ID, refs))

	assert.Equal(t, 1, follows.batchQueries)
	for i, want := range []bool{true, true, false, true} {
		require.NotNil(t, refs[i].IsFollowing, "entry %d", i)
		assert.Equal(t, want, *refs[i].IsFollowing, "entry %d", i)
	}
}

func TestDecorator_SecondPassIsFree(t *testing.T) {
	env := newTestEnv(t)
	follows := &countingFollowRepo{FollowRepository: env.follows}
	dec := NewFollowDecorator(follows)

	viewer := env.seedUser(t, "viewer")
	other := env.seedUser(t, "other")
	_, err := env.follows.Create(viewer.ID, other.ID)
	require.NoError(t, err)

	refs := []*models.UserSummary{other.ToSummary()}
	require.NoError(t, dec.DecorateUsers(viewer.ID, refs))
	require.NoError(t, dec.DecorateUsers(viewer.ID, refs))

	assert.Equal(t, 1, follows.batchQueries)
	assert.True(t, *refs[0].IsFollowing)
}

func TestDecorator_SelfReferenceIsFalse(t *testing.T) {
	env := newTestEnv(t)
	dec := NewFollowDecorator(env.follows)

	viewer := env.seedUser(t, "viewer")
	refs := []*models.UserSummary{viewer.ToSummary()}
	require.NoError(t, dec.DecorateUsers(viewer.ID, refs))

	require.NotNil(t, refs[0].IsFollowing)
	assert.False(t, *refs[0].IsFollowing)
}

func TestDecorator_AnonymousViewerSkipsWork(t *testing.T) {
	env := newTestEnv(t)
	follows := &countingFollowRepo{FollowRepository: env.follows}
	dec := NewFollowDecorator(follows)

	other := env.seedUser(t, "other")
	refs := []*models.UserSummary{other.ToSummary()}
	require.NoError(t, dec.DecorateUsers(0, refs))

	assert.Equal(t, 0, follows.batchQueries)
	assert.Nil(t, refs[0].IsFollowing)
}

func TestDecorator_EmptyAndNilEntries(t *testing.T) {
	env := newTestEnv(t)
	follows := &countingFollowRepo{FollowRepository: env.follows}
	dec := NewFollowDecorator(follows)

	viewer := env.seedUser(t, "viewer")
	require.NoError(t, dec.DecorateUsers(viewer.ID, nil))
	require.NoError(t, dec.DecorateUsers(viewer.ID, []*models.UserSummary{nil}))
	assert.Equal(t, 0, follows.batchQueries)
}
