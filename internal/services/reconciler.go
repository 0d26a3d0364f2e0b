package services

import (
	"sync"

	"github.com/snipvid/backend/internal/repositories"
	"github.com/snipvid/backend/pkg/logger"
)

// ReconcileScheduler accepts fire-and-forget reconciliation requests.
type ReconcileScheduler interface {
	Enqueue(userID uint)
}

// CounterReconciler brings a user's denormalized follow counters in line
// with the actual edge counts. It always recomputes and overwrites rather
// than applying deltas, so it is idempotent and self-heals from any earlier
// partial failure. Failures are logged and swallowed; counters are a display
// aid, not a consistency-critical value.
type CounterReconciler struct {
	users   repositories.UserRepository
	follows repositories.FollowRepository
	workers int

	queue chan uint
	done  chan struct{}

	mu      sync.Mutex
	stopped bool
}

// NewCounterReconciler creates a reconciler with a bounded queue consumed by
// a small worker pool.
func NewCounterReconciler(users repositories.UserRepository, follows repositories.FollowRepository, workers, queueSize int) *CounterReconciler {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &CounterReconciler{
		users:   users,
		follows: follows,
		workers: workers,
		queue:   make(chan uint, queueSize),
		done:    make(chan struct{}),
	}
}

// Start launches the worker pool.
func (r *CounterReconciler) Start() {
	var wg sync.WaitGroup
	wg.Add(r.workers)
	for i := 0; i < r.workers; i++ {
		go func() {
			defer wg.Done()
			for userID := range r.queue {
				if err := r.Reconcile(userID); err != nil {
					logger.L().Error().Err(err).Uint("user_id", userID).Msg("counter reconciliation failed")
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(r.done)
	}()
}

// Enqueue schedules a reconciliation for userID without blocking the caller.
// A full queue drops the request with a log line; the next edge change on
// the same user re-enqueues it.
func (r *CounterReconciler) Enqueue(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		logger.L().Warn().Uint("user_id", userID).Msg("reconciler stopped, dropping reconciliation")
		return
	}
	select {
	case r.queue <- userID:
	default:
		logger.L().Warn().Uint("user_id", userID).Msg("reconciler queue full, dropping reconciliation")
	}
}

// Stop closes the intake; workers drain the remaining queue before exiting.
func (r *CounterReconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	close(r.queue)
}

// Done returns a channel that is closed once all workers have exited.
func (r *CounterReconciler) Done() <-chan struct{} {
	return r.done
}

// Reconcile recomputes both counters for userID from the edge store and
// persists them only if they changed.
func (r *CounterReconciler) Reconcile(userID uint) error {
	following, err := r.follows.CountByFollower(userID)
	if err != nil {
		return err
	}
	followers, err := r.follows.CountByFollowee(userID)
	if err != nil {
		return err
	}

	user, err := r.users.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.FollowingCount == int(following) && user.FollowersCount == int(followers) {
		return nil
	}
	return r.users.UpdateCounters(userID, int(following), int(followers))
}
