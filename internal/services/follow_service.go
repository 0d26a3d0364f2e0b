package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/snipvid/backend/internal/models"
	"github.com/snipvid/backend/internal/repositories"
	"github.com/snipvid/backend/pkg/logger"
)

// NotificationPusher delivers a notification to the recipient's device.
type NotificationPusher interface {
	Push(ctx context.Context, notification *models.Notification) error
}

// FollowService is the only entry point allowed to mutate the follow graph.
// Edge writes are synchronous; counter reconciliation and the follow
// notification are fire-and-forget, so a request may return before the
// counters catch up.
type FollowService struct {
	follows       repositories.FollowRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	reconciler    ReconcileScheduler
	pusher        NotificationPusher
}

// NewFollowService creates a FollowService. pusher may be nil when push
// delivery is not configured.
func NewFollowService(
	follows repositories.FollowRepository,
	users repositories.UserRepository,
	notifications repositories.NotificationRepository,
	reconciler ReconcileScheduler,
	pusher NotificationPusher,
) *FollowService {
	return &FollowService{
		follows:       follows,
		users:         users,
		notifications: notifications,
		reconciler:    reconciler,
		pusher:        pusher,
	}
}

// Follow creates the byUserID → targetID edge.
func (s *FollowService) Follow(byUserID, targetID uint) error {
	if byUserID == targetID {
		return ErrSelfFollow
	}

	target, err := s.users.GetUserByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// Advisory pre-check: two concurrent follows can both pass it; the
	// unique index in the edge store settles the race.
	exists, err := s.follows.Exists(byUserID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollowing
	}

	if _, err := s.follows.Create(byUserID, targetID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyFollowing) {
			return ErrAlreadyFollowing
		}
		return err
	}

	s.reconciler.Enqueue(byUserID)
	s.reconciler.Enqueue(targetID)
	s.notifyFollow(byUserID, target)
	return nil
}

// Unfollow removes the byUserID → targetID edge.
func (s *FollowService) Unfollow(byUserID, targetID uint) error {
	if byUserID == targetID {
		return ErrSelfFollow
	}

	if err := s.follows.Remove(byUserID, targetID); err != nil {
		if errors.Is(err, repositories.ErrFollowNotFound) {
			return ErrNotFollowing
		}
		return err
	}

	s.reconciler.Enqueue(byUserID)
	s.reconciler.Enqueue(targetID)
	return nil
}

// notifyFollow records a follow notification and pushes it best-effort.
// Failures never surface to the follow request.
func (s *FollowService) notifyFollow(actorID uint, target *models.User) {
	actor, err := s.users.GetUserByID(actorID)
	if err != nil {
		logger.L().Error().Err(err).Uint("actor_id", actorID).Msg("failed to load actor for follow notification")
		return
	}

	notification := &models.Notification{
		Type:        "follow",
		ActorID:     actor.ID,
		RecipientID: target.ID,
		TargetID:    strconv.FormatUint(uint64(actor.ID), 10),
		TargetType:  "user",
		Message:     fmt.Sprintf("%s started following you", actor.DisplayName),
	}
	if err := s.notifications.CreateNotification(notification); err != nil {
		logger.L().Error().Err(err).Uint("recipient_id", target.ID).Msg("failed to create follow notification")
		return
	}

	if s.pusher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.pusher.Push(ctx, notification); err != nil {
			logger.L().Error().Err(err).Uint("recipient_id", target.ID).Msg("failed to push follow notification")
		}
	}()
}
