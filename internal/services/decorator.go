package services

import (
	"github.com/snipvid/backend/internal/models"
	"github.com/snipvid/backend/internal/repositories"
)

// FollowDecorator stamps viewer-relative IsFollowing flags onto batches of
// user summaries. It is read-only over the edge store and issues at most one
// query per call regardless of batch size.
type FollowDecorator struct {
	follows repositories.FollowRepository
}

// NewFollowDecorator creates a FollowDecorator
func NewFollowDecorator(follows repositories.FollowRepository) *FollowDecorator {
	return &FollowDecorator{follows: follows}
}

// DecorateUsers sets IsFollowing on each summary relative to viewerID.
// Anonymous viewers (viewerID == 0) and empty batches are no-ops. Entries
// whose flag is already set are skipped, so a second pass does nothing.
// Self-references resolve to false since no self-edge can exist.
func (d *FollowDecorator) DecorateUsers(viewerID uint, refs []*models.UserSummary) error {
	if viewerID == 0 || len(refs) == 0 {
		return nil
	}

	seen := make(map[uint]struct{}, len(refs))
	ids := make([]uint, 0, len(refs))
	for _, ref := range refs {
		if ref == nil || ref.IsFollowing != nil {
			continue
		}
		if _, ok := seen[ref.ID]; ok {
			continue
		}
		seen[ref.ID] = struct{}{}
		ids = append(ids, ref.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	followed, err := d.follows.FolloweesAmong(viewerID, ids)
	if err != nil {
		return err
	}

	for _, ref := range refs {
		if ref == nil || ref.IsFollowing != nil {
			continue
		}
		v := followed[ref.ID]
		ref.IsFollowing = &v
	}
	return nil
}
