package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/snipvid/backend/internal/models"
)

var (
	// ErrAlreadyFollowing is returned when an edge for the ordered
	// (follower, followee) pair already exists.
	ErrAlreadyFollowing = errors.New("already following")
	// ErrFollowNotFound is returned when no edge exists for the pair.
	ErrFollowNotFound = errors.New("follow relationship not found")
)

// FollowRepository is the follow-edge store. It exclusively owns the edge
// collection; only the follow service creates or removes edges.
type FollowRepository interface {
	Exists(followerID, followeeID uint) (bool, error)
	Create(followerID, followeeID uint) (*models.FollowEdge, error)
	Remove(followerID, followeeID uint) error
	CountByFollower(userID uint) (int64, error)
	CountByFollowee(userID uint) (int64, error)
	ListByFollower(userID uint, page, limit int) ([]models.FollowEdge, int64, error)
	ListByFollowee(userID uint, page, limit int) ([]models.FollowEdge, int64, error)
	FolloweesAmong(followerID uint, candidateIDs []uint) (map[uint]bool, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) Exists(followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.FollowEdge{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the edge. The unique index on (follower_id, followee_id)
// rejects a racing duplicate; the caller's Exists pre-check is advisory only.
func (r *PostgresFollowRepository) Create(followerID, followeeID uint) (*models.FollowEdge, error) {
	edge := &models.FollowEdge{
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
	if err := r.db.Create(edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}
	return edge, nil
}

func (r *PostgresFollowRepository) Remove(followerID, followeeID uint) error {
	res := r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.FollowEdge{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

func (r *PostgresFollowRepository) CountByFollower(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.FollowEdge{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) CountByFollowee(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.FollowEdge{}).
		Where("followee_id = ?", userID).
		Count(&count).Error
	return count, err
}

// ListByFollower returns the edges where userID is the follower, newest
// first, with the followee side resolved.
func (r *PostgresFollowRepository) ListByFollower(userID uint, page, limit int) ([]models.FollowEdge, int64, error) {
	return r.list("follower_id", "Followee", userID, page, limit)
}

// ListByFollowee returns the edges where userID is the followee, newest
// first, with the follower side resolved.
func (r *PostgresFollowRepository) ListByFollowee(userID uint, page, limit int) ([]models.FollowEdge, int64, error) {
	return r.list("followee_id", "Follower", userID, page, limit)
}

func (r *PostgresFollowRepository) list(keyColumn, preload string, userID uint, page, limit int) ([]models.FollowEdge, int64, error) {
	var total int64
	if err := r.db.Model(&models.FollowEdge{}).
		Where(keyColumn+" = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var edges []models.FollowEdge
	offset := (page - 1) * limit
	err := r.db.Preload(preload).
		Where(keyColumn+" = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&edges).Error
	return edges, total, err
}

// FolloweesAmong reports, for each candidate ID, whether followerID follows
// that user. It issues one IN query regardless of batch size.
func (r *PostgresFollowRepository) FolloweesAmong(followerID uint, candidateIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		result[id] = false
	}
	if len(candidateIDs) == 0 {
		return result, nil
	}

	var edges []models.FollowEdge
	err := r.db.Where("follower_id = ? AND followee_id IN ?", followerID, candidateIDs).
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		result[e.FolloweeID] = true
	}
	return result, nil
}
