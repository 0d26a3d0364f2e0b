package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/snipvid/backend/internal/models"
)

var (
	// ErrAlreadyBookmarked is returned when the (user, post) pair already exists.
	ErrAlreadyBookmarked = errors.New("post already bookmarked")
	// ErrBookmarkNotFound is returned when no bookmark exists for the pair.
	ErrBookmarkNotFound = errors.New("bookmark not found")
)

// BookmarkRepository defines the interface for bookmark operations
type BookmarkRepository interface {
	Add(bookmark *models.Bookmark) error
	Remove(userID uint, postID string) error
	GetByUser(userID uint, page, limit int) ([]models.Bookmark, int64, error)
	GetBookmarkedPostIDs(userID uint, postIDs []string) (map[string]bool, error)
}

// PostgresBookmarkRepository implements BookmarkRepository
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

func (r *PostgresBookmarkRepository) Add(bookmark *models.Bookmark) error {
	if err := r.db.Create(bookmark).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyBookmarked
		}
		return err
	}
	return nil
}

func (r *PostgresBookmarkRepository) Remove(userID uint, postID string) error {
	res := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}

func (r *PostgresBookmarkRepository) GetByUser(userID uint, page, limit int) ([]models.Bookmark, int64, error) {
	var total int64
	if err := r.db.Model(&models.Bookmark{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookmarks []models.Bookmark
	offset := (page - 1) * limit
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&bookmarks).Error
	return bookmarks, total, err
}

// GetBookmarkedPostIDs reports, for a batch of post IDs, which ones the user
// has bookmarked, in one IN query.
func (r *PostgresBookmarkRepository) GetBookmarkedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var bookmarks []models.Bookmark
	err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}
	for _, b := range bookmarks {
		result[b.PostID] = true
	}
	return result, nil
}
