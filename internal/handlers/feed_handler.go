package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snipvid/backend/internal/models"
	"github.com/snipvid/backend/internal/repositories"
	"github.com/snipvid/backend/internal/services"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository     repositories.PostRepository
	userRepository     repositories.UserRepository
	bookmarkRepository repositories.BookmarkRepository
	decorator          *services.FollowDecorator
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	bookmarkRepo repositories.BookmarkRepository,
	decorator *services.FollowDecorator,
) *FeedHandler {
	return &FeedHandler{
		postRepository:     postRepo,
		userRepository:     userRepo,
		bookmarkRepository: bookmarkRepo,
		decorator:          decorator,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// FeedPost is a post with author info and viewer-specific flags
type FeedPost struct {
	models.Post
	Author  *models.UserSummary `json:"author,omitempty"`
	IsSaved bool                `json:"is_saved"`
}

// GetFeed returns enriched feed posts for the current user. Authors are
// resolved in one batch query and stamped with the viewer-relative
// isFollowing flag in one more.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	page, limit := getPagination(c)
	skip := int64((page - 1) * limit)

	posts, total, err := h.postRepository.GetAllPosts(c.Request().Context(), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Collect distinct author IDs and post IDs from the page
	authorIDSet := make(map[uint]struct{}, len(posts))
	authorIDs := make([]uint, 0, len(posts))
	postIDs := make([]string, len(posts))
	for i := range posts {
		if _, ok := authorIDSet[posts[i].UserID]; !ok {
			authorIDSet[posts[i].UserID] = struct{}{}
			authorIDs = append(authorIDs, posts[i].UserID)
		}
		postIDs[i] = posts[i].ID.Hex()
	}

	users, err := h.userRepository.GetUsersByIDs(authorIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authorMap := make(map[uint]*models.UserSummary, len(users))
	for i := range users {
		authorMap[users[i].ID] = users[i].ToSummary()
	}

	// Bookmark flags for the current user
	savedMap := make(map[string]bool)
	if currentUserID > 0 {
		savedMap, err = h.bookmarkRepository.GetBookmarkedPostIDs(currentUserID, postIDs)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	feedPosts := make([]FeedPost, len(posts))
	summaries := make([]*models.UserSummary, 0, len(posts))
	for i := range posts {
		author := authorMap[posts[i].UserID]
		feedPosts[i] = FeedPost{
			Post:    posts[i],
			Author:  author,
			IsSaved: savedMap[posts[i].ID.Hex()],
		}
		if author != nil {
			summaries = append(summaries, author)
		}
	}

	// Duplicate authors share one summary pointer; the decorator dedupes
	// IDs anyway and runs a single edge lookup.
	if err := h.decorator.DecorateUsers(currentUserID, summaries); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": feedPosts},
		"meta":    paginationMeta(page, limit, total),
	})
}
