package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snipvid/backend/internal/models"
	"github.com/snipvid/backend/internal/repositories"
)

// BookmarkHandler handles save/unsave post requests
type BookmarkHandler struct {
	bookmarkRepository repositories.BookmarkRepository
	postRepository     repositories.PostRepository
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkRepo repositories.BookmarkRepository, postRepo repositories.PostRepository) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkRepository: bookmarkRepo,
		postRepository:     postRepo,
	}
}

// RegisterBookmarkRoutes registers bookmark-related routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/posts/:id/bookmark", h.BookmarkPost)
	g.DELETE("/posts/:id/bookmark", h.UnbookmarkPost)
	g.GET("/bookmarks", h.GetBookmarks)
}

// BookmarkPost saves a post for the current user
func (h *BookmarkHandler) BookmarkPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bookmark := &models.Bookmark{UserID: currentUserID, PostID: postID}
	if err := h.bookmarkRepository.Add(bookmark); err != nil {
		if errors.Is(err, repositories.ErrAlreadyBookmarked) {
			return echo.NewHTTPError(http.StatusConflict, "Post already bookmarked")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": true}})
}

// UnbookmarkPost removes a saved post for the current user
func (h *BookmarkHandler) UnbookmarkPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.bookmarkRepository.Remove(currentUserID, c.Param("id")); err != nil {
		if errors.Is(err, repositories.ErrBookmarkNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Bookmark not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": false}})
}

// GetBookmarks lists the current user's saved posts, resolved in one batch
func (h *BookmarkHandler) GetBookmarks(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	page, limit := getPagination(c)

	bookmarks, total, err := h.bookmarkRepository.GetByUser(currentUserID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	postIDs := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		postIDs[i] = b.PostID
	}
	posts, err := h.postRepository.GetPostsByIDs(c.Request().Context(), postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Preserve bookmark order; a post deleted since saving is skipped.
	postMap := make(map[string]models.Post, len(posts))
	for _, p := range posts {
		postMap[p.ID.Hex()] = p
	}
	ordered := make([]models.Post, 0, len(bookmarks))
	for _, b := range bookmarks {
		if p, ok := postMap[b.PostID]; ok {
			ordered = append(ordered, p)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": ordered},
		"meta":    paginationMeta(page, limit, total),
	})
}
