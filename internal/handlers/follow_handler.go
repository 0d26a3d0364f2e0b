package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/snipvid/backend/internal/models"
	"github.com/snipvid/backend/internal/repositories"
	"github.com/snipvid/backend/internal/services"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followService    *services.FollowService
	followRepository repositories.FollowRepository
	decorator        *services.FollowDecorator
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followService *services.FollowService, followRepo repositories.FollowRepository, decorator *services.FollowDecorator) *FollowHandler {
	return &FollowHandler{
		followService:    followService,
		followRepository: followRepo,
		decorator:        decorator,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.followService.Follow(currentUserID, uint(targetID)); err != nil {
		return followErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.followService.Unfollow(currentUserID, uint(targetID)); err != nil {
		return followErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetFollowers lists the users following :id, decorated relative to the viewer
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	return h.listEdges(c, h.followRepository.ListByFollowee, func(e *models.FollowEdge) *models.User { return e.Follower })
}

// GetFollowing lists the users :id follows, decorated relative to the viewer
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	return h.listEdges(c, h.followRepository.ListByFollower, func(e *models.FollowEdge) *models.User { return e.Followee })
}

func (h *FollowHandler) listEdges(
	c echo.Context,
	list func(userID uint, page, limit int) ([]models.FollowEdge, int64, error),
	side func(*models.FollowEdge) *models.User,
) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	page, limit := getPagination(c)

	edges, total, err := list(uint(userID), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	summaries := make([]*models.UserSummary, 0, len(edges))
	for i := range edges {
		if u := side(&edges[i]); u != nil {
			summaries = append(summaries, u.ToSummary())
		}
	}
	if err := h.decorator.DecorateUsers(getUserIDFromContext(c), summaries); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"users": summaries},
		"meta":    paginationMeta(page, limit, total),
	})
}

// followErrorToHTTP maps follow-service errors onto HTTP error responses
func followErrorToHTTP(err error) error {
	switch {
	case errors.Is(err, services.ErrSelfFollow):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAlreadyFollowing):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFollowing), errors.Is(err, services.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
