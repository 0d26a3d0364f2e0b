package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/snipvid/backend/internal/models"
	"github.com/snipvid/backend/internal/repositories"
	"github.com/snipvid/backend/internal/services"
)

type noopScheduler struct{}

func (noopScheduler) Enqueue(uint) {}

type followFixture struct {
	handler *FollowHandler
	users   *repositories.PostgresUserRepository
}

func newFollowFixture(t *testing.T) *followFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.FollowEdge{}, &models.Notification{}))

	users := repositories.NewPostgresUserRepository(db)
	follows := repositories.NewPostgresFollowRepository(db)
	notifications := repositories.NewPostgresNotificationRepository(db)
	svc := services.NewFollowService(follows, users, notifications, noopScheduler{}, nil)
	decorator := services.NewFollowDecorator(follows)

	return &followFixture{
		handler: NewFollowHandler(svc, follows, decorator),
		users:   users,
	}
}

func (f *followFixture) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, f.users.CreateUser(u))
	return u
}

// followRequest builds an authenticated echo context targeting /users/:id/follow.
func followRequest(method string, viewerID uint, targetID string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/users/:id/follow")
	c.SetParamNames("id")
	c.SetParamValues(targetID)
	if viewerID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: viewerID})
	}
	return c
}

func TestFollowHandler_FollowAndUnfollow(t *testing.T) {
	f := newFollowFixture(t)
	viewer := f.seedUser(t, "viewer")
	target := f.seedUser(t, "target")
	targetID := strconv.FormatUint(uint64(target.ID), 10)

	c := followRequest(http.MethodPost, viewer.ID, targetID)
	require.NoError(t, f.handler.FollowUser(c))
	res := c.Response()
	assert.Equal(t, http.StatusOK, res.Status)

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(c.Response().Writer.(*httptest.ResponseRecorder).Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])

	c = followRequest(http.MethodDelete, viewer.ID, targetID)
	require.NoError(t, f.handler.UnfollowUser(c))
	assert.Equal(t, http.StatusOK, c.Response().Status)
}

func TestFollowHandler_ErrorMapping(t *testing.T) {
	f := newFollowFixture(t)
	viewer := f.seedUser(t, "viewer")
	target := f.seedUser(t, "target")
	targetID := strconv.FormatUint(uint64(target.ID), 10)
	viewerID := strconv.FormatUint(uint64(viewer.ID), 10)

	httpStatus := func(err error) int {
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		return he.Code
	}

	// Self-follow
	err := f.handler.FollowUser(followRequest(http.MethodPost, viewer.ID, viewerID))
	assert.Equal(t, http.StatusBadRequest, httpStatus(err))

	// Unknown target
	err = f.handler.FollowUser(followRequest(http.MethodPost, viewer.ID, "9999"))
	assert.Equal(t, http.StatusNotFound, httpStatus(err))

	// Duplicate follow
	require.NoError(t, f.handler.FollowUser(followRequest(http.MethodPost, viewer.ID, targetID)))
	err = f.handler.FollowUser(followRequest(http.MethodPost, viewer.ID, targetID))
	assert.Equal(t, http.StatusConflict, httpStatus(err))

	// Unfollow without an edge
	require.NoError(t, f.handler.UnfollowUser(followRequest(http.MethodDelete, viewer.ID, targetID)))
	err = f.handler.UnfollowUser(followRequest(http.MethodDelete, viewer.ID, targetID))
	assert.Equal(t, http.StatusNotFound, httpStatus(err))

	// Unauthenticated
	err = f.handler.FollowUser(followRequest(http.MethodPost, 0, targetID))
	assert.Equal(t, http.StatusUnauthorized, httpStatus(err))

	// Non-numeric target ID
	err = f.handler.FollowUser(followRequest(http.MethodPost, viewer.ID, "abc"))
	assert.Equal(t, http.StatusBadRequest, httpStatus(err))
}

func TestFollowHandler_ListFollowingDecorated(t *testing.T) {
	f := newFollowFixture(t)
	viewer := f.seedUser(t, "viewer")
	a := f.seedUser(t, "amy")
	b := f.seedUser(t, "ben")

	for _, id := range []uint{a.ID, b.ID} {
		c := followRequest(http.MethodPost, viewer.ID, strconv.FormatUint(uint64(id), 10))
		require.NoError(t, f.handler.FollowUser(c))
	}

	// ben views viewer's following list; ben follows nobody, so every
	// entry is flagged false, including ben's own row.
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/users/:id/following")
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(uint64(viewer.ID), 10))
	c.Set("user", &models.JwtCustomClaims{UserID: b.ID})

	require.NoError(t, f.handler.GetFollowing(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Users []models.UserSummary `json:"users"`
		} `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Users, 2)
	assert.Equal(t, float64(2), body.Meta["totalItems"])

	flags := map[string]bool{}
	for _, u := range body.Data.Users {
		require.NotNil(t, u.IsFollowing, u.Username)
		flags[u.Username] = *u.IsFollowing
	}
	assert.Equal(t, map[string]bool{"amy": false, "ben": false}, flags)
}
