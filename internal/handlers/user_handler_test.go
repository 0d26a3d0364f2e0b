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

type userFixture struct {
	handler *UserHandler
	users   *repositories.PostgresUserRepository
	follows *repositories.PostgresFollowRepository
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.FollowEdge{}))

	users := repositories.NewPostgresUserRepository(db)
	follows := repositories.NewPostgresFollowRepository(db)
	return &userFixture{
		handler: NewUserHandler(users, services.NewFollowDecorator(follows)),
		users:   users,
		follows: follows,
	}
}

func TestGetUser_ForeignProfileOmitsPrivateFields(t *testing.T) {
	f := newUserFixture(t)
	viewer := &models.User{Username: "viewer", Email: "viewer@example.com"}
	require.NoError(t, f.users.CreateUser(viewer))
	target := &models.User{
		Username:    "target",
		DisplayName: "Target",
		Email:       "target-secret@example.com",
		FirebaseUID: "fb-secret-uid",
		DeviceToken: "device-secret",
		Bio:         "hi there",
	}
	require.NoError(t, f.users.CreateUser(target))
	_, err := f.follows.Create(viewer.ID, target.ID)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/users/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(uint64(target.ID), 10))
	c.Set("user", &models.JwtCustomClaims{UserID: viewer.ID})

	require.NoError(t, f.handler.GetUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	raw := rec.Body.String()
	assert.NotContains(t, raw, "target-secret@example.com")
	assert.NotContains(t, raw, "fb-secret-uid")
	assert.NotContains(t, raw, "device-secret")

	var body struct {
		Success bool                `json:"success"`
		Data    foreignUserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, target.ID, body.Data.ID)
	assert.Equal(t, "target", body.Data.Username)
	assert.Equal(t, "hi there", body.Data.Bio)
	require.NotNil(t, body.Data.IsFollowing)
	assert.True(t, *body.Data.IsFollowing)
}

func TestGetUser_NotFound(t *testing.T) {
	f := newUserFixture(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/users/:id")
	c.SetParamNames("id")
	c.SetParamValues("404")

	err := f.handler.GetUser(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}
