package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/snipvid/backend/internal/models"
	"github.com/snipvid/backend/internal/repositories"
)

func newAuthFixture(t *testing.T) (*AuthHandler, *repositories.PostgresUserRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	users := repositories.NewPostgresUserRepository(db)
	return NewAuthHandler(users, nil, "test-secret"), users
}

func sessionRequest(firebaseUID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if firebaseUID != "" {
		c.Set("firebaseUID", firebaseUID)
	}
	return c, rec
}

func TestFirebaseSession_IssuesToken(t *testing.T) {
	h, users := newAuthFixture(t)
	user := &models.User{
		Username:    "soc",
		Email:       "soc@example.com",
		FirebaseUID: "fb-uid-1",
	}
	require.NoError(t, users.CreateUser(user))

	c, rec := sessionRequest("fb-uid-1")
	require.NoError(t, h.FirebaseSession(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Token string      `json:"token"`
			User  models.User `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Data.Token)
	assert.Equal(t, user.ID, body.Data.User.ID)
}

func TestFirebaseSession_UnlinkedUID(t *testing.T) {
	h, _ := newAuthFixture(t)

	c, _ := sessionRequest("fb-uid-nobody")
	err := h.FirebaseSession(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestFirebaseSession_MissingUID(t *testing.T) {
	h, _ := newAuthFixture(t)

	c, _ := sessionRequest("")
	err := h.FirebaseSession(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
