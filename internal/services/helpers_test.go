package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/snipvid/backend/internal/models"
	"github.com/snipvid/backend/internal/repositories"
)

type testEnv struct {
	db            *gorm.DB
	users         *repositories.PostgresUserRepository
	follows       *repositories.PostgresFollowRepository
	notifications repositories.NotificationRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.FollowEdge{}, &models.Notification{}))
	return &testEnv{
		db:            db,
		users:         repositories.NewPostgresUserRepository(db),
		follows:       repositories.NewPostgresFollowRepository(db),
		notifications: repositories.NewPostgresNotificationRepository(db),
	}
}

func (env *testEnv) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		DisplayName: username,
		Email:       username + "@example.com",
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

// stubScheduler records enqueued user IDs without running anything.
type stubScheduler struct {
	enqueued []uint
}

func (s *stubScheduler) Enqueue(userID uint) {
	s.enqueued = append(s.enqueued, userID)
}
