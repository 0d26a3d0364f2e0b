package repositories

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/snipvid/backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.FollowEdge{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		DisplayName: username,
		Email:       username + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestFollowRepository_CreateAndExists(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	exists, err := repo.Exists(a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	edge, err := repo.Create(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, edge.FollowerID)
	assert.Equal(t, b.ID, edge.FolloweeID)

	exists, err = repo.Exists(a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// The reverse direction is a separate edge
	exists, err = repo.Exists(b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFollowRepository_DuplicateRejectedByUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	_, err := repo.Create(a.ID, b.ID)
	require.NoError(t, err)

	// Bypassing any pre-check, the storage layer itself must reject the pair
	_, err = repo.Create(a.ID, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)

	var count int64
	require.NoError(t, db.Model(&models.FollowEdge{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFollowRepository_Remove(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	assert.ErrorIs(t, repo.Remove(a.ID, b.ID), ErrFollowNotFound)

	_, err := repo.Create(a.ID, b.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Remove(a.ID, b.ID))

	exists, err := repo.Exists(a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, repo.Remove(a.ID, b.ID), ErrFollowNotFound)
}

func TestFollowRepository_Counts(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	c := seedUser(t, db, "carol")

	_, err := repo.Create(a.ID, b.ID)
	require.NoError(t, err)
	_, err = repo.Create(a.ID, c.ID)
	require.NoError(t, err)
	_, err = repo.Create(c.ID, b.ID)
	require.NoError(t, err)

	following, err := repo.CountByFollower(a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), following)

	followers, err := repo.CountByFollowee(b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), followers)

	followers, err = repo.CountByFollowee(a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), followers)
}

func TestFollowRepository_ListsResolveTheOtherSide(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	c := seedUser(t, db, "carol")

	_, err := repo.Create(a.ID, b.ID)
	require.NoError(t, err)
	_, err = repo.Create(c.ID, b.ID)
	require.NoError(t, err)

	edges, total, err := repo.ListByFollowee(b.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, edges, 2)
	for _, e := range edges {
		require.NotNil(t, e.Follower)
		assert.Equal(t, e.FollowerID, e.Follower.ID)
	}

	edges, total, err = repo.ListByFollower(a.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, edges, 1)
	require.NotNil(t, edges[0].Followee)
	assert.Equal(t, b.ID, edges[0].Followee.ID)

	// Pagination past the end
	edges, total, err = repo.ListByFollowee(b.ID, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Empty(t, edges)
}

func TestFollowRepository_FolloweesAmong(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)
	v := seedUser(t, db, "viewer")
	u1 := seedUser(t, db, "u1")
	u2 := seedUser(t, db, "u2")
	u3 := seedUser(t, db, "u3")

	_, err := repo.Create(v.ID, u1.ID)
	require.NoError(t, err)
	_, err = repo.Create(v.ID, u2.ID)
	require.NoError(t, err)

	result, err := repo.FolloweesAmong(v.ID, []uint{u1.ID, u2.ID, u3.ID, v.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{
		u1.ID: true,
		u2.ID: true,
		u3.ID: false,
		v.ID:  false,
	}, result)

	result, err = repo.FolloweesAmong(v.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, result)
}
