// Package testutil provides shared fixtures for tests that need a real database.
package testutil

import (
	"testing"
	"time"

	"outstagram/internal/database"
	"outstagram/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// The pool is pinned to one connection so the database outlives each query.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts an account with the given handle.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		FullName:     username + " Tester",
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePost inserts a post at a fixed time with media in the given order.
func CreatePost(t testing.TB, db *gorm.DB, authorID uint, category models.PostCategory, at time.Time, media ...string) *models.Post {
	t.Helper()
	p := &models.Post{
		ID:        uuid.NewString(),
		Caption:   "caption " + at.Format(time.RFC3339),
		Category:  category,
		AuthorID:  authorID,
		CreatedAt: at.UTC(),
	}
	require.NoError(t, db.Omit(clause.Associations).Create(p).Error)
	for i, u := range media {
		require.NoError(t, db.Create(&models.MediaURL{PostID: p.ID, URL: u, Position: i}).Error)
	}
	return p
}

// CreateFollow inserts a follow request in the given state.
func CreateFollow(t testing.TB, db *gorm.DB, requesterID, requestedID uint, status models.FollowStatus) *models.FollowRequest {
	t.Helper()
	req := &models.FollowRequest{RequesterID: requesterID, RequestedID: requestedID, Status: status}
	require.NoError(t, db.Omit(clause.Associations).Create(req).Error)
	return req
}

// LikePost inserts a like row.
func LikePost(t testing.TB, db *gorm.DB, postID string, likerID uint) {
	t.Helper()
	require.NoError(t, db.Omit(clause.Associations).Create(&models.PostLike{PostID: postID, LikerID: likerID}).Error)
}

// Base is a fixed reference time so ordering assertions are deterministic.
var Base = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
