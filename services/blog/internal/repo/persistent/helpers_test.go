package persistent

import (
	"context"
	"testing"
	"time"

	"threadboard/pkg/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection to :memory: would be a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) string {
	t.Helper()
	u := &models.User{Username: username, Password: "x"}
	require.NoError(t, db.Create(u).Error)
	return u.ID
}

func seedPost(t *testing.T, db *gorm.DB, authorID string, at time.Time) int64 {
	t.Helper()
	p := &models.Post{AuthorID: authorID, Title: "title", Body: "body", CreatedAt: at, UpdatedAt: at}
	require.NoError(t, db.Create(p).Error)
	return p.ID
}

func seedComment(t *testing.T, db *gorm.DB, postID int64, parentID *int64, authorID string, at time.Time) int64 {
	t.Helper()
	c := &models.Comment{PostID: postID, ParentID: parentID, AuthorID: authorID, Body: "c", CreatedAt: at}
	require.NoError(t, db.Create(c).Error)
	return c.ID
}

func ptr(id int64) *int64 { return &id }

func memberships(t *testing.T, db *gorm.DB, model interface{}, column string, id int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(column+" = ?", id).Count(&n).Error)
	return n
}

func storedLikes(t *testing.T, db *gorm.DB, model interface{}, id int64) int {
	t.Helper()
	var row struct{ Likes int }
	require.NoError(t, db.Model(model).Select("likes").Where("id = ?", id).Take(&row).Error)
	return row.Likes
}

var ctx = context.Background()
