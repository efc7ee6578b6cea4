// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/todo-tracker/todo-api/internal/database"
	"github.com/todo-tracker/todo-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain text password of every user made by CreateUser.
const Password = "s3cret-pass"

// NewDB returns a migrated in-memory SQLite database closed at test end.
// The pool is limited to one connection so every query sees the same memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser stores an active user named username with Password.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateSuperuser stores an active superuser named username.
func CreateSuperuser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := CreateUser(t, db, username)
	user.IsStaff = true
	user.IsAdmin = true
	user.IsSuperuser = true
	require.NoError(t, db.Save(user).Error)
	return user
}
