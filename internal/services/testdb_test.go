package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// newTestDB opens a private in-memory sqlite database and migrates the full
// schema. Each call gets its own database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Document{},
		&types.ChatEntry{},
		&types.Class{},
		&types.Student{},
		&types.Assignment{},
		&types.Grade{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *types.User {
	t.Helper()
	user := &types.User{ID: uuid.New(), Email: email, Password: "hash"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTestClass(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) *types.Class {
	t.Helper()
	class := &types.Class{ID: uuid.New(), Name: name, UserID: userID}
	if err := db.Create(class).Error; err != nil {
		t.Fatalf("create class: %v", err)
	}
	return class
}
