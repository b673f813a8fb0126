package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/types"
	"github.com/profbridge/profbridge-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "profbridge", log)
	log.Debug("Environment variables loaded")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}
	log.Info("uuid-ossp extension enabled")

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
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
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	for _, fk := range cascadeForeignKeys {
		stmt := fmt.Sprintf(`
      ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q;
      ALTER TABLE %q
      ADD CONSTRAINT %q
      FOREIGN KEY (%q)
      REFERENCES %q("id")
      ON DELETE CASCADE
    `, fk.table, fk.name, fk.table, fk.name, fk.column, fk.refTable)
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", fk.name, err)
		}
	}
	return nil
}

// cascadeForeignKeys pins the deletion order in the schema itself: a class
// takes its students and assignments with it, and those take their grades.
var cascadeForeignKeys = []struct {
	table    string
	name     string
	column   string
	refTable string
}{
	{"user_token", "fk_user_token_user_id", "user_id", "user"},
	{"document", "fk_document_user_id", "user_id", "user"},
	{"chat_entry", "fk_chat_entry_user_id", "user_id", "user"},
	{"chat_entry", "fk_chat_entry_document_id", "document_id", "document"},
	{"class", "fk_class_user_id", "user_id", "user"},
	{"student", "fk_student_class_id", "class_id", "class"},
	{"assignment", "fk_assignment_class_id", "class_id", "class"},
	{"grade", "fk_grade_student_id", "student_id", "student"},
	{"grade", "fk_grade_assignment_id", "assignment_id", "assignment"},
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
