package app

import (
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/repos"
)

type Repos struct {
	User       repos.UserRepo
	UserToken  repos.UserTokenRepo
	Document   repos.DocumentRepo
	ChatEntry  repos.ChatEntryRepo
	Class      repos.ClassRepo
	Student    repos.StudentRepo
	Assignment repos.AssignmentRepo
	Grade      repos.GradeRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		UserToken:  repos.NewUserTokenRepo(db, log),
		Document:   repos.NewDocumentRepo(db, log),
		ChatEntry:  repos.NewChatEntryRepo(db, log),
		Class:      repos.NewClassRepo(db, log),
		Student:    repos.NewStudentRepo(db, log),
		Assignment: repos.NewAssignmentRepo(db, log),
		Grade:      repos.NewGradeRepo(db, log),
	}
}
