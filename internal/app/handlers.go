package app

import (
	"github.com/profbridge/profbridge-backend/internal/http/handlers"
	"github.com/profbridge/profbridge-backend/internal/logger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Document   *handlers.DocumentHandler
	AI         *handlers.AIHandler
	Class      *handlers.ClassHandler
	Student    *handlers.StudentHandler
	Assignment *handlers.AssignmentHandler
	Grade      *handlers.GradeHandler
	Import     *handlers.ImportHandler
	Health     *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(services.Auth),
		User:       handlers.NewUserHandler(services.User),
		Document:   handlers.NewDocumentHandler(services.Document, services.Chat),
		AI:         handlers.NewAIHandler(services.Chat, services.Assistant),
		Class:      handlers.NewClassHandler(services.Classroom, services.Assistant),
		Student:    handlers.NewStudentHandler(services.Classroom),
		Assignment: handlers.NewAssignmentHandler(services.Classroom),
		Grade:      handlers.NewGradeHandler(services.Classroom),
		Import:     handlers.NewImportHandler(services.Classroom, services.Importer, services.Assistant),
		Health:     handlers.NewHealthHandler(),
	}
}
