package app

import (
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/clients/genai"
	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	User      services.UserService
	Document  services.DocumentService
	Chat      services.ChatService
	Assistant services.AssistantService
	Classroom services.ClassroomService
	Importer  services.ImporterService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")

	// An unconfigured generation service degrades assistant endpoints to 503
	// instead of failing startup.
	genaiClient, gErr := genai.NewClient(log)
	if gErr != nil {
		log.Warn("Generation service not configured, assistant endpoints disabled", "error", gErr)
		genaiClient = nil
	}
	assistant := services.NewAssistantService(log, genaiClient, cfg.MaxContextChars)

	return Services{
		Auth:      services.NewAuthService(db, log, reposet.User, reposet.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:      services.NewUserService(log, reposet.User),
		Document:  services.NewDocumentService(db, log, reposet.Document, reposet.ChatEntry, cfg.UploadDir),
		Chat:      services.NewChatService(db, log, reposet.Document, reposet.ChatEntry, assistant),
		Assistant: assistant,
		Classroom: services.NewClassroomService(db, log, reposet.Class, reposet.Student, reposet.Assignment, reposet.Grade),
		Importer:  services.NewImporterService(db, log, reposet.Class, reposet.Student, reposet.Assignment, reposet.Grade),
	}
}
