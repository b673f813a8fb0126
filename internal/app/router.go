package app

import (
	"github.com/gin-gonic/gin"

	httpserver "github.com/profbridge/profbridge-backend/internal/http"
	"github.com/profbridge/profbridge-backend/internal/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return httpserver.NewRouter(httpserver.RouterConfig{
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins,

		AuthMiddleware: middleware.Auth,

		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		DocumentHandler:   handlers.Document,
		AIHandler:         handlers.AI,
		ClassHandler:      handlers.Class,
		StudentHandler:    handlers.Student,
		AssignmentHandler: handlers.Assignment,
		GradeHandler:      handlers.Grade,
		ImportHandler:     handlers.Import,
		HealthHandler:     handlers.Health,
	})
}
