package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/profbridge/profbridge-backend/internal/http/handlers"
	httpMW "github.com/profbridge/profbridge-backend/internal/http/middleware"
	"github.com/profbridge/profbridge-backend/internal/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	DocumentHandler   *httpH.DocumentHandler
	AIHandler         *httpH.AIHandler
	ClassHandler      *httpH.ClassHandler
	StudentHandler    *httpH.StudentHandler
	AssignmentHandler *httpH.AssignmentHandler
	GradeHandler      *httpH.GradeHandler
	ImportHandler     *httpH.ImportHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/v1")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/auth/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Documents
		if cfg.DocumentHandler != nil {
			protected.POST("/documents/upload", cfg.DocumentHandler.Upload)
			protected.GET("/documents", cfg.DocumentHandler.List)
			protected.GET("/documents/:id", cfg.DocumentHandler.Get)
			protected.DELETE("/documents/:id", cfg.DocumentHandler.Delete)
			protected.GET("/documents/:id/chat-history", cfg.DocumentHandler.ChatHistory)
		}

		// Assistant
		if cfg.AIHandler != nil {
			protected.POST("/ai/chat", cfg.AIHandler.Chat)
			protected.POST("/ai/generate-report", cfg.AIHandler.GenerateReport)
			protected.POST("/ai/quiz", cfg.AIHandler.GenerateQuiz)
			protected.POST("/ai/questions", cfg.AIHandler.GenerateQuestions)
			protected.POST("/ai/summary", cfg.AIHandler.Summarize)
		}

		// Classes
		if cfg.ClassHandler != nil {
			protected.POST("/classes", cfg.ClassHandler.Create)
			protected.GET("/classes", cfg.ClassHandler.List)
			protected.GET("/classes/:id", cfg.ClassHandler.Get)
			protected.PUT("/classes/:id", cfg.ClassHandler.Update)
			protected.DELETE("/classes/:id", cfg.ClassHandler.Delete)
			protected.POST("/classes/:id/report", cfg.ClassHandler.Report)
		}

		// Students
		if cfg.StudentHandler != nil {
			protected.POST("/classes/:id/students", cfg.StudentHandler.Create)
			protected.GET("/classes/:id/students", cfg.StudentHandler.List)
			protected.PUT("/classes/:id/students/:sid", cfg.StudentHandler.Update)
			protected.DELETE("/classes/:id/students/:sid", cfg.StudentHandler.Delete)
		}

		// Assignments
		if cfg.AssignmentHandler != nil {
			protected.POST("/classes/:id/assignments", cfg.AssignmentHandler.Create)
			protected.GET("/classes/:id/assignments", cfg.AssignmentHandler.List)
			protected.PUT("/classes/:id/assignments/:aid", cfg.AssignmentHandler.Update)
			protected.DELETE("/classes/:id/assignments/:aid", cfg.AssignmentHandler.Delete)
		}

		// Grades
		if cfg.GradeHandler != nil {
			protected.POST("/classes/:id/students/:sid/assignments/:aid/grade", cfg.GradeHandler.Set)
		}

		// Import / reports from files
		if cfg.ImportHandler != nil {
			protected.POST("/classes/:id/import-data", cfg.ImportHandler.ImportData)
			protected.POST("/classes/:id/file-report", cfg.ImportHandler.FileReport)
		}
	}

	return r
}
