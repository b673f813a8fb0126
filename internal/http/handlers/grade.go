package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/profbridge/profbridge-backend/internal/http/response"
	"github.com/profbridge/profbridge-backend/internal/services"
)

type GradeHandler struct {
	classroomService services.ClassroomService
}

func NewGradeHandler(classroomService services.ClassroomService) *GradeHandler {
	return &GradeHandler{classroomService: classroomService}
}

// Set upserts the grade for one (student, assignment) pair.
func (gh *GradeHandler) Set(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no authenticated user"))
		return
	}
	classID, err := paramUUID(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	studentID, err := paramUUID(c, "sid")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	assignmentID, err := paramUUID(c, "aid")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Grade string `json:"grade"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	grade, err := gh.classroomService.SetGrade(c.Request.Context(), userID, classID, studentID, assignmentID, req.Grade)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, grade)
}
