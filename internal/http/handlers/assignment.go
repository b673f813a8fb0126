package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/profbridge/profbridge-backend/internal/http/response"
	"github.com/profbridge/profbridge-backend/internal/services"
)

type AssignmentHandler struct {
	classroomService services.ClassroomService
}

func NewAssignmentHandler(classroomService services.ClassroomService) *AssignmentHandler {
	return &AssignmentHandler{classroomService: classroomService}
}

func (ah *AssignmentHandler) Create(c *gin.Context) {
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
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	assignment, err := ah.classroomService.AddAssignment(c.Request.Context(), userID, classID, req.Title, req.Description)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, assignment)
}

func (ah *AssignmentHandler) List(c *gin.Context) {
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
	offset, limit := paginationParams(c)
	assignments, err := ah.classroomService.ListAssignments(c.Request.Context(), userID, classID, offset, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, assignments)
}

func (ah *AssignmentHandler) Update(c *gin.Context) {
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
	assignmentID, err := paramUUID(c, "aid")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	assignment, err := ah.classroomService.UpdateAssignment(c.Request.Context(), userID, classID, assignmentID, req.Title, req.Description)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, assignment)
}

func (ah *AssignmentHandler) Delete(c *gin.Context) {
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
	assignmentID, err := paramUUID(c, "aid")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ah.classroomService.DeleteAssignment(c.Request.Context(), userID, classID, assignmentID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
