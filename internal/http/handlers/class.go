package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/profbridge/profbridge-backend/internal/http/response"
	"github.com/profbridge/profbridge-backend/internal/services"
)

type ClassHandler struct {
	classroomService services.ClassroomService
	assistant        services.AssistantService
}

func NewClassHandler(classroomService services.ClassroomService, assistant services.AssistantService) *ClassHandler {
	return &ClassHandler{classroomService: classroomService, assistant: assistant}
}

func (ch *ClassHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no authenticated user"))
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	class, err := ch.classroomService.CreateClass(c.Request.Context(), userID, req.Name)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, class)
}

func (ch *ClassHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no authenticated user"))
		return
	}
	offset, limit := paginationParams(c)
	classes, err := ch.classroomService.ListClasses(c.Request.Context(), userID, offset, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, classes)
}

func (ch *ClassHandler) Get(c *gin.Context) {
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
	class, err := ch.classroomService.GetClassDetails(c.Request.Context(), userID, classID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, class)
}

func (ch *ClassHandler) Update(c *gin.Context) {
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
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	class, err := ch.classroomService.UpdateClass(c.Request.Context(), userID, classID, req.Name)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, class)
}

func (ch *ClassHandler) Delete(c *gin.Context) {
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
	if err := ch.classroomService.DeleteClass(c.Request.Context(), userID, classID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}

// Report builds a markdown performance report from the class's stored data.
func (ch *ClassHandler) Report(c *gin.Context) {
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
	class, err := ch.classroomService.GetClassDetails(c.Request.Context(), userID, classID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	report, err := ch.assistant.GenerateClassReport(c.Request.Context(), class)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"report": report})
}
