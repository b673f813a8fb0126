package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/profbridge/profbridge-backend/internal/http/response"
	"github.com/profbridge/profbridge-backend/internal/services"
)

type DocumentHandler struct {
	documentService services.DocumentService
	chatService     services.ChatService
}

func NewDocumentHandler(documentService services.DocumentService, chatService services.ChatService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, chatService: chatService}
}

func (dh *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no authenticated user"))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	document, err := dh.documentService.Upload(c.Request.Context(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, document)
}

func (dh *DocumentHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no authenticated user"))
		return
	}
	offset, limit := paginationParams(c)
	documents, err := dh.documentService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, documents)
}

func (dh *DocumentHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no authenticated user"))
		return
	}
	documentID, err := paramUUID(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	document, err := dh.documentService.Get(c.Request.Context(), userID, documentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, document)
}

func (dh *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no authenticated user"))
		return
	}
	documentID, err := paramUUID(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	fileDeleted, err := dh.documentService.Delete(c.Request.Context(), userID, documentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true, "file_deleted": fileDeleted})
}

func (dh *DocumentHandler) ChatHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no authenticated user"))
		return
	}
	documentID, err := paramUUID(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	offset, limit := paginationParams(c)
	entries, err := dh.chatService.History(c.Request.Context(), userID, documentID, offset, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, entries)
}
