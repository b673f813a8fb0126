package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/profbridge/profbridge-backend/internal/http/response"
	"github.com/profbridge/profbridge-backend/internal/services"
	"github.com/profbridge/profbridge-backend/internal/types"
)

type AIHandler struct {
	chatService services.ChatService
	assistant   services.AssistantService
}

func NewAIHandler(chatService services.ChatService, assistant services.AssistantService) *AIHandler {
	return &AIHandler{chatService: chatService, assistant: assistant}
}

// Chat answers a query. With document_id the stored document supplies the
// context and the exchange is recorded; with document_text the caller
// supplies the context (and optionally prior turns) directly and nothing is
// stored.
func (ah *AIHandler) Chat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no authenticated user"))
		return
	}
	var req struct {
		Query        string `json:"query"`
		DocumentID   string `json:"document_id"`
		DocumentText string `json:"document_text"`
		History      []struct {
			Query    string `json:"query"`
			Response string `json:"response"`
		} `json:"history"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var documentID *uuid.UUID
	if req.DocumentID != "" {
		parsed, err := uuid.Parse(req.DocumentID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		documentID = &parsed
	}
	history := make([]*types.ChatEntry, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, &types.ChatEntry{Query: turn.Query, Response: turn.Response})
	}
	answer, err := ah.chatService.Chat(c.Request.Context(), userID, documentID, req.DocumentText, history, req.Query)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": answer})
}

func (ah *AIHandler) GenerateReport(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	report, err := ah.assistant.GenerateFileReport(c.Request.Context(), req.Text)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"report": report})
}

func (ah *AIHandler) GenerateQuiz(c *gin.Context) {
	var req struct {
		DocumentText  string `json:"document_text"`
		QuestionCount int    `json:"question_count"`
		Difficulty    string `json:"difficulty"`
		QuestionType  string `json:"question_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	quiz, err := ah.assistant.GenerateQuiz(c.Request.Context(), req.DocumentText, req.QuestionCount, req.Difficulty, req.QuestionType)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, quiz)
}

func (ah *AIHandler) GenerateQuestions(c *gin.Context) {
	var req struct {
		DocumentText string `json:"document_text"`
		Count        int    `json:"count"`
		QuestionType string `json:"question_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	questions, err := ah.assistant.GenerateQuestions(c.Request.Context(), req.DocumentText, req.Count, req.QuestionType)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

func (ah *AIHandler) Summarize(c *gin.Context) {
	var req struct {
		DocumentText string `json:"document_text"`
		SummaryType  string `json:"summary_type"`
		Length       string `json:"length"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	summary, err := ah.assistant.SummarizeDocument(c.Request.Context(), req.DocumentText, req.SummaryType, req.Length)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, summary)
}
