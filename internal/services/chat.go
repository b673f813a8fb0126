package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/repos"
	"github.com/profbridge/profbridge-backend/internal/types"
)

// ChatService answers questions through the assistant and keeps per-document
// conversation history. Chat entries are append-only.
type ChatService interface {
	Chat(ctx context.Context, userID uuid.UUID, documentID *uuid.UUID, documentText string, history []*types.ChatEntry, query string) (string, error)
	History(ctx context.Context, userID uuid.UUID, documentID uuid.UUID, offset, limit int) ([]*types.ChatEntry, error)
}

type chatService struct {
	db            *gorm.DB
	log           *logger.Logger
	documentRepo  repos.DocumentRepo
	chatEntryRepo repos.ChatEntryRepo
	assistant     AssistantService
}

func NewChatService(
	db *gorm.DB,
	log *logger.Logger,
	documentRepo repos.DocumentRepo,
	chatEntryRepo repos.ChatEntryRepo,
	assistant AssistantService,
) ChatService {
	return &chatService{
		db:            db,
		log:           log.With("service", "ChatService"),
		documentRepo:  documentRepo,
		chatEntryRepo: chatEntryRepo,
		assistant:     assistant,
	}
}

// Chat answers a query. With a document id the stored extracted text and the
// document's prior exchanges become the context and the exchange is
// persisted; otherwise any caller-supplied text and history are used as-is
// and nothing is stored.
func (cs *chatService) Chat(ctx context.Context, userID uuid.UUID, documentID *uuid.UUID, documentText string, history []*types.ChatEntry, query string) (string, error) {
	if documentID != nil {
		document, err := cs.documentRepo.GetByIDForUser(ctx, nil, *documentID, userID)
		if err != nil {
			return "", fmt.Errorf("load document: %w", err)
		}
		if document == nil {
			return "", ErrNotFound
		}
		documentText = document.ExtractedText
		// Stored exchanges are authoritative for a document chat.
		history, err = cs.chatEntryRepo.ListByDocumentForUser(ctx, nil, *documentID, userID, 0, 0)
		if err != nil {
			return "", fmt.Errorf("load chat history: %w", err)
		}
	}

	answer, err := cs.assistant.Chat(ctx, documentText, query, history)
	if err != nil {
		return "", err
	}

	if documentID != nil {
		entry := &types.ChatEntry{
			ID:         uuid.New(),
			UserID:     userID,
			DocumentID: documentID,
			Query:      query,
			Response:   answer,
			CreatedAt:  time.Now(),
		}
		err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if _, cErr := cs.chatEntryRepo.Create(ctx, tx, []*types.ChatEntry{entry}); cErr != nil {
				return fmt.Errorf("create chat entry: %w", cErr)
			}
			return nil
		})
		if err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (cs *chatService) History(ctx context.Context, userID uuid.UUID, documentID uuid.UUID, offset, limit int) ([]*types.ChatEntry, error) {
	document, err := cs.documentRepo.GetByIDForUser(ctx, nil, documentID, userID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if document == nil {
		return nil, ErrNotFound
	}
	return cs.chatEntryRepo.ListByDocumentForUser(ctx, nil, documentID, userID, offset, limit)
}
