package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/types"
)

type ChatEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.ChatEntry) ([]*types.ChatEntry, error)
	ListByDocumentForUser(ctx context.Context, tx *gorm.DB, documentID, userID uuid.UUID, offset, limit int) ([]*types.ChatEntry, error)
	DeleteByDocumentIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) error
}

type chatEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatEntryRepo(db *gorm.DB, baseLog *logger.Logger) ChatEntryRepo {
	repoLog := baseLog.With("repo", "ChatEntryRepo")
	return &chatEntryRepo{db: db, log: repoLog}
}

func (cr *chatEntryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.ChatEntry) ([]*types.ChatEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(entries) == 0 {
		return []*types.ChatEntry{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (cr *chatEntryRepo) ListByDocumentForUser(ctx context.Context, tx *gorm.DB, documentID, userID uuid.UUID, offset, limit int) ([]*types.ChatEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.ChatEntry
	if err := transaction.WithContext(ctx).
		Where("document_id = ? AND user_id = ?", documentID, userID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *chatEntryRepo) DeleteByDocumentIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(documentIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("document_id IN ?", documentIDs).
		Delete(&types.ChatEntry{}).Error
}
