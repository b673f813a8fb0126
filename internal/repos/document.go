package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/types"
)

type DocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, documents []*types.Document) ([]*types.Document, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, documentID, userID uuid.UUID) (*types.Document, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Document, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	repoLog := baseLog.With("repo", "DocumentRepo")
	return &documentRepo{db: db, log: repoLog}
}

func (dr *documentRepo) Create(ctx context.Context, tx *gorm.DB, documents []*types.Document) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if len(documents) == 0 {
		return []*types.Document{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&documents).Error; err != nil {
		return nil, err
	}

	return documents, nil
}

func (dr *documentRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, documentID, userID uuid.UUID) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.Document
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", documentID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (dr *documentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.Document
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *documentRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if len(documentIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", documentIDs).
		Delete(&types.Document{}).Error
}
