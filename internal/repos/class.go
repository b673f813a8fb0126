package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/types"
)

type ClassRepo interface {
	Create(ctx context.Context, tx *gorm.DB, classes []*types.Class) ([]*types.Class, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, classID, userID uuid.UUID) (*types.Class, error)
	GetDetailsByIDForUser(ctx context.Context, tx *gorm.DB, classID, userID uuid.UUID) (*types.Class, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Class, error)
	Save(ctx context.Context, tx *gorm.DB, class *types.Class) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID) error
}

type classRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassRepo(db *gorm.DB, baseLog *logger.Logger) ClassRepo {
	repoLog := baseLog.With("repo", "ClassRepo")
	return &classRepo{db: db, log: repoLog}
}

func (cr *classRepo) Create(ctx context.Context, tx *gorm.DB, classes []*types.Class) ([]*types.Class, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(classes) == 0 {
		return []*types.Class{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&classes).Error; err != nil {
		return nil, err
	}

	return classes, nil
}

func (cr *classRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, classID, userID uuid.UUID) (*types.Class, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Class
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", classID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (cr *classRepo) GetDetailsByIDForUser(ctx context.Context, tx *gorm.DB, classID, userID uuid.UUID) (*types.Class, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Class
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", classID, userID).
		Preload("Students").
		Preload("Students.Grades").
		Preload("Assignments").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (cr *classRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Class, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Class
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *classRepo) Save(ctx context.Context, tx *gorm.DB, class *types.Class) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).Save(class).Error
}

func (cr *classRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(classIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", classIDs).
		Delete(&types.Class{}).Error
}
