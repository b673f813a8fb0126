package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/types"
)

type AssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assignments []*types.Assignment) ([]*types.Assignment, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, assignmentID, userID uuid.UUID) (*types.Assignment, error)
	ListByClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID, offset, limit int) ([]*types.Assignment, error)
	Save(ctx context.Context, tx *gorm.DB, assignment *types.Assignment) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uuid.UUID) error
	DeleteByClassIDs(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID) error
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	repoLog := baseLog.With("repo", "AssignmentRepo")
	return &assignmentRepo{db: db, log: repoLog}
}

func (ar *assignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignments []*types.Assignment) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(assignments) == 0 {
		return []*types.Assignment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (ar *assignmentRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, assignmentID, userID uuid.UUID) (*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Assignment
	if err := transaction.WithContext(ctx).
		Joins("JOIN class ON class.id = assignment.class_id").
		Where("assignment.id = ? AND class.user_id = ?", assignmentID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ar *assignmentRepo) ListByClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID, offset, limit int) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Assignment
	q := transaction.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("created_at ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assignmentRepo) Save(ctx context.Context, tx *gorm.DB, assignment *types.Assignment) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	return transaction.WithContext(ctx).Save(assignment).Error
}

func (ar *assignmentRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(assignmentIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", assignmentIDs).
		Delete(&types.Assignment{}).Error
}

func (ar *assignmentRepo) DeleteByClassIDs(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(classIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("class_id IN ?", classIDs).
		Delete(&types.Assignment{}).Error
}
