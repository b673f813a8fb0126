package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/types"
)

type GradeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, grades []*types.Grade) ([]*types.Grade, error)
	GetByStudentAssignment(ctx context.Context, tx *gorm.DB, studentID, assignmentID uuid.UUID) (*types.Grade, error)
	ListByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) ([]*types.Grade, error)
	Save(ctx context.Context, tx *gorm.DB, grade *types.Grade) error
	DeleteByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) error
	DeleteByAssignmentIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uuid.UUID) error
}

type gradeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGradeRepo(db *gorm.DB, baseLog *logger.Logger) GradeRepo {
	repoLog := baseLog.With("repo", "GradeRepo")
	return &gradeRepo{db: db, log: repoLog}
}

func (gr *gradeRepo) Create(ctx context.Context, tx *gorm.DB, grades []*types.Grade) ([]*types.Grade, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	if len(grades) == 0 {
		return []*types.Grade{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&grades).Error; err != nil {
		return nil, err
	}

	return grades, nil
}

func (gr *gradeRepo) GetByStudentAssignment(ctx context.Context, tx *gorm.DB, studentID, assignmentID uuid.UUID) (*types.Grade, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var results []*types.Grade
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (gr *gradeRepo) ListByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) ([]*types.Grade, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var results []*types.Grade
	if len(studentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id IN ?", studentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *gradeRepo) Save(ctx context.Context, tx *gorm.DB, grade *types.Grade) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	return transaction.WithContext(ctx).Save(grade).Error
}

func (gr *gradeRepo) DeleteByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	if len(studentIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("student_id IN ?", studentIDs).
		Delete(&types.Grade{}).Error
}

func (gr *gradeRepo) DeleteByAssignmentIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	if len(assignmentIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("assignment_id IN ?", assignmentIDs).
		Delete(&types.Grade{}).Error
}
