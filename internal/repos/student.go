package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/types"
)

type StudentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, students []*types.Student) ([]*types.Student, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, studentID, userID uuid.UUID) (*types.Student, error)
	ListByClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID, offset, limit int) ([]*types.Student, error)
	Save(ctx context.Context, tx *gorm.DB, student *types.Student) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) error
	DeleteByClassIDs(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID) error
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	repoLog := baseLog.With("repo", "StudentRepo")
	return &studentRepo{db: db, log: repoLog}
}

func (sr *studentRepo) Create(ctx context.Context, tx *gorm.DB, students []*types.Student) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(students) == 0 {
		return []*types.Student{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

// GetByIDForUser resolves a student through its parent class so ownership
// scoping holds even when the caller only knows the student id.
func (sr *studentRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, studentID, userID uuid.UUID) (*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Student
	if err := transaction.WithContext(ctx).
		Joins("JOIN class ON class.id = student.class_id").
		Where("student.id = ? AND class.user_id = ?", studentID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (sr *studentRepo) ListByClass(ctx context.Context, tx *gorm.DB, classID uuid.UUID, offset, limit int) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Student
	q := transaction.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("full_name ASC")
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

func (sr *studentRepo) Save(ctx context.Context, tx *gorm.DB, student *types.Student) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	return transaction.WithContext(ctx).Save(student).Error
}

func (sr *studentRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, studentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(studentIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", studentIDs).
		Delete(&types.Student{}).Error
}

func (sr *studentRepo) DeleteByClassIDs(ctx context.Context, tx *gorm.DB, classIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(classIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("class_id IN ?", classIDs).
		Delete(&types.Student{}).Error
}
