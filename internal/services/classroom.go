package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/logger"
	"github.com/profbridge/profbridge-backend/internal/repos"
	"github.com/profbridge/profbridge-backend/internal/types"
)

// ClassroomService owns classes and everything under them. Deletions remove
// dependents explicitly in FK order inside one transaction, so behavior does
// not depend on database-level cascade support.
type ClassroomService interface {
	CreateClass(ctx context.Context, userID uuid.UUID, name string) (*types.Class, error)
	ListClasses(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*types.Class, error)
	GetClassDetails(ctx context.Context, userID uuid.UUID, classID uuid.UUID) (*types.Class, error)
	UpdateClass(ctx context.Context, userID uuid.UUID, classID uuid.UUID, name string) (*types.Class, error)
	DeleteClass(ctx context.Context, userID uuid.UUID, classID uuid.UUID) error

	AddStudent(ctx context.Context, userID uuid.UUID, classID uuid.UUID, fullName string) (*types.Student, error)
	ListStudents(ctx context.Context, userID uuid.UUID, classID uuid.UUID, offset, limit int) ([]*types.Student, error)
	UpdateStudent(ctx context.Context, userID uuid.UUID, classID uuid.UUID, studentID uuid.UUID, fullName string) (*types.Student, error)
	DeleteStudent(ctx context.Context, userID uuid.UUID, classID uuid.UUID, studentID uuid.UUID) error

	AddAssignment(ctx context.Context, userID uuid.UUID, classID uuid.UUID, title string, description string) (*types.Assignment, error)
	ListAssignments(ctx context.Context, userID uuid.UUID, classID uuid.UUID, offset, limit int) ([]*types.Assignment, error)
	UpdateAssignment(ctx context.Context, userID uuid.UUID, classID uuid.UUID, assignmentID uuid.UUID, title string, description string) (*types.Assignment, error)
	DeleteAssignment(ctx context.Context, userID uuid.UUID, classID uuid.UUID, assignmentID uuid.UUID) error

	SetGrade(ctx context.Context, userID uuid.UUID, classID uuid.UUID, studentID uuid.UUID, assignmentID uuid.UUID, value string) (*types.Grade, error)
}

type classroomService struct {
	db             *gorm.DB
	log            *logger.Logger
	classRepo      repos.ClassRepo
	studentRepo    repos.StudentRepo
	assignmentRepo repos.AssignmentRepo
	gradeRepo      repos.GradeRepo
}

func NewClassroomService(
	db *gorm.DB,
	log *logger.Logger,
	classRepo repos.ClassRepo,
	studentRepo repos.StudentRepo,
	assignmentRepo repos.AssignmentRepo,
	gradeRepo repos.GradeRepo,
) ClassroomService {
	return &classroomService{
		db:             db,
		log:            log.With("service", "ClassroomService"),
		classRepo:      classRepo,
		studentRepo:    studentRepo,
		assignmentRepo: assignmentRepo,
		gradeRepo:      gradeRepo,
	}
}

func (cs *classroomService) CreateClass(ctx context.Context, userID uuid.UUID, name string) (*types.Class, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("class name must not be empty")
	}
	now := time.Now()
	class := &types.Class{
		ID:        uuid.New(),
		Name:      name,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := cs.classRepo.Create(ctx, tx, []*types.Class{class}); cErr != nil {
			return fmt.Errorf("create class: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return class, nil
}

func (cs *classroomService) ListClasses(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*types.Class, error) {
	return cs.classRepo.ListByUser(ctx, nil, userID, offset, limit)
}

func (cs *classroomService) GetClassDetails(ctx context.Context, userID uuid.UUID, classID uuid.UUID) (*types.Class, error) {
	class, err := cs.classRepo.GetDetailsByIDForUser(ctx, nil, classID, userID)
	if err != nil {
		return nil, fmt.Errorf("load class: %w", err)
	}
	if class == nil {
		return nil, ErrNotFound
	}
	return class, nil
}

func (cs *classroomService) UpdateClass(ctx context.Context, userID uuid.UUID, classID uuid.UUID, name string) (*types.Class, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("class name must not be empty")
	}
	class, err := cs.getClass(ctx, nil, userID, classID)
	if err != nil {
		return nil, err
	}
	class.Name = name
	class.UpdatedAt = time.Now()
	if sErr := cs.classRepo.Save(ctx, nil, class); sErr != nil {
		return nil, fmt.Errorf("save class: %w", sErr)
	}
	return class, nil
}

// DeleteClass removes the class and everything under it: grades first, then
// students and assignments, then the class row.
func (cs *classroomService) DeleteClass(ctx context.Context, userID uuid.UUID, classID uuid.UUID) error {
	if _, err := cs.getClass(ctx, nil, userID, classID); err != nil {
		return err
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		students, sErr := cs.studentRepo.ListByClass(ctx, tx, classID, 0, 0)
		if sErr != nil {
			return fmt.Errorf("list students: %w", sErr)
		}
		assignments, aErr := cs.assignmentRepo.ListByClass(ctx, tx, classID, 0, 0)
		if aErr != nil {
			return fmt.Errorf("list assignments: %w", aErr)
		}
		studentIDs := make([]uuid.UUID, 0, len(students))
		for _, s := range students {
			studentIDs = append(studentIDs, s.ID)
		}
		assignmentIDs := make([]uuid.UUID, 0, len(assignments))
		for _, a := range assignments {
			assignmentIDs = append(assignmentIDs, a.ID)
		}
		if dErr := cs.gradeRepo.DeleteByStudentIDs(ctx, tx, studentIDs); dErr != nil {
			return fmt.Errorf("delete grades by students: %w", dErr)
		}
		if dErr := cs.gradeRepo.DeleteByAssignmentIDs(ctx, tx, assignmentIDs); dErr != nil {
			return fmt.Errorf("delete grades by assignments: %w", dErr)
		}
		if dErr := cs.studentRepo.DeleteByClassIDs(ctx, tx, []uuid.UUID{classID}); dErr != nil {
			return fmt.Errorf("delete students: %w", dErr)
		}
		if dErr := cs.assignmentRepo.DeleteByClassIDs(ctx, tx, []uuid.UUID{classID}); dErr != nil {
			return fmt.Errorf("delete assignments: %w", dErr)
		}
		if dErr := cs.classRepo.DeleteByIDs(ctx, tx, []uuid.UUID{classID}); dErr != nil {
			return fmt.Errorf("delete class: %w", dErr)
		}
		return nil
	})
}

func (cs *classroomService) AddStudent(ctx context.Context, userID uuid.UUID, classID uuid.UUID, fullName string) (*types.Student, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, NewValidationError("student name must not be empty")
	}
	if _, err := cs.getClass(ctx, nil, userID, classID); err != nil {
		return nil, err
	}
	now := time.Now()
	student := &types.Student{
		ID:        uuid.New(),
		FullName:  fullName,
		ClassID:   classID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, cErr := cs.studentRepo.Create(ctx, nil, []*types.Student{student}); cErr != nil {
		return nil, fmt.Errorf("create student: %w", cErr)
	}
	return student, nil
}

func (cs *classroomService) ListStudents(ctx context.Context, userID uuid.UUID, classID uuid.UUID, offset, limit int) ([]*types.Student, error) {
	if _, err := cs.getClass(ctx, nil, userID, classID); err != nil {
		return nil, err
	}
	return cs.studentRepo.ListByClass(ctx, nil, classID, offset, limit)
}

func (cs *classroomService) UpdateStudent(ctx context.Context, userID uuid.UUID, classID uuid.UUID, studentID uuid.UUID, fullName string) (*types.Student, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, NewValidationError("student name must not be empty")
	}
	student, err := cs.getStudent(ctx, userID, classID, studentID)
	if err != nil {
		return nil, err
	}
	student.FullName = fullName
	student.UpdatedAt = time.Now()
	if sErr := cs.studentRepo.Save(ctx, nil, student); sErr != nil {
		return nil, fmt.Errorf("save student: %w", sErr)
	}
	return student, nil
}

// DeleteStudent removes the student and only that student's grades.
func (cs *classroomService) DeleteStudent(ctx context.Context, userID uuid.UUID, classID uuid.UUID, studentID uuid.UUID) error {
	student, err := cs.getStudent(ctx, userID, classID, studentID)
	if err != nil {
		return err
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dErr := cs.gradeRepo.DeleteByStudentIDs(ctx, tx, []uuid.UUID{student.ID}); dErr != nil {
			return fmt.Errorf("delete grades: %w", dErr)
		}
		if dErr := cs.studentRepo.DeleteByIDs(ctx, tx, []uuid.UUID{student.ID}); dErr != nil {
			return fmt.Errorf("delete student: %w", dErr)
		}
		return nil
	})
}

func (cs *classroomService) AddAssignment(ctx context.Context, userID uuid.UUID, classID uuid.UUID, title string, description string) (*types.Assignment, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("assignment title must not be empty")
	}
	if _, err := cs.getClass(ctx, nil, userID, classID); err != nil {
		return nil, err
	}
	now := time.Now()
	assignment := &types.Assignment{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(description),
		ClassID:     classID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, cErr := cs.assignmentRepo.Create(ctx, nil, []*types.Assignment{assignment}); cErr != nil {
		return nil, fmt.Errorf("create assignment: %w", cErr)
	}
	return assignment, nil
}

func (cs *classroomService) ListAssignments(ctx context.Context, userID uuid.UUID, classID uuid.UUID, offset, limit int) ([]*types.Assignment, error) {
	if _, err := cs.getClass(ctx, nil, userID, classID); err != nil {
		return nil, err
	}
	return cs.assignmentRepo.ListByClass(ctx, nil, classID, offset, limit)
}

func (cs *classroomService) UpdateAssignment(ctx context.Context, userID uuid.UUID, classID uuid.UUID, assignmentID uuid.UUID, title string, description string) (*types.Assignment, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("assignment title must not be empty")
	}
	assignment, err := cs.getAssignment(ctx, userID, classID, assignmentID)
	if err != nil {
		return nil, err
	}
	assignment.Title = title
	assignment.Description = strings.TrimSpace(description)
	assignment.UpdatedAt = time.Now()
	if sErr := cs.assignmentRepo.Save(ctx, nil, assignment); sErr != nil {
		return nil, fmt.Errorf("save assignment: %w", sErr)
	}
	return assignment, nil
}

// DeleteAssignment removes the assignment and every grade recorded against it.
func (cs *classroomService) DeleteAssignment(ctx context.Context, userID uuid.UUID, classID uuid.UUID, assignmentID uuid.UUID) error {
	assignment, err := cs.getAssignment(ctx, userID, classID, assignmentID)
	if err != nil {
		return err
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dErr := cs.gradeRepo.DeleteByAssignmentIDs(ctx, tx, []uuid.UUID{assignment.ID}); dErr != nil {
			return fmt.Errorf("delete grades: %w", dErr)
		}
		if dErr := cs.assignmentRepo.DeleteByIDs(ctx, tx, []uuid.UUID{assignment.ID}); dErr != nil {
			return fmt.Errorf("delete assignment: %w", dErr)
		}
		return nil
	})
}

// SetGrade upserts the grade for (student, assignment). Both must belong to
// the addressed class; a grade never crosses class lines.
func (cs *classroomService) SetGrade(ctx context.Context, userID uuid.UUID, classID uuid.UUID, studentID uuid.UUID, assignmentID uuid.UUID, value string) (*types.Grade, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, NewValidationError("grade value must not be empty")
	}
	student, err := cs.getStudent(ctx, userID, classID, studentID)
	if err != nil {
		return nil, err
	}
	assignment, err := cs.getAssignment(ctx, userID, classID, assignmentID)
	if err != nil {
		return nil, err
	}
	if student.ClassID != assignment.ClassID {
		return nil, NewValidationError("student and assignment belong to different classes")
	}

	var grade *types.Grade
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, gErr := cs.gradeRepo.GetByStudentAssignment(ctx, tx, student.ID, assignment.ID)
		if gErr != nil {
			return fmt.Errorf("load grade: %w", gErr)
		}
		now := time.Now()
		if existing == nil {
			grade = &types.Grade{
				ID:           uuid.New(),
				StudentID:    student.ID,
				AssignmentID: assignment.ID,
				Grade:        value,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if _, cErr := cs.gradeRepo.Create(ctx, tx, []*types.Grade{grade}); cErr != nil {
				return fmt.Errorf("create grade: %w", cErr)
			}
			return nil
		}
		existing.Grade = value
		existing.UpdatedAt = now
		if sErr := cs.gradeRepo.Save(ctx, tx, existing); sErr != nil {
			return fmt.Errorf("save grade: %w", sErr)
		}
		grade = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return grade, nil
}

func (cs *classroomService) getClass(ctx context.Context, tx *gorm.DB, userID uuid.UUID, classID uuid.UUID) (*types.Class, error) {
	class, err := cs.classRepo.GetByIDForUser(ctx, tx, classID, userID)
	if err != nil {
		return nil, fmt.Errorf("load class: %w", err)
	}
	if class == nil {
		return nil, ErrNotFound
	}
	return class, nil
}

func (cs *classroomService) getStudent(ctx context.Context, userID uuid.UUID, classID uuid.UUID, studentID uuid.UUID) (*types.Student, error) {
	student, err := cs.studentRepo.GetByIDForUser(ctx, nil, studentID, userID)
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}
	if student == nil || student.ClassID != classID {
		return nil, ErrNotFound
	}
	return student, nil
}

func (cs *classroomService) getAssignment(ctx context.Context, userID uuid.UUID, classID uuid.UUID, assignmentID uuid.UUID) (*types.Assignment, error) {
	assignment, err := cs.assignmentRepo.GetByIDForUser(ctx, nil, assignmentID, userID)
	if err != nil {
		return nil, fmt.Errorf("load assignment: %w", err)
	}
	if assignment == nil || assignment.ClassID != classID {
		return nil, ErrNotFound
	}
	return assignment, nil
}
