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

// ImportResult reports what a reconciliation run changed. Warnings carry
// per-cell problems that did not abort the run.
type ImportResult struct {
	StudentsAdded    int      `json:"students_added"`
	AssignmentsAdded int      `json:"assignments_added"`
	GradesWritten    int      `json:"grades_written"`
	Warnings         []string `json:"warnings,omitempty"`
}

// ImporterService reconciles an ImportBatch against a class: missing
// students and assignments are created, grades are upserted per
// (student, assignment). The whole run is one transaction; any storage error
// rolls back everything.
type ImporterService interface {
	Reconcile(ctx context.Context, userID uuid.UUID, classID uuid.UUID, batch *types.ImportBatch) (*ImportResult, error)
}

type importerService struct {
	db             *gorm.DB
	log            *logger.Logger
	classRepo      repos.ClassRepo
	studentRepo    repos.StudentRepo
	assignmentRepo repos.AssignmentRepo
	gradeRepo      repos.GradeRepo
}

func NewImporterService(
	db *gorm.DB,
	log *logger.Logger,
	classRepo repos.ClassRepo,
	studentRepo repos.StudentRepo,
	assignmentRepo repos.AssignmentRepo,
	gradeRepo repos.GradeRepo,
) ImporterService {
	return &importerService{
		db:             db,
		log:            log.With("service", "ImporterService"),
		classRepo:      classRepo,
		studentRepo:    studentRepo,
		assignmentRepo: assignmentRepo,
		gradeRepo:      gradeRepo,
	}
}

func (is *importerService) Reconcile(ctx context.Context, userID uuid.UUID, classID uuid.UUID, batch *types.ImportBatch) (*ImportResult, error) {
	if batch == nil {
		return nil, NewValidationError("import batch required")
	}

	result := &ImportResult{}
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		class, cErr := is.classRepo.GetByIDForUser(ctx, tx, classID, userID)
		if cErr != nil {
			return fmt.Errorf("load class: %w", cErr)
		}
		if class == nil {
			return ErrNotFound
		}
		// Savepoint around the mutation phase; a failure mid-batch must not
		// leave half the rows behind.
		return tx.Transaction(func(inner *gorm.DB) error {
			return is.applyBatch(ctx, inner, classID, batch, result)
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (is *importerService) applyBatch(ctx context.Context, tx *gorm.DB, classID uuid.UUID, batch *types.ImportBatch, result *ImportResult) error {
	existingStudents, err := is.studentRepo.ListByClass(ctx, tx, classID, 0, 0)
	if err != nil {
		return fmt.Errorf("list students: %w", err)
	}
	existingAssignments, err := is.assignmentRepo.ListByClass(ctx, tx, classID, 0, 0)
	if err != nil {
		return fmt.Errorf("list assignments: %w", err)
	}

	// Name/title matching is case-sensitive on purpose: "Alice" and "alice"
	// are different students as far as the importer can tell.
	studentIDs := make(map[string]uuid.UUID, len(existingStudents))
	for _, s := range existingStudents {
		studentIDs[s.FullName] = s.ID
	}
	assignmentIDs := make(map[string]uuid.UUID, len(existingAssignments))
	for _, a := range existingAssignments {
		assignmentIDs[a.Title] = a.ID
	}

	now := time.Now()

	// Duplicate titles within the batch collapse, last occurrence wins.
	pendingAssignments := map[string]string{}
	var assignmentOrder []string
	for _, a := range batch.Assignments {
		title := strings.TrimSpace(a.Title)
		if title == "" {
			continue
		}
		if _, queued := pendingAssignments[title]; !queued {
			assignmentOrder = append(assignmentOrder, title)
		}
		pendingAssignments[title] = a.Description
	}
	for _, title := range assignmentOrder {
		if _, ok := assignmentIDs[title]; ok {
			continue
		}
		assignment := &types.Assignment{
			ID:          uuid.New(),
			Title:       title,
			Description: pendingAssignments[title],
			ClassID:     classID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, cErr := is.assignmentRepo.Create(ctx, tx, []*types.Assignment{assignment}); cErr != nil {
			return fmt.Errorf("create assignment %q: %w", title, cErr)
		}
		assignmentIDs[title] = assignment.ID
		result.AssignmentsAdded++
	}

	for _, st := range batch.Students {
		name := strings.TrimSpace(st.Name)
		if name == "" {
			continue
		}
		if _, ok := studentIDs[name]; ok {
			continue
		}
		student := &types.Student{
			ID:        uuid.New(),
			FullName:  name,
			ClassID:   classID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, cErr := is.studentRepo.Create(ctx, tx, []*types.Student{student}); cErr != nil {
			return fmt.Errorf("create student %q: %w", name, cErr)
		}
		studentIDs[name] = student.ID
		result.StudentsAdded++
	}

	for _, g := range batch.Grades {
		value := strings.TrimSpace(g.Grade)
		if value == "" {
			continue
		}
		studentID, sOK := studentIDs[strings.TrimSpace(g.StudentName)]
		if !sOK {
			result.Warnings = append(result.Warnings, fmt.Sprintf("grade for unknown student %q skipped", g.StudentName))
			continue
		}
		assignmentID, aOK := assignmentIDs[strings.TrimSpace(g.AssignmentTitle)]
		if !aOK {
			result.Warnings = append(result.Warnings, fmt.Sprintf("grade for unknown assignment %q skipped", g.AssignmentTitle))
			continue
		}

		existing, gErr := is.gradeRepo.GetByStudentAssignment(ctx, tx, studentID, assignmentID)
		if gErr != nil {
			return fmt.Errorf("load grade: %w", gErr)
		}
		if existing == nil {
			grade := &types.Grade{
				ID:           uuid.New(),
				StudentID:    studentID,
				AssignmentID: assignmentID,
				Grade:        value,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if _, cErr := is.gradeRepo.Create(ctx, tx, []*types.Grade{grade}); cErr != nil {
				return fmt.Errorf("create grade: %w", cErr)
			}
			result.GradesWritten++
			continue
		}
		if existing.Grade == value {
			continue
		}
		existing.Grade = value
		existing.UpdatedAt = now
		if sErr := is.gradeRepo.Save(ctx, tx, existing); sErr != nil {
			return fmt.Errorf("update grade: %w", sErr)
		}
		result.GradesWritten++
	}
	return nil
}
