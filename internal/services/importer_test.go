package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/repos"
	"github.com/profbridge/profbridge-backend/internal/types"
)

func newTestImporter(t *testing.T, db *gorm.DB) ImporterService {
	t.Helper()
	log := newTestLogger(t)
	return NewImporterService(
		db,
		log,
		repos.NewClassRepo(db, log),
		repos.NewStudentRepo(db, log),
		repos.NewAssignmentRepo(db, log),
		repos.NewGradeRepo(db, log),
	)
}

func TestReconcileCreatesRosterAndGrades(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	class := createTestClass(t, db, user.ID, "Algebra")
	importer := newTestImporter(t, db)

	batch, err := ParseTabular("grades.csv", []byte("Name,HW1,HW2\nAlice,90,\nBob,,85\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	result, err := importer.Reconcile(context.Background(), user.ID, class.ID, batch)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if result.StudentsAdded != 2 {
		t.Errorf("StudentsAdded = %d, want 2", result.StudentsAdded)
	}
	if result.AssignmentsAdded != 2 {
		t.Errorf("AssignmentsAdded = %d, want 2", result.AssignmentsAdded)
	}
	if result.GradesWritten != 2 {
		t.Errorf("GradesWritten = %d, want 2", result.GradesWritten)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	var grades []types.Grade
	if err := db.Find(&grades).Error; err != nil {
		t.Fatalf("load grades: %v", err)
	}
	if len(grades) != 2 {
		t.Fatalf("grade rows = %d, want 2", len(grades))
	}
	values := map[string]bool{}
	for _, g := range grades {
		values[g.Grade] = true
	}
	if !values["90"] || !values["85"] {
		t.Errorf("grade values = %v, want 90 and 85", values)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	class := createTestClass(t, db, user.ID, "Algebra")
	importer := newTestImporter(t, db)

	batch, err := ParseTabular("grades.csv", []byte("Name,HW1\nAlice,90\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := importer.Reconcile(context.Background(), user.ID, class.ID, batch); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}

	result, err := importer.Reconcile(context.Background(), user.ID, class.ID, batch)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if result.StudentsAdded != 0 || result.AssignmentsAdded != 0 || result.GradesWritten != 0 {
		t.Errorf("second run result = %+v, want all zeros", result)
	}

	var count int64
	db.Model(&types.Student{}).Count(&count)
	if count != 1 {
		t.Errorf("student rows = %d, want 1", count)
	}
}

func TestReconcileUpdatesChangedGrade(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	class := createTestClass(t, db, user.ID, "Algebra")
	importer := newTestImporter(t, db)

	first, _ := ParseTabular("grades.csv", []byte("Name,HW1\nAlice,90\n"))
	if _, err := importer.Reconcile(context.Background(), user.ID, class.ID, first); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}

	second, _ := ParseTabular("grades.csv", []byte("Name,HW1\nAlice,95\n"))
	result, err := importer.Reconcile(context.Background(), user.ID, class.ID, second)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if result.GradesWritten != 1 {
		t.Errorf("GradesWritten = %d, want 1", result.GradesWritten)
	}

	var grades []types.Grade
	db.Find(&grades)
	if len(grades) != 1 || grades[0].Grade != "95" {
		t.Errorf("grades = %+v, want one row with value 95", grades)
	}
}

func TestReconcileWarnsOnUnknownReferences(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	class := createTestClass(t, db, user.ID, "Algebra")
	importer := newTestImporter(t, db)

	batch := &types.ImportBatch{
		Students:    []types.ImportStudent{{Name: "Alice"}},
		Assignments: []types.ImportAssignment{{Title: "HW1"}},
		Grades: []types.ImportGrade{
			{StudentName: "Nobody", AssignmentTitle: "HW1", Grade: "50"},
			{StudentName: "Alice", AssignmentTitle: "Missing", Grade: "60"},
		},
	}
	result, err := importer.Reconcile(context.Background(), user.ID, class.ID, batch)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if result.GradesWritten != 0 {
		t.Errorf("GradesWritten = %d, want 0", result.GradesWritten)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("warnings = %v, want 2 entries", result.Warnings)
	}
}

func TestReconcileForeignClassNotFound(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	class := createTestClass(t, db, owner.ID, "Algebra")
	importer := newTestImporter(t, db)

	batch := &types.ImportBatch{Students: []types.ImportStudent{{Name: "Alice"}}}
	_, err := importer.Reconcile(context.Background(), other.ID, class.ID, batch)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	var count int64
	db.Model(&types.Student{}).Count(&count)
	if count != 0 {
		t.Errorf("student rows = %d, want 0", count)
	}
}

func TestReconcileCollapsesDuplicateBatchEntries(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	class := createTestClass(t, db, user.ID, "Algebra")
	importer := newTestImporter(t, db)

	batch := &types.ImportBatch{
		Students: []types.ImportStudent{{Name: "Alice"}, {Name: "Alice"}},
		Assignments: []types.ImportAssignment{
			{Title: "HW1", Description: "first"},
			{Title: "HW1", Description: "second"},
		},
	}
	result, err := importer.Reconcile(context.Background(), user.ID, class.ID, batch)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if result.StudentsAdded != 1 || result.AssignmentsAdded != 1 {
		t.Errorf("result = %+v, want 1 student and 1 assignment", result)
	}

	var assignment types.Assignment
	if err := db.First(&assignment).Error; err != nil {
		t.Fatalf("load assignment: %v", err)
	}
	if assignment.Description != "second" {
		t.Errorf("description = %q, want last batch occurrence to win", assignment.Description)
	}
}
