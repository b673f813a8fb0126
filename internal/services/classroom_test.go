package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/profbridge/profbridge-backend/internal/repos"
	"github.com/profbridge/profbridge-backend/internal/types"
)

func newTestClassroom(t *testing.T, db *gorm.DB) ClassroomService {
	t.Helper()
	log := newTestLogger(t)
	return NewClassroomService(
		db,
		log,
		repos.NewClassRepo(db, log),
		repos.NewStudentRepo(db, log),
		repos.NewAssignmentRepo(db, log),
		repos.NewGradeRepo(db, log),
	)
}

func TestSetGradeUpserts(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	class := createTestClass(t, db, user.ID, "Algebra")
	classroom := newTestClassroom(t, db)
	ctx := context.Background()

	student, err := classroom.AddStudent(ctx, user.ID, class.ID, "Alice")
	if err != nil {
		t.Fatalf("add student: %v", err)
	}
	assignment, err := classroom.AddAssignment(ctx, user.ID, class.ID, "HW1", "")
	if err != nil {
		t.Fatalf("add assignment: %v", err)
	}

	first, err := classroom.SetGrade(ctx, user.ID, class.ID, student.ID, assignment.ID, "90")
	if err != nil {
		t.Fatalf("set grade: %v", err)
	}
	second, err := classroom.SetGrade(ctx, user.ID, class.ID, student.ID, assignment.ID, "95")
	if err != nil {
		t.Fatalf("set grade again: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("upsert created a second row: %s vs %s", first.ID, second.ID)
	}

	var count int64
	db.Model(&types.Grade{}).Count(&count)
	if count != 1 {
		t.Errorf("grade rows = %d, want 1", count)
	}
	var grade types.Grade
	db.First(&grade)
	if grade.Grade != "95" {
		t.Errorf("grade = %q, want 95", grade.Grade)
	}
}

func TestSetGradeRejectsCrossClassPair(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	classA := createTestClass(t, db, user.ID, "Algebra")
	classB := createTestClass(t, db, user.ID, "Biology")
	classroom := newTestClassroom(t, db)
	ctx := context.Background()

	student, err := classroom.AddStudent(ctx, user.ID, classA.ID, "Alice")
	if err != nil {
		t.Fatalf("add student: %v", err)
	}
	assignment, err := classroom.AddAssignment(ctx, user.ID, classB.ID, "HW1", "")
	if err != nil {
		t.Fatalf("add assignment: %v", err)
	}

	// The assignment is scoped to classB, so from classA's perspective it
	// does not exist.
	if _, err := classroom.SetGrade(ctx, user.ID, classA.ID, student.ID, assignment.ID, "90"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	var count int64
	db.Model(&types.Grade{}).Count(&count)
	if count != 0 {
		t.Errorf("grade rows = %d, want 0", count)
	}
}

func TestDeleteClassCascades(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	class := createTestClass(t, db, user.ID, "Algebra")
	keep := createTestClass(t, db, user.ID, "Biology")
	classroom := newTestClassroom(t, db)
	ctx := context.Background()

	student, _ := classroom.AddStudent(ctx, user.ID, class.ID, "Alice")
	assignment, _ := classroom.AddAssignment(ctx, user.ID, class.ID, "HW1", "")
	if _, err := classroom.SetGrade(ctx, user.ID, class.ID, student.ID, assignment.ID, "90"); err != nil {
		t.Fatalf("set grade: %v", err)
	}
	keepStudent, _ := classroom.AddStudent(ctx, user.ID, keep.ID, "Bob")
	keepAssignment, _ := classroom.AddAssignment(ctx, user.ID, keep.ID, "Essay", "")
	if _, err := classroom.SetGrade(ctx, user.ID, keep.ID, keepStudent.ID, keepAssignment.ID, "80"); err != nil {
		t.Fatalf("set grade in kept class: %v", err)
	}

	if err := classroom.DeleteClass(ctx, user.ID, class.ID); err != nil {
		t.Fatalf("delete class: %v", err)
	}

	var classCount, studentCount, assignmentCount, gradeCount int64
	db.Model(&types.Class{}).Count(&classCount)
	db.Model(&types.Student{}).Count(&studentCount)
	db.Model(&types.Assignment{}).Count(&assignmentCount)
	db.Model(&types.Grade{}).Count(&gradeCount)
	if classCount != 1 || studentCount != 1 || assignmentCount != 1 || gradeCount != 1 {
		t.Errorf("counts after delete = class %d student %d assignment %d grade %d, want 1 each (the other class)",
			classCount, studentCount, assignmentCount, gradeCount)
	}

	var remaining types.Grade
	db.First(&remaining)
	if remaining.Grade != "80" {
		t.Errorf("surviving grade = %q, want the other class's 80", remaining.Grade)
	}
}

func TestDeleteStudentRemovesOwnGradesOnly(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	class := createTestClass(t, db, user.ID, "Algebra")
	classroom := newTestClassroom(t, db)
	ctx := context.Background()

	alice, _ := classroom.AddStudent(ctx, user.ID, class.ID, "Alice")
	bob, _ := classroom.AddStudent(ctx, user.ID, class.ID, "Bob")
	assignment, _ := classroom.AddAssignment(ctx, user.ID, class.ID, "HW1", "")
	if _, err := classroom.SetGrade(ctx, user.ID, class.ID, alice.ID, assignment.ID, "90"); err != nil {
		t.Fatalf("set grade: %v", err)
	}
	if _, err := classroom.SetGrade(ctx, user.ID, class.ID, bob.ID, assignment.ID, "70"); err != nil {
		t.Fatalf("set grade: %v", err)
	}

	if err := classroom.DeleteStudent(ctx, user.ID, class.ID, alice.ID); err != nil {
		t.Fatalf("delete student: %v", err)
	}

	var grades []types.Grade
	db.Find(&grades)
	if len(grades) != 1 || grades[0].StudentID != bob.ID {
		t.Errorf("grades = %+v, want only Bob's", grades)
	}
	var assignmentCount int64
	db.Model(&types.Assignment{}).Count(&assignmentCount)
	if assignmentCount != 1 {
		t.Errorf("assignment rows = %d, want 1 (assignments untouched)", assignmentCount)
	}
}

func TestDeleteAssignmentRemovesItsGrades(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	class := createTestClass(t, db, user.ID, "Algebra")
	classroom := newTestClassroom(t, db)
	ctx := context.Background()

	student, _ := classroom.AddStudent(ctx, user.ID, class.ID, "Alice")
	hw1, _ := classroom.AddAssignment(ctx, user.ID, class.ID, "HW1", "")
	hw2, _ := classroom.AddAssignment(ctx, user.ID, class.ID, "HW2", "")
	if _, err := classroom.SetGrade(ctx, user.ID, class.ID, student.ID, hw1.ID, "90"); err != nil {
		t.Fatalf("set grade: %v", err)
	}
	if _, err := classroom.SetGrade(ctx, user.ID, class.ID, student.ID, hw2.ID, "70"); err != nil {
		t.Fatalf("set grade: %v", err)
	}

	if err := classroom.DeleteAssignment(ctx, user.ID, class.ID, hw1.ID); err != nil {
		t.Fatalf("delete assignment: %v", err)
	}

	var grades []types.Grade
	db.Find(&grades)
	if len(grades) != 1 || grades[0].AssignmentID != hw2.ID {
		t.Errorf("grades = %+v, want only HW2's", grades)
	}
	var studentCount int64
	db.Model(&types.Student{}).Count(&studentCount)
	if studentCount != 1 {
		t.Errorf("student rows = %d, want 1 (students untouched)", studentCount)
	}
}

func TestClassOwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	class := createTestClass(t, db, owner.ID, "Algebra")
	classroom := newTestClassroom(t, db)
	ctx := context.Background()

	if _, err := classroom.GetClassDetails(ctx, other.ID, class.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetClassDetails err = %v, want ErrNotFound", err)
	}
	if err := classroom.DeleteClass(ctx, other.ID, class.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteClass err = %v, want ErrNotFound", err)
	}
	if _, err := classroom.AddStudent(ctx, other.ID, class.ID, "Mallory"); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddStudent err = %v, want ErrNotFound", err)
	}
}

func TestGetClassDetailsPreloads(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "teacher@example.com")
	class := createTestClass(t, db, user.ID, "Algebra")
	classroom := newTestClassroom(t, db)
	ctx := context.Background()

	student, _ := classroom.AddStudent(ctx, user.ID, class.ID, "Alice")
	assignment, _ := classroom.AddAssignment(ctx, user.ID, class.ID, "HW1", "")
	if _, err := classroom.SetGrade(ctx, user.ID, class.ID, student.ID, assignment.ID, "90"); err != nil {
		t.Fatalf("set grade: %v", err)
	}

	details, err := classroom.GetClassDetails(ctx, user.ID, class.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(details.Students) != 1 || len(details.Assignments) != 1 {
		t.Fatalf("details = %d students, %d assignments, want 1 each", len(details.Students), len(details.Assignments))
	}
	if len(details.Students[0].Grades) != 1 || details.Students[0].Grades[0].Grade != "90" {
		t.Errorf("student grades = %+v, want the 90", details.Students[0].Grades)
	}
}
