package types

import (
	"time"

	"github.com/google/uuid"
)

// Grade holds a free-form value; "92", "A-", "зачет" are all valid.
// At most one row exists per (student, assignment) pair, enforced by
// upsert logic rather than a database constraint.
type Grade struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    uuid.UUID   `gorm:"type:uuid;index;not null" json:"student_id"`
	Student      *Student    `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"-"`
	AssignmentID uuid.UUID   `gorm:"type:uuid;index;not null" json:"assignment_id"`
	Assignment   *Assignment `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssignmentID;references:ID" json:"-"`
	Grade        string      `gorm:"column:grade" json:"grade"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

func (Grade) TableName() string {
	return "grade"
}
