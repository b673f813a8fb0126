package types

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName  string    `gorm:"column:full_name;not null" json:"full_name"`
	ClassID   uuid.UUID `gorm:"type:uuid;index;not null" json:"class_id"`
	Class     *Class    `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClassID;references:ID" json:"-"`
	Grades    []Grade   `gorm:"foreignKey:StudentID;references:ID" json:"grades,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Student) TableName() string {
	return "student"
}
