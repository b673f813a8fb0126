package types

import (
	"time"

	"github.com/google/uuid"
)

type Class struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string       `gorm:"column:name;not null" json:"name"`
	UserID      uuid.UUID    `gorm:"type:uuid;index;not null" json:"user_id"`
	User        *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Students    []Student    `gorm:"foreignKey:ClassID;references:ID" json:"students,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:ClassID;references:ID" json:"assignments,omitempty"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (Class) TableName() string {
	return "class"
}
