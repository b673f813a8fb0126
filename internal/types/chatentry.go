package types

import (
	"time"

	"github.com/google/uuid"
)

// ChatEntry is append-only; rows are removed only when the owning
// document is deleted.
type ChatEntry struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	User       *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	DocumentID *uuid.UUID `gorm:"type:uuid;index" json:"document_id,omitempty"`
	Document   *Document  `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"-"`
	Query      string     `gorm:"column:query;type:text;not null" json:"query"`
	Response   string     `gorm:"column:response;type:text;not null" json:"response"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
}

func (ChatEntry) TableName() string {
	return "chat_entry"
}
