package types

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	User          *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	FileName      string    `gorm:"column:file_name;not null" json:"file_name"`
	FilePath      string    `gorm:"column:file_path;not null" json:"-"`
	FileType      string    `gorm:"column:file_type;not null" json:"file_type"`
	FileSize      int64     `gorm:"column:file_size;not null;default:0" json:"file_size"`
	ExtractedText string    `gorm:"column:extracted_text;type:text" json:"extracted_text,omitempty"`
	UploadedAt    time.Time `gorm:"column:uploaded_at;not null" json:"uploaded_at"`
}

func (Document) TableName() string {
	return "document"
}
