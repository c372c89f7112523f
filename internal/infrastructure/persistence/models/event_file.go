package models

import (
	"time"

	"github.com/eventi/backend/internal/domain/event"
)

// EventFileModel is the persistence model for event attachments
type EventFileModel struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	EventID     int64          `gorm:"column:event_id;not null;index"`
	File        string         `gorm:"column:file;type:varchar(255);not null"`
	Title       string         `gorm:"column:title;type:varchar(255);not null"`
	FileType    event.FileType `gorm:"column:file_type;type:varchar(10);not null"`
	Description string         `gorm:"column:description;type:text;not null"`
	CreatedByID *int64         `gorm:"column:created_by_id"`
	CreatedAt   time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EventFileModel) TableName() string {
	return "event_files"
}

// ToDomain converts the persistence model to a domain EventFile
func (m *EventFileModel) ToDomain() *event.EventFile {
	return &event.EventFile{
		ID:          m.ID,
		EventID:     m.EventID,
		Key:         m.File,
		Title:       m.Title,
		FileType:    m.FileType,
		Description: m.Description,
		CreatedByID: m.CreatedByID,
		CreatedAt:   m.CreatedAt,
	}
}

// EventFileModelFromDomain creates a new persistence model from a domain EventFile
func EventFileModelFromDomain(f *event.EventFile) *EventFileModel {
	return &EventFileModel{
		ID:          f.ID,
		EventID:     f.EventID,
		File:        f.Key,
		Title:       f.Title,
		FileType:    f.FileType,
		Description: f.Description,
		CreatedByID: f.CreatedByID,
		CreatedAt:   f.CreatedAt,
	}
}
