package models

import "github.com/eventi/backend/internal/domain/event"

// SettoreModel is the persistence model for sectors
type SettoreModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Nome string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (SettoreModel) TableName() string {
	return "settori"
}

// ToDomain converts the persistence model to a domain Settore
func (m *SettoreModel) ToDomain() *event.Settore {
	return &event.Settore{ID: m.ID, Nome: m.Nome}
}

// SettoreModelFromDomain creates a new persistence model from a domain Settore
func SettoreModelFromDomain(s *event.Settore) *SettoreModel {
	return &SettoreModel{ID: s.ID, Nome: s.Nome}
}
