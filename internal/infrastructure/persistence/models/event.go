package models

import (
	"time"

	"github.com/eventi/backend/internal/domain/event"
)

// EventModel is the persistence model for events
type EventModel struct {
	BaseModel
	Categoria       event.Categoria `gorm:"type:varchar(255);not null"`
	Office          event.Office    `gorm:"type:varchar(50);not null"`
	Titolo          string          `gorm:"type:varchar(255);not null"`
	DataInizio      time.Time       `gorm:"column:data_inizio;type:date;not null;index"`
	DataFine        *time.Time      `gorm:"column:data_fine;type:date"`
	Paese           event.Paese     `gorm:"type:varchar(50);not null"`
	Citta           string          `gorm:"type:varchar(100);not null"`
	SettoreID       *int64          `gorm:"column:settore_id;index"`
	Tipologia       string          `gorm:"type:varchar(255);not null"`
	Descrizione     string          `gorm:"type:text;not null"`
	Public          bool            `gorm:"not null"`
	CreatedByID     *int64          `gorm:"column:created_by_id;index"`
	LastUpdatedByID *int64          `gorm:"column:last_updated_by_id"`

	Settore       *SettoreModel    `gorm:"foreignKey:SettoreID"`
	CreatedBy     *UserModel       `gorm:"foreignKey:CreatedByID"`
	LastUpdatedBy *UserModel       `gorm:"foreignKey:LastUpdatedByID"`
	Files         []EventFileModel `gorm:"foreignKey:EventID"`
}

// TableName returns the table name for GORM
func (EventModel) TableName() string {
	return "events"
}

// ToDomain converts the persistence model, with whatever associations were
// preloaded, to a domain Event
func (m *EventModel) ToDomain() *event.Event {
	e := &event.Event{
		BaseEntity:      m.BaseModel.ToDomain(),
		Categoria:       m.Categoria,
		Office:          m.Office,
		Titolo:          m.Titolo,
		DataInizio:      m.DataInizio.UTC(),
		Paese:           m.Paese,
		Citta:           m.Citta,
		SettoreID:       m.SettoreID,
		Tipologia:       m.Tipologia,
		Descrizione:     m.Descrizione,
		Public:          m.Public,
		CreatedByID:     m.CreatedByID,
		LastUpdatedByID: m.LastUpdatedByID,
	}
	if m.DataFine != nil {
		fine := m.DataFine.UTC()
		e.DataFine = &fine
	}
	if m.Settore != nil {
		e.Settore = m.Settore.ToDomain()
	}
	if m.CreatedBy != nil {
		e.CreatedByName = m.CreatedBy.Username
	}
	if m.LastUpdatedBy != nil {
		e.LastUpdatedByName = m.LastUpdatedBy.Username
	}
	if len(m.Files) > 0 {
		e.Files = make([]event.EventFile, 0, len(m.Files))
		for i := range m.Files {
			e.Files = append(e.Files, *m.Files[i].ToDomain())
		}
	}
	return e
}

// FromDomain populates the column fields from a domain Event.
// Associations are left untouched.
func (m *EventModel) FromDomain(e *event.Event) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Categoria = e.Categoria
	m.Office = e.Office
	m.Titolo = e.Titolo
	m.DataInizio = e.DataInizio
	m.DataFine = e.DataFine
	m.Paese = e.Paese
	m.Citta = e.Citta
	m.SettoreID = e.SettoreID
	m.Tipologia = e.Tipologia
	m.Descrizione = e.Descrizione
	m.Public = e.Public
	m.CreatedByID = e.CreatedByID
	m.LastUpdatedByID = e.LastUpdatedByID
}

// EventModelFromDomain creates a new persistence model from a domain Event
func EventModelFromDomain(e *event.Event) *EventModel {
	m := &EventModel{}
	m.FromDomain(e)
	return m
}
