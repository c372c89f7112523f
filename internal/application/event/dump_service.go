package event

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/eventi/backend/internal/domain/event"
	"go.uber.org/zap"
)

// Fixture model names of the exported records
const (
	FixtureSettore   = "eventi.settore"
	FixtureEvent     = "eventi.event"
	FixtureEventFile = "eventi.eventfile"
)

// FixtureRecord is one exported row: its model, primary key and column values
type FixtureRecord struct {
	Model  string `json:"model"`
	PK     int64  `json:"pk"`
	Fields any    `json:"fields"`
}

type settoreFields struct {
	Nome string `json:"nome"`
}

type eventFields struct {
	Categoria     string  `json:"categoria"`
	Office        string  `json:"office"`
	Titolo        string  `json:"titolo"`
	DataInizio    string  `json:"data_inizio"`
	DataFine      *string `json:"data_fine"`
	Paese         string  `json:"paese"`
	Citta         string  `json:"citta"`
	Settore       *int64  `json:"settore"`
	Tipologia     string  `json:"tipologia"`
	Descrizione   string  `json:"descrizione"`
	Public        bool    `json:"public"`
	CreatedBy     *int64  `json:"created_by"`
	LastUpdatedBy *int64  `json:"last_updated_by"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type eventFileFields struct {
	Event       int64  `json:"event"`
	File        string `json:"file"`
	Title       string `json:"title"`
	FileType    string `json:"file_type"`
	Description string `json:"description"`
	CreatedBy   *int64 `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

// DumpService exports sectors, events and attachments as a JSON fixture
type DumpService struct {
	events  event.EventRepository
	settori event.SettoreRepository
	files   event.EventFileRepository
	logger  *zap.Logger
}

// NewDumpService creates a new dump service
func NewDumpService(
	events event.EventRepository,
	settori event.SettoreRepository,
	files event.EventFileRepository,
	logger *zap.Logger,
) *DumpService {
	return &DumpService{events: events, settori: settori, files: files, logger: logger}
}

// Records loads every row in dependency order: sectors, events, attachments
func (s *DumpService) Records(ctx context.Context) ([]FixtureRecord, error) {
	settori, err := s.settori.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settori: %w", err)
	}
	events, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	files, err := s.files.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load event files: %w", err)
	}

	records := make([]FixtureRecord, 0, len(settori)+len(events)+len(files))
	for _, st := range settori {
		records = append(records, FixtureRecord{
			Model:  FixtureSettore,
			PK:     st.ID,
			Fields: settoreFields{Nome: st.Nome},
		})
	}
	for i := range events {
		records = append(records, eventRecord(&events[i]))
	}
	for _, f := range files {
		records = append(records, FixtureRecord{
			Model: FixtureEventFile,
			PK:    f.ID,
			Fields: eventFileFields{
				Event:       f.EventID,
				File:        f.Key,
				Title:       f.Title,
				FileType:    string(f.FileType),
				Description: f.Description,
				CreatedBy:   f.CreatedByID,
				CreatedAt:   f.CreatedAt.UTC().Format(time.RFC3339),
			},
		})
	}

	s.logger.Info("Data exported",
		zap.Int("settori", len(settori)),
		zap.Int("events", len(events)),
		zap.Int("files", len(files)))
	return records, nil
}

// Dump writes the fixture to w as indented UTF-8 JSON
func (s *DumpService) Dump(ctx context.Context, w io.Writer) error {
	records, err := s.Records(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	return nil
}

func eventRecord(e *event.Event) FixtureRecord {
	var dataFine *string
	if e.DataFine != nil {
		d := e.DataFine.Format(time.DateOnly)
		dataFine = &d
	}
	return FixtureRecord{
		Model: FixtureEvent,
		PK:    e.ID,
		Fields: eventFields{
			Categoria:     string(e.Categoria),
			Office:        string(e.Office),
			Titolo:        e.Titolo,
			DataInizio:    e.DataInizio.Format(time.DateOnly),
			DataFine:      dataFine,
			Paese:         string(e.Paese),
			Citta:         e.Citta,
			Settore:       e.SettoreID,
			Tipologia:     e.Tipologia,
			Descrizione:   e.Descrizione,
			Public:        e.Public,
			CreatedBy:     e.CreatedByID,
			LastUpdatedBy: e.LastUpdatedByID,
			CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:     e.UpdatedAt.UTC().Format(time.RFC3339),
		},
	}
}
