package report

import (
	"io"
	"time"

	"github.com/eventi/backend/internal/domain/event"
)

// Selection is the content of the report selection page
type Selection struct {
	Events    []event.Event
	Years     []int
	Query     event.ReportQuery
	Categorie []event.Choice
	Paesi     []event.Choice
}

// GenerateInput is the submitted report form
type GenerateInput struct {
	EventIDs      []int64
	Format        string
	SaveToStorage bool
}

// GeneratedReport is a fully written report waiting in a temp file.
// Call ReportService.Cleanup once it has been streamed.
type GeneratedReport struct {
	Path        string
	Filename    string
	ContentType string
	Size        int64
	// SavedKey is the object key of the archived copy, empty when not saved
	SavedKey string
}

// ArchivedReport is one object of the report archive
type ArchivedReport struct {
	Key          string
	Name         string
	Size         int64
	SizeDisplay  string
	LastModified time.Time
}

// ArchiveDownload is an archived report ready to be streamed.
// The caller must close Body.
type ArchiveDownload struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}
