package event

import (
	"io"

	"github.com/eventi/backend/internal/domain/event"
)

// FormChoices holds the option lists of the event form and the list filters
type FormChoices struct {
	Categorie []event.Choice
	Offices   []event.Choice
	Paesi     []event.Choice
	Settori   []event.Settore
}

// UploadInput is a file received from a multipart form
type UploadInput struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
	// Title and Description are optional; an empty title is derived from Filename
	Title       string
	Description string
	FileType    event.FileType
}

// EventInput is the event form: the event fields and an optional file
type EventInput struct {
	Details event.Details
	File    *UploadInput
}

// FileDownload is an attachment ready to be streamed.
// The caller must close Body.
type FileDownload struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// PublicEvent is the JSON shape of an event in the public API
type PublicEvent struct {
	ID          int64   `json:"id"`
	Categoria   string  `json:"categoria"`
	Office      string  `json:"office"`
	Titolo      string  `json:"titolo"`
	DataInizio  string  `json:"data_inizio"`
	DataFine    *string `json:"data_fine"`
	Paese       string  `json:"paese"`
	Citta       string  `json:"citta"`
	Settore     *int64  `json:"settore"`
	Tipologia   string  `json:"tipologia"`
	Descrizione string  `json:"descrizione"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}
