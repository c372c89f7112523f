// Package event holds the promotional event domain: events, sectors,
// attachments, the request principal and the list/report queries.
package event

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eventi/backend/internal/domain/shared"
)

// Column limits
const (
	MaxCategoriaLength = 255
	MaxOfficeLength    = 50
	MaxTitoloLength    = 255
	MaxPaeseLength     = 50
	MaxCittaLength     = 100
	MaxTipologiaLength = 255
)

// DateLayout is the wire and form layout of event dates
const DateLayout = "2006-01-02"

// Validation messages shown next to form fields
const (
	MsgRequired        = "Questo campo è obbligatorio."
	MsgInvalidChoice   = "Seleziona una scelta valida."
	MsgEndBeforeStart  = "La data di fine non può essere precedente alla data di inizio"
	MsgInvalidDate     = "Inserisci una data valida."
	MsgInvalidNumber   = "Inserisci un numero intero."
	msgTooLongTemplate = "Assicurati che questo valore non contenga più di %d caratteri."
)

// TooLongMessage is the error of a text longer than max characters
func TooLongMessage(max int) string {
	return fmt.Sprintf(msgTooLongTemplate, max)
}

// Event is a promotional activity (trade fair, mission, exhibition) run by an office.
type Event struct {
	shared.BaseEntity
	Categoria   Categoria
	Office      Office
	Titolo      string
	DataInizio  time.Time
	DataFine    *time.Time
	Paese       Paese
	Citta       string
	SettoreID   *int64
	Settore     *Settore
	Tipologia   string
	Descrizione string
	Public      bool

	CreatedByID       *int64
	CreatedByName     string
	LastUpdatedByID   *int64
	LastUpdatedByName string

	Files []EventFile
}

// Details is the editable field set of an event, as submitted by the event form.
type Details struct {
	Categoria   Categoria
	Office      Office
	Titolo      string
	DataInizio  time.Time
	DataFine    *time.Time
	Paese       Paese
	Citta       string
	SettoreID   *int64
	Tipologia   string
	Descrizione string
	Public      bool
}

// NewEvent creates an event owned by creatorID
func NewEvent(d Details, creatorID int64) (*Event, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	e := &Event{BaseEntity: shared.NewBaseEntity()}
	e.apply(d)
	e.CreatedByID = &creatorID
	e.LastUpdatedByID = &creatorID
	return e, nil
}

// Update replaces the editable fields and records who changed them
func (e *Event) Update(d Details, updaterID int64) error {
	if err := d.Validate(); err != nil {
		return err
	}
	e.apply(d)
	e.LastUpdatedByID = &updaterID
	e.Touch()
	return nil
}

// Details returns the editable fields, used to pre-fill the edit form
func (e *Event) Details() Details {
	return Details{
		Categoria:   e.Categoria,
		Office:      e.Office,
		Titolo:      e.Titolo,
		DataInizio:  e.DataInizio,
		DataFine:    e.DataFine,
		Paese:       e.Paese,
		Citta:       e.Citta,
		SettoreID:   e.SettoreID,
		Tipologia:   e.Tipologia,
		Descrizione: e.Descrizione,
		Public:      e.Public,
	}
}

func (e *Event) apply(d Details) {
	e.Categoria = d.Categoria
	e.Office = d.Office
	e.Titolo = strings.TrimSpace(d.Titolo)
	e.DataInizio = truncateDay(d.DataInizio)
	if d.DataFine != nil {
		fine := truncateDay(*d.DataFine)
		e.DataFine = &fine
	} else {
		e.DataFine = nil
	}
	e.Paese = d.Paese
	e.Citta = strings.TrimSpace(d.Citta)
	if e.Settore != nil && (d.SettoreID == nil || e.Settore.ID != *d.SettoreID) {
		e.Settore = nil
	}
	e.SettoreID = d.SettoreID
	e.Tipologia = strings.TrimSpace(d.Tipologia)
	e.Descrizione = d.Descrizione
	e.Public = d.Public
}

// Validate checks required fields, choices, lengths and the date range.
// It returns a *shared.ValidationError keyed by form field name.
func (d Details) Validate() error {
	v := shared.NewValidationError()

	if d.Categoria == "" {
		v.Add("categoria", MsgRequired)
	} else if !d.Categoria.IsValid() {
		v.Add("categoria", MsgInvalidChoice)
	}
	if d.Office == "" {
		v.Add("office", MsgRequired)
	} else if !d.Office.IsValid() {
		v.Add("office", MsgInvalidChoice)
	}
	if d.Paese == "" {
		v.Add("paese", MsgRequired)
	} else if !d.Paese.IsValid() {
		v.Add("paese", MsgInvalidChoice)
	}

	requireText(v, "titolo", d.Titolo, MaxTitoloLength)
	requireText(v, "citta", d.Citta, MaxCittaLength)
	requireText(v, "tipologia", d.Tipologia, MaxTipologiaLength)
	if strings.TrimSpace(d.Descrizione) == "" {
		v.Add("descrizione", MsgRequired)
	}

	if d.SettoreID == nil {
		v.Add("settore", MsgRequired)
	}
	if d.DataInizio.IsZero() {
		v.Add("data_inizio", MsgRequired)
	} else if d.DataFine != nil && truncateDay(*d.DataFine).Before(truncateDay(d.DataInizio)) {
		v.Add("data_fine", MsgEndBeforeStart)
	}

	return v.OrNil()
}

func requireText(v *shared.ValidationError, field, value string, max int) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.Add(field, MsgRequired)
		return
	}
	if utf8.RuneCountInString(value) > max {
		v.Add(field, TooLongMessage(max))
	}
}

// IsOwnedBy reports whether userID created the event
func (e *Event) IsOwnedBy(userID int64) bool {
	return e.CreatedByID != nil && *e.CreatedByID == userID
}

// SettoreNome returns the sector name, or empty when unset
func (e *Event) SettoreNome() string {
	if e.Settore == nil {
		return ""
	}
	return e.Settore.Nome
}

// Year returns the year of the start date
func (e *Event) Year() int {
	return e.DataInizio.Year()
}

// String renders "titolo - citta (YYYY-MM-DD)"
func (e *Event) String() string {
	return fmt.Sprintf("%s - %s (%s)", e.Titolo, e.Citta, e.DataInizio.Format(DateLayout))
}

// ParseDate parses a YYYY-MM-DD date in UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
