package dto

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/go-playground/validator/v10"
)

// Custom validation tags of the HTML forms
const (
	// TagDate accepts a YYYY-MM-DD date
	TagDate = "date"
	// TagDateFine rejects an end date before the DataInizio field of the same form
	TagDateFine = "datefine"
)

// EventForm is the create and update form of an event
type EventForm struct {
	Categoria   string `form:"categoria" binding:"required,max=255"`
	Office      string `form:"office" binding:"required,max=50"`
	Titolo      string `form:"titolo" binding:"required,max=255"`
	DataInizio  string `form:"data_inizio" binding:"required,date"`
	DataFine    string `form:"data_fine" binding:"omitempty,date,datefine"`
	Paese       string `form:"paese" binding:"required,max=50"`
	Citta       string `form:"citta" binding:"required,max=100"`
	Settore     string `form:"settore" binding:"required,numeric"`
	Tipologia   string `form:"tipologia" binding:"required,max=255"`
	Descrizione string `form:"descrizione" binding:"required"`
	Public      bool   `form:"public"`
}

// NewEventForm returns the blank form of a new event
func NewEventForm() EventForm {
	return EventForm{Public: true}
}

// EventFormFrom pre-fills the form with the fields of an existing event
func EventFormFrom(e *event.Event) EventForm {
	f := EventForm{
		Categoria:   string(e.Categoria),
		Office:      string(e.Office),
		Titolo:      e.Titolo,
		DataInizio:  e.DataInizio.Format(event.DateLayout),
		Paese:       string(e.Paese),
		Citta:       e.Citta,
		Tipologia:   e.Tipologia,
		Descrizione: e.Descrizione,
		Public:      e.Public,
	}
	if e.DataFine != nil {
		f.DataFine = e.DataFine.Format(event.DateLayout)
	}
	if e.SettoreID != nil {
		f.Settore = strconv.FormatInt(*e.SettoreID, 10)
	}
	return f
}

// Details converts a bound form into the domain field set.
// Values that do not parse are left zero for the domain validation to report.
func (f EventForm) Details() event.Details {
	d := event.Details{
		Categoria:   event.Categoria(strings.TrimSpace(f.Categoria)),
		Office:      event.Office(strings.TrimSpace(f.Office)),
		Titolo:      f.Titolo,
		Paese:       event.Paese(strings.TrimSpace(f.Paese)),
		Citta:       f.Citta,
		Tipologia:   f.Tipologia,
		Descrizione: f.Descrizione,
		Public:      f.Public,
	}
	if t, err := event.ParseDate(f.DataInizio); err == nil {
		d.DataInizio = t
	}
	if t, err := event.ParseDate(f.DataFine); err == nil {
		d.DataFine = &t
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(f.Settore), 10, 64); err == nil {
		d.SettoreID = &id
	}
	return d
}

// SettoreID returns the selected sector, zero when none
func (f EventForm) SettoreID() int64 {
	id, _ := strconv.ParseInt(strings.TrimSpace(f.Settore), 10, 64)
	return id
}

// FileForm is the attachment upload form; the file itself is read separately
type FileForm struct {
	Title       string `form:"title" binding:"max=255"`
	Description string `form:"description"`
}

// LoginForm is the sign-in form
type LoginForm struct {
	Username string `form:"username" binding:"required,max=150"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

// ReportForm is the export form of the report selection page
type ReportForm struct {
	EventIDs      []string `form:"event_ids"`
	Format        string   `form:"export_format"`
	SaveToStorage string   `form:"save_to_storage"`
}

// IDs returns the selected event ids, skipping values that are not numbers
func (f ReportForm) IDs() []int64 {
	ids := make([]int64, 0, len(f.EventIDs))
	for _, raw := range f.EventIDs {
		if id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// Save reports whether the archive checkbox was ticked
func (f ReportForm) Save() bool {
	switch strings.ToLower(strings.TrimSpace(f.SaveToStorage)) {
	case "true", "on", "1":
		return true
	}
	return false
}

// ListParams are the query parameters of the event list
type ListParams struct {
	Q         string `form:"q"`
	Categoria string `form:"categoria"`
	Office    string `form:"office"`
	Paese     string `form:"paese"`
	Settore   string `form:"settore"`
	Sort      string `form:"sort"`
	Direction string `form:"direction"`
	Page      string `form:"page"`
}

// Query converts the parameters into a list query.
// Malformed page and settore values are ignored.
func (p ListParams) Query() event.ListQuery {
	q := event.ListQuery{
		Search:    p.Q,
		Categoria: event.Categoria(p.Categoria),
		Office:    event.Office(p.Office),
		Paese:     event.Paese(p.Paese),
		Sort:      p.Sort,
		Direction: p.Direction,
		Page:      ParsePage(p.Page),
		PageSize:  event.DefaultPageSize,
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(p.Settore), 10, 64); err == nil {
		q.SettoreID = &id
	}
	return q
}

// ReportParams are the filters of the report selection page
type ReportParams struct {
	Categoria string `form:"categoria"`
	Paese     string `form:"paese"`
	Year      string `form:"year"`
}

// Query converts the parameters into a report query
func (p ReportParams) Query() event.ReportQuery {
	q := event.ReportQuery{
		Categoria: event.Categoria(p.Categoria),
		Paese:     event.Paese(p.Paese),
	}
	if y, err := strconv.Atoi(strings.TrimSpace(p.Year)); err == nil && y > 0 {
		q.Year = y
	}
	return q
}

// ParsePage returns the 1-based page number, 1 for anything else
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// RegisterValidations adds the form tags to a validator
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation(TagDate, validateDate); err != nil {
		return err
	}
	return v.RegisterValidation(TagDateFine, validateDateFine)
}

func validateDate(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := event.ParseDate(fl.Field().String())
	return err == nil
}

// validateDateFine compares against the sibling DataInizio field.
// A missing or malformed start date is reported by its own rules.
func validateDateFine(fl validator.FieldLevel) bool {
	fine, err := event.ParseDate(fl.Field().String())
	if err != nil {
		return true
	}
	parent := fl.Parent()
	if parent.Kind() == reflect.Pointer {
		parent = parent.Elem()
	}
	start := parent.FieldByName("DataInizio")
	if !start.IsValid() || start.Kind() != reflect.String {
		return true
	}
	inizio, err := event.ParseDate(start.String())
	if err != nil {
		return true
	}
	return !fine.Before(inizio)
}
