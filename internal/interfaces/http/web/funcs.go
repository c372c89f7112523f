package web

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Display layouts of the pages
const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04"
)

var italianTitle = cases.Title(language.Italian)

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		// Dates
		"formatDate":     formatDate,
		"formatDatePtr":  formatDatePtr,
		"formatDateTime": formatDateTime,

		// Query strings
		"pageURL":       pageURL,
		"sortURL":       sortURL,
		"sortIndicator": sortIndicator,

		// Forms
		"fieldErrors": fieldErrors,
		"formErrors":  formErrors,
		"idString":    idString,
		"selectedID":  selectedID,

		// Display
		"yesNo": yesNo,
		"title": italianTitle.String,
		"add":   func(a, b int) int { return a + b },
		"sub":   func(a, b int) int { return a - b },
		"seq":   seq,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

// pageURL keeps every query parameter and sets page
func pageURL(query url.Values, page int) string {
	q := cloneValues(query)
	q.Set("page", strconv.Itoa(page))
	return "?" + q.Encode()
}

// sortURL orders by field, flipping the direction when field is already the
// active ascending sort. The page is reset.
func sortURL(query url.Values, field string) string {
	q := cloneValues(query)
	direction := "asc"
	if q.Get("sort") == field && q.Get("direction") == "asc" {
		direction = "desc"
	}
	q.Set("sort", field)
	q.Set("direction", direction)
	q.Del("page")
	return "?" + q.Encode()
}

// sortIndicator marks the column the list is currently ordered by
func sortIndicator(query url.Values, field string) string {
	ordering := event.ListQuery{Sort: query.Get("sort"), Direction: query.Get("direction")}.Ordering()
	if string(ordering.Field) != field {
		return ""
	}
	if ordering.Descending {
		return "▼"
	}
	return "▲"
}

func cloneValues(query url.Values) url.Values {
	q := make(url.Values, len(query))
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	return q
}

func fieldErrors(ve *shared.ValidationError, field string) []string {
	if ve == nil {
		return nil
	}
	return ve.Get(field)
}

// formErrors are the messages not bound to a field
func formErrors(ve *shared.ValidationError) []string {
	return fieldErrors(ve, "")
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// selectedID compares a submitted id with a choice id
func selectedID(raw string, id int64) bool {
	return strings.TrimSpace(raw) == strconv.FormatInt(id, 10)
}

func yesNo(b bool) string {
	if b {
		return "Sì"
	}
	return "No"
}

// seq returns 1..n for pagination links
func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
