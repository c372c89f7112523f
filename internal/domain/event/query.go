package event

import "strings"

// Page sizes of the server-rendered lists
const (
	DefaultPageSize       = 10
	ReportArchivePageSize = 20
)

// SortField is a column the event list may be ordered by
type SortField string

const (
	SortTitolo     SortField = "titolo"
	SortDataInizio SortField = "data_inizio"
	SortCitta      SortField = "citta"
	SortSettore    SortField = "settore"
	SortTipologia  SortField = "tipologia"
	SortOffice     SortField = "office"
)

// sortableFields is the allow-list of user-selectable sort keys
var sortableFields = map[SortField]bool{
	SortTitolo:     true,
	SortDataInizio: true,
	SortCitta:      true,
	SortSettore:    true,
	SortTipologia:  true,
	SortOffice:     true,
}

// IsSortable reports whether the field is on the allow-list
func IsSortable(field string) bool {
	return sortableFields[SortField(field)]
}

// Ordering is a resolved sort instruction
type Ordering struct {
	Field      SortField
	Descending bool
}

// DefaultOrdering is start date, newest first
var DefaultOrdering = Ordering{Field: SortDataInizio, Descending: true}

// ListQuery carries the list page filters, sort and page.
// Empty filter values are no-ops.
type ListQuery struct {
	Search    string
	Categoria Categoria
	Office    Office
	Paese     Paese
	SettoreID *int64
	Sort      string
	Direction string
	Page      int
	PageSize  int
}

// Ordering resolves Sort and Direction against the allow-list.
// An unknown or empty sort key yields DefaultOrdering whatever the direction;
// any direction other than "asc" means descending.
func (q ListQuery) Ordering() Ordering {
	field := SortField(strings.TrimSpace(q.Sort))
	if !sortableFields[field] {
		return DefaultOrdering
	}
	return Ordering{
		Field:      field,
		Descending: !strings.EqualFold(strings.TrimSpace(q.Direction), "asc"),
	}
}

// Normalized returns a copy with page and page size defaulted
func (q ListQuery) Normalized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// ReportQuery filters the report selection screen
type ReportQuery struct {
	Categoria Categoria
	Paese     Paese
	// Year of data_inizio; zero disables the filter.
	Year int
}
