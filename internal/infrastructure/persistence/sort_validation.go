package persistence

import (
	"fmt"
	"strings"

	"github.com/eventi/backend/internal/domain/event"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// eventSortColumns maps the allow-listed sort keys to qualified columns.
// Settore and office need more than a column and are handled in applyEventOrdering.
var eventSortColumns = map[event.SortField]string{
	event.SortTitolo:     "events.titolo",
	event.SortDataInizio: "events.data_inizio",
	event.SortCitta:      "events.citta",
	event.SortTipologia:  "events.tipologia",
}

// preferredOfficeFirst orders the preferred office before every other office
var preferredOfficeFirst = fmt.Sprintf(
	"CASE WHEN events.office = '%s' THEN 0 ELSE 1 END", event.PreferredOffice)

// applyEventOrdering adds ORDER BY clauses for a resolved ordering.
// Ties are broken by id in the same direction so pages are stable.
func applyEventOrdering(db *gorm.DB, o event.Ordering) *gorm.DB {
	dir := "ASC"
	if o.Descending {
		dir = "DESC"
	}

	switch o.Field {
	case event.SortSettore:
		db = db.Joins("LEFT JOIN settori ON settori.id = events.settore_id").
			Order("settori.nome " + dir)
	case event.SortOffice:
		db = db.Order(preferredOfficeFirst).Order("events.office " + dir)
	default:
		column, ok := eventSortColumns[o.Field]
		if !ok {
			column = eventSortColumns[event.DefaultOrdering.Field]
			dir = ValidateSortOrder("desc")
		}
		db = db.Order(column + " " + dir)
	}
	return db.Order("events.id " + dir)
}
