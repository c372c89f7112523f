package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQuery_Ordering(t *testing.T) {
	tests := []struct {
		name      string
		sort      string
		direction string
		want      Ordering
	}{
		{"empty sort uses default", "", "", DefaultOrdering},
		{"unknown sort uses default", "created_by__password", "asc", DefaultOrdering},
		{"unknown sort ignores direction", "descrizione", "asc", Ordering{Field: SortDataInizio, Descending: true}},
		{"asc is ascending", "titolo", "asc", Ordering{Field: SortTitolo, Descending: false}},
		{"asc is case insensitive", "citta", "ASC", Ordering{Field: SortCitta, Descending: false}},
		{"desc is descending", "tipologia", "desc", Ordering{Field: SortTipologia, Descending: true}},
		{"anything else is descending", "settore", "sideways", Ordering{Field: SortSettore, Descending: true}},
		{"office is sortable", "office", "asc", Ordering{Field: SortOffice, Descending: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ListQuery{Sort: tt.sort, Direction: tt.direction}
			assert.Equal(t, tt.want, q.Ordering())
		})
	}
}

func TestListQuery_Normalized(t *testing.T) {
	q := ListQuery{Search: "  fiera ", Page: -2}.Normalized()

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Equal(t, "fiera", q.Search)
}

func TestIsSortable(t *testing.T) {
	for _, f := range []string{"titolo", "data_inizio", "citta", "settore", "tipologia", "office"} {
		assert.True(t, IsSortable(f), f)
	}
	assert.False(t, IsSortable("public"))
	assert.False(t, IsSortable("id; DROP TABLE events"))
}
