package event

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/eventi/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validDetails() Details {
	settoreID := int64(3)
	return Details{
		Categoria:   CategoriaItaliaEstero,
		Office:      OfficeBelgrado,
		Titolo:      "Fiera del mobile",
		DataInizio:  date(2025, time.March, 10),
		Paese:       PaeseSerbia,
		Citta:       "Novi Sad",
		SettoreID:   &settoreID,
		Tipologia:   "Fiera",
		Descrizione: "Partecipazione collettiva",
		Public:      true,
	}
}

func TestNewEvent(t *testing.T) {
	t.Run("sets owner and last updater", func(t *testing.T) {
		e, err := NewEvent(validDetails(), 7)

		require.NoError(t, err)
		require.NotNil(t, e.CreatedByID)
		require.NotNil(t, e.LastUpdatedByID)
		assert.Equal(t, int64(7), *e.CreatedByID)
		assert.Equal(t, int64(7), *e.LastUpdatedByID)
		assert.True(t, e.IsOwnedBy(7))
		assert.False(t, e.IsOwnedBy(8))
		assert.Equal(t, "Fiera del mobile - Novi Sad (2025-03-10)", e.String())
	})

	t.Run("accepts end date equal to start date", func(t *testing.T) {
		d := validDetails()
		same := d.DataInizio
		d.DataFine = &same

		_, err := NewEvent(d, 1)
		assert.NoError(t, err)
	})

	t.Run("rejects end date before start date", func(t *testing.T) {
		d := validDetails()
		before := date(2025, time.March, 9)
		d.DataFine = &before

		_, err := NewEvent(d, 1)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidation))
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{MsgEndBeforeStart}, verr.Get("data_fine"))
	})

	t.Run("rejects unknown choices and missing fields", func(t *testing.T) {
		d := validDetails()
		d.Office = "Roma"
		d.Titolo = "  "
		d.SettoreID = nil

		_, err := NewEvent(d, 1)

		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{MsgInvalidChoice}, verr.Get("office"))
		assert.Equal(t, []string{MsgRequired}, verr.Get("titolo"))
		assert.Equal(t, []string{MsgRequired}, verr.Get("settore"))
	})

	t.Run("rejects overlong city", func(t *testing.T) {
		d := validDetails()
		d.Citta = strings.Repeat("à", MaxCittaLength+1)

		_, err := NewEvent(d, 1)

		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Get("citta")[0], "100")
	})
}

func TestEvent_Update(t *testing.T) {
	e, err := NewEvent(validDetails(), 7)
	require.NoError(t, err)
	e.Settore = &Settore{ID: 3, Nome: "Arredamento"}

	d := e.Details()
	otherSettore := int64(4)
	d.SettoreID = &otherSettore
	d.Public = false

	require.NoError(t, e.Update(d, 9))

	assert.Equal(t, int64(7), *e.CreatedByID)
	assert.Equal(t, int64(9), *e.LastUpdatedByID)
	assert.False(t, e.Public)
	assert.Nil(t, e.Settore, "stale sector must be dropped when the id changes")
	assert.Equal(t, "", e.SettoreNome())
}

func TestEvent_UpdateKeepsEventOnInvalidInput(t *testing.T) {
	e, err := NewEvent(validDetails(), 7)
	require.NoError(t, err)

	d := e.Details()
	d.Titolo = ""

	require.Error(t, e.Update(d, 9))
	assert.Equal(t, "Fiera del mobile", e.Titolo)
	assert.Equal(t, int64(7), *e.LastUpdatedByID)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 29), d)

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}
