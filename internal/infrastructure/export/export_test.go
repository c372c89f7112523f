package export

import (
	"time"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
)

func sampleEvents() []event.Event {
	fine := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, time.January, 5, 9, 30, 0, 0, time.UTC)
	settoreID := int64(2)
	return []event.Event{
		{
			BaseEntity:    shared.BaseEntity{ID: 1, CreatedAt: created, UpdatedAt: created},
			Categoria:     event.CategoriaItaliaEstero,
			Office:        event.OfficeBelgrado,
			Titolo:        "Fiera del mobile & design",
			DataInizio:    time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
			DataFine:      &fine,
			Paese:         event.PaeseSerbia,
			Citta:         "Novi Sad",
			SettoreID:     &settoreID,
			Settore:       &event.Settore{ID: settoreID, Nome: "Arredamento"},
			Tipologia:     "Fiera",
			Descrizione:   "Prima riga\nSeconda <riga>",
			Public:        true,
			CreatedByName: "alice",
		},
		{
			BaseEntity:    shared.BaseEntity{ID: 2, CreatedAt: created, UpdatedAt: created},
			Categoria:     event.CategoriaInLoco,
			Office:        event.OfficePodgorica,
			Titolo:        "Degustazione",
			DataInizio:    time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC),
			Paese:         event.PaeseMontenegro,
			Citta:         "Podgorica",
			Tipologia:     "Workshop",
			CreatedByName: "bob",
		},
	}
}
