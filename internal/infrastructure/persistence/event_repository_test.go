package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupEventTestDB creates an in-memory SQLite database with the event tables
func setupEventTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	statements := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_staff INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			last_login_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE settori (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nome TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			categoria TEXT NOT NULL,
			office TEXT NOT NULL,
			titolo TEXT NOT NULL,
			data_inizio DATE NOT NULL,
			data_fine DATE,
			paese TEXT NOT NULL,
			citta TEXT NOT NULL,
			settore_id INTEGER REFERENCES settori(id) ON DELETE SET NULL,
			tipologia TEXT NOT NULL,
			descrizione TEXT NOT NULL,
			public INTEGER NOT NULL DEFAULT 1,
			created_by_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			last_updated_by_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE event_files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			file TEXT NOT NULL,
			title TEXT NOT NULL,
			file_type TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_by_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			created_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type eventFixture struct {
	db      *gorm.DB
	repo    *GormEventRepository
	alice   int64
	bob     int64
	settori map[string]int64
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	db := setupEventTestDB(t)
	f := &eventFixture{db: db, repo: NewGormEventRepository(db), settori: map[string]int64{}}

	now := time.Now()
	for _, name := range []string{"alice", "bob"} {
		u := &models.UserModel{
			BaseModel:    models.BaseModel{CreatedAt: now, UpdatedAt: now},
			Username:     name,
			PasswordHash: "x",
			IsActive:     true,
		}
		require.NoError(t, db.Create(u).Error)
		if name == "alice" {
			f.alice = u.ID
		} else {
			f.bob = u.ID
		}
	}
	for _, nome := range []string{"Moda", "Agroalimentare", "Turismo"} {
		s := &models.SettoreModel{Nome: nome}
		require.NoError(t, db.Create(s).Error)
		f.settori[nome] = s.ID
	}
	return f
}

func (f *eventFixture) add(t *testing.T, titolo string, office event.Office, start string, public bool, owner int64, settore string) *event.Event {
	t.Helper()
	d, err := event.ParseDate(start)
	require.NoError(t, err)
	details := event.Details{
		Categoria:   event.CategoriaItaliaEstero,
		Office:      office,
		Titolo:      titolo,
		DataInizio:  d,
		Paese:       event.PaeseSerbia,
		Citta:       "Belgrado",
		Tipologia:   "Fiera",
		Descrizione: "descrizione",
		Public:      public,
	}
	if settore == "" {
		settore = "Turismo"
	}
	id := f.settori[settore]
	details.SettoreID = &id
	e, err := event.NewEvent(details, owner)
	require.NoError(t, err)
	require.NoError(t, f.repo.Create(context.Background(), e))
	return e
}

func titoli(events []event.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Titolo)
	}
	return out
}

func TestGormEventRepository_CreateAndFind(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	created := f.add(t, "Fiera del Mobile", event.OfficeBelgrado, "2024-04-16", true, f.alice, "Moda")
	assert.NotZero(t, created.ID)

	require.NoError(t, f.db.Create(&models.EventFileModel{
		EventID: created.ID, File: "event_files/1/a.pdf", Title: "a", FileType: event.FileTypePDF,
		CreatedAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, f.db.Create(&models.EventFileModel{
		EventID: created.ID, File: "event_files/1/b.docx", Title: "b", FileType: event.FileTypeDOCX,
		CreatedAt: time.Now(),
	}).Error)

	found, err := f.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fiera del Mobile", found.Titolo)
	assert.Equal(t, "2024-04-16", found.DataInizio.Format(event.DateLayout))
	assert.Equal(t, "alice", found.CreatedByName)
	assert.Equal(t, "alice", found.LastUpdatedByName)
	require.NotNil(t, found.Settore)
	assert.Equal(t, "Moda", found.SettoreNome())
	require.Len(t, found.Files, 2)
	assert.Equal(t, "b", found.Files[0].Title, "newest attachment first")

	_, err = f.repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormEventRepository_CreatePrivate(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	private := f.add(t, "Riservato", event.OfficePodgorica, "2024-05-01", false, f.alice, "Moda")

	reloaded, err := f.repo.FindByID(ctx, private.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Public)

	page, err := f.repo.List(ctx, event.Anonymous().Scope(), event.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	public, err := f.repo.FindPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)
}

func TestGormEventRepository_SettoreDeleted(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	e := f.add(t, "Senza settore", event.OfficeBelgrado, "2024-05-01", true, f.alice, "Moda")

	require.NoError(t, f.db.Delete(&models.SettoreModel{}, f.settori["Moda"]).Error)

	got, err := f.repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SettoreID)
	assert.Empty(t, got.SettoreNome())
}

func TestGormEventRepository_FindByIDInScope(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	private := f.add(t, "Privato", event.OfficeBelgrado, "2024-01-10", false, f.alice, "")

	_, err := f.repo.FindByIDInScope(ctx, private.ID, event.Anonymous().Scope())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.repo.FindByIDInScope(ctx, private.ID, event.NewActor(f.bob, "bob", false).Scope())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := f.repo.FindByIDInScope(ctx, private.ID, event.NewActor(f.alice, "alice", false).Scope())
	require.NoError(t, err)
	assert.Equal(t, private.ID, got.ID)

	got, err = f.repo.FindByIDInScope(ctx, private.ID, event.NewActor(f.bob, "bob", true).Scope())
	require.NoError(t, err)
	assert.Equal(t, private.ID, got.ID)

	_, err = f.repo.FindByIDInScope(ctx, private.ID, event.Scope{None: true})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormEventRepository_List_Visibility(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	f.add(t, "Pubblico", event.OfficeBelgrado, "2024-01-10", true, f.alice, "")
	f.add(t, "Privato Alice", event.OfficeBelgrado, "2024-01-11", false, f.alice, "")
	f.add(t, "Privato Bob", event.OfficeBelgrado, "2024-01-12", false, f.bob, "")

	tests := []struct {
		name     string
		actor    event.Actor
		expected []string
	}{
		{"anonymous sees public only", event.Anonymous(), []string{"Pubblico"}},
		{"owner sees own private", event.NewActor(f.alice, "alice", false), []string{"Privato Alice", "Pubblico"}},
		{"staff sees everything", event.NewActor(f.bob, "bob", true), []string{"Privato Bob", "Privato Alice", "Pubblico"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.repo.List(ctx, tt.actor.Scope(), event.ListQuery{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, titoli(page.Items))
			assert.Equal(t, int64(len(tt.expected)), page.Total)
		})
	}
}

func TestGormEventRepository_List_Filters(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	staff := event.NewActor(f.alice, "alice", true).Scope()
	f.add(t, "Fiera del Vino", event.OfficeBelgrado, "2024-01-10", true, f.alice, "Agroalimentare")
	f.add(t, "Mostra Design", event.OfficePodgorica, "2024-02-10", true, f.alice, "Moda")
	f.add(t, "Sconto 100%", event.OfficeBelgrado, "2024-03-10", true, f.alice, "")

	t.Run("search is case-insensitive on the title", func(t *testing.T) {
		page, err := f.repo.List(ctx, staff, event.ListQuery{Search: "fIeRa"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Fiera del Vino"}, titoli(page.Items))
	})

	t.Run("wildcards in search are literal", func(t *testing.T) {
		page, err := f.repo.List(ctx, staff, event.ListQuery{Search: "100%"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Sconto 100%"}, titoli(page.Items))

		page, err = f.repo.List(ctx, staff, event.ListQuery{Search: "%"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Sconto 100%"}, titoli(page.Items))
	})

	t.Run("office filter", func(t *testing.T) {
		page, err := f.repo.List(ctx, staff, event.ListQuery{Office: event.OfficePodgorica})
		require.NoError(t, err)
		assert.Equal(t, []string{"Mostra Design"}, titoli(page.Items))
	})

	t.Run("settore filter", func(t *testing.T) {
		id := f.settori["Agroalimentare"]
		page, err := f.repo.List(ctx, staff, event.ListQuery{SettoreID: &id})
		require.NoError(t, err)
		assert.Equal(t, []string{"Fiera del Vino"}, titoli(page.Items))
	})

	t.Run("filters combine", func(t *testing.T) {
		page, err := f.repo.List(ctx, staff, event.ListQuery{
			Categoria: event.CategoriaInLoco,
			Office:    event.OfficeBelgrado,
		})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(0), page.Total)
	})
}

func TestGormEventRepository_List_Ordering(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	scope := event.Scope{All: true}
	f.add(t, "B", event.OfficePodgorica, "2024-01-01", true, f.alice, "Turismo")
	f.add(t, "A", event.OfficeBelgrado, "2024-03-01", true, f.alice, "Moda")
	f.add(t, "C", event.OfficePodgorica, "2024-02-01", true, f.alice, "Agroalimentare")

	tests := []struct {
		name     string
		query    event.ListQuery
		expected []string
	}{
		{"default newest first", event.ListQuery{}, []string{"A", "C", "B"}},
		{"titolo ascending", event.ListQuery{Sort: "titolo", Direction: "asc"}, []string{"A", "B", "C"}},
		{"titolo descending", event.ListQuery{Sort: "titolo", Direction: "desc"}, []string{"C", "B", "A"}},
		{"unknown sort ignores direction", event.ListQuery{Sort: "password", Direction: "asc"}, []string{"A", "C", "B"}},
		{"settore name ascending", event.ListQuery{Sort: "settore", Direction: "asc"}, []string{"C", "A", "B"}},
		{"office ascending keeps Belgrado first", event.ListQuery{Sort: "office", Direction: "asc"}, []string{"A", "B", "C"}},
		{"office descending keeps Belgrado first", event.ListQuery{Sort: "office", Direction: "desc"}, []string{"A", "C", "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.repo.List(ctx, scope, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, titoli(page.Items))
		})
	}
}

func TestGormEventRepository_List_Pagination(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	for i := 1; i <= 12; i++ {
		f.add(t, "Evento", event.OfficeBelgrado, time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC).Format(event.DateLayout), true, f.alice, "")
	}

	page, err := f.repo.List(ctx, event.Scope{All: true}, event.ListQuery{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasPrevious())
	assert.False(t, page.HasNext())
	assert.Equal(t, "2024-01-02", page.Items[0].DataInizio.Format(event.DateLayout))
}

func TestGormEventRepository_Reports(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	scope := event.Scope{All: true}
	f.add(t, "2025 b", event.OfficeBelgrado, "2025-06-01", true, f.alice, "")
	f.add(t, "2023", event.OfficeBelgrado, "2023-05-01", true, f.alice, "")
	f.add(t, "2025 a", event.OfficeBelgrado, "2025-01-15", true, f.alice, "")
	f.add(t, "privato 2022", event.OfficeBelgrado, "2022-05-01", false, f.bob, "")

	years, err := f.repo.ReportYears(ctx, scope, event.ReportQuery{Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2023, 2025}, years)

	years, err = f.repo.ReportYears(ctx, event.Anonymous().Scope(), event.ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, []int{2023, 2025}, years)

	selected, err := f.repo.FindForReport(ctx, scope, event.ReportQuery{Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025 a", "2025 b"}, titoli(selected))

	selected, err = f.repo.FindForReport(ctx, scope, event.ReportQuery{Paese: event.PaeseItalia})
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestGormEventRepository_FindByIDs(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	late := f.add(t, "late", event.OfficeBelgrado, "2024-09-01", true, f.alice, "")
	early := f.add(t, "early", event.OfficeBelgrado, "2024-02-01", true, f.alice, "")
	hidden := f.add(t, "hidden", event.OfficeBelgrado, "2024-03-01", false, f.bob, "")

	got, err := f.repo.FindByIDs(ctx, event.NewActor(f.alice, "alice", false).Scope(), []int64{late.ID, early.ID, hidden.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "late"}, titoli(got))

	got, err = f.repo.FindByIDs(ctx, event.Scope{All: true}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGormEventRepository_FindPublic(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	f.add(t, "old", event.OfficeBelgrado, "2023-01-01", true, f.alice, "Moda")
	f.add(t, "new", event.OfficeBelgrado, "2024-01-01", true, f.alice, "")
	f.add(t, "secret", event.OfficeBelgrado, "2025-01-01", false, f.alice, "")

	got, err := f.repo.FindPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, titoli(got))
	assert.Equal(t, "Moda", got[1].SettoreNome())
}

func TestGormEventRepository_Update(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	e := f.add(t, "Prima", event.OfficeBelgrado, "2024-01-01", true, f.alice, "Moda")

	d := e.Details()
	d.Titolo = "Dopo"
	d.Public = false
	turismo := f.settori["Turismo"]
	d.SettoreID = &turismo
	require.NoError(t, e.Update(d, f.bob))
	require.NoError(t, f.repo.Update(ctx, e))

	got, err := f.repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dopo", got.Titolo)
	assert.False(t, got.Public)
	assert.Equal(t, "Turismo", got.SettoreNome())
	assert.Equal(t, "alice", got.CreatedByName)
	assert.Equal(t, "bob", got.LastUpdatedByName)

	missing := *e
	missing.ID = 9999
	assert.ErrorIs(t, f.repo.Update(ctx, &missing), shared.ErrNotFound)
}

func TestGormEventRepository_Delete(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	e := f.add(t, "Da eliminare", event.OfficeBelgrado, "2024-01-01", true, f.alice, "")
	require.NoError(t, f.db.Create(&models.EventFileModel{
		EventID: e.ID, File: "event_files/x.pdf", Title: "x", CreatedAt: time.Now(),
	}).Error)

	require.NoError(t, f.repo.Delete(ctx, e.ID))

	var files int64
	require.NoError(t, f.db.Model(&models.EventFileModel{}).Count(&files).Error)
	assert.Zero(t, files)
	assert.ErrorIs(t, f.repo.Delete(ctx, e.ID), shared.ErrNotFound)
}
