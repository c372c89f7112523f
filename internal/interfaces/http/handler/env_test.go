package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	appevent "github.com/eventi/backend/internal/application/event"
	"github.com/eventi/backend/internal/application/identity"
	"github.com/eventi/backend/internal/application/report"
	"github.com/eventi/backend/internal/domain/event"
	domainidentity "github.com/eventi/backend/internal/domain/identity"
	"github.com/eventi/backend/internal/infrastructure/auth"
	"github.com/eventi/backend/internal/infrastructure/cache"
	"github.com/eventi/backend/internal/infrastructure/config"
	"github.com/eventi/backend/internal/infrastructure/export"
	"github.com/eventi/backend/internal/infrastructure/persistence"
	"github.com/eventi/backend/internal/infrastructure/storage"
	"github.com/eventi/backend/internal/interfaces/http/middleware"
	"github.com/eventi/backend/internal/interfaces/http/web"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testPassword  = "password-sicura"
	testActorHead = "X-Test-Actor"
)

// testEnv wires the real services over SQLite and the in-memory object store
type testEnv struct {
	db      *gorm.DB
	engine  *gin.Engine
	storage *storage.MemoryObjectStorage
	events  *persistence.GormEventRepository
	files   *persistence.GormEventFileRepository
	session middleware.SessionConfig
	pinger  *fakePinger
	auth    *identity.AuthService
	tempDir string

	actors  map[string]event.Actor
	alice   event.Actor
	bob     event.Actor
	staff   event.Actor
	settore int64
}

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error {
	return p.err
}

func setupTestDB(t *testing.T) *gorm.DB {
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

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zaptest.NewLogger(t)
	ctx := context.Background()

	db := setupTestDB(t)
	env := &testEnv{
		db:      db,
		storage: storage.NewMemoryObjectStorage(),
		events:  persistence.NewGormEventRepository(db),
		files:   persistence.NewGormEventFileRepository(db),
		session: middleware.DefaultSessionConfig(),
		pinger:  &fakePinger{},
		actors:  map[string]event.Actor{},
		tempDir: t.TempDir(),
	}

	users := persistence.NewGormUserRepository(db)
	for _, u := range []struct {
		name  string
		staff bool
	}{{"alice", false}, {"bob", false}, {"admin", true}} {
		user, err := domainidentity.NewUser(u.name, testPassword)
		require.NoError(t, err)
		if u.staff {
			user.PromoteToStaff()
		}
		require.NoError(t, users.Create(ctx, user))
		env.actors[u.name] = event.NewActor(user.ID, user.Username, user.IsStaff)
	}
	env.alice, env.bob, env.staff = env.actors["alice"], env.actors["bob"], env.actors["admin"]

	settori := persistence.NewGormSettoreRepository(db)
	moda := &event.Settore{Nome: "Moda"}
	require.NoError(t, settori.Create(ctx, moda))
	env.settore = moda.ID

	store := cache.NewInMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	choices := cache.NewChoiceCache(store, settori, time.Hour, log)

	fileService := appevent.NewFileService(env.events, env.files, env.storage, "", log)
	eventService := appevent.NewEventService(env.events, settori, fileService, choices, env.storage, log)
	reportService := report.NewReportService(env.events,
		export.NewDocxRenderer(""),
		export.NewXLSXRenderer(time.UTC),
		env.storage, log,
		report.WithTempDir(env.tempDir))
	archiveService := report.NewArchiveService(env.storage, "", log)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough",
		AccessTokenExpiration: time.Hour,
		Issuer:                "eventi-test",
	})
	authService := identity.NewAuthService(users, jwtService, auth.NewStoreTokenBlacklist(store), log)
	env.auth = authService

	require.NoError(t, middleware.SetupValidator())
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	engine := gin.New()
	engine.HTMLRender = renderer
	engine.Use(middleware.Flash(env.session))
	engine.Use(func(c *gin.Context) {
		actor := event.Anonymous()
		if name := c.GetHeader(testActorHead); name != "" {
			actor = env.actors[name]
		}
		c.Set(middleware.ActorKey, actor)
		c.Next()
	})

	events := NewEventHandler(eventService)
	files := NewFileHandler(eventService, fileService)
	reports := NewReportHandler(reportService)
	archive := NewArchiveHandler(archiveService)
	authHandler := NewAuthHandler(authService, env.session)
	system := NewSystemHandler(env.pinger, "test")

	engine.GET("/", events.List)
	engine.GET("/evento/:id/", events.Detail)
	engine.GET("/evento/crea/", events.New)
	engine.POST("/evento/crea/", events.Create)
	engine.GET("/evento/:id/modifica/", events.Edit)
	engine.POST("/evento/:id/modifica/", events.Update)
	engine.GET("/events/:id/delete/", events.ConfirmDelete)
	engine.POST("/events/:id/delete/", events.Delete)
	engine.GET("/events/:id/upload-file/", files.UploadForm)
	engine.POST("/events/:id/upload-file/", files.Upload)
	engine.GET("/events/:id/files/:fid/download/", files.Download)
	engine.GET("/events/:id/files/:fid/delete/", files.ConfirmDelete)
	engine.POST("/events/:id/files/:fid/delete/", files.Delete)
	engine.GET("/report/", reports.Selection)
	engine.POST("/report/genera/", reports.Generate)
	engine.GET("/reports/files/", archive.List)
	engine.GET("/reports/files/download/", archive.Download)
	engine.POST("/reports/files/delete/", archive.Delete)
	engine.GET("/accounts/login/", authHandler.LoginForm)
	engine.POST("/accounts/login/", authHandler.Login)
	engine.POST("/accounts/logout/", authHandler.Logout)
	engine.GET("/api/events/public/", events.Public)
	engine.GET("/health", system.Health)

	env.engine = engine
	return env
}

// request is a prepared test request
type request struct {
	method      string
	path        string
	actor       string
	body        io.Reader
	contentType string
	cookies     []*http.Cookie
}

func (e *testEnv) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(r.method, r.path, r.body)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.actor != "" {
		req.Header.Set(testActorHead, r.actor)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(t *testing.T, path, actor string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, request{method: http.MethodGet, path: path, actor: actor})
}

func (e *testEnv) postForm(t *testing.T, path, actor string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, request{
		method:      http.MethodPost,
		path:        path,
		actor:       actor,
		body:        strings.NewReader(values.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
}

// uploadFile is one file part of a multipart request
type uploadFile struct {
	field   string
	name    string
	content string
}

func (e *testEnv) postMultipart(t *testing.T, path, actor string, values url.Values, files ...uploadFile) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return e.do(t, request{
		method:      http.MethodPost,
		path:        path,
		actor:       actor,
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
}

// addEvent stores an event owned by owner
func (e *testEnv) addEvent(t *testing.T, owner event.Actor, titolo string, public bool) *event.Event {
	t.Helper()
	start, err := event.ParseDate("2025-03-10")
	require.NoError(t, err)
	settore := e.settore
	ev, err := event.NewEvent(event.Details{
		Categoria:   event.CategoriaItaliaEstero,
		Office:      event.OfficeBelgrado,
		Titolo:      titolo,
		DataInizio:  start,
		Paese:       event.PaeseSerbia,
		Citta:       "Belgrado",
		SettoreID:   &settore,
		Tipologia:   "Fiera",
		Descrizione: "Descrizione dell'evento",
		Public:      public,
	}, owner.UserID)
	require.NoError(t, err)
	require.NoError(t, e.events.Create(context.Background(), ev))
	return ev
}

// addFile stores an attachment record and its object
func (e *testEnv) addFile(t *testing.T, ev *event.Event, owner event.Actor, key, content string) *event.EventFile {
	t.Helper()
	ctx := context.Background()
	f, err := event.NewEventFile(ev.ID, key, "Allegato", event.DetectFileType(key), "", owner.UserID)
	require.NoError(t, err)
	require.NoError(t, e.storage.Put(ctx, key, strings.NewReader(content), int64(len(content)), ""))
	require.NoError(t, e.files.Create(ctx, f))
	return f
}

// eventForm returns a valid submission of the event form
func (e *testEnv) eventForm(titolo string) url.Values {
	return url.Values{
		"categoria":   {string(event.CategoriaInLoco)},
		"office":      {string(event.OfficePodgorica)},
		"titolo":      {titolo},
		"data_inizio": {"2025-05-01"},
		"data_fine":   {"2025-05-03"},
		"paese":       {string(event.PaeseMontenegro)},
		"citta":       {"Podgorica"},
		"settore":     {idString(e.settore)},
		"tipologia":   {"Missione"},
		"descrizione": {"Missione imprenditoriale"},
		"public":      {"true"},
	}
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// flashes decodes the flash cookie set by the response; there is at most one
func flashes(t *testing.T, w *httptest.ResponseRecorder) []middleware.FlashMessage {
	t.Helper()
	var found []*http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.DefaultSessionConfig().CookieName+"_flash" {
			found = append(found, c)
		}
	}
	require.LessOrEqual(t, len(found), 1, "flash cookie set more than once")
	if len(found) == 0 || found[0].Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(found[0].Value)
	require.NoError(t, err)
	var messages []middleware.FlashMessage
	require.NoError(t, json.Unmarshal(raw, &messages))
	return messages
}

func flashTexts(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var texts []string
	for _, m := range flashes(t, w) {
		texts = append(texts, m.Text)
	}
	return texts
}
