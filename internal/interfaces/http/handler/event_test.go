package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	appevent "github.com/eventi/backend/internal/application/event"
	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/interfaces/http/dto"
	"github.com/eventi/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHandler_List(t *testing.T) {
	env := newTestEnv(t)
	env.addEvent(t, env.alice, "Fiera pubblica", true)
	env.addEvent(t, env.bob, "Riunione riservata", false)

	t.Run("anonymous visitors see public events only", func(t *testing.T) {
		w := env.get(t, "/", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Fiera pubblica")
		assert.NotContains(t, w.Body.String(), "Riunione riservata")
	})

	t.Run("creators see their own private events", func(t *testing.T) {
		w := env.get(t, "/", "bob")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Riunione riservata")
	})

	t.Run("other users do not", func(t *testing.T) {
		w := env.get(t, "/", "alice")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "Riunione riservata")
	})

	t.Run("search filters the list", func(t *testing.T) {
		w := env.get(t, "/?q=riservata", "admin")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Riunione riservata")
		assert.NotContains(t, w.Body.String(), "Fiera pubblica")
	})

	t.Run("malformed parameters are ignored", func(t *testing.T) {
		w := env.get(t, "/?page=abc&settore=x&sort=password", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Fiera pubblica")
	})
}

func TestEventHandler_Detail(t *testing.T) {
	env := newTestEnv(t)
	private := env.addEvent(t, env.bob, "Riunione riservata", false)
	path := fmt.Sprintf("/evento/%d/", private.ID)

	t.Run("owner sees the event", func(t *testing.T) {
		w := env.get(t, path, "bob")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Riunione riservata")
	})

	t.Run("hidden event redirects to the list with a message", func(t *testing.T) {
		w := env.get(t, path, "alice")

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, ListPath, w.Header().Get("Location"))
		assert.Equal(t, []string{appevent.MsgViewForbidden}, flashTexts(t, w))
	})

	t.Run("staff sees every event", func(t *testing.T) {
		w := env.get(t, path, "admin")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown event is not found", func(t *testing.T) {
		w := env.get(t, "/evento/9999/", "admin")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), appevent.MsgEventNotFound)
	})

	t.Run("non numeric id is not found", func(t *testing.T) {
		w := env.get(t, "/evento/abc/", "admin")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEventHandler_Create(t *testing.T) {
	t.Run("stores the event and redirects to the list", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.postForm(t, "/evento/crea/", "alice", env.eventForm("Missione a Podgorica"))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, ListPath, w.Header().Get("Location"))
		assert.Equal(t, []string{appevent.MsgEventCreated}, flashTexts(t, w))

		all, err := env.events.FindAll(context.Background())
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Missione a Podgorica", all[0].Titolo)
		assert.True(t, all[0].IsOwnedBy(env.alice.UserID))
		require.NotNil(t, all[0].DataFine)
		assert.Equal(t, "2025-05-03", all[0].DataFine.Format(event.DateLayout))
	})

	t.Run("stores the attached file", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.postMultipart(t, "/evento/crea/", "alice", env.eventForm("Con allegato"),
			uploadFile{field: "file", name: "programma.pdf", content: "%PDF-1.4"})

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, []string{appevent.MsgEventCreated}, flashTexts(t, w))

		files, err := env.files.FindAll(context.Background())
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "programma.pdf", files[0].Title)
		exists, err := env.storage.Exists(context.Background(), files[0].Key)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("keeps the event when the file cannot be stored", func(t *testing.T) {
		env := newTestEnv(t)
		env.storage.FailWith = assert.AnError

		w := env.postMultipart(t, "/evento/crea/", "alice", env.eventForm("Storage guasto"),
			uploadFile{field: "file", name: "programma.pdf", content: "%PDF-1.4"})

		assert.Equal(t, http.StatusFound, w.Code)
		texts := flashTexts(t, w)
		require.Len(t, texts, 2)
		assert.Equal(t, appevent.MsgEventCreated, texts[0])
		assert.Contains(t, texts[1], appevent.MsgUploadFailedPrefix)

		all, err := env.events.FindAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("invalid form is rendered again", func(t *testing.T) {
		env := newTestEnv(t)
		form := env.eventForm("")
		form.Set("data_fine", "2025-04-01")

		w := env.postForm(t, "/evento/crea/", "alice", form)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `action="/evento/crea/"`)

		all, err := env.events.FindAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("unknown settore is a field error", func(t *testing.T) {
		env := newTestEnv(t)
		form := env.eventForm("Settore inesistente")
		form.Set("settore", "9999")

		w := env.postForm(t, "/evento/crea/", "alice", form)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), event.MsgInvalidChoice)
	})

	t.Run("anonymous users are sent to the login page", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.postForm(t, "/evento/crea/", "", env.eventForm("Anonimo"))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, middleware.LoginURL("/evento/crea/"), w.Header().Get("Location"))
	})
}

func TestEventHandler_Update(t *testing.T) {
	env := newTestEnv(t)
	ev := env.addEvent(t, env.alice, "Fiera di Belgrado", true)
	path := fmt.Sprintf("/evento/%d/modifica/", ev.ID)

	t.Run("owner gets the filled form", func(t *testing.T) {
		w := env.get(t, path, "alice")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Fiera di Belgrado")
		assert.Contains(t, w.Body.String(), fmt.Sprintf(`action="%s"`, path))
	})

	t.Run("other users cannot reach the form", func(t *testing.T) {
		w := env.get(t, path, "bob")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("owner saves the changes", func(t *testing.T) {
		w := env.postForm(t, path, "alice", env.eventForm("Fiera rinnovata"))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, ListPath, w.Header().Get("Location"))
		assert.Equal(t, []string{appevent.MsgEventUpdated}, flashTexts(t, w))

		updated, err := env.events.FindByID(context.Background(), ev.ID)
		require.NoError(t, err)
		assert.Equal(t, "Fiera rinnovata", updated.Titolo)
		assert.Equal(t, event.OfficePodgorica, updated.Office)
	})

	t.Run("staff may update any event", func(t *testing.T) {
		w := env.postForm(t, path, "admin", env.eventForm("Modificata dallo staff"))
		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("other users cannot save", func(t *testing.T) {
		w := env.postForm(t, path, "bob", env.eventForm("Non mia"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		current, err := env.events.FindByID(context.Background(), ev.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "Non mia", current.Titolo)
	})
}

func TestEventHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	ev := env.addEvent(t, env.alice, "Da eliminare", true)
	f := env.addFile(t, ev, env.alice, fmt.Sprintf("event_files/%d/nota.txt", ev.ID), "nota")
	path := fmt.Sprintf("/events/%d/delete/", ev.ID)

	t.Run("confirmation page", func(t *testing.T) {
		w := env.get(t, path, "alice")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Da eliminare")
	})

	t.Run("other users cannot delete", func(t *testing.T) {
		w := env.postForm(t, path, "bob", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("owner deletes the event and its files", func(t *testing.T) {
		w := env.postForm(t, path, "alice", nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, ListPath, w.Header().Get("Location"))
		assert.Equal(t, []string{appevent.MsgEventDeleted}, flashTexts(t, w))

		_, err := env.events.FindByID(context.Background(), ev.ID)
		assert.Error(t, err)
		exists, err := env.storage.Exists(context.Background(), f.Key)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestEventHandler_Public(t *testing.T) {
	env := newTestEnv(t)
	public := env.addEvent(t, env.alice, "Fiera pubblica", true)
	env.addEvent(t, env.bob, "Riunione riservata", false)

	w := env.get(t, "/api/events/public/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var resp dto.PublicEventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, public.ID, resp.Events[0].ID)
	assert.Equal(t, "Fiera pubblica", resp.Events[0].Titolo)
	assert.Equal(t, "2025-03-10", resp.Events[0].DataInizio)
}
