package handler

import (
	"errors"
	"fmt"
	"net/http"

	appevent "github.com/eventi/backend/internal/application/event"
	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/infrastructure/logger"
	"github.com/eventi/backend/internal/interfaces/http/dto"
	"github.com/eventi/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventHandler serves the event list, detail and form pages and the public API
type EventHandler struct {
	BaseHandler
	events *appevent.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(events *appevent.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List renders the filtered, sorted and paginated event list
func (h *EventHandler) List(c *gin.Context) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.GetGinLogger(c).Debug("Ignoring malformed list parameters", zap.Error(err))
	}

	page, err := h.events.List(c.Request.Context(), middleware.GetActor(c), params.Query())
	if err != nil {
		h.InternalError(c, err)
		return
	}
	choices, err := h.events.Choices(c.Request.Context())
	if err != nil {
		h.InternalError(c, err)
		return
	}

	h.Render(c, http.StatusOK, PageEventList, gin.H{
		"Page":    page,
		"Params":  params,
		"Query":   c.Request.URL.Query(),
		"Choices": choices,
	})
}

// Detail renders one event with its attachments
func (h *EventHandler) Detail(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	actor := middleware.GetActor(c)
	e, err := h.events.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err, appevent.MsgEventNotFound)
		return
	}

	h.Render(c, http.StatusOK, PageEventDetail, gin.H{
		"Event":     e,
		"CanModify": actor.CanModify(e),
	})
}

// New renders the blank event form
func (h *EventHandler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, nil, dto.NewEventForm(), nil)
}

// Create stores a submitted event and its optional file
func (h *EventHandler) Create(c *gin.Context) {
	var form dto.EventForm
	if verr := bindForm(c, &form); verr != nil {
		h.renderForm(c, http.StatusBadRequest, nil, form, verr)
		return
	}
	upload, file, err := uploadFromForm(c, "file")
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, nil, form, uploadFieldError(err))
		return
	}
	defer closeUpload(file)

	e, err := h.events.Create(c.Request.Context(), middleware.GetActor(c), appevent.EventInput{
		Details: form.Details(),
		File:    upload,
	})
	if e != nil {
		middleware.AddFlash(c, middleware.FlashSuccess, appevent.MsgEventCreated)
		if err != nil {
			middleware.AddFlash(c, middleware.FlashError, uploadFailure(err))
		}
		h.Redirect(c, ListPath)
		return
	}
	if verr, ok := validationErrors(err); ok {
		h.renderForm(c, http.StatusBadRequest, nil, form, verr)
		return
	}
	h.HandleError(c, err, appevent.MsgEventNotFound)
}

// Edit renders the form of an event the actor may modify
func (h *EventHandler) Edit(c *gin.Context) {
	e, ok := h.loadForModify(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, e, dto.EventFormFrom(e), nil)
}

// Update saves a submitted event form and its optional file
func (h *EventHandler) Update(c *gin.Context) {
	e, ok := h.loadForModify(c)
	if !ok {
		return
	}

	var form dto.EventForm
	if verr := bindForm(c, &form); verr != nil {
		h.renderForm(c, http.StatusBadRequest, e, form, verr)
		return
	}
	upload, file, err := uploadFromForm(c, "file")
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, e, form, uploadFieldError(err))
		return
	}
	defer closeUpload(file)

	updated, err := h.events.Update(c.Request.Context(), middleware.GetActor(c), e.ID, appevent.EventInput{
		Details: form.Details(),
		File:    upload,
	})
	if updated != nil {
		middleware.AddFlash(c, middleware.FlashSuccess, appevent.MsgEventUpdated)
		if err != nil {
			middleware.AddFlash(c, middleware.FlashError, uploadFailure(err))
		}
		h.Redirect(c, ListPath)
		return
	}
	if verr, ok := validationErrors(err); ok {
		h.renderForm(c, http.StatusBadRequest, e, form, verr)
		return
	}
	h.HandleError(c, err, appevent.MsgEventNotFound)
}

// ConfirmDelete renders the deletion confirmation of an event
func (h *EventHandler) ConfirmDelete(c *gin.Context) {
	e, ok := h.loadForModify(c)
	if !ok {
		return
	}
	h.Render(c, http.StatusOK, PageEventConfirmDelete, gin.H{"Event": e})
}

// Delete removes an event with its attachments
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err, appevent.MsgEventNotFound)
		return
	}
	h.FlashRedirect(c, middleware.FlashSuccess, appevent.MsgEventDeleted, ListPath)
}

// Public returns the public events as JSON
func (h *EventHandler) Public(c *gin.Context) {
	events, err := h.events.Public(c.Request.Context())
	if err != nil {
		h.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PublicEventsResponse{Events: events})
}

// loadForModify resolves the :id event within the actor's modifiable scope
func (h *EventHandler) loadForModify(c *gin.Context) (*event.Event, bool) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return nil, false
	}
	e, err := h.events.GetForModify(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err, appevent.MsgEventNotFound)
		return nil, false
	}
	return e, true
}

// renderForm renders the create form when e is nil, the update form otherwise
func (h *EventHandler) renderForm(c *gin.Context, status int, e *event.Event, form dto.EventForm, verr *shared.ValidationError) {
	choices, err := h.events.Choices(c.Request.Context())
	if err != nil {
		h.InternalError(c, err)
		return
	}

	action := "/evento/crea/"
	if e != nil {
		action = fmt.Sprintf("/evento/%d/modifica/", e.ID)
	}
	h.Render(c, status, PageEventForm, gin.H{
		"Form":    form,
		"Errors":  verr,
		"Choices": choices,
		"Action":  action,
		"Event":   e,
	})
}

// uploadFailure returns the flash text of a file that could not be attached
// to an otherwise saved event
func uploadFailure(err error) string {
	var uploadErr *appevent.UploadError
	if errors.As(err, &uploadErr) {
		return uploadErr.Error()
	}
	if verr, ok := validationErrors(err); ok {
		if msgs := verr.Get("file"); len(msgs) > 0 {
			return appevent.MsgUploadFailedPrefix + msgs[0]
		}
	}
	return appevent.MsgUploadFailedPrefix + err.Error()
}
