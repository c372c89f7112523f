package handler

import (
	"errors"
	"fmt"
	"net/http"

	appevent "github.com/eventi/backend/internal/application/event"
	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/interfaces/http/dto"
	"github.com/eventi/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// FileHandler serves the attachment upload, download and delete pages
type FileHandler struct {
	BaseHandler
	events *appevent.EventService
	files  *appevent.FileService
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(events *appevent.EventService, files *appevent.FileService) *FileHandler {
	return &FileHandler{events: events, files: files}
}

// UploadForm renders the attachment form of a visible event
func (h *FileHandler) UploadForm(c *gin.Context) {
	e, ok := h.loadEvent(c)
	if !ok {
		return
	}
	h.renderUploadForm(c, http.StatusOK, e, dto.FileForm{}, nil)
}

// Upload attaches the submitted file.
// Permission and storage failures are flashed on the event page.
func (h *FileHandler) Upload(c *gin.Context) {
	e, ok := h.loadEvent(c)
	if !ok {
		return
	}

	var form dto.FileForm
	if verr := bindForm(c, &form); verr != nil {
		h.renderUploadForm(c, http.StatusBadRequest, e, form, verr)
		return
	}
	upload, file, err := uploadFromForm(c, "file")
	if err != nil {
		h.renderUploadForm(c, http.StatusBadRequest, e, form, uploadFieldError(err))
		return
	}
	defer closeUpload(file)

	input := appevent.UploadInput{Title: form.Title, Description: form.Description}
	if upload != nil {
		input.Filename = upload.Filename
		input.Size = upload.Size
		input.ContentType = upload.ContentType
		input.Body = upload.Body
		input.FileType = upload.FileType
	}

	_, err = h.files.Upload(c.Request.Context(), middleware.GetActor(c), e.ID, input)
	detail := eventPath(e.ID)
	var uploadErr *appevent.UploadError
	switch {
	case err == nil:
		h.FlashRedirect(c, middleware.FlashSuccess, appevent.MsgFileAdded, detail)
	case errors.Is(err, appevent.ErrUploadForbidden):
		h.FlashRedirect(c, middleware.FlashError, appevent.MsgUploadForbidden, detail)
	case errors.As(err, &uploadErr):
		h.FlashRedirect(c, middleware.FlashError, uploadErr.Error(), detail)
	default:
		if verr, ok := validationErrors(err); ok {
			h.renderUploadForm(c, http.StatusBadRequest, e, form, verr)
			return
		}
		h.HandleError(c, err, appevent.MsgEventNotFound)
	}
}

// Download streams an attachment of a visible event
func (h *FileHandler) Download(c *gin.Context) {
	eventID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	fileID, ok := h.ParseID(c, "fid")
	if !ok {
		return
	}

	download, err := h.files.Download(c.Request.Context(), middleware.GetActor(c), eventID, fileID)
	if err != nil {
		h.HandleError(c, err, appevent.MsgFileUnavailable)
		return
	}
	defer download.Body.Close()

	h.SendAttachment(c, download.Filename, download.ContentType, -1, download.Body)
}

// ConfirmDelete renders the deletion confirmation of an attachment
func (h *FileHandler) ConfirmDelete(c *gin.Context) {
	e, ok := h.loadEvent(c)
	if !ok {
		return
	}
	fileID, ok := h.ParseID(c, "fid")
	if !ok {
		return
	}

	for i := range e.Files {
		if e.Files[i].ID == fileID {
			h.Render(c, http.StatusOK, PageFileConfirmDelete, gin.H{
				"Event": e,
				"File":  &e.Files[i],
			})
			return
		}
	}
	h.NotFound(c, appevent.MsgFileUnavailable)
}

// Delete removes an attachment and returns to the event page.
// A storage failure is shown as a warning next to the confirmation.
func (h *FileHandler) Delete(c *gin.Context) {
	eventID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	fileID, ok := h.ParseID(c, "fid")
	if !ok {
		return
	}

	warning, err := h.files.Delete(c.Request.Context(), middleware.GetActor(c), eventID, fileID)
	if warning != nil {
		middleware.AddFlash(c, middleware.FlashWarning, appevent.MsgStorageDeleteWarningPrefix+warning.Error())
	}
	switch {
	case err == nil:
		h.FlashRedirect(c, middleware.FlashSuccess, appevent.MsgFileDeleted, eventPath(eventID))
	case errors.Is(err, appevent.ErrDeleteForbidden):
		h.FlashRedirect(c, middleware.FlashError, appevent.MsgDeleteForbidden, eventPath(eventID))
	case errors.Is(err, shared.ErrNotFound):
		h.NotFound(c, appevent.MsgFileUnavailable)
	default:
		h.HandleError(c, err, appevent.MsgFileUnavailable)
	}
}

// loadEvent resolves the :id event through the visibility gate
func (h *FileHandler) loadEvent(c *gin.Context) (*event.Event, bool) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return nil, false
	}
	e, err := h.events.Get(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err, appevent.MsgEventNotFound)
		return nil, false
	}
	return e, true
}

func (h *FileHandler) renderUploadForm(c *gin.Context, status int, e *event.Event, form dto.FileForm, verr *shared.ValidationError) {
	h.Render(c, status, PageFileForm, gin.H{
		"Event":  e,
		"Form":   form,
		"Errors": verr,
	})
}

func eventPath(id int64) string {
	return fmt.Sprintf("/evento/%d/", id)
}
