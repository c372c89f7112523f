// Package handler contains the HTML page handlers and the public JSON API.
package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	appevent "github.com/eventi/backend/internal/application/event"
	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/infrastructure/logger"
	"github.com/eventi/backend/internal/interfaces/http/dto"
	"github.com/eventi/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Page names of the HTML renderer
const (
	PageEventList          = "event_list"
	PageEventDetail        = "event_detail"
	PageEventForm          = "event_form"
	PageEventConfirmDelete = "event_confirm_delete"
	PageFileForm           = "file_form"
	PageFileConfirmDelete  = "file_confirm_delete"
	PageReportSelection    = "report_selection"
	PageReportArchive      = "report_archive"
	PageLogin              = "login"
	PageError              = "error"
)

// Messages of the error page
const (
	MsgPageNotFound  = "La pagina richiesta non esiste."
	MsgInternalError = "Si è verificato un errore interno. Riprova più tardi."
)

// ListPath is the address of the event list
const ListPath = "/"

// BaseHandler provides the rendering, redirect and error helpers of the page handlers
type BaseHandler struct{}

// Render executes a page with the actor and the pending flash messages
func (h *BaseHandler) Render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Actor"] = middleware.GetActor(c)
	data["Flashes"] = middleware.Flashes(c)
	c.HTML(status, page, data)
}

// Redirect sends a 302 to location
func (h *BaseHandler) Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// FlashRedirect queues a message and redirects to location
func (h *BaseHandler) FlashRedirect(c *gin.Context, level, text, location string) {
	middleware.AddFlash(c, level, text)
	h.Redirect(c, location)
}

// NotFound renders the 404 page
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	if message == "" {
		message = MsgPageNotFound
	}
	h.Render(c, http.StatusNotFound, PageError, gin.H{
		"Status":  http.StatusNotFound,
		"Message": message,
	})
}

// InternalError logs err and renders the 500 page
func (h *BaseHandler) InternalError(c *gin.Context, err error) {
	logger.GetGinLogger(c).Error("Request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	h.Render(c, http.StatusInternalServerError, PageError, gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": MsgInternalError,
	})
}

// HandleError answers an application error that has no page specific treatment.
// Missing login goes to the login page, denied access is flashed on the list,
// missing records get the 404 page and anything else the 500 page.
func (h *BaseHandler) HandleError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, shared.ErrUnauthorized):
		h.Redirect(c, middleware.LoginURL(c.Request.URL.RequestURI()))
	case errors.Is(err, shared.ErrForbidden):
		h.FlashRedirect(c, middleware.FlashError, domainMessage(err), ListPath)
	case errors.Is(err, shared.ErrNotFound):
		h.NotFound(c, notFoundMessage)
	default:
		h.InternalError(c, err)
	}
}

// JSONError sends the JSON error body of the public API
func (h *BaseHandler) JSONError(c *gin.Context, err error) {
	code := dto.ErrorCodeOf(err)
	status := dto.GetHTTPStatus(code)
	message := MsgInternalError
	if status < http.StatusInternalServerError {
		message = domainMessage(err)
	} else {
		logger.GetGinLogger(c).Error("API request failed", zap.Error(err))
	}
	c.JSON(status, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// ParseID reads a positive numeric path parameter; a bad value renders the 404 page
func (h *BaseHandler) ParseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		h.NotFound(c, "")
		return 0, false
	}
	return id, true
}

// SendAttachment streams body as a download named filename
func (h *BaseHandler) SendAttachment(c *gin.Context, filename, contentType string, size int64, body io.Reader) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, size, contentType, body, map[string]string{
		"Content-Disposition": ContentDisposition(filename),
	})
}

// ContentDisposition returns the attachment header value for filename
func ContentDisposition(filename string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '\r', '\n':
			return -1
		}
		return r
	}, filename)
	return fmt.Sprintf("attachment; filename=%q", clean)
}

// domainMessage returns the user facing text of an application error
func domainMessage(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

// validationErrors extracts the field messages of a failed submission
func validationErrors(err error) (*shared.ValidationError, bool) {
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// bindForm binds the submitted form into obj.
// A body over the size limit is reported on the "file" field.
func bindForm(c *gin.Context, obj any) *shared.ValidationError {
	err := c.ShouldBind(obj)
	if err == nil {
		return nil
	}
	if middleware.IsBodyTooLarge(err) {
		verr := shared.NewValidationError()
		verr.Add("file", middleware.MsgRequestTooLarge)
		return verr
	}
	return middleware.ValidationErrors(err)
}

// uploadFromForm opens the file part named field.
// It returns nil when the form carries no file; the caller closes the returned file.
func uploadFromForm(c *gin.Context, field string) (*appevent.UploadInput, multipart.File, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if header.Filename == "" {
		return nil, nil, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &appevent.UploadInput{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
		FileType:    event.DetectFileType(header.Filename),
	}, file, nil
}

// uploadFieldError maps a failure to read the file part onto the "file" field
func uploadFieldError(err error) *shared.ValidationError {
	verr := shared.NewValidationError()
	if middleware.IsBodyTooLarge(err) {
		verr.Add("file", middleware.MsgRequestTooLarge)
	} else {
		verr.Add("file", middleware.MsgInvalidForm)
	}
	return verr
}

func closeUpload(f multipart.File) {
	if f != nil {
		_ = f.Close()
	}
}
