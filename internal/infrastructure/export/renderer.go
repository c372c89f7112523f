package export

import (
	"errors"
	"io"
	"time"

	"github.com/eventi/backend/internal/domain/event"
)

// Format is a report output format as submitted by the report form
type Format string

const (
	FormatDOCX  Format = "docx"
	FormatExcel Format = "excel"
)

// Content types of the generated documents
const (
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Display layouts of report values
const (
	DateLayout      = "02/01/2006"
	TimestampLayout = "02/01/2006 15:04"
)

// Renderer writes a report document for a list of events
type Renderer interface {
	// Render writes the whole document to w
	Render(w io.Writer, events []event.Event, generatedAt time.Time) error
	// Filename returns the download name for a report generated at t
	Filename(t time.Time) string
	// ContentType returns the MIME type of the document
	ContentType() string
}

// RenderError represents an error during report rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Is matches render errors by code
func (e *RenderError) Is(target error) bool {
	var other *RenderError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// Error codes for rendering failures
const (
	ErrCodeTemplateNotFound = "TEMPLATE_NOT_FOUND"
	ErrCodeInvalidTemplate  = "INVALID_TEMPLATE"
	ErrCodeRenderFailed     = "RENDER_FAILED"
)

// ErrTemplateNotFound is matched with errors.Is when the configured template is missing
var ErrTemplateNotFound = &RenderError{Code: ErrCodeTemplateNotFound, Message: "report template not found"}

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func formatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(TimestampLayout)
}

func yesNo(b bool) string {
	if b {
		return "Sì"
	}
	return "No"
}
