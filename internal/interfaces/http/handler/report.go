package handler

import (
	"errors"
	"net/http"
	"os"

	"github.com/eventi/backend/internal/application/report"
	"github.com/eventi/backend/internal/infrastructure/logger"
	"github.com/eventi/backend/internal/interfaces/http/dto"
	"github.com/eventi/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportSelectionPath is the address of the report selection page
const ReportSelectionPath = "/report/"

// ReportHandler serves the report selection page and the report downloads
type ReportHandler struct {
	BaseHandler
	reports *report.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *report.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Selection renders the exportable events with the category, country and year filters
func (h *ReportHandler) Selection(c *gin.Context) {
	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.GetGinLogger(c).Debug("Ignoring malformed report filters", zap.Error(err))
	}

	selection, err := h.reports.Selection(c.Request.Context(), middleware.GetActor(c), params.Query())
	if err != nil {
		h.InternalError(c, err)
		return
	}
	h.Render(c, http.StatusOK, PageReportSelection, gin.H{
		"Selection": selection,
		"Params":    params,
	})
}

// Generate builds the requested report and streams it as a download.
// The document is complete on disk before the first byte is sent, so any
// failure still ends in a redirect with a message.
func (h *ReportHandler) Generate(c *gin.Context) {
	var form dto.ReportForm
	if err := c.ShouldBind(&form); err != nil {
		h.FlashRedirect(c, middleware.FlashError, middleware.MsgInvalidForm, ReportSelectionPath)
		return
	}

	generated, err := h.reports.Generate(c.Request.Context(), middleware.GetActor(c), report.GenerateInput{
		EventIDs:      form.IDs(),
		Format:        form.Format,
		SaveToStorage: form.Save(),
	})
	if err != nil {
		h.generateFailed(c, err)
		return
	}
	defer h.reports.Cleanup(generated)

	f, err := os.Open(generated.Path)
	if err != nil {
		h.InternalError(c, err)
		return
	}
	defer f.Close()

	if generated.SavedKey != "" {
		middleware.AddFlash(c, middleware.FlashSuccess, report.SavedMessage(generated.SavedKey))
	}
	h.SendAttachment(c, generated.Filename, generated.ContentType, generated.Size, f)
}

func (h *ReportHandler) generateFailed(c *gin.Context, err error) {
	var genErr *report.GenerationError
	switch {
	case errors.Is(err, report.ErrNoEventsSelected), errors.Is(err, report.ErrUnsupportedFormat):
		h.FlashRedirect(c, middleware.FlashError, domainMessage(err), ReportSelectionPath)
	case errors.As(err, &genErr):
		h.FlashRedirect(c, middleware.FlashError, genErr.Message, ReportSelectionPath)
	default:
		logger.GetGinLogger(c).Error("Report generation failed", zap.Error(err))
		h.FlashRedirect(c, middleware.FlashError, report.MsgDocxFailedPrefix+err.Error(), ReportSelectionPath)
	}
}
