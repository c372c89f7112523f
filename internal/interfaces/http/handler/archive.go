package handler

import (
	"errors"
	"net/http"

	"github.com/eventi/backend/internal/application/report"
	"github.com/eventi/backend/internal/interfaces/http/dto"
	"github.com/eventi/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ArchivePath is the address of the report archive
const ArchivePath = "/reports/files/"

// ArchiveHandler browses, downloads and deletes the archived reports
type ArchiveHandler struct {
	BaseHandler
	archive *report.ArchiveService
}

// NewArchiveHandler creates a new ArchiveHandler
func NewArchiveHandler(archive *report.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{archive: archive}
}

// List renders one page of archived reports.
// A storage failure shows an empty archive with an error message.
func (h *ArchiveHandler) List(c *gin.Context) {
	page, err := h.archive.List(c.Request.Context(), dto.ParsePage(c.Query("page")))
	if err != nil {
		middleware.AddFlash(c, middleware.FlashError, report.MsgArchiveListFailedPrefix+err.Error())
	}
	h.Render(c, http.StatusOK, PageReportArchive, gin.H{
		"Page":  page,
		"Query": c.Request.URL.Query(),
	})
}

// Download streams the archived report named by the key parameter
func (h *ArchiveHandler) Download(c *gin.Context) {
	download, err := h.archive.Download(c.Request.Context(), c.Query("key"))
	if err != nil {
		h.FlashRedirect(c, middleware.FlashError, archiveFailure(err, report.MsgArchiveDownloadFailedPrefix), ArchivePath)
		return
	}
	defer download.Body.Close()

	h.SendAttachment(c, download.Filename, download.ContentType, -1, download.Body)
}

// Delete removes the archived report named by the posted key
func (h *ArchiveHandler) Delete(c *gin.Context) {
	name, err := h.archive.Delete(c.Request.Context(), c.PostForm("key"))
	if err != nil {
		h.FlashRedirect(c, middleware.FlashError, archiveFailure(err, report.MsgArchiveDeleteFailedPrefix), ArchivePath)
		return
	}
	h.FlashRedirect(c, middleware.FlashSuccess, report.DeletedMessage(name), ArchivePath)
}

func archiveFailure(err error, prefix string) string {
	if errors.Is(err, report.ErrNoKey) {
		return report.MsgArchiveNoKey
	}
	return prefix + err.Error()
}
