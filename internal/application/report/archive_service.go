package report

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/infrastructure/export"
	"github.com/eventi/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Messages of the archive page
const (
	MsgArchiveListFailedPrefix     = "Errore nel recupero dei file: "
	MsgArchiveDownloadFailedPrefix = "Errore nel download del file: "
	MsgArchiveDeleteFailedPrefix   = "Errore nell'eliminazione del file: "
	MsgArchiveNoKey                = "Nessun file specificato."
	MsgArchiveDeletedTemplate      = "File '%s' eliminato con successo."
)

// ErrNoKey is returned when no object key was submitted
var ErrNoKey = shared.NewDomainError("INVALID_INPUT", MsgArchiveNoKey)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// ArchiveService browses the reports saved in object storage
type ArchiveService struct {
	storage shared.ObjectStorage
	prefix  string
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
}

// NewArchiveService creates a new archive service.
// An empty prefix uses DefaultReportsPrefix.
func NewArchiveService(storage shared.ObjectStorage, prefix string, logger *zap.Logger) *ArchiveService {
	if prefix == "" {
		prefix = DefaultReportsPrefix
	}
	return &ArchiveService{
		storage: storage,
		prefix:  strings.TrimSuffix(prefix, "/") + "/",
		logger:  logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *ArchiveService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// List returns one page of archived reports, newest first.
// On a storage failure it returns an empty page along with the error.
func (s *ArchiveService) List(ctx context.Context, page int) (shared.Paginated[ArchivedReport], error) {
	objects, err := s.storage.List(ctx, s.prefix)
	s.metrics.RecordArchiveOperation(ctx, "list", err)
	if err != nil {
		s.logger.Warn("Failed to list archived reports",
			zap.String("prefix", s.prefix),
			zap.Error(err))
		return shared.Paginate([]ArchivedReport{}, 1, event.ReportArchivePageSize), err
	}

	reports := make([]ArchivedReport, 0, len(objects))
	for _, obj := range objects {
		if obj.Key == s.prefix {
			continue
		}
		reports = append(reports, ArchivedReport{
			Key:          obj.Key,
			Name:         path.Base(obj.Key),
			Size:         obj.Size,
			SizeDisplay:  FormatSize(obj.Size),
			LastModified: obj.LastModified,
		})
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].LastModified.After(reports[j].LastModified)
	})

	return shared.Paginate(reports, page, event.ReportArchivePageSize), nil
}

// Download opens an archived report
func (s *ArchiveService) Download(ctx context.Context, key string) (*ArchiveDownload, error) {
	key, err := s.normalizeKey(key)
	if err != nil {
		return nil, err
	}
	body, err := s.storage.Get(ctx, key)
	s.metrics.RecordArchiveOperation(ctx, "download", err)
	if err != nil {
		s.logger.Warn("Failed to download archived report",
			zap.String("key", key),
			zap.Error(err))
		return nil, err
	}
	return &ArchiveDownload{
		Filename:    path.Base(key),
		ContentType: archiveContentType(key),
		Body:        body,
	}, nil
}

// Delete removes an archived report and returns its file name
func (s *ArchiveService) Delete(ctx context.Context, key string) (string, error) {
	key, err := s.normalizeKey(key)
	if err != nil {
		return "", err
	}
	err = s.storage.Delete(ctx, key)
	s.metrics.RecordArchiveOperation(ctx, "delete", err)
	if err != nil {
		s.logger.Warn("Failed to delete archived report",
			zap.String("key", key),
			zap.Error(err))
		return "", err
	}
	s.logger.Info("Archived report deleted", zap.String("key", key))
	return path.Base(key), nil
}

// DeletedMessage returns the flash message confirming a deletion
func DeletedMessage(name string) string {
	return fmt.Sprintf(MsgArchiveDeletedTemplate, name)
}

// normalizeKey prefixes bare file names with the archive prefix
func (s *ArchiveService) normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrNoKey
	}
	if !strings.HasPrefix(key, s.prefix) {
		key = s.prefix + strings.TrimPrefix(key, "/")
	}
	return key, nil
}

// FormatSize renders a byte count with two decimals in base-1024 units
func FormatSize(size int64) string {
	value := float64(size)
	unit := sizeUnits[0]
	for _, u := range sizeUnits[1:] {
		if value < 1024 {
			break
		}
		value /= 1024
		unit = u
	}
	return humanize.FormatFloat("#.##", value) + " " + unit
}

func archiveContentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".xlsx":
		return export.ContentTypeXLSX
	case ".docx":
		return export.ContentTypeDOCX
	default:
		return "application/octet-stream"
	}
}
