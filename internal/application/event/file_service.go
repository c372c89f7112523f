package event

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Flash messages of the attachment pages
const (
	MsgFileAdded                  = "File aggiunto con successo."
	MsgFileDeleted                = "File eliminato con successo."
	MsgFileUnavailable            = "Il file richiesto non è disponibile."
	MsgDeleteForbidden            = "Non hai i permessi per eliminare questo file."
	MsgUploadFailedPrefix         = "Si è verificato un errore durante il caricamento del file: "
	MsgStorageDeleteWarningPrefix = "Errore durante l'eliminazione del file dal storage: "
)

// DefaultEventFilesPrefix is the object key prefix of attachments
const DefaultEventFilesPrefix = "event_files"

// maxKeyAttempts bounds the search for a free object key
const maxKeyAttempts = 5

var (
	// ErrUploadForbidden is returned when the actor may not attach files to the event
	ErrUploadForbidden = shared.NewDomainError("FORBIDDEN", MsgUploadForbidden)
	// ErrDeleteForbidden is returned when the actor may not delete the attachment
	ErrDeleteForbidden = shared.NewDomainError("FORBIDDEN", MsgDeleteForbidden)
	// ErrFileUnavailable is returned when the attachment or its object cannot be read
	ErrFileUnavailable = shared.NewDomainError("NOT_FOUND", MsgFileUnavailable)
)

// UploadError wraps a storage failure during an upload
type UploadError struct {
	Cause error
}

func (e *UploadError) Error() string {
	return MsgUploadFailedPrefix + e.Cause.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}

// FileService stores, serves and removes event attachments
type FileService struct {
	events  event.EventRepository
	files   event.EventFileRepository
	storage shared.ObjectStorage
	prefix  string
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
}

// NewFileService creates a new attachment service.
// An empty prefix uses DefaultEventFilesPrefix.
func NewFileService(
	events event.EventRepository,
	files event.EventFileRepository,
	storage shared.ObjectStorage,
	prefix string,
	logger *zap.Logger,
) *FileService {
	if prefix == "" {
		prefix = DefaultEventFilesPrefix
	}
	return &FileService{
		events:  events,
		files:   files,
		storage: storage,
		prefix:  strings.TrimSuffix(prefix, "/"),
		logger:  logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *FileService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Upload attaches a file to an event the actor may modify
func (s *FileService) Upload(ctx context.Context, actor event.Actor, eventID int64, input UploadInput) (*event.EventFile, error) {
	if !actor.Authenticated {
		return nil, shared.ErrUnauthorized
	}
	e, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(e) {
		return nil, ErrUploadForbidden
	}
	return s.store(ctx, actor, e.ID, input)
}

// store writes the object under a free key, then records it.
// The object is removed again when the record cannot be saved.
func (s *FileService) store(ctx context.Context, actor event.Actor, eventID int64, input UploadInput) (f *event.EventFile, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "event_file", "store", telemetry.SpanAttrEventID, eventID)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if input.Body == nil || input.Filename == "" {
		verr := shared.NewValidationError()
		verr.Add("file", event.MsgRequired)
		return nil, verr
	}

	key, err := s.freeKey(ctx, eventID, input.Filename)
	if err != nil {
		return nil, &UploadError{Cause: err}
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = event.TitleFromFilename(input.Filename)
	}
	f, err = event.NewEventFile(eventID, key, title, input.FileType, input.Description, actor.UserID)
	if err != nil {
		return nil, err
	}

	contentType := input.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = ContentTypeFor(key)
	}
	if err := s.storage.Put(ctx, key, input.Body, input.Size, contentType); err != nil {
		s.logger.Error("Failed to upload attachment",
			zap.Int64("event_id", eventID),
			zap.String("key", key),
			zap.Error(err))
		return nil, &UploadError{Cause: err}
	}

	if err := s.files.Create(ctx, f); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Failed to remove orphaned object",
				zap.String("key", key),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrFileID, f.ID, telemetry.SpanAttrStorageKey, key)
	s.logger.Info("Attachment uploaded",
		zap.Int64("event_id", eventID),
		zap.Int64("file_id", f.ID),
		zap.String("key", key))
	s.metrics.RecordFileUploaded(ctx, string(f.FileType), input.Size)
	return f, nil
}

// freeKey returns the attachment key of filename, suffixed when already taken
func (s *FileService) freeKey(ctx context.Context, eventID int64, filename string) (string, error) {
	base := event.FileKey(s.prefix, eventID, filename)
	key := base
	for range maxKeyAttempts {
		exists, err := s.storage.Exists(ctx, key)
		if err != nil {
			return "", err
		}
		if !exists {
			return key, nil
		}
		key = event.WithKeySuffix(base, uuid.NewString()[:7])
	}
	return "", fmt.Errorf("no free key for %s", base)
}

// Download opens an attachment of an event the actor may see
func (s *FileService) Download(ctx context.Context, actor event.Actor, eventID, fileID int64) (*FileDownload, error) {
	e, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrFileUnavailable
		}
		return nil, err
	}
	if !actor.CanView(e) {
		return nil, ErrViewForbidden
	}

	f, err := s.files.FindByID(ctx, eventID, fileID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrFileUnavailable
		}
		return nil, err
	}

	body, err := s.storage.Get(ctx, f.Key)
	if err != nil {
		s.logger.Warn("Attachment not readable",
			zap.Int64("file_id", f.ID),
			zap.String("key", f.Key),
			zap.Error(err))
		return nil, ErrFileUnavailable
	}
	return &FileDownload{
		Filename:    f.Filename(),
		ContentType: ContentTypeFor(f.Key),
		Body:        body,
	}, nil
}

// Delete removes an attachment: the object first, then the record.
// A storage failure is returned as warning and does not stop the deletion.
func (s *FileService) Delete(ctx context.Context, actor event.Actor, eventID, fileID int64) (warning error, err error) {
	if !actor.Authenticated {
		return nil, shared.ErrUnauthorized
	}
	f, err := s.files.FindByID(ctx, eventID, fileID)
	if err != nil {
		return nil, err
	}
	e, err := s.events.FindByID(ctx, f.EventID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(e) {
		return nil, ErrDeleteForbidden
	}

	if delErr := s.storage.Delete(ctx, f.Key); delErr != nil {
		s.logger.Warn("Failed to delete attachment from storage",
			zap.Int64("file_id", f.ID),
			zap.String("key", f.Key),
			zap.Error(delErr))
		warning = delErr
	}

	if err := s.files.Delete(ctx, f.ID); err != nil {
		return warning, fmt.Errorf("failed to delete attachment: %w", err)
	}

	s.logger.Info("Attachment deleted",
		zap.Int64("event_id", eventID),
		zap.Int64("file_id", f.ID),
		zap.String("username", actor.Username))
	s.metrics.RecordFileDeleted(ctx)
	return warning, nil
}

// ContentTypeFor guesses the MIME type of an object key from its extension
func ContentTypeFor(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".pdf":
		return "application/pdf"
	}
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
