package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/infrastructure/export"
	"github.com/eventi/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Flash messages of the report pages
const (
	MsgNoEventsSelected    = "Seleziona almeno un evento da esportare."
	MsgUnsupportedFormat   = "Formato non supportato."
	MsgTemplateNotFound    = "Template di report non trovato."
	MsgDocxFailedPrefix    = "Errore nella generazione del report: "
	MsgExcelFailedPrefix   = "Errore nella generazione del report Excel: "
	MsgReportSavedTemplate = "Report salvato con successo nel cloud storage come '%s'"
)

// DefaultReportsPrefix is the object key prefix of archived reports
const DefaultReportsPrefix = "reports"

var (
	// ErrNoEventsSelected is returned when no selected event is visible to the actor
	ErrNoEventsSelected = shared.NewDomainError("INVALID_INPUT", MsgNoEventsSelected)
	// ErrUnsupportedFormat is returned for an unknown export_format
	ErrUnsupportedFormat = shared.NewDomainError("INVALID_INPUT", MsgUnsupportedFormat)
)

// GenerationError is a report that could not be produced.
// Its message is shown to the user as is.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ReportServiceOption configures a ReportService
type ReportServiceOption func(*ReportService)

// WithTempDir sets the directory of report temp files
func WithTempDir(dir string) ReportServiceOption {
	return func(s *ReportService) {
		s.tempDir = dir
	}
}

// WithReportsPrefix sets the object key prefix of saved reports
func WithReportsPrefix(prefix string) ReportServiceOption {
	return func(s *ReportService) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithClock overrides the time source used for filenames and report dates
func WithClock(now func() time.Time) ReportServiceOption {
	return func(s *ReportService) {
		s.now = now
	}
}

// ReportService selects events and exports them as Word or Excel documents
type ReportService struct {
	events    event.EventRepository
	renderers map[export.Format]export.Renderer
	storage   shared.ObjectStorage
	tempDir   string
	prefix    string
	now       func() time.Time
	metrics   *telemetry.BusinessMetrics
	logger    *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(
	events event.EventRepository,
	docx export.Renderer,
	xlsx export.Renderer,
	storage shared.ObjectStorage,
	logger *zap.Logger,
	opts ...ReportServiceOption,
) *ReportService {
	s := &ReportService{
		events: events,
		renderers: map[export.Format]export.Renderer{
			export.FormatDOCX:  docx,
			export.FormatExcel: xlsx,
		},
		storage: storage,
		prefix:  DefaultReportsPrefix,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetBusinessMetrics sets the business metrics collector
func (s *ReportService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Selection lists the events the actor may export, with the filter choices
func (s *ReportService) Selection(ctx context.Context, actor event.Actor, query event.ReportQuery) (*Selection, error) {
	scope := actor.Scope()

	events, err := s.events.FindForReport(ctx, scope, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load report events: %w", err)
	}
	years, err := s.events.ReportYears(ctx, scope, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load report years: %w", err)
	}

	return &Selection{
		Events:    events,
		Years:     years,
		Query:     query,
		Categorie: event.CategoriaChoices(),
		Paesi:     event.PaeseChoices(),
	}, nil
}

// Generate renders the selected events into a temp file.
// The file is complete when Generate returns, so a failure never reaches the response.
func (s *ReportService) Generate(ctx context.Context, actor event.Actor, input GenerateInput) (*GeneratedReport, error) {
	if len(input.EventIDs) == 0 {
		return nil, ErrNoEventsSelected
	}
	format := export.Format(input.Format)
	renderer, ok := s.renderers[format]
	if !ok || renderer == nil {
		return nil, ErrUnsupportedFormat
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "generate",
		telemetry.SpanAttrReportFormat, input.Format,
		telemetry.SpanAttrEventCount, len(input.EventIDs))
	defer span.End()

	start := time.Now()
	report, err := s.generate(ctx, actor, renderer, input)
	s.metrics.RecordReportGenerated(ctx, input.Format, report != nil && report.SavedKey != "", time.Since(start), err)
	telemetry.RecordError(span, err)
	return report, err
}

func (s *ReportService) generate(ctx context.Context, actor event.Actor, renderer export.Renderer, input GenerateInput) (*GeneratedReport, error) {
	format := export.Format(input.Format)
	events, err := s.events.FindByIDs(ctx, actor.Scope(), input.EventIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load report events: %w", err)
	}
	if len(events) == 0 {
		return nil, ErrNoEventsSelected
	}

	generatedAt := s.now()
	report, err := s.render(renderer, events, generatedAt)
	if err != nil {
		return nil, s.generationError(format, err)
	}

	s.logger.Info("Report generated",
		zap.String("format", string(format)),
		zap.Int("events", len(events)),
		zap.String("username", actor.Username),
		zap.Int64("size", report.Size))

	if format == export.FormatExcel && input.SaveToStorage {
		key, err := s.save(ctx, report)
		if err != nil {
			s.Cleanup(report)
			return nil, s.generationError(format, err)
		}
		report.SavedKey = key
	}
	return report, nil
}

// render writes the whole document to a new temp file
func (s *ReportService) render(renderer export.Renderer, events []event.Event, generatedAt time.Time) (*GeneratedReport, error) {
	filename := renderer.Filename(generatedAt)
	tmp, err := os.CreateTemp(s.tempDir, "eventi-*-"+filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	report := &GeneratedReport{
		Path:        tmp.Name(),
		Filename:    filename,
		ContentType: renderer.ContentType(),
	}

	renderErr := renderer.Render(tmp, events, generatedAt)
	closeErr := tmp.Close()
	if err := errors.Join(renderErr, closeErr); err != nil {
		s.Cleanup(report)
		return nil, err
	}

	info, err := os.Stat(report.Path)
	if err != nil {
		s.Cleanup(report)
		return nil, fmt.Errorf("failed to stat report: %w", err)
	}
	report.Size = info.Size()
	return report, nil
}

// save uploads a copy of the report under the reports prefix
func (s *ReportService) save(ctx context.Context, report *GeneratedReport) (string, error) {
	f, err := os.Open(report.Path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := s.prefix + "/" + report.Filename
	if err := s.storage.Put(ctx, key, f, report.Size, report.ContentType); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	s.logger.Info("Report saved to storage", zap.String("key", key))
	return key, nil
}

// Cleanup removes the temp file of a report; failures are only logged
func (s *ReportService) Cleanup(report *GeneratedReport) {
	if report == nil || report.Path == "" {
		return
	}
	if err := os.Remove(report.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Failed to remove report temp file",
			zap.String("path", report.Path),
			zap.Error(err))
	}
}

// SavedMessage returns the flash message confirming an archived copy
func SavedMessage(key string) string {
	return fmt.Sprintf(MsgReportSavedTemplate, key)
}

func (s *ReportService) generationError(format export.Format, err error) error {
	s.logger.Error("Report generation failed",
		zap.String("format", string(format)),
		zap.Error(err))

	if format == export.FormatExcel {
		return &GenerationError{Message: MsgExcelFailedPrefix + err.Error(), Cause: err}
	}
	if errors.Is(err, export.ErrTemplateNotFound) {
		return &GenerationError{Message: MsgTemplateNotFound, Cause: err}
	}
	return &GenerationError{Message: MsgDocxFailedPrefix + err.Error(), Cause: err}
}
