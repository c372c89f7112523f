package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetricsConfig holds the dependencies of BusinessMetrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// BusinessMetrics records domain level counters: events, attachments,
// reports, archive operations and logins.
//
// All record methods are safe on a nil receiver so services can hold an
// optional collector without guarding every call.
type BusinessMetrics struct {
	eventsCreated     *Counter
	eventsDeleted     *Counter
	filesUploaded     *Counter
	fileUploadBytes   *Histogram
	filesDeleted      *Counter
	reportsGenerated  *Counter
	reportDuration    *Histogram
	archiveOperations *Counter
	logins            *Counter
	logger            *zap.Logger
}

// NewBusinessMetrics creates the domain instruments.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, errors.New("NewBusinessMetrics: meter cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &BusinessMetrics{logger: logger}
	var err error
	if m.eventsCreated, err = NewCounter(cfg.Meter, "events_created_total",
		"Events created, by categoria and office", "{event}"); err != nil {
		return nil, err
	}
	if m.eventsDeleted, err = NewCounter(cfg.Meter, "events_deleted_total",
		"Events deleted", "{event}"); err != nil {
		return nil, err
	}
	if m.filesUploaded, err = NewCounter(cfg.Meter, "event_files_uploaded_total",
		"Attachments uploaded, by file type", "{file}"); err != nil {
		return nil, err
	}
	if m.fileUploadBytes, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "event_file_upload_size_bytes",
		Description: "Size of uploaded attachments",
		Unit:        "By",
		Boundaries:  FileSizeBuckets,
	}); err != nil {
		return nil, err
	}
	if m.filesDeleted, err = NewCounter(cfg.Meter, "event_files_deleted_total",
		"Attachments deleted", "{file}"); err != nil {
		return nil, err
	}
	if m.reportsGenerated, err = NewCounter(cfg.Meter, "reports_generated_total",
		"Reports generated, by format, storage save and outcome", "{report}"); err != nil {
		return nil, err
	}
	if m.reportDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "report_generation_duration_seconds",
		Description: "Time spent rendering a report",
		Unit:        "s",
		Boundaries:  ReportDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.archiveOperations, err = NewCounter(cfg.Meter, "report_archive_operations_total",
		"Report archive list, download and delete calls, by outcome", "{operation}"); err != nil {
		return nil, err
	}
	if m.logins, err = NewCounter(cfg.Meter, "logins_total",
		"Login attempts, by outcome", "{attempt}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordEventCreated counts a new event.
func (m *BusinessMetrics) RecordEventCreated(ctx context.Context, categoria, office string) {
	if m == nil {
		return
	}
	m.eventsCreated.Inc(ctx, AttrCategoria.String(categoria), AttrOffice.String(office))
}

// RecordEventDeleted counts a deleted event.
func (m *BusinessMetrics) RecordEventDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.eventsDeleted.Inc(ctx)
}

// RecordFileUploaded counts an attachment and records its size.
func (m *BusinessMetrics) RecordFileUploaded(ctx context.Context, fileType string, size int64) {
	if m == nil {
		return
	}
	m.filesUploaded.Inc(ctx, AttrFileType.String(fileType))
	if size > 0 {
		m.fileUploadBytes.Record(ctx, float64(size), AttrFileType.String(fileType))
	}
}

// RecordFileDeleted counts a deleted attachment.
func (m *BusinessMetrics) RecordFileDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.filesDeleted.Inc(ctx)
}

// RecordReportGenerated counts a generation attempt and its render time.
func (m *BusinessMetrics) RecordReportGenerated(ctx context.Context, format string, saved bool, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := AttrOutcome.String(outcomeOf(err))
	m.reportsGenerated.Inc(ctx, AttrReportFormat.String(format), AttrReportSaved.Bool(saved), outcome)
	m.reportDuration.RecordDuration(ctx, duration, AttrReportFormat.String(format), outcome)
}

// RecordArchiveOperation counts a list, download or delete on the archive.
func (m *BusinessMetrics) RecordArchiveOperation(ctx context.Context, operation string, err error) {
	if m == nil {
		return
	}
	m.archiveOperations.Inc(ctx, AttrOperation.String(operation), AttrOutcome.String(outcomeOf(err)))
}

// RecordLogin counts a login attempt.
func (m *BusinessMetrics) RecordLogin(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.logins.Inc(ctx, AttrOutcome.String(outcomeOf(err)))
}

func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
