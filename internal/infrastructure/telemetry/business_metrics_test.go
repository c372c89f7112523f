package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := NewBusinessMetrics(BusinessMetricsConfig{Logger: zap.NewNop()})

	require.Error(t, err)
	assert.Nil(t, bm)
	assert.Equal(t, "NewBusinessMetrics: meter cannot be nil", err.Error())
}

func TestBusinessMetrics_NoopMeter(t *testing.T) {
	bm, err := NewBusinessMetrics(BusinessMetricsConfig{Meter: noop.NewMeterProvider().Meter("test")})
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordEventCreated(ctx, "fiera", "belgrado")
	bm.RecordFileUploaded(ctx, "PDF", 1024)
	bm.RecordReportGenerated(ctx, "docx", false, time.Second, nil)
}

func TestBusinessMetrics_NilReceiver(t *testing.T) {
	var bm *BusinessMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		bm.RecordEventCreated(ctx, "fiera", "belgrado")
		bm.RecordEventDeleted(ctx)
		bm.RecordFileUploaded(ctx, "PDF", 10)
		bm.RecordFileDeleted(ctx)
		bm.RecordReportGenerated(ctx, "excel", true, time.Second, nil)
		bm.RecordArchiveOperation(ctx, "list", nil)
		bm.RecordLogin(ctx, nil)
	})
}

func TestBusinessMetrics_Counters(t *testing.T) {
	provider, reader := newTestMeter(t)
	bm, err := NewBusinessMetrics(BusinessMetricsConfig{Meter: provider.Meter("test")})
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordEventCreated(ctx, "fiera", "belgrado")
	bm.RecordEventCreated(ctx, "fiera", "roma")
	bm.RecordEventCreated(ctx, "b2b", "belgrado")
	bm.RecordEventDeleted(ctx)
	bm.RecordFileUploaded(ctx, "PDF", 2048)
	bm.RecordFileDeleted(ctx)
	bm.RecordReportGenerated(ctx, "excel", true, 300*time.Millisecond, nil)
	bm.RecordReportGenerated(ctx, "docx", false, time.Second, errors.New("boom"))
	bm.RecordArchiveOperation(ctx, "delete", nil)
	bm.RecordLogin(ctx, errors.New("bad password"))
	bm.RecordLogin(ctx, nil)

	assert.Equal(t, int64(3), counterValue(t, reader, "events_created_total"))
	assert.Equal(t, int64(2), counterValue(t, reader, "events_created_total", AttrCategoria.String("fiera")))
	assert.Equal(t, int64(2), counterValue(t, reader, "events_created_total", AttrOffice.String("belgrado")))
	assert.Equal(t, int64(1), counterValue(t, reader, "events_deleted_total"))
	assert.Equal(t, int64(1), counterValue(t, reader, "event_files_uploaded_total", AttrFileType.String("PDF")))
	assert.Equal(t, int64(1), counterValue(t, reader, "event_files_deleted_total"))
	assert.Equal(t, int64(1), counterValue(t, reader, "reports_generated_total",
		AttrReportFormat.String("excel"), AttrReportSaved.Bool(true), AttrOutcome.String("success")))
	assert.Equal(t, int64(1), counterValue(t, reader, "reports_generated_total",
		AttrReportFormat.String("docx"), AttrOutcome.String("error")))
	assert.Equal(t, int64(1), counterValue(t, reader, "report_archive_operations_total", AttrOperation.String("delete")))
	assert.Equal(t, int64(1), counterValue(t, reader, "logins_total", AttrOutcome.String("error")))
	assert.Equal(t, int64(1), counterValue(t, reader, "logins_total", AttrOutcome.String("success")))

	m, ok := collectMetric(t, reader, "event_file_upload_size_bytes")
	require.True(t, ok)
	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.Equal(t, 2048.0, hist.DataPoints[0].Sum)
}
