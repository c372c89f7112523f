package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/eventi/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Health(t *testing.T) {
	env := newTestEnv(t)

	t.Run("healthy", func(t *testing.T) {
		w := env.get(t, "/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "connected", resp.Database)
		assert.Equal(t, "test", resp.Version)
	})

	t.Run("database down", func(t *testing.T) {
		env.pinger.err = errors.New("connection refused")
		t.Cleanup(func() { env.pinger.err = nil })

		w := env.get(t, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp dto.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "disconnected", resp.Database)
	})
}

func TestContentDisposition(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"plain", "report.xlsx", `attachment; filename="report.xlsx"`},
		{"spaces kept", "scheda tecnica.pdf", `attachment; filename="scheda tecnica.pdf"`},
		{"quotes removed", `a"b.pdf`, `attachment; filename="ab.pdf"`},
		{"header injection removed", "a\r\nSet-Cookie: x.pdf", `attachment; filename="aSet-Cookie: x.pdf"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentDisposition(tt.filename))
		})
	}
}
