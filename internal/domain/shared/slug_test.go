package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Programma Fiera", "programma-fiera"},
		{"Città d'Arte", "citta-darte"},
		{"  report__finale 2024 ", "report-finale-2024"},
		{"Ćevapi Šljivovica", "cevapi-sljivovica"},
		{"файл", ""},
		{"a -- b", "a-b"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}
