package s1_cleaning

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain integer", "1000", 1000},
		{"decimal comma", "10,5", 10.5},
		{"thousands and decimal", "1.234,56", 1234.56},
		{"millions", "12.345.678,90", 12345678.90},
		{"zero", "0,00", 0},
		{"negative", "-1.500,25", -1500.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, parseAmount(tt.input), 1e-9)
		})
	}
}

func TestParseAmount_UnparsableIsNaN(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "1,2,3", "N/A"} {
		assert.True(t, math.IsNaN(parseAmount(input)), "input %q", input)
	}
}

func TestParseOperationCount(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		want         int32
		wantSentinel bool
		wantCoerced  bool
	}{
		{"plain count", "42", 42, false, false},
		{"sentinel", "<= 15", 15, true, false},
		{"sentinel padded", "  <= 15  ", 15, true, false},
		{"empty coerces to zero", "", 0, false, true},
		{"garbage coerces to zero", "muitas", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, sentinel, coerced := parseOperationCount(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSentinel, sentinel)
			assert.Equal(t, tt.wantCoerced, coerced)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"2024-05-01", "01/05/2024", "2024-05"} {
		got, ok := parseDate(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, got)
	}

	_, ok := parseDate("2024/05/01")
	assert.False(t, ok)
}
