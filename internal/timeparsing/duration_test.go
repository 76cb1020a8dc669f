package timeparsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompactDuration(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "+6h", want: time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)},
		{input: "+1d", want: time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)},
		{input: "-2w", want: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{input: "3m", want: time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)},
		{input: "-1y", want: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)},
		{input: "+365d", want: time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)},
		{input: "6h+", wantErr: true},
		{input: "++1d", wantErr: true},
		{input: "1x", wantErr: true},
		{input: "", wantErr: true},
		{input: "6", wantErr: true},
		{input: "+ 6h", wantErr: true},
		{input: "2025-01-15", wantErr: true},
		{input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCompactDuration(tt.input, now)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, IsCompactDuration(tt.input))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			assert.True(t, IsCompactDuration(tt.input))
		})
	}
}

func TestParseCompactDuration_LeapYear(t *testing.T) {
	feb28 := time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC)
	got, err := ParseCompactDuration("+1d", feb28)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), got)
}

func TestParseSince(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2w", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"-2w", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"+1d", time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)},
		{"3d", time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSince(tt.input, now)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}

	got, err := ParseSince("2025-01-20", now)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Day())

	_, err = ParseSince("definitely not a time", now)
	assert.Error(t, err)
}
