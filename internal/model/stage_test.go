package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStage(t *testing.T) {
	tests := []struct {
		in   string
		want Stage
	}{
		{"pending", StagePending},
		{"in_progress", StageInProgress},
		{"IN_REVIEW", StageInReview},
		{"  paused  ", StagePaused},
		{"Completed", StageCompleted},
		{"cancelled", StageCancelled},
	}
	for _, tt := range tests {
		got, err := ParseStage(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseStageRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "done", "in progress", "canceled"} {
		_, err := ParseStage(in)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %q", in)
	}
}

func TestStageCompleted(t *testing.T) {
	assert.True(t, StageCompleted.Completed())
	assert.True(t, Stage("COMPLETED").Completed())
	assert.False(t, StageInProgress.Completed())
	assert.False(t, Stage("").Completed())
}

func TestParsePrinterStatus(t *testing.T) {
	got, err := ParsePrinterStatus("active")
	require.NoError(t, err)
	assert.Equal(t, PrinterActive, got)

	_, err = ParsePrinterStatus("broken")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
