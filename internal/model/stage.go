package model

import (
	"fmt"
	"strings"
)

// Stage names a workflow stage. It is used both as a task's workflow status
// and as the stage key of a progress log, so the two always compare with the
// same vocabulary.
type Stage string

const (
	StagePending    Stage = "pending"
	StageInProgress Stage = "in_progress"
	StageInReview   Stage = "in_review"
	StagePaused     Stage = "paused"
	StageCompleted  Stage = "completed"
	StageCancelled  Stage = "cancelled"
)

// ParseStage normalizes a free-form stage string. Matching is
// case-insensitive; unknown values are rejected with ErrInvalidInput.
func ParseStage(s string) (Stage, error) {
	switch Stage(strings.ToLower(strings.TrimSpace(s))) {
	case StagePending:
		return StagePending, nil
	case StageInProgress:
		return StageInProgress, nil
	case StageInReview:
		return StageInReview, nil
	case StagePaused:
		return StagePaused, nil
	case StageCompleted:
		return StageCompleted, nil
	case StageCancelled:
		return StageCancelled, nil
	}
	return "", fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, s)
}

// Completed reports whether the stage counts as done for progress-rate
// purposes. Comparison is case-insensitive so raw database values that
// predate normalization still match.
func (s Stage) Completed() bool {
	return strings.EqualFold(string(s), string(StageCompleted))
}
