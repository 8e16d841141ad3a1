// Package progress computes schedule-adherence rates: how task completion
// compares against the elapsed-time expectation of each time-boxed progress
// stage.
package progress

import (
	"math"
	"time"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

// Round rounds v half away from zero to the given number of decimal places.
// The API reports project rates at 4 places and aggregates at 2; the
// asymmetry comes from the upstream product and is kept per call site.
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// LogRate computes the [0,1] rate for a single progress log at now. The
// second return is false when the log does not contribute: missing dates or
// a due date before the start date. A zero-length window counts as fully
// expected rather than dividing by zero.
func LogRate(log model.ProgressLog, tasks []model.Task, now time.Time) (float64, bool) {
	if log.StartDate == nil || log.DueDate == nil || log.DueDate.Before(*log.StartDate) {
		return 0, false
	}
	total := log.DueDate.Sub(*log.StartDate)
	passed := now.Sub(*log.StartDate)
	if passed < 0 {
		passed = 0
	}
	if passed > total {
		passed = total
	}
	expected := 1.0
	if total > 0 {
		expected = math.Min(float64(passed)/float64(total), 1.0)
	}

	var actual float64
	if len(tasks) > 0 {
		completed := 0
		for _, t := range tasks {
			if t.Status.Completed() {
				completed++
			}
		}
		actual = float64(completed) / float64(len(tasks))
	} else if log.IsCompleted {
		actual = 1.0
	}

	if expected == 0 {
		return 0, true
	}
	return math.Min(actual/expected, 1.0), true
}

// ProjectRate averages the contributing log rates of one project. A project
// with no contributing logs is 0.0, never NaN.
func ProjectRate(logs []model.ProgressLog, tasksByLog map[string][]model.Task, now time.Time) float64 {
	var sum float64
	count := 0
	for _, log := range logs {
		rate, ok := LogRate(log, tasksByLog[log.ID], now)
		if !ok {
			continue
		}
		sum += rate
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// MeanRate averages per-project rates into an organization-wide figure,
// returning 0 with no projects.
func MeanRate(rates []float64) float64 {
	if len(rates) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rates {
		sum += r
	}
	return sum / float64(len(rates))
}
