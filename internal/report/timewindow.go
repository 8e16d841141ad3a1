// Package report derives read-only production reports from printer and task
// state: fleet overview, per-printer utilization within a calendar window,
// and downtime.
package report

import (
	"fmt"
	"time"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

// WindowKey selects a calendar-aligned reporting range.
type WindowKey string

const (
	WindowToday     WindowKey = "today"
	WindowThisWeek  WindowKey = "thisWeek"
	WindowThisMonth WindowKey = "thisMonth"
	WindowThisYear  WindowKey = "thisYear"
)

// Window is an inclusive date range in the server's local time zone.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseProductionWindow accepts the production report vocabulary. The
// project report accepts a different set (see ParseProjectWindow); the two
// vocabularies differ upstream and stay separate here.
func ParseProductionWindow(s string) (WindowKey, error) {
	switch WindowKey(s) {
	case WindowToday, WindowThisWeek, WindowThisMonth:
		return WindowKey(s), nil
	}
	return "", fmt.Errorf("%w: report window %q (want today, thisWeek or thisMonth)", model.ErrInvalidInput, s)
}

// ParseProjectWindow accepts the project report vocabulary.
func ParseProjectWindow(s string) (WindowKey, error) {
	switch WindowKey(s) {
	case WindowThisWeek, WindowThisMonth, WindowThisYear:
		return WindowKey(s), nil
	}
	return "", fmt.Errorf("%w: report window %q (want thisWeek, thisMonth or thisYear)", model.ErrInvalidInput, s)
}

// Range resolves a window key against now. today spans midnight through
// 23:59:59.999; thisWeek starts on the ISO Monday and runs through the end
// of now's day; thisMonth and thisYear span their full calendar unit.
func Range(key WindowKey, now time.Time) Window {
	switch key {
	case WindowToday:
		return Window{Start: startOfDay(now), End: endOfDay(now)}
	case WindowThisWeek:
		offset := (int(now.Weekday()) + 6) % 7
		monday := startOfDay(now.AddDate(0, 0, -offset))
		return Window{Start: monday, End: endOfDay(now)}
	case WindowThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		last := first.AddDate(0, 1, -1)
		return Window{Start: first, End: endOfDay(last)}
	case WindowThisYear:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		last := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
		return Window{Start: first, End: endOfDay(last)}
	}
	return Window{Start: startOfDay(now), End: endOfDay(now)}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
