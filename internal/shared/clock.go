package shared

import (
	"context"
	"log/slog"
	"time"
)

// CalendarDate returns the calendar day t falls on in loc, as midnight UTC.
// DATE columns scan as midnight UTC, so the result compares directly with them.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b. Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Invalidator is notified after writes that change dashboard inputs.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// NotifyChanged bumps the invalidator, logging instead of failing the write.
func NotifyChanged(ctx context.Context, inv Invalidator, logger *slog.Logger) {
	if inv == nil {
		return
	}
	if err := inv.Bump(ctx); err != nil && logger != nil {
		logger.Warn("dashboard cache bump failed", slog.Any("error", err))
	}
}
