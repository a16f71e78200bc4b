package shared

import (
	"fmt"
	"time"
)

// RangeKey names a reporting window over sale dates.
type RangeKey string

const (
	RangeToday     RangeKey = "today"
	RangeWeek      RangeKey = "week"
	RangeMonth     RangeKey = "month"
	RangeLastMonth RangeKey = "last_month"
	RangeAll       RangeKey = "all"
)

// DefaultRange is used when no range is requested.
const DefaultRange = RangeMonth

// RangeKeys lists every supported range in display order.
var RangeKeys = []RangeKey{RangeToday, RangeWeek, RangeMonth, RangeLastMonth, RangeAll}

// DateRange bounds sale dates inclusively. Nil bounds are open.
type DateRange struct {
	Key  RangeKey   `json:"key"`
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// ParseRangeKey validates a range name, defaulting to DefaultRange when empty.
func ParseRangeKey(raw string) (RangeKey, error) {
	if raw == "" {
		return DefaultRange, nil
	}
	for _, k := range RangeKeys {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", NewValidationError("range", fmt.Sprintf("must be one of: %s %s %s %s %s", RangeToday, RangeWeek, RangeMonth, RangeLastMonth, RangeAll))
}

// ResolveRange turns a range key into calendar bounds relative to now in loc.
//
//	today       sale_date = today
//	week        today and the six days before it
//	month       from the first of the current month
//	last_month  the whole previous calendar month
//	all         unbounded
func ResolveRange(key RangeKey, now time.Time, loc *time.Location) DateRange {
	today := CalendarDate(now, loc)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := DateRange{Key: key}
	switch key {
	case RangeToday:
		out.From, out.To = &today, &today
	case RangeWeek:
		from := today.AddDate(0, 0, -6)
		out.From = &from
	case RangeMonth:
		out.From = &firstOfMonth
	case RangeLastMonth:
		from := firstOfMonth.AddDate(0, -1, 0)
		to := firstOfMonth.AddDate(0, 0, -1)
		out.From, out.To = &from, &to
	case RangeAll:
	default:
		out.Key = DefaultRange
		out.From = &firstOfMonth
	}
	return out
}
