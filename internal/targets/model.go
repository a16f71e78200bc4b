package targets

import (
	"time"

	"github.com/google/uuid"
)

// Type selects the sales metric a target measures.
type Type string

const (
	TypeRevenue Type = "revenue"
	TypeProfit  Type = "profit"
	TypeUnits   Type = "units"
	TypeMargin  Type = "margin"
)

// Style is a display hint for clients.
type Style string

const (
	StyleProgressBar Style = "progress_bar"
	StyleRing        Style = "ring"
	StyleGauge       Style = "gauge"
	StyleNumber      Style = "number"
)

// Target is a user-defined sales goal over [StartDate, Deadline].
type Target struct {
	ID          uuid.UUID `json:"id"`
	Type        Type      `json:"type"`
	TargetValue float64   `json:"target_value"`
	StartDate   time.Time `json:"start_date"`
	Deadline    time.Time `json:"deadline"`
	Style       Style     `json:"style"`
	Label       *string   `json:"label,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Progress reports how far a target has come as of today.
type Progress struct {
	Target
	Current  float64 `json:"current"`
	Percent  float64 `json:"percent"`
	DaysLeft int     `json:"days_left"`
	Achieved bool    `json:"achieved"`
}
