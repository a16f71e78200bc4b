package suppliers

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies where stock is sourced from.
type Type string

const (
	TypeWholesale   Type = "wholesale"
	TypeRetail      Type = "retail"
	TypeIndividual  Type = "individual"
	TypeAuction     Type = "auction"
	TypeRefurbisher Type = "refurbisher"
	TypeOther       Type = "other"
)

// Supplier represents a stock source. Code is the short uppercase prefix used
// to build inventory item identifiers.
type Supplier struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Type        Type      `json:"type"`
	ContactName *string   `json:"contact_name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListFilters narrows supplier listings.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
	Active  *bool
}
