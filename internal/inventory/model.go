package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a unit.
type Status string

const (
	StatusInStock     Status = "in_stock"
	StatusSold        Status = "sold"
	StatusReserved    Status = "reserved"
	StatusReturned    Status = "returned"
	StatusDOA         Status = "doa"
	StatusPersonalUse Status = "personal_use"
)

// Grade is the cosmetic condition grade.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Item is a single physical unit held for resale.
type Item struct {
	ID                 uuid.UUID  `json:"id"`
	ItemID             string     `json:"item_id"`
	SupplierID         uuid.UUID  `json:"supplier_id"`
	SupplierCode       string     `json:"supplier_code,omitempty"`
	SupplierName       string     `json:"supplier_name,omitempty"`
	SupplierItemNumber string     `json:"supplier_item_number"`
	PurchaseOrderID    *uuid.UUID `json:"purchase_order_id,omitempty"`
	Model              string     `json:"model"`
	ScreenSize         *string    `json:"screen_size,omitempty"`
	Chip               *string    `json:"chip,omitempty"`
	RAM                *string    `json:"ram,omitempty"`
	Storage            *string    `json:"storage,omitempty"`
	Year               *int       `json:"year,omitempty"`
	ConditionGrade     *Grade     `json:"condition_grade,omitempty"`
	ConditionSummary   *string    `json:"condition_summary,omitempty"`
	PurchaseCost       float64    `json:"purchase_cost"`
	PurchaseDate       time.Time  `json:"purchase_date"`
	Status             Status     `json:"status"`
	SoldDate           *time.Time `json:"sold_date,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ListFilters narrows inventory listings.
type ListFilters struct {
	Page            int
	Limit           int
	Search          string
	SortBy          string
	SortDir         string
	Status          Status
	SupplierID      *uuid.UUID
	PurchaseOrderID *uuid.UUID
}

// StaleItem is an in-stock unit held past the stale threshold.
type StaleItem struct {
	ID           uuid.UUID `json:"id"`
	ItemID       string    `json:"item_id"`
	Model        string    `json:"model"`
	PurchaseCost float64   `json:"purchase_cost"`
	PurchaseDate time.Time `json:"purchase_date"`
	DaysHeld     int       `json:"days_held"`
}

// BuildItemID derives the unit identifier from the supplier code and the
// supplier's own item number.
func BuildItemID(supplierCode, supplierItemNumber string) string {
	return strings.ToUpper(strings.TrimSpace(supplierCode) + strings.TrimSpace(supplierItemNumber))
}
