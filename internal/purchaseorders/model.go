package purchaseorders

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks delivery progress of a purchase order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReceived  Status = "received"
	StatusPartial   Status = "partial"
	StatusCancelled Status = "cancelled"
)

// PurchaseOrder groups inventory bought from one supplier in one transaction.
type PurchaseOrder struct {
	ID                   uuid.UUID  `json:"id"`
	Number               string     `json:"number"`
	SupplierID           uuid.UUID  `json:"supplier_id"`
	SupplierCode         string     `json:"supplier_code,omitempty"`
	SupplierName         string     `json:"supplier_name,omitempty"`
	OrderDate            time.Time  `json:"order_date"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	DeliveryDate         *time.Time `json:"delivery_date,omitempty"`
	Status               Status     `json:"status"`
	TotalAmount          *float64   `json:"total_amount,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// ListFilters narrows purchase order listings.
type ListFilters struct {
	Page       int
	Limit      int
	Search     string
	SortBy     string
	SortDir    string
	Status     Status
	SupplierID *uuid.UUID
}
