package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/unitflow/unitflow/internal/shared"
)

// SaleRecord is a sale with its joined item and customer. Item or Customer is
// nil when the referenced row is missing.
type SaleRecord struct {
	ID        uuid.UUID    `json:"id"`
	SalePrice float64      `json:"sale_price"`
	SaleDate  time.Time    `json:"sale_date"`
	Item      *ItemRef     `json:"item,omitempty"`
	Customer  *CustomerRef `json:"customer,omitempty"`
}

// ItemRef carries the item fields the aggregator groups and costs by.
type ItemRef struct {
	Model        string  `json:"model"`
	ScreenSize   *string `json:"screen_size,omitempty"`
	PurchaseCost float64 `json:"purchase_cost"`
	SupplierName *string `json:"supplier_name,omitempty"`
}

// CustomerRef is the customer side of a sale.
type CustomerRef struct {
	Name string `json:"name"`
}

// ItemRecord is an inventory row as seen by the snapshot.
type ItemRecord struct {
	ID           uuid.UUID `json:"id"`
	Model        string    `json:"model"`
	Status       string    `json:"status"`
	PurchaseCost float64   `json:"purchase_cost"`
	PurchaseDate time.Time `json:"purchase_date"`
}

// Summary holds the headline sales figures.
type Summary struct {
	Revenue   float64 `json:"total_revenue"`
	Profit    float64 `json:"total_profit"`
	Units     int     `json:"units"`
	AvgMargin float64 `json:"avg_margin"`
}

// Performer is one TopN row.
type Performer struct {
	Key     string  `json:"key"`
	Units   int     `json:"units"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	Margin  float64 `json:"margin"`
}

// AgingBucket counts in-stock items held for a day range.
type AgingBucket struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// ModelCount groups in-stock items by model.
type ModelCount struct {
	Model string  `json:"model"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// InventorySnapshot summarises stock on hand.
type InventorySnapshot struct {
	InStock    int           `json:"in_stock"`
	TotalValue float64       `json:"total_value"`
	Aging      []AgingBucket `json:"aging"`
	ByModel    []ModelCount  `json:"by_model"`
}

// Report is the full dashboard payload.
type Report struct {
	Range        shared.DateRange  `json:"range"`
	AsOf         time.Time         `json:"as_of"`
	Summary      Summary           `json:"summary"`
	TopModels    []Performer       `json:"top_models"`
	TopSuppliers []Performer       `json:"top_suppliers"`
	TopCustomers []Performer       `json:"top_customers"`
	Inventory    InventorySnapshot `json:"inventory"`
}
