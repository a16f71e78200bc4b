package purchaseorders

import "github.com/google/uuid"

// PurchaseOrderInput is the create/update payload. Dates use YYYY-MM-DD.
type PurchaseOrderInput struct {
	Number               string    `json:"number" validate:"required,max=50"`
	SupplierID           uuid.UUID `json:"supplier_id" validate:"required"`
	OrderDate            string    `json:"order_date" validate:"required,datetime=2006-01-02"`
	ExpectedDeliveryDate *string   `json:"expected_delivery_date" validate:"omitempty,datetime=2006-01-02"`
	DeliveryDate         *string   `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Status               Status    `json:"status" validate:"omitempty,oneof=pending received partial cancelled"`
	TotalAmount          *float64  `json:"total_amount" validate:"omitempty,gte=0"`
	Notes                *string   `json:"notes"`
}
