package inventory

import "github.com/google/uuid"

// ItemInput is the create/update payload. Dates use YYYY-MM-DD.
type ItemInput struct {
	SupplierID         uuid.UUID  `json:"supplier_id" validate:"required"`
	SupplierItemNumber string     `json:"supplier_item_number" validate:"required,max=50"`
	PurchaseOrderID    *uuid.UUID `json:"purchase_order_id"`
	Model              string     `json:"model" validate:"required,max=100"`
	ScreenSize         *string    `json:"screen_size" validate:"omitempty,max=10"`
	Chip               *string    `json:"chip" validate:"omitempty,max=50"`
	RAM                *string    `json:"ram" validate:"omitempty,max=20"`
	Storage            *string    `json:"storage" validate:"omitempty,max=20"`
	Year               *int       `json:"year"`
	ConditionGrade     *Grade     `json:"condition_grade" validate:"omitempty,oneof=A B C D"`
	ConditionSummary   *string    `json:"condition_summary"`
	PurchaseCost       float64    `json:"purchase_cost" validate:"gte=0"`
	PurchaseDate       string     `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	Status             Status     `json:"status" validate:"omitempty,oneof=in_stock sold reserved returned doa personal_use"`
	Notes              *string    `json:"notes"`
}
