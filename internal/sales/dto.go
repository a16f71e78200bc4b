package sales

import (
	"encoding/json"

	"github.com/google/uuid"
)

// SaleInput is the create/update payload. Dates use YYYY-MM-DD.
type SaleInput struct {
	ItemID        uuid.UUID     `json:"item_id" validate:"required"`
	CustomerID    *uuid.UUID    `json:"customer_id"`
	SalePrice     float64       `json:"sale_price" validate:"gt=0"`
	SaleDate      string        `json:"sale_date" validate:"required,datetime=2006-01-02"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash card bank_transfer paypal zelle venmo other"`
	Channel       Channel       `json:"channel" validate:"omitempty,oneof=facebook_marketplace ebay craigslist offerup in_person website other"`
	Notes         *string       `json:"notes"`
}

// MarshalJSON adds the derived profit to the wire form.
func (s Sale) MarshalJSON() ([]byte, error) {
	type plain Sale
	return json.Marshal(struct {
		plain
		Profit *float64 `json:"profit,omitempty"`
	}{plain(s), s.Profit()})
}
