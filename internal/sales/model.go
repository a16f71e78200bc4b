package sales

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod records how the buyer paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentPayPal       PaymentMethod = "paypal"
	PaymentZelle        PaymentMethod = "zelle"
	PaymentVenmo        PaymentMethod = "venmo"
	PaymentOther        PaymentMethod = "other"
)

// Channel records where the sale was made.
type Channel string

const (
	ChannelFacebookMarketplace Channel = "facebook_marketplace"
	ChannelEbay                Channel = "ebay"
	ChannelCraigslist          Channel = "craigslist"
	ChannelOfferUp             Channel = "offerup"
	ChannelInPerson            Channel = "in_person"
	ChannelWebsite             Channel = "website"
	ChannelOther               Channel = "other"
)

// Sale records one inventory item sold. Item and customer details are
// joined for display.
type Sale struct {
	ID            uuid.UUID     `json:"id"`
	ItemID        uuid.UUID     `json:"item_id"`
	ItemCode      string        `json:"item_code,omitempty"`
	ItemModel     string        `json:"item_model,omitempty"`
	ItemCost      *float64      `json:"item_cost,omitempty"`
	CustomerID    *uuid.UUID    `json:"customer_id,omitempty"`
	CustomerName  *string       `json:"customer_name,omitempty"`
	SalePrice     float64       `json:"sale_price"`
	SaleDate      time.Time     `json:"sale_date"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Channel       Channel       `json:"channel"`
	Notes         *string       `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Profit is sale price less the item's purchase cost, nil when the cost is unknown.
func (s Sale) Profit() *float64 {
	if s.ItemCost == nil {
		return nil
	}
	p := s.SalePrice - *s.ItemCost
	return &p
}

// ItemState is the slice of an inventory row the sales flow reads and writes.
type ItemState struct {
	ID       uuid.UUID
	ItemCode string
	Status   string
}

const (
	itemStatusInStock = "in_stock"
	itemStatusSold    = "sold"
)

// ListFilters narrows sale listings.
type ListFilters struct {
	Page       int
	Limit      int
	Search     string
	SortBy     string
	SortDir    string
	From       *time.Time
	To         *time.Time
	CustomerID *uuid.UUID
}
