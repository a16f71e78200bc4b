package customers

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies buyers.
type Type string

const (
	TypeIndividual Type = "individual"
	TypeBusiness   Type = "business"
	TypeReseller   Type = "reseller"
)

// Source records how the customer found the shop.
type Source string

const (
	SourceFacebookMarketplace Source = "facebook_marketplace"
	SourceEbay                Source = "ebay"
	SourceCraigslist          Source = "craigslist"
	SourceOfferUp             Source = "offerup"
	SourceReferral            Source = "referral"
	SourceWalkIn              Source = "walk_in"
	SourceWebsite             Source = "website"
	SourceOther               Source = "other"
)

// Customer is a buyer of inventory.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Type      Type      `json:"type"`
	Source    *Source   `json:"source,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilters narrows customer listings.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
	Type    Type
	Source  Source
}
