package customers

// CustomerInput is the create/update payload.
type CustomerInput struct {
	Name   string  `json:"name" validate:"required,max=200"`
	Phone  *string `json:"phone" validate:"omitempty,max=50"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Type   Type    `json:"type" validate:"omitempty,oneof=individual business reseller"`
	Source *Source `json:"source" validate:"omitempty,oneof=facebook_marketplace ebay craigslist offerup referral walk_in website other"`
	Notes  *string `json:"notes"`
}
