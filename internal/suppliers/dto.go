package suppliers

// SupplierInput is the create/update payload. Updates replace every field.
type SupplierInput struct {
	Code        string  `json:"code" validate:"required,min=2,max=10,alphanum"`
	Name        string  `json:"name" validate:"required,max=200"`
	Type        Type    `json:"type" validate:"omitempty,oneof=wholesale retail individual auction refurbisher other"`
	ContactName *string `json:"contact_name" validate:"omitempty,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Notes       *string `json:"notes"`
	IsActive    *bool   `json:"is_active"`
}
