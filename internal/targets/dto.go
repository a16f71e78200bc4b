package targets

// TargetInput is the create/update payload. Dates use YYYY-MM-DD; an empty
// start_date means today.
type TargetInput struct {
	Type        Type    `json:"type" validate:"required,oneof=revenue profit units margin"`
	TargetValue float64 `json:"target_value" validate:"gt=0"`
	StartDate   string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Deadline    string  `json:"deadline" validate:"required,datetime=2006-01-02"`
	Style       Style   `json:"style" validate:"omitempty,oneof=progress_bar ring gauge number"`
	Label       *string `json:"label" validate:"omitempty,max=100"`
}
