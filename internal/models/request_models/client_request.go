package request_models

// UpsertCriteriaRequest replaces a client's saved search. Null numbers are unconstrained.
// PropertyTypes entries may themselves be comma-separated ("studio, t2").
type UpsertCriteriaRequest struct {
	City          string   `json:"city" binding:"omitempty,max=120"`
	MinPrice      *int     `json:"min_price" binding:"omitempty,min=0"`
	MaxPrice      *int     `json:"max_price" binding:"omitempty,min=0"`
	MinSurface    *int     `json:"min_surface" binding:"omitempty,min=0"`
	MinRooms      *int     `json:"min_rooms" binding:"omitempty,min=0"`
	PropertyTypes []string `json:"property_types" binding:"omitempty,max=20,dive,max=60"`
}

type RecordSubscriptionRequest struct {
	Status        string `json:"status" binding:"required,oneof=active past_due canceled expired"`
	StartsAt      string `json:"starts_at" binding:"required,datetime=2006-01-02"`
	EndsAt        string `json:"ends_at" binding:"omitempty,datetime=2006-01-02"`
	PaidAmountEUR int    `json:"paid_amount_eur" binding:"min=0"`
}

type DecideRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}
