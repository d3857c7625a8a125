package request_models

// PropertyRequest is the create/update payload. Empty strings clear optional text fields.
type PropertyRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	City        string `json:"city" binding:"required,max=120"`
	Zip         string `json:"zip" binding:"omitempty,max=20"`
	Price       *int   `json:"price" binding:"omitempty,min=0"`
	Surface     *int   `json:"surface" binding:"omitempty,min=0"`
	Rooms       *int   `json:"rooms" binding:"omitempty,min=0"`
	Type        string `json:"type" binding:"omitempty,max=60"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	OwnerName   string `json:"owner_name" binding:"omitempty,max=200"`
	OwnerPhone  string `json:"owner_phone" binding:"omitempty,max=40"`
	OwnerEmail  string `json:"owner_email" binding:"omitempty,email"`
	Status      string `json:"status" binding:"omitempty,oneof=active rented archived"`
}

type SetPropertyStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active rented archived"`
}
