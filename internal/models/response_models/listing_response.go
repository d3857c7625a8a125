package response_models

import "time"

// PublicListing is what clients see of a property. No owner fields, ever.
type PublicListing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	City        string    `json:"city"`
	Zip         *string   `json:"zip"`
	Price       *int      `json:"price"`
	Surface     *int      `json:"surface"`
	Rooms       *int      `json:"rooms"`
	Type        *string   `json:"type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CoverURL    *string   `json:"cover_url,omitempty"`
}

type ListingSummary struct {
	Title string  `json:"title"`
	City  string  `json:"city"`
	Zip   *string `json:"zip"`
}

type Criteria struct {
	ClientID      string   `json:"client_id"`
	City          *string  `json:"city"`
	MinPrice      *int     `json:"min_price"`
	MaxPrice      *int     `json:"max_price"`
	MinSurface    *int     `json:"min_surface"`
	MinRooms      *int     `json:"min_rooms"`
	PropertyTypes []string `json:"property_types"`
}

type MatchedListingsResponse struct {
	Active   bool            `json:"active"`
	Criteria *Criteria       `json:"criteria"`
	Listings []PublicListing `json:"listings"`
}

type PropertyImage struct {
	ID         string  `json:"id"`
	Path       string  `json:"path"`
	OrderIndex int     `json:"order_index"`
	URL        *string `json:"url,omitempty"`
}

// PropertyDetail is the full back-office record.
type PropertyDetail struct {
	PublicListing
	OwnerName  *string         `json:"owner_name"`
	OwnerPhone *string         `json:"owner_phone"`
	OwnerEmail *string         `json:"owner_email"`
	Images     []PropertyImage `json:"images"`
}

type ImageUploadResult struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Path     string `json:"path,omitempty"`
	Uploaded bool   `json:"uploaded"`
	Error    string `json:"error,omitempty"`
}

type CreatePropertyResponse struct {
	ID     string              `json:"id"`
	Images []ImageUploadResult `json:"images"`
}
