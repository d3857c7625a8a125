package response_models

import "time"

type OwnerContact struct {
	OwnerName  *string `json:"owner_name"`
	OwnerPhone *string `json:"owner_phone"`
	OwnerEmail *string `json:"owner_email"`
}

// ClientRequest is a request as its client sees it. OwnerContact is set only
// once the request is approved.
type ClientRequest struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	DecidedAt    *time.Time      `json:"decided_at,omitempty"`
	PropertyID   string          `json:"property_id"`
	Property     *ListingSummary `json:"property"`
	OwnerContact *OwnerContact   `json:"owner_contact,omitempty"`
}

type AgencyRequest struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	DecidedAt  *time.Time      `json:"decided_at,omitempty"`
	DecidedBy  *string         `json:"decided_by,omitempty"`
	ClientID   string          `json:"client_id"`
	ClientName *string         `json:"client_name"`
	PropertyID string          `json:"property_id"`
	Property   *ListingSummary `json:"property"`
}

type AgencyRequestsResponse struct {
	Total   int             `json:"total"`
	Pending []AgencyRequest `json:"pending"`
	Decided []AgencyRequest `json:"decided"`
}
