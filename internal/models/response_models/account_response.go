package response_models

import "time"

type AccountLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role,omitempty"`
}

type CreateAccountResponse struct {
	UserID string `json:"user_id"`
}

// MeResponse tells a front end where a principal belongs. Home is empty when
// the identity has no usable role.
type MeResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Role     string  `json:"role,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Home     string  `json:"home,omitempty"`
}

type ClientSummary struct {
	ID        string    `json:"id"`
	FullName  *string   `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type ClientDetail struct {
	Profile       ClientSummary   `json:"profile"`
	Active        bool            `json:"active"`
	Criteria      *Criteria       `json:"criteria"`
	Subscriptions []Subscription  `json:"subscriptions"`
	Requests      []ClientRequest `json:"requests"`
}

type Subscription struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	StartsAt      string    `json:"starts_at"`
	EndsAt        *string   `json:"ends_at"`
	PaidAmountEUR int       `json:"paid_amount_eur"`
	CreatedAt     time.Time `json:"created_at"`
}
