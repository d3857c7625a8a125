package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,trimmed_email"`
	Password string `json:"password" binding:"required"`
}

// CreateAccountRequest provisions a client (agent action) or an agent (admin action).
type CreateAccountRequest struct {
	Email    string `json:"email" binding:"required,trimmed_email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"omitempty,max=100"`
}
