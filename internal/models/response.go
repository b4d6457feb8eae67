package models

// APIResponse is the envelope returned by every mutating endpoint
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

// LoginRequest carries the shared admin credential pair
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
