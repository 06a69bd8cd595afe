package handler

import "time"

// apiResponse is the success envelope returned on all 2xx responses.
type apiResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// --- Request types ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=4,max=20"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	RoleID   int    `json:"role_id"  validate:"required,oneof=1 2"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type loginResponse struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	RoleID    int       `json:"role_id"`
	Authority string    `json:"authority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type auditEntryResponse struct {
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	RemoteIP  string    `json:"remote_ip,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
