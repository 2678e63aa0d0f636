// models/auth.go
package models

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on a successful sign-in. Token is the identity
// provider's ID token; the backend never mints its own.
type LoginResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	Role      Role   `json:"role"`
	BranchID  string `json:"branchId"`
	Token     string `json:"token"`
}
