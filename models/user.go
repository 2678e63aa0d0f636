// models/user.go
package models

import "time"

// User is the profile document stored in the "users" collection. The document
// id is the identity provider uid, so profile and credential always line up.
type User struct {
	UID       string     `json:"uid" bson:"_id"`
	Email     string     `json:"email" bson:"email"`
	FirstName string     `json:"firstName" bson:"firstName"`
	LastName  string     `json:"lastName" bson:"lastName"`
	Role      Role       `json:"role" bson:"role"`
	BranchID  string     `json:"branchId" bson:"branchId"`
	IsDelete  bool       `json:"isDelete" bson:"isDelete"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
}

// CreateUserRequest is the body for POST /api/users.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"required"`
	BranchID  string `json:"branchId" validate:"required"`
}

// UpdateUserRequest is the body for PUT /api/users/:uid. At least one field
// must be present; the handler enforces that since validator tags cannot.
type UpdateUserRequest struct {
	Role     string `json:"role,omitempty"`
	BranchID string `json:"branchId,omitempty"`
}
