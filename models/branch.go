// models/branch.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Branch is a shop location. Users, items and invoices all hang off a branch
// by its hex id.
type Branch struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	IsDelete  bool               `json:"isDelete" bson:"isDelete"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt *time.Time         `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	DeletedAt *time.Time         `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
}

// BranchRequest is the body for branch create and rename.
type BranchRequest struct {
	Name string `json:"name" validate:"required"`
}
