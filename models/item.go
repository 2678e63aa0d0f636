// models/item.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item is a stock record owned by exactly one branch.
//
// Quantity keeps the capitalized json key the storefront already depends on.
type Item struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Weight      float64            `json:"weight" bson:"weight"`
	Category    string             `json:"category" bson:"category"`
	Karat       string             `json:"karat" bson:"karat"`
	FactoryFees float64            `json:"factoryFees" bson:"factoryFees"`
	Vendor      string             `json:"vendor" bson:"vendor"`
	BranchID    string             `json:"branchId" bson:"branchId"`
	Quantity    int                `json:"Quantity" bson:"Quantity"`
	Photo       string             `json:"photo" bson:"photo"`
	IsDelete    bool               `json:"isDelete" bson:"isDelete"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	DeletedAt   *time.Time         `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
}

// ItemRequest is the body for POST /api/items. Quantity and photo are
// optional and default to 0 and "".
type ItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Weight      float64 `json:"weight" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Karat       string  `json:"karat" validate:"required"`
	FactoryFees float64 `json:"factoryFees" validate:"required,gt=0"`
	Vendor      string  `json:"vendor" validate:"required"`
	Quantity    int     `json:"Quantity"`
	Photo       string  `json:"photo"`
}

// ItemUpdateRequest carries the mutable item fields for PUT /api/items/:id.
// Zero values mean "leave unchanged"; the handler builds a partial $set.
type ItemUpdateRequest struct {
	Name        string   `json:"name,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Category    string   `json:"category,omitempty"`
	Karat       string   `json:"karat,omitempty"`
	FactoryFees *float64 `json:"factoryFees,omitempty"`
	Vendor      string   `json:"vendor,omitempty"`
	Quantity    *int     `json:"Quantity,omitempty"`
	Photo       string   `json:"photo,omitempty"`
}
