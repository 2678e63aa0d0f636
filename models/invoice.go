// models/invoice.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvoiceItem is one sold line on an invoice. Snapshot of the item at sale
// time, not a reference into the items collection.
type InvoiceItem struct {
	Name     string  `json:"name" bson:"name"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Weight   float64 `json:"weight" bson:"weight"`
	Price    float64 `json:"price" bson:"price"`
}

// Invoice is immutable after creation; there is no update or delete path.
type Invoice struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	BranchID      string             `json:"branchId" bson:"branchId"`
	UserID        string             `json:"userId" bson:"userId"`
	CustomerName  string             `json:"customerName" bson:"customerName"`
	CustomerPhone string             `json:"customerPhone" bson:"customerPhone"`
	Items         []InvoiceItem      `json:"items" bson:"items"`
	TotalPrice    float64            `json:"totalPrice" bson:"totalPrice"`
	TotalProfits  float64            `json:"totalProfits" bson:"totalProfits"`
	GoldPrice     float64            `json:"goldPrice" bson:"goldPrice"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// InvoiceRequest is the body for POST /api/invoices. BranchID and UserID are
// never taken from the client; they come from the principal.
type InvoiceRequest struct {
	CustomerName  string        `json:"customerName" validate:"required"`
	CustomerPhone string        `json:"customerPhone" validate:"required"`
	Items         []InvoiceItem `json:"items" validate:"required,min=1,dive"`
	TotalPrice    float64       `json:"totalPrice" validate:"required,gt=0"`
	TotalProfits  float64       `json:"totalProfits"`
	GoldPrice     float64       `json:"goldPrice" validate:"required,gt=0"`
}
