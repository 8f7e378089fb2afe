package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Order Placed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCOD      PaymentMethod = "COD"
	PaymentMethodRazorpay PaymentMethod = "Razorpay"
)

// Payment status labels shown in the admin order table. The boolean
// Order.Payment flag records whether money has ever moved; these labels
// carry the finer-grained pending/received/refunded state on top of it.
const (
	PaymentStatusCODPending       = "COD - Pending"
	PaymentStatusCODReceived      = "COD - Received"
	PaymentStatusRazorpayPending  = "Razorpay - Pending"
	PaymentStatusRazorpayReceived = "Razorpay - Received"
	PaymentStatusRazorpayRefunded = "Razorpay - Refunded"
)

// Address is the shipping address snapshot copied onto an order at
// checkout. Later edits to a user's saved address never touch past orders.
type Address struct {
	Street     string `bson:"street" json:"street" validate:"required"`
	City       string `bson:"city" json:"city" validate:"required"`
	State      string `bson:"state" json:"state" validate:"required"`
	PostalCode string `bson:"postalCode" json:"postalCode" validate:"required"`
	Country    string `bson:"country" json:"country" validate:"required"`
}

// OrderItem is one line of an order. Name and Price are snapshots taken at
// purchase time so catalog edits do not rewrite order history.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId" validate:"required"`
	Name      string  `bson:"name" json:"name"`
	Quantity  int     `bson:"quantity" json:"quantity" validate:"required,min=1"`
	Size      string  `bson:"size,omitempty" json:"size,omitempty"`
	Color     string  `bson:"color,omitempty" json:"color,omitempty"`
	Price     float64 `bson:"price" json:"price"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"userId" json:"userId"`
	Items         []OrderItem        `bson:"items" json:"items"`
	Amount        float64            `bson:"amount" json:"amount"`
	Address       Address            `bson:"address" json:"address"`
	Status        OrderStatus        `bson:"status" json:"status"`
	PaymentMethod PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	Payment       bool               `bson:"payment" json:"payment"`
	// PaymentStatus may be empty on records created before the label was
	// introduced; readers derive it from PaymentMethod + Payment then.
	PaymentStatus string `bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty"`
	Date          int64  `bson:"date" json:"date"` // epoch millis
	// Revision guards status/payment mutations against lost updates.
	Revision int64 `bson:"revision" json:"-"`
}

func (o *Order) Cancelled() bool {
	return o.Status == OrderStatusCancelled
}

// KnownOrderStatus reports whether s is one of the recognised statuses.
func KnownOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPlaced, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
