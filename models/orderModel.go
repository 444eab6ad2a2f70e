package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fulfillment channels. The channel is fixed at creation and drives fee rules.
const (
	ChannelDineIn   = "dine_in"
	ChannelTakeaway = "takeaway"
	ChannelDelivery = "delivery"
)

// Order statuses.
const (
	StatusDraft         = "draft"
	StatusPlaced        = "placed"
	StatusConfirmed     = "confirmed"
	StatusInPreparation = "in_preparation"
	StatusReady         = "ready"
	StatusServed        = "served"
	StatusClosed        = "closed"
	StatusCanceled      = "canceled"
)

// AllChannels and AllStatuses back the analytics breakdowns, which must
// carry every enum member even when its count is zero.
var AllChannels = []string{ChannelDineIn, ChannelTakeaway, ChannelDelivery}

var AllStatuses = []string{
	StatusDraft, StatusPlaced, StatusConfirmed, StatusInPreparation,
	StatusReady, StatusServed, StatusClosed, StatusCanceled,
}

// SelectedOption is a denormalized copy of a catalog option choice taken at
// order time, so a later catalog price change never drifts into past orders.
type SelectedOption struct {
	Option_id string `bson:"option_id" json:"option_id"`
	Name      string `bson:"name" json:"name"`
	Choice    string `bson:"choice" json:"choice"`
	Price     int64  `bson:"price" json:"price" validate:"gte=0"`
}

type OrderItem struct {
	Product_id string           `bson:"product_id" json:"product_id" validate:"required"`
	Name       string           `bson:"name" json:"name"`
	Quantity   int64            `bson:"quantity" json:"quantity" validate:"required,gt=0"`
	Unit_price int64            `bson:"unit_price" json:"unit_price" validate:"gte=0"`
	Options    []SelectedOption `bson:"options" json:"options"`
	Notes      *string          `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Fees holds per-channel surcharges. A fee that does not apply to the order's
// channel is absent, not zero.
type Fees struct {
	Service  *int64 `bson:"service,omitempty" json:"service,omitempty"`
	Delivery *int64 `bson:"delivery,omitempty" json:"delivery,omitempty"`
}

// Amounts are computed server-side, never taken from the client.
// All values are integer minor currency units.
type Amounts struct {
	Subtotal  int64 `bson:"subtotal" json:"subtotal"`
	Discounts int64 `bson:"discounts" json:"discounts"`
	Fees      Fees  `bson:"fees" json:"fees"`
	Total     int64 `bson:"total" json:"total"`
}

type Customer struct {
	Name  *string `bson:"name,omitempty" json:"name,omitempty"`
	Phone *string `bson:"phone,omitempty" json:"phone,omitempty"`
}

type Payment struct {
	Payment_id string    `bson:"payment_id" json:"payment_id"`
	Method     string    `bson:"method" json:"method" validate:"required"`
	Amount     int64     `bson:"amount" json:"amount" validate:"required,gt=0"`
	Change_due *int64    `bson:"change_due,omitempty" json:"change_due,omitempty"`
	Paid_at    time.Time `bson:"paid_at" json:"paid_at"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Order_id      string             `bson:"order_id" json:"order_id"`
	Restaurant_id string             `bson:"restaurant_id" json:"restaurant_id"`
	Order_number  string             `bson:"order_number" json:"order_number"`
	Items         []OrderItem        `bson:"items" json:"items" validate:"required,min=1,dive"`
	Channel       string             `bson:"channel" json:"channel" validate:"required,eq=dine_in|eq=takeaway|eq=delivery"`
	Status        string             `bson:"status" json:"status"`
	Amounts       Amounts            `bson:"amounts" json:"amounts"`
	Table_id      *string            `bson:"table_id,omitempty" json:"table_id,omitempty"`
	Customer      *Customer          `bson:"customer,omitempty" json:"customer,omitempty"`
	Payments      []Payment          `bson:"payments" json:"payments"`
	Cancel_reason *string            `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
	Created_at    time.Time          `bson:"created_at" json:"created_at"`
	Updated_at    time.Time          `bson:"updated_at" json:"updated_at"`
	Closed_at     *time.Time         `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
}
