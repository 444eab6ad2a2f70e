package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon discount types.
const (
	CouponPercent = "percent"
	CouponFixed   = "fixed"
)

// Coupon is a read-only input to pricing; applying one never mutates it.
// Codes are canonically upper-cased at write time and at lookup.
type Coupon struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Coupon_id     string             `bson:"coupon_id" json:"coupon_id"`
	Restaurant_id string             `bson:"restaurant_id" json:"restaurant_id"`
	Code          string             `bson:"code" json:"code" validate:"required,min=2,max=32"`
	Type          string             `bson:"type" json:"type" validate:"required,eq=percent|eq=fixed"`
	Value         int64              `bson:"value" json:"value" validate:"required,gt=0"`
	Valid_from    time.Time          `bson:"valid_from" json:"valid_from" validate:"required"`
	Valid_to      time.Time          `bson:"valid_to" json:"valid_to" validate:"required,gtfield=Valid_from"`
	Min_subtotal  *int64             `bson:"min_subtotal,omitempty" json:"min_subtotal,omitempty"`
	Active        bool               `bson:"active" json:"active"`
	Created_at    time.Time          `bson:"created_at" json:"created_at"`
	Updated_at    time.Time          `bson:"updated_at" json:"updated_at"`
}
