package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a staff account. Customers never authenticate; they are an
// optional free-form field on the order itself.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User_id       string             `bson:"user_id" json:"user_id"`
	Restaurant_id string             `bson:"restaurant_id" json:"restaurant_id"`
	First_name    *string            `bson:"first_name" json:"first_name" validate:"required,min=2,max=100"`
	Last_name     *string            `bson:"last_name" json:"last_name" validate:"required,min=2,max=100"`
	Email         *string            `bson:"email" json:"email" validate:"required,email"`
	Password      *string            `bson:"password" json:"password" validate:"required,min=6"`
	Token         *string            `bson:"token,omitempty" json:"token,omitempty"`
	Refresh_token *string            `bson:"refresh_token,omitempty" json:"refresh_token,omitempty"`
	Created_at    time.Time          `bson:"created_at" json:"created_at"`
	Updated_at    time.Time          `bson:"updated_at" json:"updated_at"`
}
