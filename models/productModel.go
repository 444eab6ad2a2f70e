package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OptionChoice is one selectable value of a product option, with an optional
// price delta in minor units.
type OptionChoice struct {
	Choice string `bson:"choice" json:"choice" validate:"required"`
	Price  int64  `bson:"price" json:"price" validate:"gte=0"`
}

type ProductOption struct {
	Option_id string         `bson:"option_id" json:"option_id"`
	Name      string         `bson:"name" json:"name" validate:"required"`
	Choices   []OptionChoice `bson:"choices" json:"choices" validate:"required,min=1,dive"`
}

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Product_id    string             `bson:"product_id" json:"product_id"`
	Restaurant_id string             `bson:"restaurant_id" json:"restaurant_id"`
	Name          string             `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Description   *string            `bson:"description,omitempty" json:"description,omitempty"`
	Price         int64              `bson:"price" json:"price" validate:"gte=0"`
	Options       []ProductOption    `bson:"options" json:"options"`
	Position      int64              `bson:"position" json:"position"`
	Highlighted   bool               `bson:"highlighted" json:"highlighted"`
	Available     bool               `bson:"available" json:"available"`
	Created_at    time.Time          `bson:"created_at" json:"created_at"`
	Updated_at    time.Time          `bson:"updated_at" json:"updated_at"`
}
