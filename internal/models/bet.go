package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// Color is one of the three colors a number can map to.
type Color string

const (
	ColorRed    Color = "Red"
	ColorGreen  Color = "Green"
	ColorViolet Color = "Violet"
)

// Size classifies a number as Big (5-9) or Small (0-4).
type Size string

const (
	SizeBig   Size = "Big"
	SizeSmall Size = "Small"
)

// BetType is the outcome category a bet is placed on.
type BetType string

const (
	BetTypeColor    BetType = "Color"
	BetTypeNumber   BetType = "Number"
	BetTypeBigSmall BetType = "BigSmall"
)

// Bet is a single wager by one user within a round. Immutable once placed,
// except for Payout which is written exactly once at settlement.
type Bet struct {
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Type     BetType            `bson:"type" json:"type"`
	Color    Color              `bson:"color,omitempty" json:"color,omitempty"`
	Number   int                `bson:"number" json:"number"`
	Size     Size               `bson:"size,omitempty" json:"size,omitempty"`
	Amount   float64            `bson:"amount" json:"amount"`
	Payout   float64            `bson:"payout" json:"payout"`
	PlacedAt time.Time          `bson:"placedAt" json:"placedAt"`
}

// PlaceBetRequest is the payload for POST /game/bets. Value carries the color
// name, the size name, or the digit depending on Type.
type PlaceBetRequest struct {
	Type   BetType `json:"type" validate:"required,oneof=Color Number BigSmall"`
	Value  string  `json:"value" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Validate checks the structural constraints of the request.
func (r *PlaceBetRequest) Validate() error {
	return validate.Struct(r)
}
