package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a player or admin account. Balance must never go negative;
// every mutation goes through a guarded atomic adjustment.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"` // "user" or "admin"
	Balance   float64            `bson:"balance" json:"balance"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=7,max=15"`
	Password string `json:"password" validate:"required,min=6"`
}

// Validate checks the structural constraints of the request.
func (r *RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// LoginRequest is the payload for POST /auth/login. Credential is an email
// address or a phone number.
type LoginRequest struct {
	Credential string `json:"credential" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Validate checks the structural constraints of the request.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// LoginResponse carries the issued token and the sanitized account.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreditRequest is the payload for the admin balance grant endpoint.
type CreditRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Validate checks the structural constraints of the request.
func (r *CreditRequest) Validate() error {
	return validate.Struct(r)
}

// AdminUserUpdateRequest is the payload for the admin user update endpoint.
type AdminUserUpdateRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,min=7,max=15"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// Validate checks the structural constraints of the request.
func (r *AdminUserUpdateRequest) Validate() error {
	return validate.Struct(r)
}
