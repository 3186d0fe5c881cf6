package model

import (
	"time"

	"innkeeper/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID           = "id"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRole         = "role"
	FieldFullName     = "full_name"
	FieldPhone        = "phone"
	FieldHotelID      = "hotel_id"
	FieldProfileImage = "profile_image"
	FieldIsVerified   = "is_verified"
	FieldLastLogin    = "last_login"
	FieldActive       = "active"
)

// User holds one account. Phone is stored encrypted; only the service layer
// sees the plain value. HotelID is set for managers and staff and nil for
// everyone else.
type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	Password     string     `db:"password"`
	Role         string     `db:"role"`
	FullName     *string    `db:"full_name"`
	Phone        *string    `db:"phone"`
	HotelID      *string    `db:"hotel_id"`
	ProfileImage *string    `db:"profile_image"`
	IsVerified   bool       `db:"is_verified"`
	LastLogin    *time.Time `db:"last_login"`
	Active       bool       `db:"active"`
	model.Metadata
	model.SoftDelete
}
