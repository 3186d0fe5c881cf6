package model

import "innkeeper/shared/model"

const (
	TableName  = "hotels"
	EntityName = "hotel"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldImage       = "image"
)

type Hotel struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Address     string  `db:"address"`
	City        string  `db:"city"`
	Phone       *string `db:"phone"`
	Email       *string `db:"email"`
	Image       *string `db:"image"`
	model.Metadata
	model.SoftDelete
}
