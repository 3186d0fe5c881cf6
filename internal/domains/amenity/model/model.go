package model

import "innkeeper/shared/model"

const (
	TableName  = "amenities"
	EntityName = "amenity"

	FieldID   = "id"
	FieldName = "name"
	FieldIcon = "icon"
)

type Amenity struct {
	ID   string  `db:"id"`
	Name string  `db:"name"`
	Icon *string `db:"icon"`
	model.Metadata
	model.SoftDelete
}
