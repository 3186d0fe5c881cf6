package model

import "innkeeper/shared/model"

const (
	TableName  = "room_types"
	EntityName = "room_type"

	FieldID          = "id"
	FieldHotelID     = "hotel_id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldBasePrice   = "base_price"
	FieldCapacity    = "capacity"
)

const (
	ImageTableName  = "room_images"
	ImageEntityName = "room_image"

	ImageFieldID         = "id"
	ImageFieldRoomTypeID = "room_type_id"
	ImageFieldURL        = "url"
)

const (
	AmenityLinkTableName  = "room_type_amenities"
	AmenityLinkEntityName = "room_type_amenity"

	AmenityLinkFieldID         = "id"
	AmenityLinkFieldRoomTypeID = "room_type_id"
	AmenityLinkFieldAmenityID  = "amenity_id"
)

type RoomType struct {
	ID          string  `db:"id"`
	HotelID     string  `db:"hotel_id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
	BasePrice   float64 `db:"base_price"`
	Capacity    int     `db:"capacity"`
	HotelName   string  `db:"hotel_name" table:"hotels" column:"name"`
	model.Metadata
	model.SoftDelete
}

func (RoomType) GetJoinQuery() string {
	return "LEFT JOIN hotels ON hotels.id = room_types.hotel_id"
}

// RoomImage rows ride on their room type; files in object storage are only
// removed when an image is replaced, never on soft delete.
type RoomImage struct {
	ID         string `db:"id"`
	RoomTypeID string `db:"room_type_id"`
	URL        string `db:"url"`
	model.Metadata
	model.SoftDelete
}

// RoomTypeAmenity is a plain link row, replaced as a set on update.
type RoomTypeAmenity struct {
	ID         string `db:"id"`
	RoomTypeID string `db:"room_type_id"`
	AmenityID  string `db:"amenity_id"`
}
