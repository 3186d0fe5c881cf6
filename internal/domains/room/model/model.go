package model

import "innkeeper/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID         = "id"
	FieldRoomTypeID = "room_type_id"
	FieldHotelID    = "hotel_id"
	FieldRoomNumber = "room_number"
	FieldStatus     = "status"
)

const (
	StatusAvailable   = "available"
	StatusMaintenance = "maintenance"
)

// Room carries hotel_id denormalized from its room type so hotel scoping
// works on filters that cannot join.
type Room struct {
	ID           string  `db:"id"`
	RoomTypeID   string  `db:"room_type_id"`
	HotelID      string  `db:"hotel_id"`
	RoomNumber   string  `db:"room_number"`
	Status       string  `db:"status"`
	RoomTypeName string  `db:"room_type_name" table:"room_types" column:"name"`
	BasePrice    float64 `db:"base_price"     table:"room_types"`
	Capacity     int     `db:"capacity"       table:"room_types"`
	model.Metadata
	model.SoftDelete
}

func (Room) GetJoinQuery() string {
	return "LEFT JOIN room_types ON room_types.id = rooms.room_type_id"
}
