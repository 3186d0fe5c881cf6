package model

import "innkeeper/shared/model"

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldRating    = "rating"
	FieldComment   = "comment"
)

// Review hangs off a booking; customer, hotel and room type all resolve
// through it.
type Review struct {
	ID        string  `db:"id"`
	BookingID string  `db:"booking_id"`
	Rating    int     `db:"rating"`
	Comment   *string `db:"comment"`

	CustomerID   string  `db:"customer_id"    table:"bookings"   column:"customer_id"`
	CustomerName *string `db:"customer_name"  table:"users"      column:"full_name"`
	HotelID      string  `db:"hotel_id"       table:"bookings"   column:"hotel_id"`
	HotelName    string  `db:"hotel_name"     table:"hotels"     column:"name"`
	RoomTypeID   string  `db:"room_type_id"   table:"room_types" column:"id"`
	RoomTypeName string  `db:"room_type_name" table:"room_types" column:"name"`

	model.Metadata
	model.SoftDelete
}

func (Review) GetJoinQuery() string {
	return `LEFT JOIN bookings ON bookings.id = reviews.booking_id
		LEFT JOIN users ON users.id = bookings.customer_id
		LEFT JOIN hotels ON hotels.id = bookings.hotel_id
		LEFT JOIN rooms ON rooms.id = bookings.room_id
		LEFT JOIN room_types ON room_types.id = rooms.room_type_id`
}
