package model

import (
	"time"

	"innkeeper/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldHotelID         = "hotel_id"
	FieldRoomID          = "room_id"
	FieldCustomerID      = "customer_id"
	FieldPackageID       = "package_id"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldGuestCount      = "guest_count"
	FieldNote            = "note"
	FieldStatus          = "status"
	FieldSource          = "source"
	FieldPaymentStatus   = "payment_status"
	FieldPaymentMethod   = "payment_method"
	FieldPaymentAmount   = "payment_amount"
	FieldPaymentDate     = "payment_date"
	FieldPromotionID     = "promotion_id"
	FieldPromotionUsedAt = "promotion_used_at"
	FieldSubtotal        = "subtotal"
	FieldDiscountAmount  = "discount_amount"
	FieldTotalPrice      = "total_price"
)

const (
	LineTableName  = "booking_services"
	LineEntityName = "booking_service"

	LineFieldID        = "id"
	LineFieldBookingID = "booking_id"
	LineFieldServiceID = "service_id"
	LineFieldQuantity  = "quantity"
	LineFieldUnitPrice = "unit_price"
)

// Booking carries hotel_id denormalized from its room so hotel scoping works
// on filters that cannot join.
type Booking struct {
	ID              string     `db:"id"`
	HotelID         string     `db:"hotel_id"`
	RoomID          string     `db:"room_id"`
	CustomerID      string     `db:"customer_id"`
	PackageID       *string    `db:"package_id"`
	CheckInDate     time.Time  `db:"check_in_date"`
	CheckOutDate    time.Time  `db:"check_out_date"`
	GuestCount      int        `db:"guest_count"`
	Note            *string    `db:"note"`
	Status          string     `db:"status"`
	Source          string     `db:"source"`
	PaymentStatus   string     `db:"payment_status"`
	PaymentMethod   *string    `db:"payment_method"`
	PaymentAmount   *float64   `db:"payment_amount"`
	PaymentDate     *time.Time `db:"payment_date"`
	PromotionID     *string    `db:"promotion_id"`
	PromotionUsedAt *time.Time `db:"promotion_used_at"`
	Subtotal        float64    `db:"subtotal"`
	DiscountAmount  float64    `db:"discount_amount"`
	TotalPrice      float64    `db:"total_price"`

	RoomNumber   string  `db:"room_number"    table:"rooms"      column:"room_number"`
	RoomTypeName string  `db:"room_type_name" table:"room_types" column:"name"`
	HotelName    string  `db:"hotel_name"     table:"hotels"     column:"name"`
	CustomerName *string `db:"customer_name"  table:"users"      column:"full_name"`
	CustomerMail string  `db:"customer_email" table:"users"      column:"email"`

	model.Metadata
	model.SoftDelete
}

func (Booking) GetJoinQuery() string {
	return `LEFT JOIN rooms ON rooms.id = bookings.room_id
		LEFT JOIN room_types ON room_types.id = rooms.room_type_id
		LEFT JOIN hotels ON hotels.id = bookings.hotel_id
		LEFT JOIN users ON users.id = bookings.customer_id`
}

type BookingService struct {
	ID        string  `db:"id"`
	BookingID string  `db:"booking_id"`
	ServiceID string  `db:"service_id"`
	Quantity  int     `db:"quantity"`
	UnitPrice float64 `db:"unit_price"`

	ServiceName string `db:"service_name" table:"services" column:"name"`
}

func (BookingService) GetJoinQuery() string {
	return "LEFT JOIN services ON services.id = booking_services.service_id"
}
