package model

import "innkeeper/shared/model"

const (
	TableName  = "packages"
	EntityName = "package"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldTotalPrice  = "total_price"
	FieldImage       = "image"
	FieldIsActive    = "is_active"
)

const (
	ItemTableName  = "package_items"
	ItemEntityName = "package_item"

	ItemFieldID         = "id"
	ItemFieldPackageID  = "package_id"
	ItemFieldRoomTypeID = "room_type_id"
	ItemFieldServiceID  = "service_id"
	ItemFieldQuantity   = "quantity"
)

type Package struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
	TotalPrice  float64 `db:"total_price"`
	Image       *string `db:"image"`
	IsActive    bool    `db:"is_active"`
	model.Metadata
	model.SoftDelete
}

// PackageItem references exactly one of a room type or a service. Items are
// replaced as a set when their package is updated.
type PackageItem struct {
	ID           string   `db:"id"`
	PackageID    string   `db:"package_id"`
	RoomTypeID   *string  `db:"room_type_id"`
	ServiceID    *string  `db:"service_id"`
	Quantity     int      `db:"quantity"`
	RoomTypeName *string  `db:"room_type_name" table:"room_types" column:"name"`
	ServiceName  *string  `db:"service_name"   table:"services"   column:"name"`
	ServicePrice *float64 `db:"service_price"  table:"services"   column:"price"`
}

func (PackageItem) GetJoinQuery() string {
	return `LEFT JOIN room_types ON room_types.id = package_items.room_type_id
		LEFT JOIN services ON services.id = package_items.service_id`
}
