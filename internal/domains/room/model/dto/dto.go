package dto

import (
	"innkeeper/internal/domains/room/model"
	"innkeeper/shared"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	RoomTypeID string `json:"room_type_id" validate:"required,uuid"`
	RoomNumber string `json:"room_number"  validate:"required,max=20"`
	Status     string `json:"status"       validate:"omitempty,oneof=available maintenance"`
}

func (c *CreateRoomRequest) ToModel(user string, hotelID string) model.Room {
	status := c.Status
	if status == "" {
		status = model.StatusAvailable
	}

	return model.Room{
		ID:         uuid.NewString(),
		RoomTypeID: c.RoomTypeID,
		HotelID:    hotelID,
		RoomNumber: c.RoomNumber,
		Status:     status,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	RoomNumber string `db:"room_number" json:"room_number" validate:"omitempty,max=20"`
	Status     string `db:"status"      json:"status"      validate:"omitempty,oneof=available maintenance"`
}

type RoomResponse struct {
	ID           string  `json:"id"`
	RoomTypeID   string  `json:"room_type_id"`
	HotelID      string  `json:"hotel_id"`
	RoomNumber   string  `json:"room_number"`
	Status       string  `json:"status"`
	RoomTypeName string  `json:"room_type_name"`
	BasePrice    float64 `json:"base_price"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomTypeID = model.RoomTypeID
	r.HotelID = model.HotelID
	r.RoomNumber = model.RoomNumber
	r.Status = model.Status
	r.RoomTypeName = model.RoomTypeName
	r.BasePrice = model.BasePrice
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type CheckAvailabilityRequest struct {
	CheckInDate  string `json:"check_in_date"  validate:"required"`
	CheckOutDate string `json:"check_out_date" validate:"required"`
}

type RoomAvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	Available bool   `json:"available"`
	CheckIn   string `json:"check_in_date"`
	CheckOut  string `json:"check_out_date"`
}
