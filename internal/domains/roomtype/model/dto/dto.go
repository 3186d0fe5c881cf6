package dto

import (
	"mime/multipart"

	amenityDto "innkeeper/internal/domains/amenity/model/dto"
	"innkeeper/internal/domains/roomtype/model"
	"innkeeper/shared"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomTypeRequest struct {
	HotelID     string   `json:"hotel_id"    validate:"required,uuid"`
	Name        string   `json:"name"        validate:"required,max=150"`
	Description *string  `json:"description,omitempty"`
	BasePrice   float64  `json:"base_price"  validate:"required,gt=0"`
	Capacity    int      `json:"capacity"    validate:"required,gt=0"`
	AmenityIDs  []string `json:"amenity_ids,omitempty" validate:"omitempty,dive,uuid"`
}

func (r *CreateRoomTypeRequest) ToModel(username string) model.RoomType {
	return model.RoomType{
		ID:          uuid.NewString(),
		HotelID:     r.HotelID,
		Name:        r.Name,
		Description: r.Description,
		BasePrice:   r.BasePrice,
		Capacity:    r.Capacity,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UpdateRoomTypeRequest struct {
	Name        *string  `db:"name"        json:"name,omitempty"        validate:"omitempty,max=150"`
	Description *string  `db:"description" json:"description,omitempty"`
	BasePrice   *float64 `db:"base_price"  json:"base_price,omitempty"  validate:"omitempty,gt=0"`
	Capacity    *int     `db:"capacity"    json:"capacity,omitempty"    validate:"omitempty,gt=0"`

	// AmenityIDs replaces the full amenity set when present.
	AmenityIDs *[]string `json:"amenity_ids,omitempty" validate:"omitempty,dive,uuid"`
}

type UploadImageRequest struct {
	Image *multipart.FileHeader `json:"image" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
}

type RoomImageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (r *RoomImageResponse) FromModel(model model.RoomImage) {
	r.ID = model.ID
	r.URL = model.URL
}

type RoomTypeResponse struct {
	ID          string                       `json:"id"`
	HotelID     string                       `json:"hotel_id"`
	HotelName   string                       `json:"hotel_name"`
	Name        string                       `json:"name"`
	Description *string                      `json:"description,omitempty"`
	BasePrice   float64                      `json:"base_price"`
	Capacity    int                          `json:"capacity"`
	Amenities   []amenityDto.AmenityResponse `json:"amenities,omitempty"`
	Images      []RoomImageResponse          `json:"images,omitempty"`
	gDto.Metadata
}

func (r *RoomTypeResponse) FromModel(model model.RoomType) {
	r.ID = model.ID
	r.HotelID = model.HotelID
	r.HotelName = model.HotelName
	r.Name = model.Name
	r.Description = model.Description
	r.BasePrice = model.BasePrice
	r.Capacity = model.Capacity
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomTypesResponse struct {
	RoomTypes []RoomTypeResponse `json:"room_types"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetRoomTypesResponse) FromModels(models []model.RoomType, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.RoomTypes = make([]RoomTypeResponse, len(models))
	for i, mod := range models {
		r.RoomTypes[i].FromModel(mod)
	}
}
