package dto

import (
	"mime/multipart"

	"innkeeper/internal/domains/hotel/model"
	"innkeeper/shared"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateHotelRequest struct {
	Name        string  `json:"name"        validate:"required,max=150"`
	Description *string `json:"description,omitempty"`
	Address     string  `json:"address"     validate:"required,max=255"`
	City        string  `json:"city"        validate:"required,max=100"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=100"`
}

func (r *CreateHotelRequest) ToModel(username string) model.Hotel {
	return model.Hotel{
		ID:          uuid.NewString(),
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		City:        r.City,
		Phone:       r.Phone,
		Email:       r.Email,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UpdateHotelRequest struct {
	Name        *string `db:"name"        json:"name,omitempty"        validate:"omitempty,max=150"`
	Description *string `db:"description" json:"description,omitempty"`
	Address     *string `db:"address"     json:"address,omitempty"     validate:"omitempty,max=255"`
	City        *string `db:"city"        json:"city,omitempty"        validate:"omitempty,max=100"`
	Phone       *string `db:"phone"       json:"phone,omitempty"       validate:"omitempty,max=20"`
	Email       *string `db:"email"       json:"email,omitempty"       validate:"omitempty,email,max=100"`
}

type AssignUserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type UploadImageRequest struct {
	Image *multipart.FileHeader `json:"image" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
}

// StaffSummary is the short form of an assigned account shown on hotel
// detail responses.
type StaffSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

type HotelResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Address     string        `json:"address"`
	City        string        `json:"city"`
	Phone       *string       `json:"phone,omitempty"`
	Email       *string       `json:"email,omitempty"`
	Image       *string       `json:"image,omitempty"`
	Manager     *StaffSummary `json:"manager,omitempty"`
	Staff       *StaffSummary `json:"staff,omitempty"`
	gDto.Metadata
}

func (r *HotelResponse) FromModel(model model.Hotel) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Address = model.Address
	r.City = model.City
	r.Phone = model.Phone
	r.Email = model.Email
	r.Image = model.Image
	r.Metadata.FromModel(model.Metadata)
}

type GetHotelsResponse struct {
	Hotels    []HotelResponse `json:"hotels"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetHotelsResponse) FromModels(models []model.Hotel, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Hotels = make([]HotelResponse, len(models))
	for i, mod := range models {
		r.Hotels[i].FromModel(mod)
	}
}
