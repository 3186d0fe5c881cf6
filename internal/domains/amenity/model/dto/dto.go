package dto

import (
	"mime/multipart"

	"innkeeper/internal/domains/amenity/model"
	"innkeeper/shared"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateAmenityRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (r *CreateAmenityRequest) ToModel(username string) model.Amenity {
	return model.Amenity{
		ID:   uuid.NewString(),
		Name: r.Name,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UpdateAmenityRequest struct {
	Name *string `db:"name" json:"name,omitempty" validate:"omitempty,max=100"`
}

type UploadIconRequest struct {
	Icon *multipart.FileHeader `json:"icon" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg image/svg+xml,maxfilesize=1"`
}

type AmenityResponse struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Icon *string `json:"icon,omitempty"`
	gDto.Metadata
}

func (r *AmenityResponse) FromModel(model model.Amenity) {
	r.ID = model.ID
	r.Name = model.Name
	r.Icon = model.Icon
	r.Metadata.FromModel(model.Metadata)
}

type GetAmenitiesResponse struct {
	Amenities []AmenityResponse `json:"amenities"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetAmenitiesResponse) FromModels(models []model.Amenity, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Amenities = make([]AmenityResponse, len(models))
	for i, mod := range models {
		r.Amenities[i].FromModel(mod)
	}
}
