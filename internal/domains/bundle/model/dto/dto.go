package dto

import (
	"mime/multipart"

	"innkeeper/internal/domains/bundle/model"
	"innkeeper/shared"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

// PackageItemRequest must name exactly one of a room type or a service.
type PackageItemRequest struct {
	RoomTypeID *string `json:"room_type_id,omitempty" validate:"required_without=ServiceID,excluded_with=ServiceID,omitempty,uuid"`
	ServiceID  *string `json:"service_id,omitempty"   validate:"omitempty,uuid"`
	Quantity   int     `json:"quantity"               validate:"required,min=1"`
}

func (p *PackageItemRequest) ToModel(packageID string) model.PackageItem {
	return model.PackageItem{
		ID:         uuid.NewString(),
		PackageID:  packageID,
		RoomTypeID: p.RoomTypeID,
		ServiceID:  p.ServiceID,
		Quantity:   p.Quantity,
	}
}

type CreatePackageRequest struct {
	Name        string               `json:"name"        validate:"required,max=150"`
	Description string               `json:"description" validate:"omitempty,max=500"`
	TotalPrice  float64              `json:"total_price" validate:"required,gt=0"`
	IsActive    *bool                `json:"is_active"   validate:"omitempty"`
	Items       []PackageItemRequest `json:"items"       validate:"required,min=1,dive"`
}

func (c *CreatePackageRequest) ToModel(user string) model.Package {
	var description *string
	if c.Description != "" {
		description = &c.Description
	}

	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}

	return model.Package{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: description,
		TotalPrice:  c.TotalPrice,
		IsActive:    active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdatePackageRequest struct {
	Name        string   `db:"name"        json:"name"        validate:"omitempty,max=150"`
	Description *string  `db:"description" json:"description" validate:"omitempty,max=500"`
	TotalPrice  *float64 `db:"total_price" json:"total_price" validate:"omitempty,gt=0"`
	IsActive    *bool    `db:"is_active"   json:"is_active"   validate:"omitempty"`

	// Items replaces the full item set when present.
	Items *[]PackageItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

type UploadImageRequest struct {
	Image *multipart.FileHeader `json:"image" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
}

type PackageItemResponse struct {
	ID           string  `json:"id"`
	RoomTypeID   *string `json:"room_type_id,omitempty"`
	ServiceID    *string `json:"service_id,omitempty"`
	RoomTypeName *string `json:"room_type_name,omitempty"`
	ServiceName  *string `json:"service_name,omitempty"`
	Quantity     int     `json:"quantity"`
}

func (r *PackageItemResponse) FromModel(model model.PackageItem) {
	r.ID = model.ID
	r.RoomTypeID = model.RoomTypeID
	r.ServiceID = model.ServiceID
	r.RoomTypeName = model.RoomTypeName
	r.ServiceName = model.ServiceName
	r.Quantity = model.Quantity
}

type PackageResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description *string               `json:"description"`
	TotalPrice  float64               `json:"total_price"`
	Image       *string               `json:"image"`
	IsActive    bool                  `json:"is_active"`
	Items       []PackageItemResponse `json:"items,omitempty"`
	gDto.Metadata
}

func (r *PackageResponse) FromModel(model model.Package) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.TotalPrice = model.TotalPrice
	r.Image = model.Image
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

func (r *PackageResponse) FromItemModels(items []model.PackageItem) {
	r.Items = make([]PackageItemResponse, len(items))
	for i, item := range items {
		r.Items[i].FromModel(item)
	}
}

type GetPackagesResponse struct {
	Packages  []PackageResponse `json:"packages"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPackagesResponse) FromModels(models []model.Package, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Packages = make([]PackageResponse, len(models))
	for i, mod := range models {
		r.Packages[i].FromModel(mod)
	}
}
