package dto

import (
	"strings"
	"time"

	"innkeeper/internal/domains/promotion/model"
	"innkeeper/shared"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreatePromotionRequest struct {
	Code          string  `json:"code"           validate:"required,max=50"`
	Description   string  `json:"description"    validate:"omitempty,max=500"`
	DiscountType  string  `json:"discount_type"  validate:"required,oneof=percentage fixed"`
	DiscountValue float64 `json:"discount_value" validate:"required,gt=0"`
	StartDate     string  `json:"start_date"     validate:"required"`
	EndDate       string  `json:"end_date"       validate:"required"`
	MaxUsage      int     `json:"max_usage"      validate:"required,min=1"`
	IsActive      *bool   `json:"is_active"      validate:"omitempty"`
}

func (c *CreatePromotionRequest) ToModel(user string) (model.Promotion, error) {
	startDate, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return model.Promotion{}, err
	}

	endDate, err := time.Parse("2006-01-02", c.EndDate)
	if err != nil {
		return model.Promotion{}, err
	}

	var description *string
	if c.Description != "" {
		description = &c.Description
	}

	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}

	return model.Promotion{
		ID:            uuid.NewString(),
		Code:          strings.ToUpper(strings.TrimSpace(c.Code)),
		Description:   description,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		StartDate:     startDate,
		EndDate:       endDate,
		MaxUsage:      c.MaxUsage,
		IsActive:      active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdatePromotionRequest struct {
	Description   *string  `db:"description"    json:"description"    validate:"omitempty,max=500"`
	DiscountType  string   `db:"discount_type"  json:"discount_type"  validate:"omitempty,oneof=percentage fixed"`
	DiscountValue *float64 `db:"discount_value" json:"discount_value" validate:"omitempty,gt=0"`
	StartDate     string   `json:"start_date"   validate:"omitempty"`
	EndDate       string   `json:"end_date"     validate:"omitempty"`
	MaxUsage      *int     `db:"max_usage"      json:"max_usage"      validate:"omitempty,min=1"`
	IsActive      *bool    `db:"is_active"      json:"is_active"      validate:"omitempty"`
}

type PromotionResponse struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	Description   *string `json:"description"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	MaxUsage      int     `json:"max_usage"`
	Usage         int     `json:"usage"`
	IsActive      bool    `json:"is_active"`
	gDto.Metadata
}

func (r *PromotionResponse) FromModel(model model.Promotion) {
	r.ID = model.ID
	r.Code = model.Code
	r.Description = model.Description
	r.DiscountType = model.DiscountType
	r.DiscountValue = model.DiscountValue
	r.StartDate = model.StartDate.Format("2006-01-02")
	r.EndDate = model.EndDate.Format("2006-01-02")
	r.MaxUsage = model.MaxUsage
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

type GetPromotionsResponse struct {
	Promotions []PromotionResponse `json:"promotions"`
	TotalPage  int                 `json:"total_page"`
	TotalData  int                 `json:"total_data"`
}

func (r *GetPromotionsResponse) FromModels(models []model.Promotion, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Promotions = make([]PromotionResponse, len(models))
	for i, mod := range models {
		r.Promotions[i].FromModel(mod)
	}
}

type ValidatePromotionResponse struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
}

func (r *ValidatePromotionResponse) FromModel(model model.Promotion) {
	r.ID = model.ID
	r.Code = model.Code
	r.DiscountType = model.DiscountType
	r.DiscountValue = model.DiscountValue
}
