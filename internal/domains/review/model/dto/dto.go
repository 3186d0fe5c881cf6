package dto

import (
	"innkeeper/internal/domains/review/model"
	"innkeeper/shared"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Rating    int    `json:"rating"     validate:"required,min=1,max=5"`
	Comment   string `json:"comment"    validate:"omitempty,max=1000"`
}

func (c *CreateReviewRequest) ToModel(user string) model.Review {
	var comment *string
	if c.Comment != "" {
		comment = &c.Comment
	}

	return model.Review{
		ID:        uuid.NewString(),
		BookingID: c.BookingID,
		Rating:    c.Rating,
		Comment:   comment,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateReviewRequest struct {
	Rating  *int    `db:"rating"  json:"rating"  validate:"omitempty,min=1,max=5"`
	Comment *string `db:"comment" json:"comment" validate:"omitempty,max=1000"`
}

type ReviewResponse struct {
	ID           string  `json:"id"`
	BookingID    string  `json:"booking_id"`
	Rating       int     `json:"rating"`
	Comment      *string `json:"comment"`
	CustomerID   string  `json:"customer_id"`
	CustomerName *string `json:"customer_name"`
	HotelID      string  `json:"hotel_id"`
	HotelName    string  `json:"hotel_name"`
	RoomTypeID   string  `json:"room_type_id"`
	RoomTypeName string  `json:"room_type_name"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.CustomerID = model.CustomerID
	r.CustomerName = model.CustomerName
	r.HotelID = model.HotelID
	r.HotelName = model.HotelName
	r.RoomTypeID = model.RoomTypeID
	r.RoomTypeName = model.RoomTypeName
	r.Metadata.FromModel(model.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}

type ReviewStatsResponse struct {
	TotalReviews  int         `json:"total_reviews"`
	AverageRating float64     `json:"average_rating"`
	ByRating      map[int]int `json:"by_rating"`
}
