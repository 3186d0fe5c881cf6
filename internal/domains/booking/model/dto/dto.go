package dto

import (
	"time"

	"innkeeper/internal/domains/booking/model"
	reviewDto "innkeeper/internal/domains/review/model/dto"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type BookingServiceRequest struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CreateBookingRequest struct {
	RoomID        string                  `json:"room_id"        validate:"required,uuid"`
	CheckInDate   string                  `json:"check_in_date"  validate:"required"`
	CheckOutDate  string                  `json:"check_out_date" validate:"required"`
	GuestCount    int                     `json:"guest_count"    validate:"required,min=1"`
	Note          string                  `json:"note"           validate:"omitempty,max=500"`
	PackageID     *string                 `json:"package_id"     validate:"omitempty,uuid"`
	PromotionCode string                  `json:"promotion_code" validate:"omitempty,max=50"`
	Services      []BookingServiceRequest `json:"services"       validate:"omitempty,dive"`
}

func (c *CreateBookingRequest) ToModel(user, customerID string) (model.Booking, error) {
	checkIn, err := time.Parse(constant.DateOnlyFormat, c.CheckInDate)
	if err != nil {
		return model.Booking{}, err
	}

	checkOut, err := time.Parse(constant.DateOnlyFormat, c.CheckOutDate)
	if err != nil {
		return model.Booking{}, err
	}

	var note *string
	if c.Note != "" {
		note = &c.Note
	}

	source := model.SourceDirect
	if c.PackageID != nil {
		source = model.SourcePackage
	}

	return model.Booking{
		ID:            uuid.NewString(),
		RoomID:        c.RoomID,
		CustomerID:    customerID,
		PackageID:     c.PackageID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		GuestCount:    c.GuestCount,
		Note:          note,
		Status:        model.StatusPending,
		Source:        source,
		PaymentStatus: model.PaymentStatusNotPaid,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

// UpdateBookingRequest edits a pending booking. Changed dates or room
// re-run the availability check and the price is recomputed.
type UpdateBookingRequest struct {
	RoomID       string  `json:"room_id"        validate:"omitempty,uuid"`
	CheckInDate  string  `json:"check_in_date"  validate:"omitempty"`
	CheckOutDate string  `json:"check_out_date" validate:"omitempty"`
	GuestCount   *int    `json:"guest_count"    validate:"omitempty,min=1"`
	Note         *string `json:"note"           validate:"omitempty,max=500"`
}

type ConfirmPaymentRequest struct {
	Amount        float64 `json:"amount"         validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,max=50"`
}

type BookingServiceResponse struct {
	ID          string  `json:"id"`
	ServiceID   string  `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

func (r *BookingServiceResponse) FromModel(model model.BookingService) {
	r.ID = model.ID
	r.ServiceID = model.ServiceID
	r.ServiceName = model.ServiceName
	r.Quantity = model.Quantity
	r.UnitPrice = model.UnitPrice
	r.Total = model.UnitPrice * float64(model.Quantity)
}

type BookingResponse struct {
	ID             string                    `json:"id"`
	HotelID        string                    `json:"hotel_id"`
	HotelName      string                    `json:"hotel_name"`
	RoomID         string                    `json:"room_id"`
	RoomNumber     string                    `json:"room_number"`
	RoomTypeName   string                    `json:"room_type_name"`
	CustomerID     string                    `json:"customer_id"`
	CustomerName   *string                   `json:"customer_name"`
	CustomerEmail  string                    `json:"customer_email"`
	PackageID      *string                   `json:"package_id,omitempty"`
	CheckInDate    string                    `json:"check_in_date"`
	CheckOutDate   string                    `json:"check_out_date"`
	Nights         int                       `json:"nights"`
	GuestCount     int                       `json:"guest_count"`
	Note           *string                   `json:"note,omitempty"`
	Status         string                    `json:"status"`
	Source         string                    `json:"source"`
	PaymentStatus  string                    `json:"payment_status"`
	PaymentMethod  *string                   `json:"payment_method,omitempty"`
	PaymentAmount  *float64                  `json:"payment_amount,omitempty"`
	PaymentDate    *string                   `json:"payment_date,omitempty"`
	PromotionID    *string                   `json:"promotion_id,omitempty"`
	Subtotal       float64                   `json:"subtotal"`
	DiscountAmount float64                   `json:"discount_amount"`
	TotalPrice     float64                   `json:"total_price"`
	Services       []BookingServiceResponse  `json:"services,omitempty"`
	Review         *reviewDto.ReviewResponse `json:"review,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.HotelID = model.HotelID
	r.HotelName = model.HotelName
	r.RoomID = model.RoomID
	r.RoomNumber = model.RoomNumber
	r.RoomTypeName = model.RoomTypeName
	r.CustomerID = model.CustomerID
	r.CustomerName = model.CustomerName
	r.CustomerEmail = model.CustomerMail
	r.PackageID = model.PackageID
	r.CheckInDate = model.CheckInDate.Format(constant.DateOnlyFormat)
	r.CheckOutDate = model.CheckOutDate.Format(constant.DateOnlyFormat)
	r.Nights = int(model.CheckOutDate.Sub(model.CheckInDate).Hours() / 24)
	r.GuestCount = model.GuestCount
	r.Note = model.Note
	r.Status = model.Status
	r.Source = model.Source
	r.PaymentStatus = model.PaymentStatus
	r.PaymentMethod = model.PaymentMethod
	r.PaymentAmount = model.PaymentAmount
	r.PromotionID = model.PromotionID
	r.Subtotal = model.Subtotal
	r.DiscountAmount = model.DiscountAmount
	r.TotalPrice = model.TotalPrice
	r.Metadata.FromModel(model.Metadata)

	if model.PaymentDate != nil {
		paymentDate := timezone.Format(*model.PaymentDate, constant.DateFormat)
		r.PaymentDate = &paymentDate
	}
}

func (r *BookingResponse) FromServiceModels(services []model.BookingService) {
	r.Services = make([]BookingServiceResponse, len(services))
	for i, svc := range services {
		r.Services[i].FromModel(svc)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type BookingStatsResponse struct {
	TotalBookings int            `json:"total_bookings"`
	ByStatus      map[string]int `json:"by_status"`
	Revenue       float64        `json:"revenue"`
}
