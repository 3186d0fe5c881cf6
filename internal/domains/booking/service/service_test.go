package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mailerMocks "innkeeper/infras/mailer/mocks"
	otelMocks "innkeeper/infras/otel/mocks"
	"innkeeper/infras/postgres"
	"innkeeper/internal/access"
	"innkeeper/internal/audit"
	auditMocks "innkeeper/internal/audit/mocks"
	bookingMocks "innkeeper/internal/domains/booking/mocks"
	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/model/dto"
	"innkeeper/internal/domains/booking/service"
	bundleMocks "innkeeper/internal/domains/bundle/mocks"
	bundleModel "innkeeper/internal/domains/bundle/model"
	promotionModel "innkeeper/internal/domains/promotion/model"
	promotionDto "innkeeper/internal/domains/promotion/model/dto"
	promotionMocks "innkeeper/internal/domains/promotion/service/mocks"
	reviewMocks "innkeeper/internal/domains/review/mocks"
	reviewModel "innkeeper/internal/domains/review/model"
	roomMocks "innkeeper/internal/domains/room/mocks"
	roomModel "innkeeper/internal/domains/room/model"
	serviceMocks "innkeeper/internal/domains/service/mocks"
	serviceModel "innkeeper/internal/domains/service/model"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
)

var (
	adminScope    = access.Scope{UserID: "admin-1", Email: "admin@example.com", Role: constant.RoleAdmin}
	managerScope  = access.Scope{UserID: "manager-1", Email: "manager@example.com", Role: constant.RoleManager, HotelID: stringPtr("hotel-1")}
	staffScope    = access.Scope{UserID: "staff-1", Email: "staff@example.com", Role: constant.RoleStaff, HotelID: stringPtr("hotel-1")}
	outsiderScope = access.Scope{UserID: "manager-2", Email: "other@example.com", Role: constant.RoleManager, HotelID: stringPtr("hotel-2")}
	customerScope = access.Scope{UserID: "customer-1", Email: "guest@example.com", Role: constant.RoleCustomer}
)

type bookingMockSet struct {
	repo       *bookingMocks.MockBooking
	lines      *bookingMocks.MockLine
	rooms      *roomMocks.MockRoom
	services   *serviceMocks.MockService
	packages   *bundleMocks.MockPackage
	items      *bundleMocks.MockItem
	reviews    *reviewMocks.MockReview
	promotions *promotionMocks.MockPromotion
	mailer     *mailerMocks.MockMailer
	audit      *auditMocks.MockRecorder
	sqlMock    sqlmock.Sqlmock
	svc        service.Booking
}

func newBookingMocks(t *testing.T, ctrl *gomock.Controller) *bookingMockSet {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	conn := &postgres.Connection{
		Read:  sqlx.NewDb(db, "sqlmock"),
		Write: sqlx.NewDb(db, "sqlmock"),
	}

	m := &bookingMockSet{
		repo:       bookingMocks.NewMockBooking(ctrl),
		lines:      bookingMocks.NewMockLine(ctrl),
		rooms:      roomMocks.NewMockRoom(ctrl),
		services:   serviceMocks.NewMockService(ctrl),
		packages:   bundleMocks.NewMockPackage(ctrl),
		items:      bundleMocks.NewMockItem(ctrl),
		reviews:    reviewMocks.NewMockReview(ctrl),
		promotions: promotionMocks.NewMockPromotion(ctrl),
		mailer:     mailerMocks.NewMockMailer(ctrl),
		audit:      auditMocks.NewMockRecorder(ctrl),
		sqlMock:    sqlMock,
	}

	m.svc = service.New(
		m.repo,
		m.lines,
		m.rooms,
		m.services,
		m.packages,
		m.items,
		m.reviews,
		m.promotions,
		conn,
		m.mailer,
		m.audit,
		otelMocks.NewOtel(),
	)

	return m
}

func pendingBooking() model.Booking {
	return model.Booking{
		ID:            "booking-1",
		HotelID:       "hotel-1",
		RoomID:        "room-1",
		CustomerID:    "customer-1",
		CheckInDate:   date("2030-01-10"),
		CheckOutDate:  date("2030-01-12"),
		GuestCount:    2,
		Status:        model.StatusPending,
		Source:        model.SourceDirect,
		PaymentStatus: model.PaymentStatusNotPaid,
		Subtotal:      200,
		TotalPrice:    200,
		RoomNumber:    "101",
		RoomTypeName:  "Deluxe",
		HotelName:     "Seaview Resort",
		CustomerMail:  "guest@example.com",
	}
}

func availableRoom() roomModel.Room {
	return roomModel.Room{
		ID:         "room-1",
		RoomTypeID: "room-type-1",
		HotelID:    "hotel-1",
		RoomNumber: "101",
		Status:     roomModel.StatusAvailable,
		BasePrice:  100,
		Capacity:   2,
	}
}

// expectHydrate covers the re-read that builds the detail response after a
// successful create.
func expectHydrate(m *bookingMockSet, booking model.Booking) {
	m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
	m.lines.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	m.reviews.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reviewModel.Review{}, nil)
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		scope     access.Scope
		req       dto.CreateBookingRequest
		setupMock func(t *testing.T, m *bookingMockSet)
		wantErr   error
		wantCode  int
	}{
		{
			name:  "creates a direct booking for an available room",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:       "room-1",
				CheckInDate:  "2030-01-10",
				CheckOutDate: "2030-01-12",
				GuestCount:   2,
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.sqlMock.ExpectBegin()
				m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
						assert.NotEmpty(t, booking.ID)
						assert.Equal(t, "hotel-1", booking.HotelID)
						assert.Equal(t, "customer-1", booking.CustomerID)
						assert.Equal(t, model.StatusPending, booking.Status)
						assert.Equal(t, model.SourceDirect, booking.Source)
						assert.Equal(t, 200.0, booking.Subtotal)
						assert.Equal(t, 0.0, booking.DiscountAmount)
						assert.Equal(t, 200.0, booking.TotalPrice)
						return nil
					})
				m.sqlMock.ExpectCommit()
				m.audit.EXPECT().Record(gomock.Any(), customerScope, audit.ActionCreate, model.EntityName, gomock.Any(), gomock.Any())
				expectHydrate(m, pendingBooking())
			},
		},
		{
			name:  "prices a package stay with extras and a promotion",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:        "room-1",
				CheckInDate:   "2030-01-10",
				CheckOutDate:  "2030-01-12",
				GuestCount:    2,
				PackageID:     stringPtr("package-1"),
				PromotionCode: "SUMMER10",
				Services:      []dto.BookingServiceRequest{{ServiceID: "service-2", Quantity: 2}},
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				m.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bundleModel.Package{
					ID:       "package-1",
					Name:     "Honeymoon",
					IsActive: true,
				}, nil)
				m.items.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bundleModel.PackageItem{
					{ID: "item-1", PackageID: "package-1", RoomTypeID: stringPtr("room-type-1"), Quantity: 1},
					{ID: "item-2", PackageID: "package-1", ServiceID: stringPtr("service-1"), Quantity: 1, ServicePrice: floatPtr(50)},
				}, nil)
				m.services.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]serviceModel.Service{
					{ID: "service-2", Name: "Airport Transfer", Price: 20},
				}, nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.promotions.EXPECT().Validate(gomock.Any(), "SUMMER10", gomock.Any()).Return(promotionDto.ValidatePromotionResponse{
					ID:            "promotion-1",
					Code:          "SUMMER10",
					DiscountType:  "percentage",
					DiscountValue: 10,
				}, nil)
				m.sqlMock.ExpectBegin()
				m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
						assert.Equal(t, model.SourcePackage, booking.Source)
						if assert.NotNil(t, booking.PromotionID) {
							assert.Equal(t, "promotion-1", *booking.PromotionID)
						}
						// 2 nights x 100 + package service 50 + 2 x 20 extras
						assert.Equal(t, 290.0, booking.Subtotal)
						assert.Equal(t, 29.0, booking.DiscountAmount)
						assert.Equal(t, 261.0, booking.TotalPrice)
						return nil
					})
				m.lines.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, lineModels []model.BookingService) error {
						assert.Len(t, lineModels, 2)
						return nil
					})
				m.sqlMock.ExpectCommit()
				m.audit.EXPECT().Record(gomock.Any(), customerScope, audit.ActionCreate, model.EntityName, gomock.Any(), gomock.Any())
				expectHydrate(m, pendingBooking())
			},
		},
		{
			name:  "rejects a check-out on or before check-in",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:       "room-1",
				CheckInDate:  "2030-01-12",
				CheckOutDate: "2030-01-12",
				GuestCount:   2,
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {},
			wantErr:   failure.InvalidDateRange,
		},
		{
			name:  "rejects a check-in in the past",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:       "room-1",
				CheckInDate:  "2020-01-10",
				CheckOutDate: "2020-01-12",
				GuestCount:   2,
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {},
			wantCode:  400,
		},
		{
			name:  "rejects a room under maintenance",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:       "room-1",
				CheckInDate:  "2030-01-10",
				CheckOutDate: "2030-01-12",
				GuestCount:   2,
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				room := availableRoom()
				room.Status = roomModel.StatusMaintenance
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
			},
			wantErr: failure.RoomUnavailable,
		},
		{
			name:  "rejects a guest count above room capacity",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:       "room-1",
				CheckInDate:  "2030-01-10",
				CheckOutDate: "2030-01-12",
				GuestCount:   3,
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
			},
			wantCode: 400,
		},
		{
			name:  "rejects a room outside the package",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:       "room-1",
				CheckInDate:  "2030-01-10",
				CheckOutDate: "2030-01-12",
				GuestCount:   2,
				PackageID:    stringPtr("package-1"),
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				m.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bundleModel.Package{ID: "package-1", IsActive: true}, nil)
				m.items.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bundleModel.PackageItem{
					{ID: "item-1", PackageID: "package-1", RoomTypeID: stringPtr("room-type-9"), Quantity: 1},
				}, nil)
			},
			wantCode: 400,
		},
		{
			name:  "rejects an inactive package",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:       "room-1",
				CheckInDate:  "2030-01-10",
				CheckOutDate: "2030-01-12",
				GuestCount:   2,
				PackageID:    stringPtr("package-1"),
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				m.packages.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bundleModel.Package{ID: "package-1", IsActive: false}, nil)
			},
			wantCode: 400,
		},
		{
			name:  "rejects extras that do not exist",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:       "room-1",
				CheckInDate:  "2030-01-10",
				CheckOutDate: "2030-01-12",
				GuestCount:   2,
				Services:     []dto.BookingServiceRequest{{ServiceID: "service-9", Quantity: 1}},
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				m.services.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]serviceModel.Service{}, nil)
			},
			wantCode: 400,
		},
		{
			name:  "rejects a range already held by another booking",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:       "room-1",
				CheckInDate:  "2030-01-10",
				CheckOutDate: "2030-01-12",
				GuestCount:   2,
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: failure.RoomUnavailable,
		},
		{
			name:  "surfaces the promotion rejection",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:        "room-1",
				CheckInDate:   "2030-01-10",
				CheckOutDate:  "2030-01-12",
				GuestCount:    2,
				PromotionCode: "EXPIRED",
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.promotions.EXPECT().Validate(gomock.Any(), "EXPIRED", gomock.Any()).
					Return(promotionDto.ValidatePromotionResponse{}, failure.BadRequestFromString("promotion is not active"))
			},
			wantCode: 400,
		},
		{
			name:  "maps the overlap constraint to room unavailable",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:       "room-1",
				CheckInDate:  "2030-01-10",
				CheckOutDate: "2030-01-12",
				GuestCount:   2,
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.sqlMock.ExpectBegin()
				m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeExclusionViolation})
				m.sqlMock.ExpectRollback()
			},
			wantErr: failure.RoomUnavailable,
		},
		{
			name:  "maps a missing reference to a bad request",
			scope: customerScope,
			req: dto.CreateBookingRequest{
				RoomID:       "room-1",
				CheckInDate:  "2030-01-10",
				CheckOutDate: "2030-01-12",
				GuestCount:   2,
			},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.sqlMock.ExpectBegin()
				m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})
				m.sqlMock.ExpectRollback()
			},
			wantCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newBookingMocks(t, ctrl)
			tt.setupMock(t, m)

			res, err := m.svc.Create(context.Background(), tt.scope, tt.req)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				assert.NoError(t, err)
				assert.Equal(t, "booking-1", res.ID)
				assert.Equal(t, 200.0, res.TotalPrice)
			}

			assert.NoError(t, m.sqlMock.ExpectationsWereMet())
		})
	}
}

func TestBookingService_Update(t *testing.T) {
	tests := []struct {
		name      string
		scope     access.Scope
		req       dto.UpdateBookingRequest
		setupMock func(t *testing.T, m *bookingMockSet)
		wantErr   error
		wantCode  int
	}{
		{
			name:      "rejects an empty update",
			scope:     staffScope,
			req:       dto.UpdateBookingRequest{},
			setupMock: func(t *testing.T, m *bookingMockSet) {},
			wantCode:  400,
		},
		{
			name:  "denies a guest editing a booking",
			scope: customerScope,
			req:   dto.UpdateBookingRequest{Note: stringPtr("late arrival")},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				m.audit.EXPECT().Denied(gomock.Any(), customerScope, "update", model.EntityName)
			},
			wantErr: failure.ResourceRestrictedError,
		},
		{
			name:  "rejects edits after confirmation",
			scope: staffScope,
			req:   dto.UpdateBookingRequest{Note: stringPtr("late arrival")},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				booking := pendingBooking()
				booking.Status = model.StatusConfirmed
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr: failure.InvalidTransition,
		},
		{
			name:  "re-prices the stay when dates change",
			scope: staffScope,
			req:   dto.UpdateBookingRequest{CheckInDate: "2030-02-01", CheckOutDate: "2030-02-04"},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.lines.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.BookingService{
					{ID: "line-1", BookingID: "booking-1", ServiceID: "service-1", Quantity: 1, UnitPrice: 50},
				}, nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						// 3 nights x 100 + one 50 service line
						assert.Equal(t, 350.0, fields[model.FieldSubtotal])
						assert.Equal(t, 350.0, fields[model.FieldTotalPrice])
						checkIn, ok := fields[model.FieldCheckInDate].(time.Time)
						if assert.True(t, ok) {
							assert.True(t, checkIn.Equal(date("2030-02-01")))
						}
						return nil
					})
				m.audit.EXPECT().Record(gomock.Any(), staffScope, audit.ActionUpdate, model.EntityName, "booking-1", gomock.Any())
			},
		},
		{
			name:  "keeps the carried promotion terms",
			scope: staffScope,
			req:   dto.UpdateBookingRequest{CheckOutDate: "2030-01-13"},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				booking := pendingBooking()
				booking.PromotionID = stringPtr("promotion-1")
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.lines.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				m.promotions.EXPECT().Get(gomock.Any(), "promotion-1").Return(promotionDto.PromotionResponse{
					ID:            "promotion-1",
					DiscountType:  "fixed",
					DiscountValue: 30,
				}, nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, 300.0, fields[model.FieldSubtotal])
						assert.Equal(t, 30.0, fields[model.FieldDiscountAmount])
						assert.Equal(t, 270.0, fields[model.FieldTotalPrice])
						return nil
					})
				m.audit.EXPECT().Record(gomock.Any(), staffScope, audit.ActionUpdate, model.EntityName, "booking-1", gomock.Any())
			},
		},
		{
			name:  "drops a promotion deleted since checkout",
			scope: staffScope,
			req:   dto.UpdateBookingRequest{GuestCount: intPtr(1)},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				booking := pendingBooking()
				booking.PromotionID = stringPtr("promotion-1")
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				m.lines.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				m.promotions.EXPECT().Get(gomock.Any(), "promotion-1").
					Return(promotionDto.PromotionResponse{}, failure.NotFound("promotion not found"))
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						cleared, ok := fields[model.FieldPromotionID]
						assert.True(t, ok)
						assert.Nil(t, cleared)
						assert.Equal(t, 200.0, fields[model.FieldTotalPrice])
						return nil
					})
				m.audit.EXPECT().Record(gomock.Any(), staffScope, audit.ActionUpdate, model.EntityName, "booking-1", gomock.Any())
			},
		},
		{
			name:  "rejects an overlapping room switch",
			scope: staffScope,
			req:   dto.UpdateBookingRequest{RoomID: "room-2"},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				room := availableRoom()
				room.ID = "room-2"
				m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: failure.RoomUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newBookingMocks(t, ctrl)
			tt.setupMock(t, m)

			err := m.svc.Update(context.Background(), tt.scope, tt.req, "booking-1")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_ConfirmPayment(t *testing.T) {
	req := dto.ConfirmPaymentRequest{Amount: 240, PaymentMethod: "card"}

	t.Run("confirms a pending booking and emails the guest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		m.sqlMock.ExpectBegin()
		m.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])
				assert.Equal(t, model.PaymentStatusCompleted, fields[model.FieldPaymentStatus])
				assert.Equal(t, "card", fields[model.FieldPaymentMethod])
				assert.Equal(t, 240.0, fields[model.FieldPaymentAmount])
				assert.NotContains(t, fields, model.FieldPromotionUsedAt)
				return nil
			})
		m.sqlMock.ExpectCommit()
		m.audit.EXPECT().Record(gomock.Any(), staffScope, audit.ActionPayment, model.EntityName, "booking-1", gomock.Any())

		sent := make(chan struct{})
		m.mailer.EXPECT().Send(gomock.Any(), "guest@example.com", gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, string, string, string) error {
				close(sent)
				return nil
			})

		err := m.svc.ConfirmPayment(context.Background(), staffScope, req, "booking-1")

		assert.NoError(t, err)

		select {
		case <-sent:
		case <-time.After(2 * time.Second):
			t.Fatal("confirmation email was never sent")
		}

		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("stamps promotion usage inside the payment transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		booking := pendingBooking()
		booking.PromotionID = stringPtr("promotion-1")
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.sqlMock.ExpectBegin()
		m.promotions.EXPECT().ValidateForUpdateTx(gomock.Any(), gomock.Any(), "promotion-1", gomock.Any()).
			Return(promotionModel.Promotion{ID: "promotion-1"}, nil)
		m.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Contains(t, fields, model.FieldPromotionUsedAt)
				return nil
			})
		m.sqlMock.ExpectCommit()
		m.audit.EXPECT().Record(gomock.Any(), staffScope, audit.ActionPayment, model.EntityName, "booking-1", gomock.Any())

		sent := make(chan struct{})
		m.mailer.EXPECT().Send(gomock.Any(), "guest@example.com", gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, string, string, string) error {
				close(sent)
				return nil
			})

		err := m.svc.ConfirmPayment(context.Background(), staffScope, req, "booking-1")

		assert.NoError(t, err)

		select {
		case <-sent:
		case <-time.After(2 * time.Second):
			t.Fatal("confirmation email was never sent")
		}

		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("fails the confirmation when the promotion no longer qualifies", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		booking := pendingBooking()
		booking.PromotionID = stringPtr("promotion-1")
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.sqlMock.ExpectBegin()

		promoErr := failure.BadRequestFromString("promotion usage limit reached")
		m.promotions.EXPECT().ValidateForUpdateTx(gomock.Any(), gomock.Any(), "promotion-1", gomock.Any()).
			Return(promotionModel.Promotion{}, promoErr)
		m.sqlMock.ExpectRollback()

		err := m.svc.ConfirmPayment(context.Background(), staffScope, req, "booking-1")

		assert.ErrorIs(t, err, promoErr)
		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("skips revalidation once usage is stamped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		usedAt := date("2030-01-05")
		booking := pendingBooking()
		booking.PromotionID = stringPtr("promotion-1")
		booking.PromotionUsedAt = &usedAt
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.sqlMock.ExpectBegin()
		m.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.NotContains(t, fields, model.FieldPromotionUsedAt)
				return nil
			})
		m.sqlMock.ExpectCommit()
		m.audit.EXPECT().Record(gomock.Any(), staffScope, audit.ActionPayment, model.EntityName, "booking-1", gomock.Any())

		sent := make(chan struct{})
		m.mailer.EXPECT().Send(gomock.Any(), "guest@example.com", gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, string, string, string) error {
				close(sent)
				return nil
			})

		err := m.svc.ConfirmPayment(context.Background(), staffScope, req, "booking-1")

		assert.NoError(t, err)

		select {
		case <-sent:
		case <-time.After(2 * time.Second):
			t.Fatal("confirmation email was never sent")
		}

		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects paying a confirmed booking twice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		booking := pendingBooking()
		booking.Status = model.StatusConfirmed
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := m.svc.ConfirmPayment(context.Background(), staffScope, req, "booking-1")

		assert.ErrorIs(t, err, failure.InvalidTransition)
	})

	t.Run("denies staff of another hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		m.audit.EXPECT().Denied(gomock.Any(), outsiderScope, "confirm_payment", model.EntityName)

		err := m.svc.ConfirmPayment(context.Background(), outsiderScope, req, "booking-1")

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		scope     access.Scope
		setupMock func(t *testing.T, m *bookingMockSet)
		wantErr   error
	}{
		{
			name:  "a guest cancels their own pending booking",
			scope: customerScope,
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.audit.EXPECT().Record(gomock.Any(), customerScope, audit.ActionStatusChange, model.EntityName, "booking-1",
					map[string]any{"from": model.StatusPending, "to": model.StatusCancelled})
			},
		},
		{
			name:  "staff cancel a booking of their hotel",
			scope: staffScope,
			setupMock: func(t *testing.T, m *bookingMockSet) {
				booking := pendingBooking()
				booking.CustomerID = "customer-9"
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.audit.EXPECT().Record(gomock.Any(), staffScope, audit.ActionStatusChange, model.EntityName, "booking-1",
					map[string]any{"from": model.StatusPending, "to": model.StatusCancelled})
			},
		},
		{
			name:  "denies a guest cancelling someone else's booking",
			scope: access.Scope{UserID: "customer-2", Email: "other@example.com", Role: constant.RoleCustomer},
			setupMock: func(t *testing.T, m *bookingMockSet) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				m.audit.EXPECT().Denied(gomock.Any(), gomock.Any(), "cancel", model.EntityName)
			},
			wantErr: failure.ResourceRestrictedError,
		},
		{
			name:  "rejects cancelling after check-in",
			scope: customerScope,
			setupMock: func(t *testing.T, m *bookingMockSet) {
				booking := pendingBooking()
				booking.Status = model.StatusCheckedIn
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr: failure.InvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newBookingMocks(t, ctrl)
			tt.setupMock(t, m)

			err := m.svc.Cancel(context.Background(), tt.scope, "booking-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Transitions(t *testing.T) {
	tests := []struct {
		name   string
		status string
		wantTo string
		call   func(svc service.Booking) error
	}{
		{
			name:   "checks in a confirmed booking",
			status: model.StatusConfirmed,
			wantTo: model.StatusCheckedIn,
			call: func(svc service.Booking) error {
				return svc.CheckIn(context.Background(), staffScope, "booking-1")
			},
		},
		{
			name:   "refuses check-in before payment",
			status: model.StatusPending,
			call: func(svc service.Booking) error {
				return svc.CheckIn(context.Background(), staffScope, "booking-1")
			},
		},
		{
			name:   "checks out a checked-in booking",
			status: model.StatusCheckedIn,
			wantTo: model.StatusCheckedOut,
			call: func(svc service.Booking) error {
				return svc.CheckOut(context.Background(), staffScope, "booking-1")
			},
		},
		{
			name:   "refuses check-out before check-in",
			status: model.StatusConfirmed,
			call: func(svc service.Booking) error {
				return svc.CheckOut(context.Background(), staffScope, "booking-1")
			},
		},
		{
			name:   "marks an unpaid booking as no-show",
			status: model.StatusPending,
			wantTo: model.StatusNoShow,
			call: func(svc service.Booking) error {
				return svc.MarkNoShow(context.Background(), staffScope, "booking-1")
			},
		},
		{
			name:   "marks a paid booking as no-show",
			status: model.StatusConfirmed,
			wantTo: model.StatusNoShow,
			call: func(svc service.Booking) error {
				return svc.MarkNoShow(context.Background(), staffScope, "booking-1")
			},
		},
		{
			name:   "refuses no-show after check-out",
			status: model.StatusCheckedOut,
			call: func(svc service.Booking) error {
				return svc.MarkNoShow(context.Background(), staffScope, "booking-1")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newBookingMocks(t, ctrl)

			booking := pendingBooking()
			booking.Status = tt.status
			m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

			if tt.wantTo != "" {
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, tt.wantTo, fields[model.FieldStatus])
						return nil
					})
				m.audit.EXPECT().Record(gomock.Any(), staffScope, audit.ActionStatusChange, model.EntityName, "booking-1",
					map[string]any{"from": tt.status, "to": tt.wantTo})
			}

			err := tt.call(m.svc)

			if tt.wantTo == "" {
				assert.ErrorIs(t, err, failure.InvalidTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	t.Run("returns the booking with lines and review", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		m.lines.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.BookingService{
			{ID: "line-1", BookingID: "booking-1", ServiceID: "service-1", ServiceName: "Breakfast", Quantity: 2, UnitPrice: 25},
		}, nil)
		m.reviews.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reviewModel.Review{
			ID:        "review-1",
			BookingID: "booking-1",
			Rating:    5,
		}, nil)

		res, err := m.svc.Get(context.Background(), customerScope, "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
		assert.Equal(t, 2, res.Nights)
		if assert.Len(t, res.Services, 1) {
			assert.Equal(t, 50.0, res.Services[0].Total)
		}
		if assert.NotNil(t, res.Review) {
			assert.Equal(t, 5, res.Review.Rating)
		}
	})

	t.Run("staff read bookings of their hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		booking := pendingBooking()
		booking.CustomerID = "customer-9"
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.lines.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		m.reviews.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reviewModel.Review{}, nil)

		res, err := m.svc.Get(context.Background(), staffScope, "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
		assert.Nil(t, res.Review)
	})

	t.Run("denies an unrelated guest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		m.audit.EXPECT().Denied(gomock.Any(), gomock.Any(), "get", model.EntityName)

		_, err := m.svc.Get(context.Background(), access.Scope{UserID: "customer-2", Role: constant.RoleCustomer}, "booking-1")

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := m.svc.Get(context.Background(), customerScope, "missing")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestBookingService_GetAll(t *testing.T) {
	t.Run("admin listing is unscoped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().AdvanceStatuses(gomock.Any(), gomock.Any(), "admin-1").Return(int64(1), int64(1), nil)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Empty(t, filter.Filters)
				return 2, nil
			})
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{
			pendingBooking(),
			pendingBooking(),
		}, nil)

		res, err := m.svc.GetAll(context.Background(), adminScope, gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 2, res.TotalData)
		assert.Len(t, res.Bookings, 2)
	})

	t.Run("manager listing is scoped to the assigned hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().AdvanceStatuses(gomock.Any(), gomock.Any(), "manager-1").Return(int64(0), int64(0), nil)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				if assert.Len(t, filter.Filters, 1) {
					hotelFilter, ok := filter.Filters[0].(gDto.Filter)
					if assert.True(t, ok) {
						assert.Equal(t, model.FieldHotelID, hotelFilter.Field)
						assert.Equal(t, gDto.FilterOperatorIn, hotelFilter.Operator)
						assert.Equal(t, []string{"hotel-1"}, hotelFilter.Value)
					}
				}
				return 1, nil
			})
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{pendingBooking()}, nil)

		res, err := m.svc.GetAll(context.Background(), managerScope, gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
	})

	t.Run("staff without an assignment are refused", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		unassigned := access.Scope{UserID: "staff-9", Role: constant.RoleStaff}
		m.audit.EXPECT().Denied(gomock.Any(), unassigned, "list", model.EntityName)

		_, err := m.svc.GetAll(context.Background(), unassigned, gDto.QueryParams{}, gDto.FilterGroup{})

		assert.ErrorIs(t, err, failure.ForbiddenError)
	})

	t.Run("sweep failure does not block the listing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().AdvanceStatuses(gomock.Any(), gomock.Any(), "admin-1").
			Return(int64(0), int64(0), errors.New("lock timeout"))
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{pendingBooking()}, nil)

		res, err := m.svc.GetAll(context.Background(), adminScope, gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
	})
}

func TestBookingService_MyBookings(t *testing.T) {
	t.Run("lists only the caller's bookings", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				if assert.Len(t, filter.Filters, 1) {
					ownFilter, ok := filter.Filters[0].(gDto.Filter)
					if assert.True(t, ok) {
						assert.Equal(t, model.FieldCustomerID, ownFilter.Field)
						assert.Equal(t, gDto.FilterOperatorEq, ownFilter.Operator)
						assert.Equal(t, "customer-1", ownFilter.Value)
					}
				}
				return 1, nil
			})
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{pendingBooking()}, nil)

		res, err := m.svc.MyBookings(context.Background(), customerScope, gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
	})

	t.Run("merges the caller filter with the request filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Equal(t, gDto.FilterGroupOperatorAnd, filter.Operator)
				assert.Len(t, filter.Filters, 2)
				return 0, nil
			})
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		statusFilter := gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldStatus,
					Operator: gDto.FilterOperatorEq,
					Value:    model.StatusPending,
					Table:    model.TableName,
				},
			},
		}

		_, err := m.svc.MyBookings(context.Background(), customerScope, gDto.QueryParams{Limit: 10}, statusFilter)

		assert.NoError(t, err)
	})
}

func TestBookingService_Stats(t *testing.T) {
	t.Run("aggregates counts and completed revenue", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().AdvanceStatuses(gomock.Any(), gomock.Any(), "admin-1").Return(int64(0), int64(0), nil)
		m.repo.EXPECT().CountByStatus(gomock.Any(), gomock.Any()).Return(map[string]int{
			model.StatusPending:   2,
			model.StatusConfirmed: 3,
		}, nil)
		m.repo.EXPECT().Revenue(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (float64, error) {
				if assert.NotEmpty(t, filter.Filters) {
					paid, ok := filter.Filters[len(filter.Filters)-1].(gDto.Filter)
					if assert.True(t, ok) {
						assert.Equal(t, model.FieldPaymentStatus, paid.Field)
						assert.Equal(t, model.PaymentStatusCompleted, paid.Value)
					}
				}
				return 750.5, nil
			})

		res, err := m.svc.Stats(context.Background(), adminScope, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 5, res.TotalBookings)
		assert.Equal(t, 750.5, res.Revenue)
		assert.Equal(t, 2, res.ByStatus[model.StatusPending])
		assert.Equal(t, 3, res.ByStatus[model.StatusConfirmed])
	})

	t.Run("staff without an assignment are refused", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		unassigned := access.Scope{UserID: "staff-9", Role: constant.RoleStaff}
		m.audit.EXPECT().Denied(gomock.Any(), unassigned, "list", model.EntityName)

		_, err := m.svc.Stats(context.Background(), unassigned, gDto.FilterGroup{})

		assert.ErrorIs(t, err, failure.ForbiddenError)
	})
}

func TestBookingService_Export(t *testing.T) {
	exported := pendingBooking()
	exported.CustomerName = stringPtr("Ada Lovelace")
	exported.TotalPrice = 261.5

	t.Run("rejects an unsupported format", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		_, _, err := m.svc.Export(context.Background(), adminScope, "pdf", gDto.FilterGroup{})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("writes csv with a spreadsheet byte order mark", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{exported}, nil)

		data, filename, err := m.svc.Export(context.Background(), adminScope, "csv", gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
		assert.Contains(t, string(data), "Ada Lovelace")
		assert.Contains(t, string(data), "261.50")
		assert.True(t, strings.HasPrefix(filename, "bookings-"))
		assert.True(t, strings.HasSuffix(filename, ".csv"))
	})

	t.Run("writes an xlsx workbook", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{exported}, nil)

		data, filename, err := m.svc.Export(context.Background(), adminScope, "xlsx", gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("PK")))
		assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	})
}

func TestBookingService_SoftDelete(t *testing.T) {
	t.Run("hides the booking and its review together", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		m.sqlMock.ExpectBegin()
		m.repo.EXPECT().SoftDeleteTx(gomock.Any(), gomock.Any(), "staff-1", gomock.Any()).Return(nil)
		m.reviews.EXPECT().SoftDeleteTx(gomock.Any(), gomock.Any(), "staff-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, _ string, filter gDto.FilterGroup) error {
				if assert.Len(t, filter.Filters, 1) {
					byBooking, ok := filter.Filters[0].(gDto.Filter)
					if assert.True(t, ok) {
						assert.Equal(t, reviewModel.FieldBookingID, byBooking.Field)
						assert.Equal(t, "booking-1", byBooking.Value)
					}
				}
				return nil
			})
		m.sqlMock.ExpectCommit()
		m.audit.EXPECT().Record(gomock.Any(), staffScope, audit.ActionSoftDelete, model.EntityName, "booking-1", gomock.Nil())

		err := m.svc.SoftDelete(context.Background(), staffScope, "booking-1")

		assert.NoError(t, err)
		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("rolls back when the review cascade fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		m.sqlMock.ExpectBegin()
		m.repo.EXPECT().SoftDeleteTx(gomock.Any(), gomock.Any(), "staff-1", gomock.Any()).Return(nil)
		m.reviews.EXPECT().SoftDeleteTx(gomock.Any(), gomock.Any(), "staff-1", gomock.Any()).
			Return(errors.New("deadlock detected"))
		m.sqlMock.ExpectRollback()

		err := m.svc.SoftDelete(context.Background(), staffScope, "booking-1")

		assert.Error(t, err)
		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("denies staff of another hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		m.audit.EXPECT().Denied(gomock.Any(), outsiderScope, "delete", model.EntityName)

		err := m.svc.SoftDelete(context.Background(), outsiderScope, "booking-1")

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})
}

func TestBookingService_Recover(t *testing.T) {
	t.Run("restores the booking and its cascaded reviews", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		deletedAt := date("2030-03-01")
		booking := pendingBooking()
		booking.IsDeleted = true
		booking.DeletedAt = &deletedAt

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
				assert.True(t, filter.IncludeDeleted)
				return booking, nil
			})
		m.sqlMock.ExpectBegin()
		m.repo.EXPECT().RecoverTx(gomock.Any(), gomock.Any(), "staff-1", gomock.Any()).Return(nil)
		m.reviews.EXPECT().RecoverTx(gomock.Any(), gomock.Any(), "staff-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, _ string, filter gDto.FilterGroup) error {
				if assert.Len(t, filter.Filters, 2) {
					cascade, ok := filter.Filters[1].(gDto.Filter)
					if assert.True(t, ok) {
						assert.Equal(t, constant.FieldDeletedAt, cascade.Field)
						assert.Equal(t, gDto.FilterOperatorGreaterEq, cascade.Operator)
						assert.Equal(t, deletedAt, cascade.Value)
					}
				}
				return nil
			})
		m.sqlMock.ExpectCommit()
		m.audit.EXPECT().Record(gomock.Any(), staffScope, audit.ActionRecover, model.EntityName, "booking-1", gomock.Nil())

		err := m.svc.Recover(context.Background(), staffScope, "booking-1")

		assert.NoError(t, err)
		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("restores without a cascade when the deletion time is unknown", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		booking := pendingBooking()
		booking.IsDeleted = true

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.sqlMock.ExpectBegin()
		m.repo.EXPECT().RecoverTx(gomock.Any(), gomock.Any(), "staff-1", gomock.Any()).Return(nil)
		m.sqlMock.ExpectCommit()
		m.audit.EXPECT().Record(gomock.Any(), staffScope, audit.ActionRecover, model.EntityName, "booking-1", gomock.Nil())

		err := m.svc.Recover(context.Background(), staffScope, "booking-1")

		assert.NoError(t, err)
		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects recovering a live booking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		err := m.svc.Recover(context.Background(), staffScope, "booking-1")

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newBookingMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		err := m.svc.Recover(context.Background(), staffScope, "missing")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func date(value string) time.Time {
	parsed, _ := time.Parse(constant.DateOnlyFormat, value)
	return parsed
}

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}
