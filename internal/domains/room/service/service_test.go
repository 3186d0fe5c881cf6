package service_test

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "innkeeper/infras/otel/mocks"
	"innkeeper/internal/access"
	"innkeeper/internal/audit"
	auditMocks "innkeeper/internal/audit/mocks"
	bookingMocks "innkeeper/internal/domains/booking/mocks"
	bookingModel "innkeeper/internal/domains/booking/model"
	roomMocks "innkeeper/internal/domains/room/mocks"
	"innkeeper/internal/domains/room/model"
	"innkeeper/internal/domains/room/model/dto"
	"innkeeper/internal/domains/room/service"
	roomtypeMocks "innkeeper/internal/domains/roomtype/mocks"
	roomtypeModel "innkeeper/internal/domains/roomtype/model"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	gModel "innkeeper/shared/model"
)

var (
	adminScope    = access.Scope{UserID: "admin-1", Email: "admin@example.com", Role: constant.RoleAdmin}
	managerScope  = access.Scope{UserID: "manager-1", Email: "manager@example.com", Role: constant.RoleManager, HotelID: stringPtr("hotel-1")}
	outsiderScope = access.Scope{UserID: "manager-2", Email: "other@example.com", Role: constant.RoleManager, HotelID: stringPtr("hotel-2")}
)

func deluxeRoomType() roomtypeModel.RoomType {
	return roomtypeModel.RoomType{
		ID:        "room-type-1",
		HotelID:   "hotel-1",
		Name:      "Deluxe",
		BasePrice: 100,
		Capacity:  2,
	}
}

func availableRoom() model.Room {
	return model.Room{
		ID:           "room-1",
		RoomTypeID:   "room-type-1",
		HotelID:      "hotel-1",
		RoomNumber:   "101",
		Status:       model.StatusAvailable,
		RoomTypeName: "Deluxe",
		BasePrice:    100,
		Capacity:     2,
	}
}

func TestRoomService_Create(t *testing.T) {
	tests := []struct {
		name      string
		scope     access.Scope
		req       dto.CreateRoomRequest
		setupMock func(t *testing.T, repo *roomMocks.MockRoom, roomTypes *roomtypeMocks.MockRoomType, auditRec *auditMocks.MockRecorder)
		wantErr   error
		wantCode  int
	}{
		{
			name:  "creates a room with the hotel resolved from its room type",
			scope: managerScope,
			req:   dto.CreateRoomRequest{RoomTypeID: "room-type-1", RoomNumber: "101"},
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, roomTypes *roomtypeMocks.MockRoomType, auditRec *auditMocks.MockRecorder) {
				roomTypes.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, room model.Room) error {
						assert.NotEmpty(t, room.ID)
						assert.Equal(t, "room-type-1", room.RoomTypeID)
						assert.Equal(t, "hotel-1", room.HotelID)
						assert.Equal(t, "101", room.RoomNumber)
						assert.Equal(t, model.StatusAvailable, room.Status)
						return nil
					})
				auditRec.EXPECT().Record(gomock.Any(), managerScope, audit.ActionCreate, model.EntityName, gomock.Any(),
					map[string]any{"room_number": "101", "hotel_id": "hotel-1"})
			},
		},
		{
			name:  "keeps an explicit maintenance status",
			scope: managerScope,
			req:   dto.CreateRoomRequest{RoomTypeID: "room-type-1", RoomNumber: "102", Status: model.StatusMaintenance},
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, roomTypes *roomtypeMocks.MockRoomType, auditRec *auditMocks.MockRecorder) {
				roomTypes.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, room model.Room) error {
						assert.Equal(t, model.StatusMaintenance, room.Status)
						return nil
					})
				auditRec.EXPECT().Record(gomock.Any(), managerScope, audit.ActionCreate, model.EntityName, gomock.Any(), gomock.Any())
			},
		},
		{
			name:  "rejects an unknown room type",
			scope: managerScope,
			req:   dto.CreateRoomRequest{RoomTypeID: "room-type-x", RoomNumber: "101"},
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, roomTypes *roomtypeMocks.MockRoomType, auditRec *auditMocks.MockRecorder) {
				roomTypes.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomtypeModel.RoomType{}, nil)
			},
			wantCode: 404,
		},
		{
			name:  "denies a manager from another hotel",
			scope: outsiderScope,
			req:   dto.CreateRoomRequest{RoomTypeID: "room-type-1", RoomNumber: "101"},
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, roomTypes *roomtypeMocks.MockRoomType, auditRec *auditMocks.MockRecorder) {
				roomTypes.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
				auditRec.EXPECT().Denied(gomock.Any(), outsiderScope, "create", model.EntityName)
			},
			wantErr: failure.ResourceRestrictedError,
		},
		{
			name:  "maps a duplicate room number to a conflict",
			scope: managerScope,
			req:   dto.CreateRoomRequest{RoomTypeID: "room-type-1", RoomNumber: "101"},
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, roomTypes *roomtypeMocks.MockRoomType, auditRec *auditMocks.MockRecorder) {
				roomTypes.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := roomMocks.NewMockRoom(ctrl)
			mockRoomTypes := roomtypeMocks.NewMockRoomType(ctrl)
			mockBookings := bookingMocks.NewMockBooking(ctrl)
			mockAudit := auditMocks.NewMockRecorder(ctrl)
			tt.setupMock(t, mockRepo, mockRoomTypes, mockAudit)

			svc := service.New(mockRepo, mockRoomTypes, mockBookings, mockAudit, otelMocks.NewOtel())

			err := svc.Create(context.Background(), tt.scope, tt.req)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	t.Run("admin lists rooms without a hotel filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := roomMocks.NewMockRoom(ctrl)
		mockRoomTypes := roomtypeMocks.NewMockRoomType(ctrl)
		mockBookings := bookingMocks.NewMockBooking(ctrl)
		mockAudit := auditMocks.NewMockRecorder(ctrl)

		mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Empty(t, filter.Filters)
				return 1, nil
			})
		mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Room{availableRoom()}, nil)

		svc := service.New(mockRepo, mockRoomTypes, mockBookings, mockAudit, otelMocks.NewOtel())

		res, err := svc.GetAll(context.Background(), adminScope, gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Len(t, res.Rooms, 1)
		assert.Equal(t, "Deluxe", res.Rooms[0].RoomTypeName)
	})

	t.Run("manager only sees rooms of the assigned hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := roomMocks.NewMockRoom(ctrl)
		mockRoomTypes := roomtypeMocks.NewMockRoomType(ctrl)
		mockBookings := bookingMocks.NewMockBooking(ctrl)
		mockAudit := auditMocks.NewMockRecorder(ctrl)

		mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				if assert.Len(t, filter.Filters, 1) {
					scoped, ok := filter.Filters[0].(gDto.Filter)
					if assert.True(t, ok) {
						assert.Equal(t, model.FieldHotelID, scoped.Field)
						assert.Equal(t, gDto.FilterOperatorIn, scoped.Operator)
						assert.Equal(t, []string{"hotel-1"}, scoped.Value)
					}
				}
				return 0, nil
			})
		mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		svc := service.New(mockRepo, mockRoomTypes, mockBookings, mockAudit, otelMocks.NewOtel())

		_, err := svc.GetAll(context.Background(), managerScope, gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
	})

	t.Run("staff without a hotel assignment is refused", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := roomMocks.NewMockRoom(ctrl)
		mockRoomTypes := roomtypeMocks.NewMockRoomType(ctrl)
		mockBookings := bookingMocks.NewMockBooking(ctrl)
		mockAudit := auditMocks.NewMockRecorder(ctrl)

		unassigned := access.Scope{UserID: "staff-9", Role: constant.RoleStaff}
		mockAudit.EXPECT().Denied(gomock.Any(), unassigned, "list", model.EntityName)

		svc := service.New(mockRepo, mockRoomTypes, mockBookings, mockAudit, otelMocks.NewOtel())

		_, err := svc.GetAll(context.Background(), unassigned, gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.ErrorIs(t, err, failure.ForbiddenError)
	})
}

func TestRoomService_Get(t *testing.T) {
	tests := []struct {
		name      string
		scope     access.Scope
		setupMock func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder)
		wantErr   error
		wantCode  int
	}{
		{
			name:  "returns a room with its type details",
			scope: managerScope,
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
			},
		},
		{
			name:  "denies a manager from another hotel",
			scope: outsiderScope,
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				auditRec.EXPECT().Denied(gomock.Any(), outsiderScope, "get", model.EntityName)
			},
			wantErr: failure.ResourceRestrictedError,
		},
		{
			name:  "returns not found for an unknown room",
			scope: managerScope,
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := roomMocks.NewMockRoom(ctrl)
			mockRoomTypes := roomtypeMocks.NewMockRoomType(ctrl)
			mockBookings := bookingMocks.NewMockBooking(ctrl)
			mockAudit := auditMocks.NewMockRecorder(ctrl)
			tt.setupMock(t, mockRepo, mockAudit)

			svc := service.New(mockRepo, mockRoomTypes, mockBookings, mockAudit, otelMocks.NewOtel())

			res, err := svc.Get(context.Background(), tt.scope, "room-1")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				assert.NoError(t, err)
				assert.Equal(t, "room-1", res.ID)
				assert.Equal(t, "Deluxe", res.RoomTypeName)
				assert.Equal(t, 100.0, res.BasePrice)
			}
		})
	}
}

func TestRoomService_Update(t *testing.T) {
	tests := []struct {
		name      string
		scope     access.Scope
		req       dto.UpdateRoomRequest
		setupMock func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder)
		wantErr   error
		wantCode  int
	}{
		{
			name:      "rejects an empty update",
			scope:     managerScope,
			req:       dto.UpdateRoomRequest{},
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder) {},
			wantCode:  400,
		},
		{
			name:  "renumbers a room",
			scope: managerScope,
			req:   dto.UpdateRoomRequest{RoomNumber: "102"},
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "102", fields[model.FieldRoomNumber])
						assert.NotContains(t, fields, model.FieldStatus)
						assert.Equal(t, "manager-1", fields[constant.FieldModifiedBy])
						return nil
					})
				auditRec.EXPECT().Record(gomock.Any(), managerScope, audit.ActionUpdate, model.EntityName, "room-1",
					map[string]any{"fields": []string{model.FieldRoomNumber}})
			},
		},
		{
			name:  "takes a room out of service",
			scope: managerScope,
			req:   dto.UpdateRoomRequest{Status: model.StatusMaintenance},
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusMaintenance, fields[model.FieldStatus])
						return nil
					})
				auditRec.EXPECT().Record(gomock.Any(), managerScope, audit.ActionUpdate, model.EntityName, "room-1",
					map[string]any{"fields": []string{model.FieldStatus}})
			},
		},
		{
			name:  "maps a duplicate room number to a conflict",
			scope: managerScope,
			req:   dto.UpdateRoomRequest{RoomNumber: "201"},
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: 409,
		},
		{
			name:  "denies a manager from another hotel",
			scope: outsiderScope,
			req:   dto.UpdateRoomRequest{RoomNumber: "102"},
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				auditRec.EXPECT().Denied(gomock.Any(), outsiderScope, "update", model.EntityName)
			},
			wantErr: failure.ResourceRestrictedError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := roomMocks.NewMockRoom(ctrl)
			mockRoomTypes := roomtypeMocks.NewMockRoomType(ctrl)
			mockBookings := bookingMocks.NewMockBooking(ctrl)
			mockAudit := auditMocks.NewMockRecorder(ctrl)
			tt.setupMock(t, mockRepo, mockAudit)

			svc := service.New(mockRepo, mockRoomTypes, mockBookings, mockAudit, otelMocks.NewOtel())

			err := svc.Update(context.Background(), tt.scope, tt.req, "room-1")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_CheckAvailability(t *testing.T) {
	req := dto.CheckAvailabilityRequest{CheckInDate: "2030-01-10", CheckOutDate: "2030-01-12"}

	tests := []struct {
		name          string
		req           dto.CheckAvailabilityRequest
		setupMock     func(t *testing.T, repo *roomMocks.MockRoom, bookings *bookingMocks.MockBooking)
		wantErr       error
		wantCode      int
		wantAvailable bool
	}{
		{
			name: "reports a free room as available",
			req:  req,
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, bookings *bookingMocks.MockBooking) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
						if assert.Len(t, filter.Filters, 3) {
							roomFilter, _ := filter.Filters[0].(gDto.Filter)
							assert.Equal(t, bookingModel.FieldRoomID, roomFilter.Field)
							assert.Equal(t, "room-1", roomFilter.Value)

							statusFilter, _ := filter.Filters[1].(gDto.Filter)
							assert.Equal(t, gDto.FilterOperatorIn, statusFilter.Operator)
							assert.Equal(t, bookingModel.RoomHoldingStatuses, statusFilter.Value)

							rangeFilter, _ := filter.Filters[2].(gDto.Filter)
							assert.Equal(t, gDto.FilterPlainQuery, rangeFilter.Operator)
							assert.Equal(t, "2030-01-10", rangeFilter.Args["probe_check_in"])
							assert.Equal(t, "2030-01-12", rangeFilter.Args["probe_check_out"])
						}
						return false, nil
					})
			},
			wantAvailable: true,
		},
		{
			name: "reports a held range as unavailable",
			req:  req,
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, bookings *bookingMocks.MockBooking) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantAvailable: false,
		},
		{
			name: "treats a maintenance room as unavailable without probing",
			req:  req,
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, bookings *bookingMocks.MockBooking) {
				room := availableRoom()
				room.Status = model.StatusMaintenance
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
			},
			wantAvailable: false,
		},
		{
			name:      "rejects a reversed date range",
			req:       dto.CheckAvailabilityRequest{CheckInDate: "2030-01-12", CheckOutDate: "2030-01-10"},
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, bookings *bookingMocks.MockBooking) {},
			wantErr:   failure.InvalidDateRange,
		},
		{
			name:      "rejects a malformed date",
			req:       dto.CheckAvailabilityRequest{CheckInDate: "tomorrow", CheckOutDate: "2030-01-12"},
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, bookings *bookingMocks.MockBooking) {},
			wantCode:  400,
		},
		{
			name: "returns not found for an unknown room",
			req:  req,
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, bookings *bookingMocks.MockBooking) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := roomMocks.NewMockRoom(ctrl)
			mockRoomTypes := roomtypeMocks.NewMockRoomType(ctrl)
			mockBookings := bookingMocks.NewMockBooking(ctrl)
			mockAudit := auditMocks.NewMockRecorder(ctrl)
			tt.setupMock(t, mockRepo, mockBookings)

			svc := service.New(mockRepo, mockRoomTypes, mockBookings, mockAudit, otelMocks.NewOtel())

			res, err := svc.CheckAvailability(context.Background(), "room-1", tt.req)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				assert.NoError(t, err)
				assert.Equal(t, "room-1", res.RoomID)
				assert.Equal(t, tt.req.CheckInDate, res.CheckIn)
				assert.Equal(t, tt.req.CheckOutDate, res.CheckOut)
				assert.Equal(t, tt.wantAvailable, res.Available)
			}
		})
	}
}

func TestRoomService_SoftDelete(t *testing.T) {
	tests := []struct {
		name      string
		scope     access.Scope
		setupMock func(t *testing.T, repo *roomMocks.MockRoom, bookings *bookingMocks.MockBooking, auditRec *auditMocks.MockRecorder)
		wantErr   error
		wantCode  int
	}{
		{
			name:  "soft deletes an idle room",
			scope: managerScope,
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, bookings *bookingMocks.MockBooking, auditRec *auditMocks.MockRecorder) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().SoftDelete(gomock.Any(), "manager-1", gomock.Any()).Return(nil)
				auditRec.EXPECT().Record(gomock.Any(), managerScope, audit.ActionSoftDelete, model.EntityName, "room-1", gomock.Nil())
			},
		},
		{
			name:  "refuses while bookings are in flight",
			scope: managerScope,
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, bookings *bookingMocks.MockBooking, auditRec *auditMocks.MockRecorder) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
						if assert.Len(t, filter.Filters, 2) {
							roomFilter, _ := filter.Filters[0].(gDto.Filter)
							assert.Equal(t, bookingModel.FieldRoomID, roomFilter.Field)
							assert.Equal(t, "room-1", roomFilter.Value)

							statusFilter, _ := filter.Filters[1].(gDto.Filter)
							assert.Equal(t, bookingModel.InFlightStatuses, statusFilter.Value)
						}
						return true, nil
					})
			},
			wantCode: 409,
		},
		{
			name:  "denies a manager from another hotel",
			scope: outsiderScope,
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, bookings *bookingMocks.MockBooking, auditRec *auditMocks.MockRecorder) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
				auditRec.EXPECT().Denied(gomock.Any(), outsiderScope, "delete", model.EntityName)
			},
			wantErr: failure.ResourceRestrictedError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := roomMocks.NewMockRoom(ctrl)
			mockRoomTypes := roomtypeMocks.NewMockRoomType(ctrl)
			mockBookings := bookingMocks.NewMockBooking(ctrl)
			mockAudit := auditMocks.NewMockRecorder(ctrl)
			tt.setupMock(t, mockRepo, mockBookings, mockAudit)

			svc := service.New(mockRepo, mockRoomTypes, mockBookings, mockAudit, otelMocks.NewOtel())

			err := svc.SoftDelete(context.Background(), tt.scope, "room-1")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != 0:
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Recover(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder)
		wantCode  int
	}{
		{
			name: "restores a deleted room",
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder) {
				room := availableRoom()
				room.SoftDelete = gModel.SoftDelete{IsDeleted: true}
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Room, error) {
						assert.True(t, filter.IncludeDeleted)
						return room, nil
					})
				repo.EXPECT().Recover(gomock.Any(), "admin-1", gomock.Any()).Return(nil)
				auditRec.EXPECT().Record(gomock.Any(), adminScope, audit.ActionRecover, model.EntityName, "room-1", gomock.Nil())
			},
		},
		{
			name: "rejects recovering a live room",
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableRoom(), nil)
			},
			wantCode: 400,
		},
		{
			name: "returns not found for an unknown room",
			setupMock: func(t *testing.T, repo *roomMocks.MockRoom, auditRec *auditMocks.MockRecorder) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := roomMocks.NewMockRoom(ctrl)
			mockRoomTypes := roomtypeMocks.NewMockRoomType(ctrl)
			mockBookings := bookingMocks.NewMockBooking(ctrl)
			mockAudit := auditMocks.NewMockRecorder(ctrl)
			tt.setupMock(t, mockRepo, mockAudit)

			svc := service.New(mockRepo, mockRoomTypes, mockBookings, mockAudit, otelMocks.NewOtel())

			err := svc.Recover(context.Background(), adminScope, "room-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				return
			}

			assert.NoError(t, err)
		})
	}
}

func stringPtr(value string) *string {
	return &value
}
