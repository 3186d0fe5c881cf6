package service_test

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "innkeeper/infras/otel/mocks"
	"innkeeper/infras/postgres"
	s3Mocks "innkeeper/infras/s3/mocks"
	"innkeeper/internal/access"
	"innkeeper/internal/audit"
	auditMocks "innkeeper/internal/audit/mocks"
	amenityMocks "innkeeper/internal/domains/amenity/mocks"
	amenityModel "innkeeper/internal/domains/amenity/model"
	bundleMocks "innkeeper/internal/domains/bundle/mocks"
	hotelMocks "innkeeper/internal/domains/hotel/mocks"
	hotelModel "innkeeper/internal/domains/hotel/model"
	roomMocks "innkeeper/internal/domains/room/mocks"
	roomtypeMocks "innkeeper/internal/domains/roomtype/mocks"
	"innkeeper/internal/domains/roomtype/model"
	"innkeeper/internal/domains/roomtype/model/dto"
	"innkeeper/internal/domains/roomtype/service"
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

type roomtypeMockSet struct {
	repo      *roomtypeMocks.MockRoomType
	links     *roomtypeMocks.MockLink
	images    *roomtypeMocks.MockImage
	hotels    *hotelMocks.MockHotel
	amenities *amenityMocks.MockAmenity
	rooms     *roomMocks.MockRoom
	items     *bundleMocks.MockItem
	s3        *s3Mocks.MockS3
	audit     *auditMocks.MockRecorder
	sqlMock   sqlmock.Sqlmock
	svc       service.RoomType
}

func newRoomTypeMocks(t *testing.T, ctrl *gomock.Controller) *roomtypeMockSet {
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

	m := &roomtypeMockSet{
		repo:      roomtypeMocks.NewMockRoomType(ctrl),
		links:     roomtypeMocks.NewMockLink(ctrl),
		images:    roomtypeMocks.NewMockImage(ctrl),
		hotels:    hotelMocks.NewMockHotel(ctrl),
		amenities: amenityMocks.NewMockAmenity(ctrl),
		rooms:     roomMocks.NewMockRoom(ctrl),
		items:     bundleMocks.NewMockItem(ctrl),
		s3:        s3Mocks.NewMockS3(ctrl),
		audit:     auditMocks.NewMockRecorder(ctrl),
		sqlMock:   sqlMock,
	}

	m.svc = service.New(
		m.repo,
		m.links,
		m.images,
		m.hotels,
		m.amenities,
		m.rooms,
		m.items,
		conn,
		m.s3,
		m.audit,
		otelMocks.NewOtel(),
	)

	return m
}

func deluxeRoomType() model.RoomType {
	return model.RoomType{
		ID:        "room-type-1",
		HotelID:   "hotel-1",
		Name:      "Deluxe",
		BasePrice: 100,
		Capacity:  2,
		HotelName: "Seaview Resort",
	}
}

func TestRoomTypeService_Create(t *testing.T) {
	t.Run("creates a room type with its amenities", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.hotels.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(hotelModel.Hotel{ID: "hotel-1", Name: "Seaview Resort"}, nil)
		m.amenities.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				if assert.Len(t, filter.Filters, 1) {
					byID, _ := filter.Filters[0].(gDto.Filter)
					assert.Equal(t, []string{"amenity-1", "amenity-2"}, byID.Value)
				}
				return 2, nil
			})

		m.sqlMock.ExpectBegin()
		m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, roomType model.RoomType) error {
				assert.NotEmpty(t, roomType.ID)
				assert.Equal(t, "hotel-1", roomType.HotelID)
				assert.Equal(t, "Deluxe", roomType.Name)
				assert.Equal(t, 100.0, roomType.BasePrice)
				return nil
			})
		m.links.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, links []model.RoomTypeAmenity) error {
				if assert.Len(t, links, 2) {
					assert.Equal(t, "amenity-1", links[0].AmenityID)
					assert.NotEmpty(t, links[0].ID)
				}
				return nil
			})
		m.sqlMock.ExpectCommit()

		m.audit.EXPECT().Record(gomock.Any(), managerScope, audit.ActionCreate, model.EntityName, gomock.Any(),
			map[string]any{"name": "Deluxe", "hotel_id": "hotel-1"})

		err := m.svc.Create(context.Background(), managerScope, dto.CreateRoomTypeRequest{
			HotelID:    "hotel-1",
			Name:       "Deluxe",
			BasePrice:  100,
			Capacity:   2,
			AmenityIDs: []string{"amenity-1", "amenity-2"},
		})

		assert.NoError(t, err)
		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("skips the link insert without amenities", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.hotels.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(hotelModel.Hotel{ID: "hotel-1"}, nil)

		m.sqlMock.ExpectBegin()
		m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.sqlMock.ExpectCommit()

		m.audit.EXPECT().Record(gomock.Any(), managerScope, audit.ActionCreate, model.EntityName, gomock.Any(), gomock.Any())

		err := m.svc.Create(context.Background(), managerScope, dto.CreateRoomTypeRequest{
			HotelID:   "hotel-1",
			Name:      "Standard",
			BasePrice: 60,
			Capacity:  2,
		})

		assert.NoError(t, err)
		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects an unknown hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.hotels.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hotelModel.Hotel{}, nil)

		err := m.svc.Create(context.Background(), adminScope, dto.CreateRoomTypeRequest{
			HotelID:   "hotel-x",
			Name:      "Deluxe",
			BasePrice: 100,
			Capacity:  2,
		})

		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("rejects unknown amenities", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.hotels.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(hotelModel.Hotel{ID: "hotel-1"}, nil)
		m.amenities.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)

		err := m.svc.Create(context.Background(), managerScope, dto.CreateRoomTypeRequest{
			HotelID:    "hotel-1",
			Name:       "Deluxe",
			BasePrice:  100,
			Capacity:   2,
			AmenityIDs: []string{"amenity-1", "amenity-x"},
		})

		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("denies a manager from another hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.audit.EXPECT().Denied(gomock.Any(), outsiderScope, "create", model.EntityName)

		err := m.svc.Create(context.Background(), outsiderScope, dto.CreateRoomTypeRequest{
			HotelID:   "hotel-1",
			Name:      "Deluxe",
			BasePrice: 100,
			Capacity:  2,
		})

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})
}

func TestRoomTypeService_Get(t *testing.T) {
	t.Run("hydrates amenities and images", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
		m.links.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.RoomTypeAmenity{
			{ID: "link-1", RoomTypeID: "room-type-1", AmenityID: "amenity-1"},
		}, nil)
		m.amenities.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]amenityModel.Amenity, error) {
				if assert.Len(t, filter.Filters, 1) {
					byID, _ := filter.Filters[0].(gDto.Filter)
					assert.Equal(t, gDto.FilterOperatorIn, byID.Operator)
					assert.Equal(t, []string{"amenity-1"}, byID.Value)
				}
				return []amenityModel.Amenity{{ID: "amenity-1", Name: "Wi-Fi"}}, nil
			})
		m.images.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.RoomImage{
			{ID: "image-1", RoomTypeID: "room-type-1", URL: "https://cdn.example.com/room-types/a.jpg"},
		}, nil)

		res, err := m.svc.Get(context.Background(), "room-type-1")

		assert.NoError(t, err)
		assert.Equal(t, "Deluxe", res.Name)
		assert.Equal(t, "Seaview Resort", res.HotelName)
		if assert.Len(t, res.Amenities, 1) {
			assert.Equal(t, "Wi-Fi", res.Amenities[0].Name)
		}
		if assert.Len(t, res.Images, 1) {
			assert.Equal(t, "https://cdn.example.com/room-types/a.jpg", res.Images[0].URL)
		}
	})

	t.Run("returns not found for an unknown room type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.RoomType{}, nil)

		_, err := m.svc.Get(context.Background(), "room-type-x")

		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestRoomTypeService_Update(t *testing.T) {
	t.Run("rejects an empty update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		err := m.svc.Update(context.Background(), managerScope, dto.UpdateRoomTypeRequest{}, "room-type-1")

		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("reprices a room type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				price, ok := fields[model.FieldBasePrice].(*float64)
				if assert.True(t, ok) {
					assert.Equal(t, 120.0, *price)
				}
				return nil
			})
		m.audit.EXPECT().Record(gomock.Any(), managerScope, audit.ActionUpdate, model.EntityName, "room-type-1",
			map[string]any{"fields": []string{model.FieldBasePrice}})

		err := m.svc.Update(context.Background(), managerScope, dto.UpdateRoomTypeRequest{BasePrice: floatPtr(120)}, "room-type-1")

		assert.NoError(t, err)
	})

	t.Run("replaces the amenity set", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
		m.amenities.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		m.sqlMock.ExpectBegin()
		m.links.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) error {
				if assert.Len(t, filter.Filters, 1) {
					byRoomType, _ := filter.Filters[0].(gDto.Filter)
					assert.Equal(t, "room-type-1", byRoomType.Value)
				}
				return nil
			})
		m.links.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, links []model.RoomTypeAmenity) error {
				if assert.Len(t, links, 1) {
					assert.Equal(t, "amenity-3", links[0].AmenityID)
				}
				return nil
			})
		m.sqlMock.ExpectCommit()

		m.audit.EXPECT().Record(gomock.Any(), managerScope, audit.ActionUpdate, model.EntityName, "room-type-1",
			map[string]any{"fields": []string{"amenity_ids"}})

		amenityIDs := []string{"amenity-3"}
		err := m.svc.Update(context.Background(), managerScope, dto.UpdateRoomTypeRequest{AmenityIDs: &amenityIDs}, "room-type-1")

		assert.NoError(t, err)
		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("clears all amenities with an empty set", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		m.sqlMock.ExpectBegin()
		m.links.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.sqlMock.ExpectCommit()

		m.audit.EXPECT().Record(gomock.Any(), managerScope, audit.ActionUpdate, model.EntityName, "room-type-1", gomock.Any())

		amenityIDs := []string{}
		err := m.svc.Update(context.Background(), managerScope, dto.UpdateRoomTypeRequest{AmenityIDs: &amenityIDs}, "room-type-1")

		assert.NoError(t, err)
		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("denies a manager from another hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
		m.audit.EXPECT().Denied(gomock.Any(), outsiderScope, "update", model.EntityName)

		err := m.svc.Update(context.Background(), outsiderScope, dto.UpdateRoomTypeRequest{Name: stringPtr("Executive")}, "room-type-1")

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})
}

func TestRoomTypeService_SoftDelete(t *testing.T) {
	t.Run("refuses while rooms still exist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
		m.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
				if assert.Len(t, filter.Filters, 1) {
					byRoomType, _ := filter.Filters[0].(gDto.Filter)
					assert.Equal(t, "room-type-1", byRoomType.Value)
				}
				return true, nil
			})

		err := m.svc.SoftDelete(context.Background(), managerScope, "room-type-1")

		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("refuses while packages reference it", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
		m.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.items.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := m.svc.SoftDelete(context.Background(), managerScope, "room-type-1")

		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("soft deletes an unused room type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
		m.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.items.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.repo.EXPECT().SoftDelete(gomock.Any(), "manager-1", gomock.Any()).Return(nil)
		m.audit.EXPECT().Record(gomock.Any(), managerScope, audit.ActionSoftDelete, model.EntityName, "room-type-1", gomock.Nil())

		err := m.svc.SoftDelete(context.Background(), managerScope, "room-type-1")

		assert.NoError(t, err)
	})

	t.Run("denies a manager from another hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)
		m.audit.EXPECT().Denied(gomock.Any(), outsiderScope, "delete", model.EntityName)

		err := m.svc.SoftDelete(context.Background(), outsiderScope, "room-type-1")

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})
}

func TestRoomTypeService_Recover(t *testing.T) {
	t.Run("restores a deleted room type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		roomType := deluxeRoomType()
		roomType.SoftDelete = gModel.SoftDelete{IsDeleted: true}
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.RoomType, error) {
				assert.True(t, filter.IncludeDeleted)
				return roomType, nil
			})
		m.repo.EXPECT().Recover(gomock.Any(), "admin-1", gomock.Any()).Return(nil)
		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionRecover, model.EntityName, "room-type-1", gomock.Nil())

		err := m.svc.Recover(context.Background(), adminScope, "room-type-1")

		assert.NoError(t, err)
	})

	t.Run("rejects recovering a live room type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newRoomTypeMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deluxeRoomType(), nil)

		err := m.svc.Recover(context.Background(), adminScope, "room-type-1")

		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func stringPtr(value string) *string {
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}
