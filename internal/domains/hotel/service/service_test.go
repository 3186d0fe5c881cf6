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
	hotelMocks "innkeeper/internal/domains/hotel/mocks"
	"innkeeper/internal/domains/hotel/model"
	"innkeeper/internal/domains/hotel/model/dto"
	"innkeeper/internal/domains/hotel/service"
	roomtypeMocks "innkeeper/internal/domains/roomtype/mocks"
	userMocks "innkeeper/internal/domains/user/mocks"
	userModel "innkeeper/internal/domains/user/model"
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

type hotelMockSet struct {
	repo      *hotelMocks.MockHotel
	users     *userMocks.MockUser
	roomTypes *roomtypeMocks.MockRoomType
	s3        *s3Mocks.MockS3
	audit     *auditMocks.MockRecorder
	sqlMock   sqlmock.Sqlmock
	svc       service.Hotel
}

func newHotelMocks(t *testing.T, ctrl *gomock.Controller) *hotelMockSet {
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

	m := &hotelMockSet{
		repo:      hotelMocks.NewMockHotel(ctrl),
		users:     userMocks.NewMockUser(ctrl),
		roomTypes: roomtypeMocks.NewMockRoomType(ctrl),
		s3:        s3Mocks.NewMockS3(ctrl),
		audit:     auditMocks.NewMockRecorder(ctrl),
		sqlMock:   sqlMock,
	}

	m.svc = service.New(m.repo, m.users, m.roomTypes, conn, m.s3, m.audit, otelMocks.NewOtel())

	return m
}

func seasideHotel() model.Hotel {
	return model.Hotel{
		ID:      "hotel-1",
		Name:    "Seaview Resort",
		Address: "1 Shore Road",
		City:    "Brighton",
	}
}

func TestHotelService_Create(t *testing.T) {
	t.Run("creates a hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, hotel model.Hotel) error {
				assert.NotEmpty(t, hotel.ID)
				assert.Equal(t, "Seaview Resort", hotel.Name)
				assert.Equal(t, "Brighton", hotel.City)
				assert.Equal(t, "admin-1", hotel.CreatedBy)
				return nil
			})
		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionCreate, model.EntityName, gomock.Any(),
			map[string]any{"name": "Seaview Resort"})

		err := m.svc.Create(context.Background(), adminScope, dto.CreateHotelRequest{
			Name:    "Seaview Resort",
			Address: "1 Shore Road",
			City:    "Brighton",
		})

		assert.NoError(t, err)
	})
}

func TestHotelService_Get(t *testing.T) {
	t.Run("hydrates the assigned manager and staff", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(seasideHotel(), nil)
		m.users.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]userModel.User, error) {
				if assert.Len(t, filter.Filters, 2) {
					roleFilter, _ := filter.Filters[1].(gDto.Filter)
					assert.Equal(t, userModel.FieldRole, roleFilter.Field)
					assert.Equal(t, []string{constant.RoleManager, constant.RoleStaff}, roleFilter.Value)
				}
				return []userModel.User{
					{ID: "manager-1", Email: "manager@example.com", Role: constant.RoleManager, FullName: stringPtr("Grace Hopper")},
					{ID: "staff-1", Email: "staff@example.com", Role: constant.RoleStaff},
				}, nil
			})

		res, err := m.svc.Get(context.Background(), "hotel-1")

		assert.NoError(t, err)
		assert.Equal(t, "Seaview Resort", res.Name)
		if assert.NotNil(t, res.Manager) {
			assert.Equal(t, "manager-1", res.Manager.ID)
			assert.Equal(t, "Grace Hopper", res.Manager.FullName)
		}
		if assert.NotNil(t, res.Staff) {
			assert.Equal(t, "staff@example.com", res.Staff.Email)
			assert.Empty(t, res.Staff.FullName)
		}
	})

	t.Run("returns not found for an unknown hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{}, nil)

		_, err := m.svc.Get(context.Background(), "hotel-x")

		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestHotelService_GetFeatured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newHotelMocks(t, ctrl)

	m.repo.EXPECT().GetFeatured(gomock.Any(), 6).Return([]model.Hotel{seasideHotel()}, nil)

	res, err := m.svc.GetFeatured(context.Background())

	assert.NoError(t, err)
	assert.Len(t, res.Hotels, 1)
	assert.Equal(t, "Seaview Resort", res.Hotels[0].Name)
}

func TestHotelService_Update(t *testing.T) {
	t.Run("rejects an empty update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		err := m.svc.Update(context.Background(), managerScope, dto.UpdateHotelRequest{}, "hotel-1")

		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("manager renames the assigned hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				name, ok := fields[model.FieldName].(*string)
				if assert.True(t, ok) {
					assert.Equal(t, "Seaview Grand", *name)
				}
				assert.Equal(t, "manager-1", fields[constant.FieldModifiedBy])
				return nil
			})
		m.audit.EXPECT().Record(gomock.Any(), managerScope, audit.ActionUpdate, model.EntityName, "hotel-1",
			map[string]any{"fields": []string{model.FieldName}})

		err := m.svc.Update(context.Background(), managerScope, dto.UpdateHotelRequest{Name: stringPtr("Seaview Grand")}, "hotel-1")

		assert.NoError(t, err)
	})

	t.Run("denies a manager from another hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.audit.EXPECT().Denied(gomock.Any(), outsiderScope, "update", model.EntityName)

		err := m.svc.Update(context.Background(), outsiderScope, dto.UpdateHotelRequest{Name: stringPtr("Hijacked")}, "hotel-1")

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})
}

func TestHotelService_UploadImage(t *testing.T) {
	t.Run("denies an upload for another hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.audit.EXPECT().Denied(gomock.Any(), outsiderScope, "upload_image", model.EntityName)

		_, err := m.svc.UploadImage(context.Background(), outsiderScope, "hotel-1", nil, nil)

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})
}

func TestHotelService_AssignManager(t *testing.T) {
	t.Run("assigns a manager and clears the previous holder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(seasideHotel(), nil)
		m.users.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{ID: "user-7", Email: "new@example.com", Role: constant.RoleManager}, nil)

		m.sqlMock.ExpectBegin()
		m.users.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
				assert.Nil(t, fields[userModel.FieldHotelID])
				if assert.Len(t, filter.Filters, 2) {
					roleFilter, _ := filter.Filters[1].(gDto.Filter)
					assert.Equal(t, userModel.FieldRole, roleFilter.Field)
					assert.Equal(t, constant.RoleManager, roleFilter.Value)
				}
				return nil
			})
		m.users.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "hotel-1", fields[userModel.FieldHotelID])
				return nil
			})
		m.sqlMock.ExpectCommit()

		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionAssign, model.EntityName, "hotel-1",
			map[string]any{"user_id": "user-7", "role": constant.RoleManager})

		err := m.svc.AssignManager(context.Background(), adminScope, "hotel-1", dto.AssignUserRequest{UserID: "user-7"})

		assert.NoError(t, err)
		assert.NoError(t, m.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects a user without the manager role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(seasideHotel(), nil)
		m.users.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{ID: "user-7", Role: constant.RoleCustomer}, nil)

		err := m.svc.AssignManager(context.Background(), adminScope, "hotel-1", dto.AssignUserRequest{UserID: "user-7"})

		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("returns not found for an unknown user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(seasideHotel(), nil)
		m.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		err := m.svc.AssignManager(context.Background(), adminScope, "hotel-1", dto.AssignUserRequest{UserID: "user-x"})

		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("denies a manager from another hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.audit.EXPECT().Denied(gomock.Any(), outsiderScope, "assign_manager", model.EntityName)

		err := m.svc.AssignManager(context.Background(), outsiderScope, "hotel-1", dto.AssignUserRequest{UserID: "user-7"})

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})
}

func TestHotelService_AssignStaff(t *testing.T) {
	t.Run("rejects a user without the staff role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(seasideHotel(), nil)
		m.users.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{ID: "user-8", Role: constant.RoleManager}, nil)

		err := m.svc.AssignStaff(context.Background(), adminScope, "hotel-1", dto.AssignUserRequest{UserID: "user-8"})

		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestHotelService_SoftDelete(t *testing.T) {
	t.Run("soft deletes a hotel without room types", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(seasideHotel(), nil)
		m.roomTypes.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.repo.EXPECT().SoftDelete(gomock.Any(), "admin-1", gomock.Any()).Return(nil)
		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionSoftDelete, model.EntityName, "hotel-1", gomock.Nil())

		err := m.svc.SoftDelete(context.Background(), adminScope, "hotel-1")

		assert.NoError(t, err)
	})

	t.Run("refuses while room types still exist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(seasideHotel(), nil)
		m.roomTypes.EXPECT().Exist(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
				if assert.Len(t, filter.Filters, 1) {
					byHotel, _ := filter.Filters[0].(gDto.Filter)
					assert.Equal(t, "hotel-1", byHotel.Value)
				}
				return true, nil
			})

		err := m.svc.SoftDelete(context.Background(), adminScope, "hotel-1")

		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("returns not found for an unknown hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{}, nil)

		err := m.svc.SoftDelete(context.Background(), adminScope, "hotel-x")

		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestHotelService_Recover(t *testing.T) {
	t.Run("restores a deleted hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		hotel := seasideHotel()
		hotel.SoftDelete = gModel.SoftDelete{IsDeleted: true}
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Hotel, error) {
				assert.True(t, filter.IncludeDeleted)
				return hotel, nil
			})
		m.repo.EXPECT().Recover(gomock.Any(), "admin-1", gomock.Any()).Return(nil)
		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionRecover, model.EntityName, "hotel-1", gomock.Nil())

		err := m.svc.Recover(context.Background(), adminScope, "hotel-1")

		assert.NoError(t, err)
	})

	t.Run("rejects recovering a live hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(seasideHotel(), nil)

		err := m.svc.Recover(context.Background(), adminScope, "hotel-1")

		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("returns not found for an unknown hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newHotelMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Hotel{}, nil)

		err := m.svc.Recover(context.Background(), adminScope, "hotel-x")

		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func stringPtr(value string) *string {
	return &value
}
