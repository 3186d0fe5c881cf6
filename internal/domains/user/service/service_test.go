package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "innkeeper/infras/otel/mocks"
	s3Mocks "innkeeper/infras/s3/mocks"
	"innkeeper/internal/access"
	"innkeeper/internal/audit"
	auditMocks "innkeeper/internal/audit/mocks"
	bookingMocks "innkeeper/internal/domains/booking/mocks"
	bookingModel "innkeeper/internal/domains/booking/model"
	userMocks "innkeeper/internal/domains/user/mocks"
	"innkeeper/internal/domains/user/model"
	"innkeeper/internal/domains/user/model/dto"
	"innkeeper/internal/domains/user/service"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/encryption"
	"innkeeper/shared/failure"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/password"
)

const phoneKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

var (
	adminScope    = access.Scope{UserID: "admin-1", Email: "admin@example.com", Role: constant.RoleAdmin}
	managerScope  = access.Scope{UserID: "manager-1", Email: "manager@example.com", Role: constant.RoleManager, HotelID: stringPtr("hotel-1")}
	customerScope = access.Scope{UserID: "customer-1", Email: "guest@example.com", Role: constant.RoleCustomer}
)

type userMockSet struct {
	repo      *userMocks.MockUser
	bookings  *bookingMocks.MockBooking
	encryptor encryption.Encryptor
	s3        *s3Mocks.MockS3
	audit     *auditMocks.MockRecorder
	svc       service.User
}

func newUserMocks(t *testing.T, ctrl *gomock.Controller) *userMockSet {
	t.Helper()

	encryptor, err := encryption.NewWithKey(phoneKey)
	if err != nil {
		t.Fatalf("failed to build encryptor: %v", err)
	}

	m := &userMockSet{
		repo:      userMocks.NewMockUser(ctrl),
		bookings:  bookingMocks.NewMockBooking(ctrl),
		encryptor: encryptor,
		s3:        s3Mocks.NewMockS3(ctrl),
		audit:     auditMocks.NewMockRecorder(ctrl),
	}

	m.svc = service.New(m.repo, m.bookings, m.encryptor, m.s3, m.audit, otelMocks.NewOtel())

	return m
}

func guestAccount() model.User {
	return model.User{
		ID:     "customer-1",
		Email:  "guest@example.com",
		Role:   constant.RoleCustomer,
		Active: true,
	}
}

func TestUserService_Create(t *testing.T) {
	t.Run("creates a customer with hashed password and encrypted phone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
				if assert.Len(t, filter.Filters, 1) {
					byEmail, _ := filter.Filters[0].(gDto.Filter)
					assert.Equal(t, model.FieldEmail, byEmail.Field)
					assert.Equal(t, "new@example.com", byEmail.Value)
				}
				return false, nil
			})
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, user model.User) error {
				assert.NotEmpty(t, user.ID)
				assert.Equal(t, "new@example.com", user.Email)
				assert.Equal(t, constant.RoleCustomer, user.Role)
				assert.True(t, user.Active)
				assert.False(t, user.IsVerified)
				assert.NotEqual(t, "hunter2hunter2", user.Password)
				assert.NoError(t, password.Verify("hunter2hunter2", user.Password))
				if assert.NotNil(t, user.Phone) {
					assert.NotEqual(t, "+44 20 7946 0958", *user.Phone)
					plain, decErr := m.encryptor.Decrypt(*user.Phone)
					assert.NoError(t, decErr)
					assert.Equal(t, "+44 20 7946 0958", plain)
				}
				return nil
			})
		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionCreate, model.EntityName, gomock.Any(),
			map[string]any{"role": constant.RoleCustomer})

		err := m.svc.Create(context.Background(), adminScope, dto.CreateUserRequest{
			Email:    "new@example.com",
			Password: "hunter2hunter2",
			Phone:    stringPtr("+44 20 7946 0958"),
		})

		assert.NoError(t, err)
	})

	t.Run("rejects an already registered email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := m.svc.Create(context.Background(), adminScope, dto.CreateUserRequest{
			Email:    "guest@example.com",
			Password: "hunter2hunter2",
		})

		assert.Equal(t, 409, failure.GetCode(err))
	})
}

func TestUserService_GetAll(t *testing.T) {
	t.Run("admin lists accounts unrestricted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Empty(t, filter.Filters)
				return 1, nil
			})
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.User{guestAccount()}, nil)

		res, err := m.svc.GetAll(context.Background(), adminScope, gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
	})

	t.Run("manager sees own staff and hotel guests only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				if assert.Len(t, filter.Filters, 1) {
					scoped, ok := filter.Filters[0].(gDto.FilterGroup)
					if assert.True(t, ok) {
						assert.Equal(t, gDto.FilterGroupOperatorOr, scoped.Operator)
						assert.Len(t, scoped.Filters, 2)

						byHotel, _ := scoped.Filters[0].(gDto.Filter)
						assert.Equal(t, model.FieldHotelID, byHotel.Field)
						assert.Equal(t, []string{"hotel-1"}, byHotel.Value)

						byBooking, _ := scoped.Filters[1].(gDto.Filter)
						assert.Equal(t, gDto.FilterPlainQuery, byBooking.Operator)
						assert.Equal(t, "hotel-1", byBooking.Args["scope_booking_hotel_id"])
					}
				}
				return 0, nil
			})
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		_, err := m.svc.GetAll(context.Background(), managerScope, gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
	})

	t.Run("customer cannot list accounts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.audit.EXPECT().Denied(gomock.Any(), customerScope, "list", model.EntityName)

		_, err := m.svc.GetAll(context.Background(), customerScope, gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.ErrorIs(t, err, failure.ForbiddenError)
	})
}

func TestUserService_Get(t *testing.T) {
	t.Run("returns the account with the phone decrypted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		ciphertext, err := m.encryptor.Encrypt("+44 20 7946 0958")
		if err != nil {
			t.Fatalf("failed to encrypt fixture phone: %v", err)
		}

		user := guestAccount()
		user.Phone = &ciphertext
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		res, err := m.svc.Get(context.Background(), adminScope, "customer-1")

		assert.NoError(t, err)
		assert.Equal(t, "guest@example.com", res.Email)
		if assert.NotNil(t, res.Phone) {
			assert.Equal(t, "+44 20 7946 0958", *res.Phone)
		}
	})

	t.Run("drops a phone that fails to decrypt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		user := guestAccount()
		user.Phone = stringPtr("not-a-ciphertext")
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		res, err := m.svc.Get(context.Background(), adminScope, "customer-1")

		assert.NoError(t, err)
		assert.Nil(t, res.Phone)
	})

	t.Run("hides staff of another hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		staff := model.User{ID: "staff-2", Email: "staff2@example.com", Role: constant.RoleStaff, HotelID: stringPtr("hotel-2")}
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff, nil)
		m.audit.EXPECT().Denied(gomock.Any(), managerScope, "read", model.EntityName)

		_, err := m.svc.Get(context.Background(), managerScope, "staff-2")

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})

	t.Run("returns not found for an unknown account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := m.svc.Get(context.Background(), adminScope, "user-x")

		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestUserService_Update(t *testing.T) {
	t.Run("rejects an empty update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		err := m.svc.Update(context.Background(), adminScope, dto.UpdateUserRequest{}, "customer-1")

		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("only admins may change roles", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.audit.EXPECT().Denied(gomock.Any(), managerScope, "change_role", model.EntityName)

		err := m.svc.Update(context.Background(), managerScope, dto.UpdateUserRequest{Role: stringPtr(constant.RoleStaff)}, "customer-1")

		assert.ErrorIs(t, err, failure.ForbiddenError)
	})

	t.Run("admin promotes a customer to staff", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guestAccount(), nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				role, ok := fields[model.FieldRole].(*string)
				if assert.True(t, ok) {
					assert.Equal(t, constant.RoleStaff, *role)
				}
				return nil
			})
		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionUpdate, model.EntityName, "customer-1",
			map[string]any{"fields": []string{model.FieldRole}})

		err := m.svc.Update(context.Background(), adminScope, dto.UpdateUserRequest{Role: stringPtr(constant.RoleStaff)}, "customer-1")

		assert.NoError(t, err)
	})

	t.Run("encrypts an updated phone before it is stored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guestAccount(), nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				phone, ok := fields[model.FieldPhone].(*string)
				if assert.True(t, ok) {
					assert.NotEqual(t, "+44 20 7946 0958", *phone)
					plain, decErr := m.encryptor.Decrypt(*phone)
					assert.NoError(t, decErr)
					assert.Equal(t, "+44 20 7946 0958", plain)
				}
				return nil
			})
		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionUpdate, model.EntityName, "customer-1",
			map[string]any{"fields": []string{model.FieldPhone}})

		err := m.svc.Update(context.Background(), adminScope, dto.UpdateUserRequest{Phone: stringPtr("+44 20 7946 0958")}, "customer-1")

		assert.NoError(t, err)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("updates the caller's own record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
				fullName, ok := fields[model.FieldFullName].(*string)
				if assert.True(t, ok) {
					assert.Equal(t, "Ada Lovelace", *fullName)
				}
				if assert.Len(t, filter.Filters, 1) {
					byID, _ := filter.Filters[0].(gDto.Filter)
					assert.Equal(t, "customer-1", byID.Value)
				}
				return nil
			})
		m.audit.EXPECT().Record(gomock.Any(), customerScope, audit.ActionUpdate, model.EntityName, "customer-1",
			map[string]any{"fields": []string{model.FieldFullName}})

		err := m.svc.UpdateProfile(context.Background(), customerScope, dto.UpdateProfileRequest{FullName: stringPtr("Ada Lovelace")})

		assert.NoError(t, err)
	})

	t.Run("rejects an empty update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		err := m.svc.UpdateProfile(context.Background(), customerScope, dto.UpdateProfileRequest{})

		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestUserService_SoftDelete(t *testing.T) {
	t.Run("refuses to delete the caller's own account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		err := m.svc.SoftDelete(context.Background(), adminScope, "admin-1")

		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("refuses while bookings are in flight", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guestAccount(), nil)
		m.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
				if assert.Len(t, filter.Filters, 2) {
					byCustomer, _ := filter.Filters[0].(gDto.Filter)
					assert.Equal(t, bookingModel.FieldCustomerID, byCustomer.Field)
					assert.Equal(t, "customer-1", byCustomer.Value)

					byStatus, _ := filter.Filters[1].(gDto.Filter)
					assert.Equal(t, bookingModel.InFlightStatuses, byStatus.Value)
				}
				return true, nil
			})

		err := m.svc.SoftDelete(context.Background(), adminScope, "customer-1")

		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("soft deletes an account with no live bookings", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guestAccount(), nil)
		m.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.repo.EXPECT().SoftDelete(gomock.Any(), "admin-1", gomock.Any()).Return(nil)
		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionSoftDelete, model.EntityName, "customer-1", gomock.Nil())

		err := m.svc.SoftDelete(context.Background(), adminScope, "customer-1")

		assert.NoError(t, err)
	})

	t.Run("manager cannot delete staff of another hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		staff := model.User{ID: "staff-2", Email: "staff2@example.com", Role: constant.RoleStaff, HotelID: stringPtr("hotel-2")}
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff, nil)
		m.audit.EXPECT().Denied(gomock.Any(), managerScope, "read", model.EntityName)

		err := m.svc.SoftDelete(context.Background(), managerScope, "staff-2")

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})
}

func TestUserService_Recover(t *testing.T) {
	t.Run("restores a deleted account while its email is free", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		user := guestAccount()
		user.SoftDelete = gModel.SoftDelete{IsDeleted: true}
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.User, error) {
				assert.True(t, filter.IncludeDeleted)
				return user, nil
			})
		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
				if assert.Len(t, filter.Filters, 1) {
					byEmail, _ := filter.Filters[0].(gDto.Filter)
					assert.Equal(t, "guest@example.com", byEmail.Value)
				}
				return false, nil
			})
		m.repo.EXPECT().Recover(gomock.Any(), "admin-1", gomock.Any()).Return(nil)
		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionRecover, model.EntityName, "customer-1", gomock.Nil())

		err := m.svc.Recover(context.Background(), adminScope, "customer-1")

		assert.NoError(t, err)
	})

	t.Run("refuses when the email is registered again", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		user := guestAccount()
		user.SoftDelete = gModel.SoftDelete{IsDeleted: true}
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := m.svc.Recover(context.Background(), adminScope, "customer-1")

		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("rejects recovering a live account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guestAccount(), nil)

		err := m.svc.Recover(context.Background(), adminScope, "customer-1")

		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("returns not found for an unknown account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newUserMocks(t, ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		err := m.svc.Recover(context.Background(), adminScope, "user-x")

		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func stringPtr(value string) *string {
	return &value
}
