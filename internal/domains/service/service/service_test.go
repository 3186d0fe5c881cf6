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
	bundleMocks "innkeeper/internal/domains/bundle/mocks"
	serviceMocks "innkeeper/internal/domains/service/mocks"
	"innkeeper/internal/domains/service/model"
	"innkeeper/internal/domains/service/model/dto"
	"innkeeper/internal/domains/service/service"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
)

var adminScope = access.Scope{UserID: "admin-1", Email: "admin@example.com", Role: constant.RoleAdmin}

type serviceMockSet struct {
	repo  *serviceMocks.MockService
	items *bundleMocks.MockItem
	lines *bookingMocks.MockLine
	s3    *s3Mocks.MockS3
	audit *auditMocks.MockRecorder
	svc   service.Service
}

func newServiceMocks(ctrl *gomock.Controller) *serviceMockSet {
	m := &serviceMockSet{
		repo:  serviceMocks.NewMockService(ctrl),
		items: bundleMocks.NewMockItem(ctrl),
		lines: bookingMocks.NewMockLine(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
		audit: auditMocks.NewMockRecorder(ctrl),
	}

	m.svc = service.New(m.repo, m.items, m.lines, m.s3, m.audit, otelMocks.NewOtel())

	return m
}

func spaService() model.Service {
	return model.Service{
		ID:    "service-1",
		Name:  "Spa Session",
		Price: 80,
	}
}

func TestServiceService_Create(t *testing.T) {
	t.Run("creates an add-on service", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newServiceMocks(ctrl)

		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, svc model.Service) error {
				assert.NotEmpty(t, svc.ID)
				assert.Equal(t, "Spa Session", svc.Name)
				assert.Equal(t, 80.0, svc.Price)
				assert.Equal(t, "admin-1", svc.CreatedBy)
				return nil
			})
		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionCreate, model.EntityName, gomock.Any(),
			map[string]any{"name": "Spa Session"})

		err := m.svc.Create(context.Background(), adminScope, dto.CreateServiceRequest{
			Name:  "Spa Session",
			Price: 80,
		})

		assert.NoError(t, err)
	})
}

func TestServiceService_GetAll(t *testing.T) {
	t.Run("pages the catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newServiceMocks(ctrl)

		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(25, nil)
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Service{
			spaService(),
			{ID: "service-2", Name: "Airport Transfer", Price: 40},
		}, nil)

		res, err := m.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 25, res.TotalData)
		assert.Equal(t, 3, res.TotalPage)
		if assert.Len(t, res.Services, 2) {
			assert.Equal(t, "Spa Session", res.Services[0].Name)
		}
	})
}

func TestServiceService_Get(t *testing.T) {
	t.Run("returns not found for an unknown service", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newServiceMocks(ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{}, nil)

		_, err := m.svc.Get(context.Background(), "service-x")

		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestServiceService_Update(t *testing.T) {
	t.Run("rejects an empty update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newServiceMocks(ctrl)

		err := m.svc.Update(context.Background(), adminScope, dto.UpdateServiceRequest{}, "service-1")

		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("reprices a service", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newServiceMocks(ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(spaService(), nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				price, ok := fields[model.FieldPrice].(*float64)
				if assert.True(t, ok) {
					assert.Equal(t, 95.0, *price)
				}
				return nil
			})
		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionUpdate, model.EntityName, "service-1",
			map[string]any{"fields": []string{model.FieldPrice}})

		err := m.svc.Update(context.Background(), adminScope, dto.UpdateServiceRequest{Price: floatPtr(95)}, "service-1")

		assert.NoError(t, err)
	})
}

func TestServiceService_SoftDelete(t *testing.T) {
	t.Run("refuses while packages reference it", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newServiceMocks(ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(spaService(), nil)
		m.items.EXPECT().Exist(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
				if assert.Len(t, filter.Filters, 1) {
					byService, _ := filter.Filters[0].(gDto.Filter)
					assert.Equal(t, "service-1", byService.Value)
				}
				return true, nil
			})

		err := m.svc.SoftDelete(context.Background(), adminScope, "service-1")

		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("refuses while bookings reference it", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newServiceMocks(ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(spaService(), nil)
		m.items.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.lines.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := m.svc.SoftDelete(context.Background(), adminScope, "service-1")

		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("soft deletes an unreferenced service", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newServiceMocks(ctrl)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(spaService(), nil)
		m.items.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.lines.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.repo.EXPECT().SoftDelete(gomock.Any(), "admin-1", gomock.Any()).Return(nil)
		m.audit.EXPECT().Record(gomock.Any(), adminScope, audit.ActionSoftDelete, model.EntityName, "service-1", gomock.Nil())

		err := m.svc.SoftDelete(context.Background(), adminScope, "service-1")

		assert.NoError(t, err)
	})
}

func floatPtr(value float64) *float64 {
	return &value
}
