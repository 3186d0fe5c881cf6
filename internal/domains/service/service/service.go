package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"slices"

	"innkeeper/infras/otel"
	"innkeeper/infras/s3"
	"innkeeper/internal/access"
	"innkeeper/internal/audit"
	bookingModel "innkeeper/internal/domains/booking/model"
	bookingRepository "innkeeper/internal/domains/booking/repository"
	bundleModel "innkeeper/internal/domains/bundle/model"
	bundleRepository "innkeeper/internal/domains/bundle/repository"
	"innkeeper/internal/domains/service/model"
	"innkeeper/internal/domains/service/model/dto"
	"innkeeper/internal/domains/service/repository"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const imageDirectory = "services"

type Service interface {
	Create(ctx context.Context, scope access.Scope, req dto.CreateServiceRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetServicesResponse, error)
	Get(ctx context.Context, id string) (dto.ServiceResponse, error)
	Update(ctx context.Context, scope access.Scope, req dto.UpdateServiceRequest, id string) error
	UploadImage(ctx context.Context, scope access.Scope, id string, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
	SoftDelete(ctx context.Context, scope access.Scope, id string) error
	Recover(ctx context.Context, scope access.Scope, id string) error
}

type serviceImpl struct {
	repo  repository.Service
	items bundleRepository.Item
	lines bookingRepository.Line
	s3    s3.S3
	audit audit.Recorder
	otel  otel.Otel
}

func New(repo repository.Service, items bundleRepository.Item, lines bookingRepository.Line, s3Client s3.S3, auditRecorder audit.Recorder, otel otel.Otel) Service {
	return &serviceImpl{
		repo:  repo,
		items: items,
		lines: lines,
		s3:    s3Client,
		audit: auditRecorder,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, scope access.Scope, req dto.CreateServiceRequest) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	service := req.ToModel(scope.UserID)

	if err = s.repo.Insert(ctx, service); err != nil {
		log.Error().Err(err).Msg("failed to create service")

		return fmt.Errorf("failed to create service: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionCreate, model.EntityName, service.ID, map[string]any{"name": service.Name})

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetServicesResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count services")

		return res, fmt.Errorf("failed to count services: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get services")

		return res, fmt.Errorf("failed to get services: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ServiceResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	service, err := s.getService(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(service)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, scope access.Scope, req dto.UpdateServiceRequest, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if req == (dto.UpdateServiceRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	if _, err = s.getService(ctx, id); err != nil {
		return err
	}

	return s.applyUpdate(ctx, scope, shared.TransformFields(req, scope.UserID), id)
}

func (s *serviceImpl) UploadImage(ctx context.Context, scope access.Scope, id string, file multipart.File, fileHeader *multipart.FileHeader) (url string, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	service, err := s.getService(ctx, id)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("%s%s", uuid.NewString(), path.Ext(fileHeader.Filename))

	url, err = s.s3.UploadFile(ctx, "", imageDirectory, file, fileHeader, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload service image")

		return "", fmt.Errorf("failed to upload service image: %w", err)
	}

	updatedFields := map[string]any{
		model.FieldImage:         url,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: scope.UserID,
	}

	if err = s.applyUpdate(ctx, scope, updatedFields, id); err != nil {
		return "", err
	}

	if service.Image != nil {
		go func() {
			c := context.WithoutCancel(ctx)

			objectName := s.s3.GetObjectNameFromURL("", *service.Image)
			if delErr := s.s3.DeleteFile(c, "", imageDirectory, objectName); delErr != nil {
				log.Error().Err(delErr).Msg("failed to delete previous service image")
			}
		}()
	}

	return url, nil
}

func (s *serviceImpl) SoftDelete(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SoftDelete")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if _, err = s.getService(ctx, id); err != nil {
		return err
	}

	referenced, err := s.items.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bundleModel.ItemFieldServiceID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    bundleModel.ItemTableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check service package references")

		return fmt.Errorf("failed to check service package references: %w", err)
	}

	if referenced {
		return failure.HasDependents("service is still referenced by packages")
	}

	booked, err := s.lines.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.LineFieldServiceID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    bookingModel.LineTableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check service booking references")

		return fmt.Errorf("failed to check service booking references: %w", err)
	}

	if booked {
		return failure.HasDependents("service is still referenced by bookings")
	}

	if err = s.repo.SoftDelete(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete service")

		return fmt.Errorf("failed to delete service: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionSoftDelete, model.EntityName, id, nil)

	return nil
}

func (s *serviceImpl) Recover(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Recover")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	filter.IncludeDeleted = true

	service, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return fmt.Errorf("failed to get service: %w", err)
	}

	if service.ID == "" {
		return failure.NotFound("service not found")
	}

	if !service.IsDeleted {
		return failure.BadRequestFromString("service is not deleted")
	}

	if err = s.repo.Recover(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to recover service")

		return fmt.Errorf("failed to recover service: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionRecover, model.EntityName, id, nil)

	return nil
}

func (s *serviceImpl) getService(ctx context.Context, id string) (model.Service, error) {
	service, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return model.Service{}, fmt.Errorf("failed to get service: %w", err)
	}

	if service.ID == "" {
		return model.Service{}, failure.NotFound("service not found")
	}

	return service, nil
}

func (s *serviceImpl) applyUpdate(ctx context.Context, scope access.Scope, updatedFields map[string]any, id string) error {
	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update service")

		return fmt.Errorf("failed to update service: %w", err)
	}

	changed := make([]string, 0, len(updatedFields))
	for field := range updatedFields {
		if field == constant.FieldModifiedAt || field == constant.FieldModifiedBy {
			continue
		}

		changed = append(changed, field)
	}

	slices.Sort(changed)

	s.audit.Record(ctx, scope, audit.ActionUpdate, model.EntityName, id, map[string]any{"fields": changed})

	return nil
}
