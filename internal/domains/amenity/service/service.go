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
	"innkeeper/internal/domains/amenity/model"
	"innkeeper/internal/domains/amenity/model/dto"
	"innkeeper/internal/domains/amenity/repository"
	roomtypeModel "innkeeper/internal/domains/roomtype/model"
	roomtypeRepository "innkeeper/internal/domains/roomtype/repository"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const iconDirectory = "amenities"

type Amenity interface {
	Create(ctx context.Context, scope access.Scope, req dto.CreateAmenityRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAmenitiesResponse, error)
	Get(ctx context.Context, id string) (dto.AmenityResponse, error)
	Update(ctx context.Context, scope access.Scope, req dto.UpdateAmenityRequest, id string) error
	UploadIcon(ctx context.Context, scope access.Scope, id string, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
	SoftDelete(ctx context.Context, scope access.Scope, id string) error
	Recover(ctx context.Context, scope access.Scope, id string) error
}

type serviceImpl struct {
	repo  repository.Amenity
	links roomtypeRepository.Link
	s3    s3.S3
	audit audit.Recorder
	otel  otel.Otel
}

func New(repo repository.Amenity, links roomtypeRepository.Link, s3Client s3.S3, auditRecorder audit.Recorder, otel otel.Otel) Amenity {
	return &serviceImpl{
		repo:  repo,
		links: links,
		s3:    s3Client,
		audit: auditRecorder,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, scope access.Scope, req dto.CreateAmenityRequest) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	taken, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorEq,
				Value:    req.Name,
				Table:    model.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check if amenity exists")

		return fmt.Errorf("failed to check if amenity exists: %w", err)
	}

	if taken {
		return failure.Conflict("amenity name already exists")
	}

	amenity := req.ToModel(scope.UserID)

	if err = s.repo.Insert(ctx, amenity); err != nil {
		log.Error().Err(err).Msg("failed to create amenity")

		return fmt.Errorf("failed to create amenity: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionCreate, model.EntityName, amenity.ID, map[string]any{"name": amenity.Name})

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAmenitiesResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count amenities")

		return res, fmt.Errorf("failed to count amenities: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get amenities")

		return res, fmt.Errorf("failed to get amenities: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AmenityResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	amenity, err := s.getAmenity(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(amenity)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, scope access.Scope, req dto.UpdateAmenityRequest, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if req == (dto.UpdateAmenityRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	if _, err = s.getAmenity(ctx, id); err != nil {
		return err
	}

	return s.applyUpdate(ctx, scope, shared.TransformFields(req, scope.UserID), id)
}

func (s *serviceImpl) UploadIcon(ctx context.Context, scope access.Scope, id string, file multipart.File, fileHeader *multipart.FileHeader) (url string, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadIcon")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	amenity, err := s.getAmenity(ctx, id)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("%s%s", uuid.NewString(), path.Ext(fileHeader.Filename))

	url, err = s.s3.UploadFile(ctx, "", iconDirectory, file, fileHeader, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload amenity icon")

		return "", fmt.Errorf("failed to upload amenity icon: %w", err)
	}

	updatedFields := map[string]any{
		model.FieldIcon:          url,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: scope.UserID,
	}

	if err = s.applyUpdate(ctx, scope, updatedFields, id); err != nil {
		return "", err
	}

	if amenity.Icon != nil {
		go func() {
			c := context.WithoutCancel(ctx)

			objectName := s.s3.GetObjectNameFromURL("", *amenity.Icon)
			if delErr := s.s3.DeleteFile(c, "", iconDirectory, objectName); delErr != nil {
				log.Error().Err(delErr).Msg("failed to delete previous amenity icon")
			}
		}()
	}

	return url, nil
}

func (s *serviceImpl) SoftDelete(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SoftDelete")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if _, err = s.getAmenity(ctx, id); err != nil {
		return err
	}

	linked, err := s.links.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    roomtypeModel.AmenityLinkFieldAmenityID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    roomtypeModel.AmenityLinkTableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check amenity links")

		return fmt.Errorf("failed to check amenity links: %w", err)
	}

	if linked {
		return failure.HasDependents("amenity is still linked to room types")
	}

	if err = s.repo.SoftDelete(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete amenity")

		return fmt.Errorf("failed to delete amenity: %w", err)
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

	amenity, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get amenity")

		return fmt.Errorf("failed to get amenity: %w", err)
	}

	if amenity.ID == "" {
		return failure.NotFound("amenity not found")
	}

	if !amenity.IsDeleted {
		return failure.BadRequestFromString("amenity is not deleted")
	}

	if err = s.repo.Recover(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to recover amenity")

		return fmt.Errorf("failed to recover amenity: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionRecover, model.EntityName, id, nil)

	return nil
}

func (s *serviceImpl) getAmenity(ctx context.Context, id string) (model.Amenity, error) {
	amenity, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get amenity")

		return model.Amenity{}, fmt.Errorf("failed to get amenity: %w", err)
	}

	if amenity.ID == "" {
		return model.Amenity{}, failure.NotFound("amenity not found")
	}

	return amenity, nil
}

func (s *serviceImpl) applyUpdate(ctx context.Context, scope access.Scope, updatedFields map[string]any, id string) error {
	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update amenity")

		return fmt.Errorf("failed to update amenity: %w", err)
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
