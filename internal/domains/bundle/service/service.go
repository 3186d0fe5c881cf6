package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"slices"

	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/infras/s3"
	"innkeeper/internal/access"
	"innkeeper/internal/audit"
	"innkeeper/internal/domains/bundle/model"
	"innkeeper/internal/domains/bundle/model/dto"
	"innkeeper/internal/domains/bundle/repository"
	roomtypeModel "innkeeper/internal/domains/roomtype/model"
	roomtypeRepository "innkeeper/internal/domains/roomtype/repository"
	serviceModel "innkeeper/internal/domains/service/model"
	serviceRepository "innkeeper/internal/domains/service/repository"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const imageDirectory = "packages"

type Bundle interface {
	Create(ctx context.Context, scope access.Scope, req dto.CreatePackageRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPackagesResponse, error)
	Get(ctx context.Context, id string) (dto.PackageResponse, error)
	Update(ctx context.Context, scope access.Scope, req dto.UpdatePackageRequest, id string) error
	UploadImage(ctx context.Context, scope access.Scope, id string, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
	SoftDelete(ctx context.Context, scope access.Scope, id string) error
	Recover(ctx context.Context, scope access.Scope, id string) error
}

type serviceImpl struct {
	repo      repository.Package
	items     repository.Item
	roomTypes roomtypeRepository.RoomType
	services  serviceRepository.Service
	db        *postgres.Connection
	s3        s3.S3
	audit     audit.Recorder
	otel      otel.Otel
}

func New(
	repo repository.Package,
	items repository.Item,
	roomTypes roomtypeRepository.RoomType,
	services serviceRepository.Service,
	db *postgres.Connection,
	s3Client s3.S3,
	auditRecorder audit.Recorder,
	otel otel.Otel,
) Bundle {
	return &serviceImpl{
		repo:      repo,
		items:     items,
		roomTypes: roomTypes,
		services:  services,
		db:        db,
		s3:        s3Client,
		audit:     auditRecorder,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, scope access.Scope, req dto.CreatePackageRequest) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if err = s.validateItems(ctx, req.Items); err != nil {
		return err
	}

	pkg := req.ToModel(scope.UserID)

	itemModels := make([]model.PackageItem, len(req.Items))
	for i, item := range req.Items {
		itemModels[i] = item.ToModel(pkg.ID)
	}

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.InsertTx(ctx, tx, pkg); txErr != nil {
			return txErr
		}

		return s.items.InsertBulkTx(ctx, tx, itemModels)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create package")

		return fmt.Errorf("failed to create package: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionCreate, model.EntityName, pkg.ID, map[string]any{"name": pkg.Name, "items": len(itemModels)})

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPackagesResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count packages")

		return res, fmt.Errorf("failed to count packages: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get packages")

		return res, fmt.Errorf("failed to get packages: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// Get hydrates the package with its item set.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PackageResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	pkg, err := s.getPackage(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(pkg)

	items, err := s.items.GetAll(ctx, gDto.QueryParams{}, s.itemFilter(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get package items")

		return res, fmt.Errorf("failed to get package items: %w", err)
	}

	res.FromItemModels(items)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, scope access.Scope, req dto.UpdatePackageRequest, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if req == (dto.UpdatePackageRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	if _, err = s.getPackage(ctx, id); err != nil {
		return err
	}

	if req.Items != nil {
		if err = s.validateItems(ctx, *req.Items); err != nil {
			return err
		}
	}

	updatedFields := shared.TransformFields(req, scope.UserID)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update package")

		return fmt.Errorf("failed to update package: %w", err)
	}

	if req.Items != nil {
		if err = s.replaceItems(ctx, id, *req.Items); err != nil {
			return err
		}
	}

	changed := make([]string, 0, len(updatedFields)+1)
	for field := range updatedFields {
		if field == constant.FieldModifiedAt || field == constant.FieldModifiedBy {
			continue
		}

		changed = append(changed, field)
	}

	if req.Items != nil {
		changed = append(changed, "items")
	}

	slices.Sort(changed)

	s.audit.Record(ctx, scope, audit.ActionUpdate, model.EntityName, id, map[string]any{"fields": changed})

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, scope access.Scope, id string, file multipart.File, fileHeader *multipart.FileHeader) (url string, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	pkg, err := s.getPackage(ctx, id)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("%s%s", uuid.NewString(), path.Ext(fileHeader.Filename))

	url, err = s.s3.UploadFile(ctx, "", imageDirectory, file, fileHeader, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload package image")

		return "", fmt.Errorf("failed to upload package image: %w", err)
	}

	updatedFields := map[string]any{
		model.FieldImage:         url,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: scope.UserID,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update package")

		return "", fmt.Errorf("failed to update package: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionUpdate, model.EntityName, id, map[string]any{"fields": []string{model.FieldImage}})

	if pkg.Image != nil {
		go func() {
			c := context.WithoutCancel(ctx)

			objectName := s.s3.GetObjectNameFromURL("", *pkg.Image)
			if delErr := s.s3.DeleteFile(c, "", imageDirectory, objectName); delErr != nil {
				log.Error().Err(delErr).Msg("failed to delete previous package image")
			}
		}()
	}

	return url, nil
}

// SoftDelete hides the package from the catalog. Bookings sold from it keep
// their copied prices, so nothing blocks the delete.
func (s *serviceImpl) SoftDelete(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SoftDelete")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if _, err = s.getPackage(ctx, id); err != nil {
		return err
	}

	if err = s.repo.SoftDelete(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete package")

		return fmt.Errorf("failed to delete package: %w", err)
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

	pkg, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get package")

		return fmt.Errorf("failed to get package: %w", err)
	}

	if pkg.ID == "" {
		return failure.NotFound("package not found")
	}

	if !pkg.IsDeleted {
		return failure.BadRequestFromString("package is not deleted")
	}

	if err = s.repo.Recover(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to recover package")

		return fmt.Errorf("failed to recover package: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionRecover, model.EntityName, id, nil)

	return nil
}

func (s *serviceImpl) getPackage(ctx context.Context, id string) (model.Package, error) {
	pkg, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get package")

		return model.Package{}, fmt.Errorf("failed to get package: %w", err)
	}

	if pkg.ID == "" {
		return model.Package{}, failure.NotFound("package not found")
	}

	return pkg, nil
}

// validateItems checks every referenced room type and service against the
// live catalog.
func (s *serviceImpl) validateItems(ctx context.Context, items []dto.PackageItemRequest) error {
	roomTypeIDs := make([]string, 0, len(items))
	serviceIDs := make([]string, 0, len(items))

	for _, item := range items {
		if item.RoomTypeID != nil && !slices.Contains(roomTypeIDs, *item.RoomTypeID) {
			roomTypeIDs = append(roomTypeIDs, *item.RoomTypeID)
		}

		if item.ServiceID != nil && !slices.Contains(serviceIDs, *item.ServiceID) {
			serviceIDs = append(serviceIDs, *item.ServiceID)
		}
	}

	if len(roomTypeIDs) > 0 {
		count, err := s.roomTypes.Count(ctx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    roomtypeModel.FieldID,
					Operator: gDto.FilterOperatorIn,
					Value:    roomTypeIDs,
					Table:    roomtypeModel.TableName,
				},
			},
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to count room types")

			return fmt.Errorf("failed to count room types: %w", err)
		}

		if count != len(roomTypeIDs) {
			return failure.BadRequestFromString("one or more room types do not exist")
		}
	}

	if len(serviceIDs) > 0 {
		count, err := s.services.Count(ctx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    serviceModel.FieldID,
					Operator: gDto.FilterOperatorIn,
					Value:    serviceIDs,
					Table:    serviceModel.TableName,
				},
			},
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to count services")

			return fmt.Errorf("failed to count services: %w", err)
		}

		if count != len(serviceIDs) {
			return failure.BadRequestFromString("one or more services do not exist")
		}
	}

	return nil
}

func (s *serviceImpl) replaceItems(ctx context.Context, id string, items []dto.PackageItemRequest) error {
	itemModels := make([]model.PackageItem, len(items))
	for i, item := range items {
		itemModels[i] = item.ToModel(id)
	}

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.items.DeleteTx(ctx, tx, s.itemFilter(id)); txErr != nil {
			return txErr
		}

		return s.items.InsertBulkTx(ctx, tx, itemModels)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to replace package items")

		return fmt.Errorf("failed to replace package items: %w", err)
	}

	return nil
}

func (s *serviceImpl) itemFilter(id string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.ItemFieldPackageID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.ItemTableName,
			},
		},
	}
}
