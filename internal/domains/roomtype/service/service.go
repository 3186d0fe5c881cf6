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
	amenityModel "innkeeper/internal/domains/amenity/model"
	amenityDto "innkeeper/internal/domains/amenity/model/dto"
	amenityRepository "innkeeper/internal/domains/amenity/repository"
	bundleModel "innkeeper/internal/domains/bundle/model"
	bundleRepository "innkeeper/internal/domains/bundle/repository"
	hotelModel "innkeeper/internal/domains/hotel/model"
	hotelRepository "innkeeper/internal/domains/hotel/repository"
	roomModel "innkeeper/internal/domains/room/model"
	roomRepository "innkeeper/internal/domains/room/repository"
	"innkeeper/internal/domains/roomtype/model"
	"innkeeper/internal/domains/roomtype/model/dto"
	"innkeeper/internal/domains/roomtype/repository"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const imageDirectory = "room-types"

type RoomType interface {
	Create(ctx context.Context, scope access.Scope, req dto.CreateRoomTypeRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomTypesResponse, error)
	Get(ctx context.Context, id string) (dto.RoomTypeResponse, error)
	Update(ctx context.Context, scope access.Scope, req dto.UpdateRoomTypeRequest, id string) error
	UploadImage(ctx context.Context, scope access.Scope, id string, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
	DeleteImage(ctx context.Context, scope access.Scope, id, imageID string) error
	SoftDelete(ctx context.Context, scope access.Scope, id string) error
	Recover(ctx context.Context, scope access.Scope, id string) error
}

type serviceImpl struct {
	repo      repository.RoomType
	links     repository.Link
	images    repository.Image
	hotels    hotelRepository.Hotel
	amenities amenityRepository.Amenity
	rooms     roomRepository.Room
	items     bundleRepository.Item
	db        *postgres.Connection
	s3        s3.S3
	audit     audit.Recorder
	otel      otel.Otel
}

func New(
	repo repository.RoomType,
	links repository.Link,
	images repository.Image,
	hotels hotelRepository.Hotel,
	amenities amenityRepository.Amenity,
	rooms roomRepository.Room,
	items bundleRepository.Item,
	db *postgres.Connection,
	s3Client s3.S3,
	auditRecorder audit.Recorder,
	otel otel.Otel,
) RoomType {
	return &serviceImpl{
		repo:      repo,
		links:     links,
		images:    images,
		hotels:    hotels,
		amenities: amenities,
		rooms:     rooms,
		items:     items,
		db:        db,
		s3:        s3Client,
		audit:     auditRecorder,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, scope access.Scope, req dto.CreateRoomTypeRequest) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if err = s.guardHotel(ctx, scope, req.HotelID, "create"); err != nil {
		return err
	}

	hotel, err := s.hotels.Get(ctx, shared.FilterByID(req.HotelID, hotelModel.FieldID, hotelModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel")

		return fmt.Errorf("failed to get hotel: %w", err)
	}

	if hotel.ID == "" {
		return failure.NotFound("hotel not found")
	}

	if err = s.validateAmenities(ctx, req.AmenityIDs); err != nil {
		return err
	}

	roomType := req.ToModel(scope.UserID)

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.InsertTx(ctx, tx, roomType); txErr != nil {
			return txErr
		}

		if len(req.AmenityIDs) == 0 {
			return nil
		}

		return s.links.InsertBulkTx(ctx, tx, buildAmenityLinks(roomType.ID, req.AmenityIDs))
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create room type")

		return fmt.Errorf("failed to create room type: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionCreate, model.EntityName, roomType.ID, map[string]any{"name": roomType.Name, "hotel_id": roomType.HotelID})

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomTypesResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count room types")

		return res, fmt.Errorf("failed to count room types: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room types")

		return res, fmt.Errorf("failed to get room types: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// Get hydrates the room type with its amenities and gallery images.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomTypeResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	roomType, err := s.getRoomType(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(roomType)

	links, err := s.links.GetAll(ctx, gDto.QueryParams{}, s.linkFilter(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room type amenities")

		return res, fmt.Errorf("failed to get room type amenities: %w", err)
	}

	if len(links) > 0 {
		amenityIDs := make([]string, len(links))
		for i, link := range links {
			amenityIDs[i] = link.AmenityID
		}

		amenities, amenityErr := s.amenities.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    amenityModel.FieldID,
					Operator: gDto.FilterOperatorIn,
					Value:    amenityIDs,
					Table:    amenityModel.TableName,
				},
			},
		})
		if amenityErr != nil {
			log.Error().Err(amenityErr).Msg("failed to get amenities")

			return res, fmt.Errorf("failed to get amenities: %w", amenityErr)
		}

		res.Amenities = make([]amenityDto.AmenityResponse, len(amenities))
		for i, amenity := range amenities {
			res.Amenities[i].FromModel(amenity)
		}
	}

	images, err := s.images.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.ImageFieldRoomTypeID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.ImageTableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get room type images")

		return res, fmt.Errorf("failed to get room type images: %w", err)
	}

	res.Images = make([]dto.RoomImageResponse, len(images))
	for i, image := range images {
		res.Images[i].FromModel(image)
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, scope access.Scope, req dto.UpdateRoomTypeRequest, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if req == (dto.UpdateRoomTypeRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	roomType, err := s.getRoomType(ctx, id)
	if err != nil {
		return err
	}

	if err = s.guardHotel(ctx, scope, roomType.HotelID, "update"); err != nil {
		return err
	}

	if req.AmenityIDs != nil {
		if err = s.validateAmenities(ctx, *req.AmenityIDs); err != nil {
			return err
		}
	}

	updatedFields := shared.TransformFields(req, scope.UserID)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update room type")

		return fmt.Errorf("failed to update room type: %w", err)
	}

	if req.AmenityIDs != nil {
		if err = s.replaceAmenities(ctx, id, *req.AmenityIDs); err != nil {
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

	if req.AmenityIDs != nil {
		changed = append(changed, "amenity_ids")
	}

	slices.Sort(changed)

	s.audit.Record(ctx, scope, audit.ActionUpdate, model.EntityName, id, map[string]any{"fields": changed})

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, scope access.Scope, id string, file multipart.File, fileHeader *multipart.FileHeader) (url string, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	roomType, err := s.getRoomType(ctx, id)
	if err != nil {
		return "", err
	}

	if err = s.guardHotel(ctx, scope, roomType.HotelID, "upload_image"); err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("%s%s", uuid.NewString(), path.Ext(fileHeader.Filename))

	url, err = s.s3.UploadFile(ctx, "", imageDirectory, file, fileHeader, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload room type image")

		return "", fmt.Errorf("failed to upload room type image: %w", err)
	}

	image := model.RoomImage{
		ID:         uuid.NewString(),
		RoomTypeID: id,
		URL:        url,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  scope.UserID,
			ModifiedBy: scope.UserID,
		},
	}

	if err = s.images.Insert(ctx, image); err != nil {
		log.Error().Err(err).Msg("failed to save room type image")

		return "", fmt.Errorf("failed to save room type image: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionCreate, model.ImageEntityName, image.ID, map[string]any{"room_type_id": id})

	return url, nil
}

func (s *serviceImpl) DeleteImage(ctx context.Context, scope access.Scope, id, imageID string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteImage")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	roomType, err := s.getRoomType(ctx, id)
	if err != nil {
		return err
	}

	if err = s.guardHotel(ctx, scope, roomType.HotelID, "delete_image"); err != nil {
		return err
	}

	image, err := s.images.Get(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.ImageFieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    imageID,
				Table:    model.ImageTableName,
			},
			gDto.Filter{
				Field:    model.ImageFieldRoomTypeID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.ImageTableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get room type image")

		return fmt.Errorf("failed to get room type image: %w", err)
	}

	if image.ID == "" {
		return failure.NotFound("room image not found")
	}

	if err = s.images.SoftDelete(ctx, scope.UserID, shared.FilterByID(imageID, model.ImageFieldID, model.ImageTableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete room type image")

		return fmt.Errorf("failed to delete room type image: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionSoftDelete, model.ImageEntityName, imageID, map[string]any{"room_type_id": id})

	return nil
}

func (s *serviceImpl) SoftDelete(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SoftDelete")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	roomType, err := s.getRoomType(ctx, id)
	if err != nil {
		return err
	}

	if err = s.guardHotel(ctx, scope, roomType.HotelID, "delete"); err != nil {
		return err
	}

	hasRooms, err := s.rooms.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    roomModel.FieldRoomTypeID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    roomModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check room type rooms")

		return fmt.Errorf("failed to check room type rooms: %w", err)
	}

	if hasRooms {
		return failure.HasDependents("room type still has rooms")
	}

	referenced, err := s.items.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bundleModel.ItemFieldRoomTypeID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    bundleModel.ItemTableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check room type package references")

		return fmt.Errorf("failed to check room type package references: %w", err)
	}

	if referenced {
		return failure.HasDependents("room type is still referenced by packages")
	}

	if err = s.repo.SoftDelete(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete room type")

		return fmt.Errorf("failed to delete room type: %w", err)
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

	roomType, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room type")

		return fmt.Errorf("failed to get room type: %w", err)
	}

	if roomType.ID == "" {
		return failure.NotFound("room type not found")
	}

	if !roomType.IsDeleted {
		return failure.BadRequestFromString("room type is not deleted")
	}

	if err = s.repo.Recover(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to recover room type")

		return fmt.Errorf("failed to recover room type: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionRecover, model.EntityName, id, nil)

	return nil
}

func (s *serviceImpl) getRoomType(ctx context.Context, id string) (model.RoomType, error) {
	roomType, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room type")

		return model.RoomType{}, fmt.Errorf("failed to get room type: %w", err)
	}

	if roomType.ID == "" {
		return model.RoomType{}, failure.NotFound("room type not found")
	}

	return roomType, nil
}

func (s *serviceImpl) guardHotel(ctx context.Context, scope access.Scope, hotelID, action string) error {
	if !scope.CanAccessHotel(hotelID) {
		s.audit.Denied(ctx, scope, action, model.EntityName)

		return failure.ResourceRestrictedError
	}

	return nil
}

func (s *serviceImpl) validateAmenities(ctx context.Context, amenityIDs []string) error {
	if len(amenityIDs) == 0 {
		return nil
	}

	count, err := s.amenities.Count(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    amenityModel.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    amenityIDs,
				Table:    amenityModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to count amenities")

		return fmt.Errorf("failed to count amenities: %w", err)
	}

	if count != len(amenityIDs) {
		return failure.BadRequestFromString("one or more amenities do not exist")
	}

	return nil
}

func (s *serviceImpl) replaceAmenities(ctx context.Context, id string, amenityIDs []string) error {
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.links.DeleteTx(ctx, tx, s.linkFilter(id)); txErr != nil {
			return txErr
		}

		if len(amenityIDs) == 0 {
			return nil
		}

		return s.links.InsertBulkTx(ctx, tx, buildAmenityLinks(id, amenityIDs))
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to replace room type amenities")

		return fmt.Errorf("failed to replace room type amenities: %w", err)
	}

	return nil
}

func (s *serviceImpl) linkFilter(id string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.AmenityLinkFieldRoomTypeID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.AmenityLinkTableName,
			},
		},
	}
}

func buildAmenityLinks(roomTypeID string, amenityIDs []string) []model.RoomTypeAmenity {
	links := make([]model.RoomTypeAmenity, len(amenityIDs))
	for i, amenityID := range amenityIDs {
		links[i] = model.RoomTypeAmenity{
			ID:         uuid.NewString(),
			RoomTypeID: roomTypeID,
			AmenityID:  amenityID,
		}
	}

	return links
}
