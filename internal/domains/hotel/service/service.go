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
	"innkeeper/internal/domains/hotel/model"
	"innkeeper/internal/domains/hotel/model/dto"
	"innkeeper/internal/domains/hotel/repository"
	roomtypeModel "innkeeper/internal/domains/roomtype/model"
	roomtypeRepository "innkeeper/internal/domains/roomtype/repository"
	userModel "innkeeper/internal/domains/user/model"
	userRepository "innkeeper/internal/domains/user/repository"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	hotelImageDirectory = "hotels"
	featuredLimit       = 6
)

type Hotel interface {
	Create(ctx context.Context, scope access.Scope, req dto.CreateHotelRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetHotelsResponse, error)
	GetFeatured(ctx context.Context) (dto.GetHotelsResponse, error)
	Get(ctx context.Context, id string) (dto.HotelResponse, error)
	Update(ctx context.Context, scope access.Scope, req dto.UpdateHotelRequest, id string) error
	UploadImage(ctx context.Context, scope access.Scope, id string, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
	AssignManager(ctx context.Context, scope access.Scope, hotelID string, req dto.AssignUserRequest) error
	AssignStaff(ctx context.Context, scope access.Scope, hotelID string, req dto.AssignUserRequest) error
	SoftDelete(ctx context.Context, scope access.Scope, id string) error
	Recover(ctx context.Context, scope access.Scope, id string) error
}

type serviceImpl struct {
	repo      repository.Hotel
	users     userRepository.User
	roomTypes roomtypeRepository.RoomType
	db        *postgres.Connection
	s3        s3.S3
	audit     audit.Recorder
	otel      otel.Otel
}

func New(repo repository.Hotel, users userRepository.User, roomTypes roomtypeRepository.RoomType, db *postgres.Connection, s3Client s3.S3, auditRecorder audit.Recorder, otel otel.Otel) Hotel {
	return &serviceImpl{
		repo:      repo,
		users:     users,
		roomTypes: roomTypes,
		db:        db,
		s3:        s3Client,
		audit:     auditRecorder,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, scope access.Scope, req dto.CreateHotelRequest) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	hotel := req.ToModel(scope.UserID)

	if err = s.repo.Insert(ctx, hotel); err != nil {
		log.Error().Err(err).Msg("failed to create hotel")

		return fmt.Errorf("failed to create hotel: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionCreate, model.EntityName, hotel.ID, map[string]any{"name": hotel.Name})

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetHotelsResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count hotels")

		return res, fmt.Errorf("failed to count hotels: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotels")

		return res, fmt.Errorf("failed to get hotels: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) GetFeatured(ctx context.Context) (res dto.GetHotelsResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetFeatured")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	models, err := s.repo.GetFeatured(ctx, featuredLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to get featured hotels")

		return res, fmt.Errorf("failed to get featured hotels: %w", err)
	}

	res.FromModels(models, len(models), len(models))

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.HotelResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	hotel, err := s.getHotel(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(hotel)

	staff, err := s.users.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldHotelID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    userModel.TableName,
			},
			gDto.Filter{
				Field:    userModel.FieldRole,
				Operator: gDto.FilterOperatorIn,
				Value:    []string{constant.RoleManager, constant.RoleStaff},
				Table:    userModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel staff")

		return res, fmt.Errorf("failed to get hotel staff: %w", err)
	}

	for _, member := range staff {
		summary := dto.StaffSummary{ID: member.ID, Email: member.Email}
		if member.FullName != nil {
			summary.FullName = *member.FullName
		}

		switch member.Role {
		case constant.RoleManager:
			res.Manager = &summary
		case constant.RoleStaff:
			res.Staff = &summary
		}
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, scope access.Scope, req dto.UpdateHotelRequest, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if req == (dto.UpdateHotelRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	if err = s.guardHotel(ctx, scope, id, "update"); err != nil {
		return err
	}

	return s.applyUpdate(ctx, scope, shared.TransformFields(req, scope.UserID), id)
}

func (s *serviceImpl) UploadImage(ctx context.Context, scope access.Scope, id string, file multipart.File, fileHeader *multipart.FileHeader) (url string, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if err = s.guardHotel(ctx, scope, id, "upload_image"); err != nil {
		return "", err
	}

	hotel, err := s.getHotel(ctx, id)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("%s%s", uuid.NewString(), path.Ext(fileHeader.Filename))

	url, err = s.s3.UploadFile(ctx, "", hotelImageDirectory, file, fileHeader, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload hotel image")

		return "", fmt.Errorf("failed to upload hotel image: %w", err)
	}

	updatedFields := map[string]any{
		model.FieldImage:         url,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: scope.UserID,
	}

	if err = s.applyUpdate(ctx, scope, updatedFields, id); err != nil {
		return "", err
	}

	if hotel.Image != nil {
		go func() {
			c := context.WithoutCancel(ctx)

			objectName := s.s3.GetObjectNameFromURL("", *hotel.Image)
			if delErr := s.s3.DeleteFile(c, "", hotelImageDirectory, objectName); delErr != nil {
				log.Error().Err(delErr).Msg("failed to delete previous hotel image")
			}
		}()
	}

	return url, nil
}

func (s *serviceImpl) AssignManager(ctx context.Context, scope access.Scope, hotelID string, req dto.AssignUserRequest) error {
	return s.assign(ctx, scope, hotelID, req.UserID, constant.RoleManager)
}

func (s *serviceImpl) AssignStaff(ctx context.Context, scope access.Scope, hotelID string, req dto.AssignUserRequest) error {
	return s.assign(ctx, scope, hotelID, req.UserID, constant.RoleStaff)
}

func (s *serviceImpl) SoftDelete(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SoftDelete")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if _, err = s.getHotel(ctx, id); err != nil {
		return err
	}

	hasRoomTypes, err := s.roomTypes.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    roomtypeModel.FieldHotelID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    roomtypeModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check hotel room types")

		return fmt.Errorf("failed to check hotel room types: %w", err)
	}

	if hasRoomTypes {
		return failure.HasDependents("hotel still has room types")
	}

	if err = s.repo.SoftDelete(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete hotel")

		return fmt.Errorf("failed to delete hotel: %w", err)
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

	hotel, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel")

		return fmt.Errorf("failed to get hotel: %w", err)
	}

	if hotel.ID == "" {
		return failure.NotFound("hotel not found")
	}

	if !hotel.IsDeleted {
		return failure.BadRequestFromString("hotel is not deleted")
	}

	if err = s.repo.Recover(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to recover hotel")

		return fmt.Errorf("failed to recover hotel: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionRecover, model.EntityName, id, nil)

	return nil
}

// assign points the hotel's manager or staff slot at a user, clearing the
// previous holder of that role in the same transaction.
func (s *serviceImpl) assign(ctx context.Context, scope access.Scope, hotelID, userID, role string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".assign")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if err = s.guardHotel(ctx, scope, hotelID, "assign_"+role); err != nil {
		return err
	}

	if _, err = s.getHotel(ctx, hotelID); err != nil {
		return err
	}

	user, err := s.users.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return failure.NotFound("user not found")
	}

	if user.Role != role {
		return failure.BadRequestFromString(fmt.Sprintf("user does not have the %s role", role))
	}

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		clearFields := map[string]any{
			userModel.FieldHotelID:   nil,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: scope.UserID,
		}

		clearFilter := gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{
					Field:    userModel.FieldHotelID,
					Operator: gDto.FilterOperatorEq,
					Value:    hotelID,
					Table:    userModel.TableName,
				},
				gDto.Filter{
					Field:    userModel.FieldRole,
					Operator: gDto.FilterOperatorEq,
					Value:    role,
					Table:    userModel.TableName,
				},
			},
		}

		if txErr := s.users.UpdateTx(ctx, tx, clearFields, clearFilter); txErr != nil {
			return fmt.Errorf("failed to clear previous %s: %w", role, txErr)
		}

		assignFields := map[string]any{
			userModel.FieldHotelID:   hotelID,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: scope.UserID,
		}

		return s.users.UpdateTx(ctx, tx, assignFields, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to assign user to hotel")

		return fmt.Errorf("failed to assign user to hotel: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionAssign, model.EntityName, hotelID, map[string]any{"user_id": userID, "role": role})

	return nil
}

func (s *serviceImpl) getHotel(ctx context.Context, id string) (model.Hotel, error) {
	hotel, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel")

		return model.Hotel{}, fmt.Errorf("failed to get hotel: %w", err)
	}

	if hotel.ID == "" {
		return model.Hotel{}, failure.NotFound("hotel not found")
	}

	return hotel, nil
}

func (s *serviceImpl) guardHotel(ctx context.Context, scope access.Scope, id, action string) error {
	if !scope.CanAccessHotel(id) {
		s.audit.Denied(ctx, scope, action, model.EntityName)

		return failure.ResourceRestrictedError
	}

	return nil
}

func (s *serviceImpl) applyUpdate(ctx context.Context, scope access.Scope, updatedFields map[string]any, id string) error {
	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update hotel")

		return fmt.Errorf("failed to update hotel: %w", err)
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
