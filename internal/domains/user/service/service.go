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
	"innkeeper/internal/domains/user/model"
	"innkeeper/internal/domains/user/model/dto"
	"innkeeper/internal/domains/user/repository"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/encryption"
	"innkeeper/shared/failure"
	"innkeeper/shared/password"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const profileImageDirectory = "profiles"

type User interface {
	Create(ctx context.Context, scope access.Scope, req dto.CreateUserRequest) error
	GetAll(ctx context.Context, scope access.Scope, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Get(ctx context.Context, scope access.Scope, id string) (dto.UserResponse, error)
	Update(ctx context.Context, scope access.Scope, req dto.UpdateUserRequest, id string) error
	UpdateProfile(ctx context.Context, scope access.Scope, req dto.UpdateProfileRequest) error
	UpdateProfileImage(ctx context.Context, scope access.Scope, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
	SoftDelete(ctx context.Context, scope access.Scope, id string) error
	Recover(ctx context.Context, scope access.Scope, id string) error
}

type serviceImpl struct {
	repo      repository.User
	bookings  bookingRepository.Booking
	encryptor encryption.Encryptor
	s3        s3.S3
	audit     audit.Recorder
	otel      otel.Otel
}

func New(repo repository.User, bookings bookingRepository.Booking, encryptor encryption.Encryptor, s3Client s3.S3, auditRecorder audit.Recorder, otel otel.Otel) User {
	return &serviceImpl{
		repo:      repo,
		bookings:  bookings,
		encryptor: encryptor,
		s3:        s3Client,
		audit:     auditRecorder,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, scope access.Scope, req dto.CreateUserRequest) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	emailFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    req.Email,
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return failure.Conflict("email already registered")
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	encryptedPhone, err := s.encryptPhone(req.Phone)
	if err != nil {
		log.Error().Err(err).Msg("failed to encrypt phone")

		return fmt.Errorf("failed to encrypt phone: %w", err)
	}

	user := req.ToModel(scope.UserID, hashedPassword, encryptedPhone)

	if err = s.repo.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionCreate, model.EntityName, user.ID, map[string]any{"role": user.Role})

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, scope access.Scope, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	filter, err = s.scopedFilter(ctx, scope, filter)
	if err != nil {
		return res, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	for i := range models {
		s.decryptPhone(&models[i])
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, scope access.Scope, id string) (res dto.UserResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	user, err := s.getAccessible(ctx, scope, id)
	if err != nil {
		return res, err
	}

	s.decryptPhone(&user)
	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, scope access.Scope, req dto.UpdateUserRequest, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if req == (dto.UpdateUserRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	if req.Role != nil && !scope.IsAdmin() {
		s.audit.Denied(ctx, scope, "change_role", model.EntityName)

		return failure.ForbiddenError
	}

	if _, err = s.getAccessible(ctx, scope, id); err != nil {
		return err
	}

	if req.Phone != nil {
		encryptedPhone, encErr := s.encryptPhone(req.Phone)
		if encErr != nil {
			log.Error().Err(encErr).Msg("failed to encrypt phone")

			return fmt.Errorf("failed to encrypt phone: %w", encErr)
		}

		req.Phone = encryptedPhone
	}

	return s.applyUpdate(ctx, scope, shared.TransformFields(req, scope.UserID), id)
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, scope access.Scope, req dto.UpdateProfileRequest) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateProfile")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if req == (dto.UpdateProfileRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	if req.Phone != nil {
		encryptedPhone, encErr := s.encryptPhone(req.Phone)
		if encErr != nil {
			log.Error().Err(encErr).Msg("failed to encrypt phone")

			return fmt.Errorf("failed to encrypt phone: %w", encErr)
		}

		req.Phone = encryptedPhone
	}

	return s.applyUpdate(ctx, scope, shared.TransformFields(req, scope.UserID), scope.UserID)
}

func (s *serviceImpl) UpdateProfileImage(ctx context.Context, scope access.Scope, file multipart.File, fileHeader *multipart.FileHeader) (url string, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateProfileImage")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	user, err := s.getAccessible(ctx, scope, scope.UserID)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("%s%s", uuid.NewString(), path.Ext(fileHeader.Filename))

	url, err = s.s3.UploadFile(ctx, "", profileImageDirectory, file, fileHeader, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload profile image")

		return "", fmt.Errorf("failed to upload profile image: %w", err)
	}

	updatedFields := shared.TransformFields(dto.UpdateProfileRequest{}, scope.UserID)
	updatedFields[model.FieldProfileImage] = url

	if err = s.applyUpdate(ctx, scope, updatedFields, scope.UserID); err != nil {
		return "", err
	}

	if user.ProfileImage != nil {
		go func() {
			c := context.WithoutCancel(ctx)

			objectName := s.s3.GetObjectNameFromURL("", *user.ProfileImage)
			if delErr := s.s3.DeleteFile(c, "", profileImageDirectory, objectName); delErr != nil {
				log.Error().Err(delErr).Msg("failed to delete previous profile image")
			}
		}()
	}

	return url, nil
}

func (s *serviceImpl) SoftDelete(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SoftDelete")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if scope.UserID == id {
		return failure.BadRequestFromString("cannot delete your own account")
	}

	if _, err = s.getAccessible(ctx, scope, id); err != nil {
		return err
	}

	inFlight, err := s.bookings.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldCustomerID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    bookingModel.InFlightStatuses,
				Table:    bookingModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check user bookings")

		return fmt.Errorf("failed to check user bookings: %w", err)
	}

	if inFlight {
		return failure.HasDependents("user still has bookings in flight")
	}

	if err = s.repo.SoftDelete(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
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

	user, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return failure.NotFound("user not found")
	}

	if !user.IsDeleted {
		return failure.BadRequestFromString("user is not deleted")
	}

	emailTaken, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    user.Email,
				Table:    model.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check if email is taken")

		return fmt.Errorf("failed to check if email is taken: %w", err)
	}

	if emailTaken {
		return failure.Conflict("email already registered by an active account")
	}

	if err = s.repo.Recover(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to recover user")

		return fmt.Errorf("failed to recover user: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionRecover, model.EntityName, id, nil)

	return nil
}

// getAccessible loads a live account and enforces the hotel boundary: staff
// accounts of another hotel are hidden from non-admin callers.
func (s *serviceImpl) getAccessible(ctx context.Context, scope access.Scope, id string) (model.User, error) {
	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return model.User{}, failure.NotFound("user not found")
	}

	if user.HotelID != nil && !scope.CanAccessHotel(*user.HotelID) && scope.UserID != id {
		s.audit.Denied(ctx, scope, "read", model.EntityName)

		return model.User{}, failure.ResourceRestrictedError
	}

	return user, nil
}

// scopedFilter narrows user listings for hotel-bound callers: accounts
// assigned to their hotel, plus customers who have booked there.
func (s *serviceImpl) scopedFilter(ctx context.Context, scope access.Scope, filter gDto.FilterGroup) (gDto.FilterGroup, error) {
	hotelIDs, unrestricted := scope.AccessibleHotelIDs()
	if unrestricted {
		return filter, nil
	}

	if len(hotelIDs) == 0 {
		s.audit.Denied(ctx, scope, "list", model.EntityName)

		return filter, failure.ForbiddenError
	}

	customerSubquery := fmt.Sprintf(
		"%s.id IN (SELECT b.customer_id FROM %s b WHERE b.hotel_id = :scope_booking_hotel_id AND b.is_deleted = FALSE)",
		model.TableName, bookingModel.TableName,
	)

	filter.Filters = append(filter.Filters, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{
				ArgName:  "scope_hotel_id",
				Field:    model.FieldHotelID,
				Operator: gDto.FilterOperatorIn,
				Value:    hotelIDs,
				Table:    model.TableName,
			},
			gDto.Filter{
				Operator: gDto.FilterPlainQuery,
				Value:    customerSubquery,
				Args:     map[string]any{"scope_booking_hotel_id": hotelIDs[0]},
			},
		},
	})

	return filter, nil
}

func (s *serviceImpl) applyUpdate(ctx context.Context, scope access.Scope, updatedFields map[string]any, id string) error {
	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
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

func (s *serviceImpl) encryptPhone(phone *string) (*string, error) {
	if phone == nil || *phone == "" {
		return nil, nil
	}

	ciphertext, err := s.encryptor.Encrypt(*phone)
	if err != nil {
		return nil, err
	}

	return &ciphertext, nil
}

func (s *serviceImpl) decryptPhone(user *model.User) {
	if user.Phone == nil {
		return
	}

	plain, err := s.encryptor.Decrypt(*user.Phone)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to decrypt phone")

		user.Phone = nil

		return
	}

	user.Phone = &plain
}
