package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"innkeeper/infras/otel"
	"innkeeper/internal/access"
	"innkeeper/internal/audit"
	bookingModel "innkeeper/internal/domains/booking/model"
	bookingRepository "innkeeper/internal/domains/booking/repository"
	"innkeeper/internal/domains/room/model"
	"innkeeper/internal/domains/room/model/dto"
	"innkeeper/internal/domains/room/repository"
	roomtypeModel "innkeeper/internal/domains/roomtype/model"
	roomtypeRepository "innkeeper/internal/domains/roomtype/repository"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type Room interface {
	Create(ctx context.Context, scope access.Scope, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, scope access.Scope, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Get(ctx context.Context, scope access.Scope, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, scope access.Scope, req dto.UpdateRoomRequest, id string) error
	CheckAvailability(ctx context.Context, id string, req dto.CheckAvailabilityRequest) (dto.RoomAvailabilityResponse, error)
	SoftDelete(ctx context.Context, scope access.Scope, id string) error
	Recover(ctx context.Context, scope access.Scope, id string) error
}

type serviceImpl struct {
	repo      repository.Room
	roomTypes roomtypeRepository.RoomType
	bookings  bookingRepository.Booking
	audit     audit.Recorder
	otel      otel.Otel
}

func New(repo repository.Room, roomTypes roomtypeRepository.RoomType, bookings bookingRepository.Booking, auditRecorder audit.Recorder, otel otel.Otel) Room {
	return &serviceImpl{
		repo:      repo,
		roomTypes: roomTypes,
		bookings:  bookings,
		audit:     auditRecorder,
		otel:      otel,
	}
}

// Create resolves hotel_id from the room type so every room row carries its
// hotel without a join.
func (s *serviceImpl) Create(ctx context.Context, scope access.Scope, req dto.CreateRoomRequest) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	roomType, err := s.roomTypes.Get(ctx, shared.FilterByID(req.RoomTypeID, roomtypeModel.FieldID, roomtypeModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room type")

		return fmt.Errorf("failed to get room type: %w", err)
	}

	if roomType.ID == "" {
		return failure.NotFound("room type not found") // nolint:wrapcheck
	}

	if err = s.guardHotel(ctx, scope, roomType.HotelID, "create"); err != nil {
		return err
	}

	room := req.ToModel(scope.UserID, roomType.HotelID)

	if err = s.repo.Insert(ctx, room); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return failure.Conflict("room number already exists in this hotel") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create room")

		return fmt.Errorf("failed to create room: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionCreate, model.EntityName, room.ID, map[string]any{"room_number": room.RoomNumber, "hotel_id": room.HotelID})

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, scope access.Scope, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	filter, err = s.scopedFilter(ctx, scope, filter)
	if err != nil {
		return res, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, scope access.Scope, id string) (res dto.RoomResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	room, err := s.getRoom(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.guardHotel(ctx, scope, room.HotelID, "get"); err != nil {
		return res, err
	}

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, scope access.Scope, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if req == (dto.UpdateRoomRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	room, err := s.getRoom(ctx, id)
	if err != nil {
		return err
	}

	if err = s.guardHotel(ctx, scope, room.HotelID, "update"); err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, scope.UserID)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return failure.Conflict("room number already exists in this hotel") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
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

// CheckAvailability is the public probe: it reports whether the room is free
// for the half-open [check_in, check_out) range without exposing who holds it.
func (s *serviceImpl) CheckAvailability(ctx context.Context, id string, req dto.CheckAvailabilityRequest) (res dto.RoomAvailabilityResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	checkIn, err := time.Parse(constant.DateOnlyFormat, req.CheckInDate)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	checkOut, err := time.Parse(constant.DateOnlyFormat, req.CheckOutDate)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if !checkIn.Before(checkOut) {
		return res, failure.InvalidDateRange // nolint:wrapcheck
	}

	room, err := s.getRoom(ctx, id)
	if err != nil {
		return res, err
	}

	res.RoomID = room.ID
	res.CheckIn = req.CheckInDate
	res.CheckOut = req.CheckOutDate

	if room.Status != model.StatusAvailable {
		return res, nil
	}

	held, err := s.heldForRange(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		return res, err
	}

	res.Available = !held

	return res, nil
}

func (s *serviceImpl) SoftDelete(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SoftDelete")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	room, err := s.getRoom(ctx, id)
	if err != nil {
		return err
	}

	if err = s.guardHotel(ctx, scope, room.HotelID, "delete"); err != nil {
		return err
	}

	inFlight, err := s.bookings.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldRoomID,
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
		log.Error().Err(err).Msg("failed to check room bookings")

		return fmt.Errorf("failed to check room bookings: %w", err)
	}

	if inFlight {
		return failure.HasDependents("room still has bookings in flight") // nolint:wrapcheck
	}

	if err = s.repo.SoftDelete(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
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

	room, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == "" {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	if !room.IsDeleted {
		return failure.BadRequestFromString("room is not deleted") // nolint:wrapcheck
	}

	if err = s.repo.Recover(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to recover room")

		return fmt.Errorf("failed to recover room: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionRecover, model.EntityName, id, nil)

	return nil
}

// heldForRange reports whether any holding booking overlaps the half-open
// date range. The exclusion constraint enforces the same predicate at write
// time; this probe only gives friendlier answers earlier.
func (s *serviceImpl) heldForRange(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	held, err := s.bookings.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldRoomID,
				Operator: gDto.FilterOperatorEq,
				Value:    roomID,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    bookingModel.RoomHoldingStatuses,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Operator: gDto.FilterPlainQuery,
				Value:    "bookings.check_in_date < :probe_check_out AND bookings.check_out_date > :probe_check_in",
				Args: map[string]any{
					"probe_check_in":  checkIn.Format(constant.DateOnlyFormat),
					"probe_check_out": checkOut.Format(constant.DateOnlyFormat),
				},
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check room availability")

		return false, fmt.Errorf("failed to check room availability: %w", err)
	}

	return held, nil
}

func (s *serviceImpl) getRoom(ctx context.Context, id string) (model.Room, error) {
	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return model.Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == "" {
		return model.Room{}, failure.NotFound("room not found") // nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) guardHotel(ctx context.Context, scope access.Scope, hotelID, action string) error {
	if !scope.CanAccessHotel(hotelID) {
		s.audit.Denied(ctx, scope, action, model.EntityName)

		return failure.ResourceRestrictedError
	}

	return nil
}

func (s *serviceImpl) scopedFilter(ctx context.Context, scope access.Scope, filter gDto.FilterGroup) (gDto.FilterGroup, error) {
	hotelFilter, err := scope.HotelFilter(model.TableName, model.FieldHotelID)
	if err != nil {
		s.audit.Denied(ctx, scope, "list", model.EntityName)

		return filter, failure.ForbiddenError
	}

	if hotelFilter != nil {
		if len(filter.Filters) > 0 && filter.Operator == "" {
			filter.Operator = gDto.FilterGroupOperatorAnd
		}

		filter.Filters = append(filter.Filters, *hotelFilter)
	}

	return filter, nil
}
