package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"time"

	"innkeeper/infras/mailer"
	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/access"
	"innkeeper/internal/audit"
	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/model/dto"
	"innkeeper/internal/domains/booking/repository"
	bundleModel "innkeeper/internal/domains/bundle/model"
	bundleRepository "innkeeper/internal/domains/bundle/repository"
	promotionService "innkeeper/internal/domains/promotion/service"
	reviewModel "innkeeper/internal/domains/review/model"
	reviewDto "innkeeper/internal/domains/review/model/dto"
	reviewRepository "innkeeper/internal/domains/review/repository"
	roomModel "innkeeper/internal/domains/room/model"
	roomRepository "innkeeper/internal/domains/room/repository"
	serviceModel "innkeeper/internal/domains/service/model"
	serviceRepository "innkeeper/internal/domains/service/repository"
	"innkeeper/internal/pricing"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/export"
	"innkeeper/shared/failure"
	"innkeeper/shared/metrics"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// Booking drives the reservation lifecycle from checkout to checkout. Price
// figures are computed once at creation and stamped onto the row, so later
// catalog or promotion edits never change what a guest owes.
type Booking interface {
	Create(ctx context.Context, scope access.Scope, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, scope access.Scope, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	MyBookings(ctx context.Context, scope access.Scope, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, scope access.Scope, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, scope access.Scope, req dto.UpdateBookingRequest, id string) error
	ConfirmPayment(ctx context.Context, scope access.Scope, req dto.ConfirmPaymentRequest, id string) error
	Cancel(ctx context.Context, scope access.Scope, id string) error
	CheckIn(ctx context.Context, scope access.Scope, id string) error
	CheckOut(ctx context.Context, scope access.Scope, id string) error
	MarkNoShow(ctx context.Context, scope access.Scope, id string) error
	Stats(ctx context.Context, scope access.Scope, filter gDto.FilterGroup) (dto.BookingStatsResponse, error)
	Export(ctx context.Context, scope access.Scope, format string, filter gDto.FilterGroup) ([]byte, string, error)
	SoftDelete(ctx context.Context, scope access.Scope, id string) error
	Recover(ctx context.Context, scope access.Scope, id string) error
}

type serviceImpl struct {
	repo       repository.Booking
	lines      repository.Line
	rooms      roomRepository.Room
	services   serviceRepository.Service
	packages   bundleRepository.Package
	items      bundleRepository.Item
	reviews    reviewRepository.Review
	promotions promotionService.Promotion
	db         *postgres.Connection
	mailer     mailer.Mailer
	audit      audit.Recorder
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	lines repository.Line,
	rooms roomRepository.Room,
	services serviceRepository.Service,
	packages bundleRepository.Package,
	items bundleRepository.Item,
	reviews reviewRepository.Review,
	promotions promotionService.Promotion,
	db *postgres.Connection,
	mailerClient mailer.Mailer,
	auditRecorder audit.Recorder,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		lines:      lines,
		rooms:      rooms,
		services:   services,
		packages:   packages,
		items:      items,
		reviews:    reviews,
		promotions: promotions,
		db:         db,
		mailer:     mailerClient,
		audit:      auditRecorder,
		otel:       otel,
	}
}

// Create books a room for the calling customer. The stay is priced here:
// nights at the room's base price plus every service line, minus the
// validated promotion. The row and its lines land in one transaction, and
// the overlap constraint rejects a double booking that slipped past the
// probe.
func (s *serviceImpl) Create(ctx context.Context, scope access.Scope, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	booking, err := req.ToModel(scope.UserID, scope.UserID)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if !booking.CheckInDate.Before(booking.CheckOutDate) {
		return res, failure.InvalidDateRange // nolint:wrapcheck
	}

	now := timezone.Now()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if booking.CheckInDate.Before(today) {
		return res, failure.BadRequestFromString("check-in date cannot be in the past") // nolint:wrapcheck
	}

	room, err := s.getRoom(ctx, booking.RoomID)
	if err != nil {
		return res, err
	}

	if room.Status != roomModel.StatusAvailable {
		return res, failure.RoomUnavailable // nolint:wrapcheck
	}

	if booking.GuestCount > room.Capacity {
		return res, failure.BadRequestFromString("guest count exceeds room capacity") // nolint:wrapcheck
	}

	booking.HotelID = room.HotelID

	lineModels, err := s.buildLines(ctx, &booking, room, req)
	if err != nil {
		return res, err
	}

	held, err := s.heldForRange(ctx, booking.RoomID, "", booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		return res, err
	}

	if held {
		return res, failure.RoomUnavailable // nolint:wrapcheck
	}

	var discount *pricing.Discount

	if req.PromotionCode != "" {
		promotion, promoErr := s.promotions.Validate(ctx, req.PromotionCode, now)
		if promoErr != nil {
			return res, promoErr // nolint:wrapcheck
		}

		booking.PromotionID = &promotion.ID
		discount = &pricing.Discount{
			Type:  pricing.DiscountType(promotion.DiscountType),
			Value: promotion.DiscountValue,
		}
	}

	quote := pricing.ComputeQuote(room.BasePrice, pricing.Nights(booking.CheckInDate, booking.CheckOutDate), pricingLines(lineModels), discount)
	booking.Subtotal = quote.Subtotal
	booking.DiscountAmount = quote.Discount
	booking.TotalPrice = quote.Total

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.InsertTx(ctx, tx, booking); txErr != nil {
			return txErr
		}

		if len(lineModels) == 0 {
			return nil
		}

		return s.lines.InsertBulkTx(ctx, tx, lineModels)
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch string(pqErr.Code) {
			case constant.PqErrorCodeExclusionViolation:
				return res, failure.RoomUnavailable // nolint:wrapcheck
			case constant.PqErrorCodeFkViolation:
				return res, failure.BadRequestFromString("booking references a missing record") // nolint:wrapcheck
			}
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.BookingCreated(booking.Source)
	s.audit.Record(ctx, scope, audit.ActionCreate, model.EntityName, booking.ID, map[string]any{
		"room_id":   booking.RoomID,
		"check_in":  req.CheckInDate,
		"check_out": req.CheckOutDate,
		"total":     booking.TotalPrice,
	})

	return s.hydrate(ctx, booking.ID)
}

func (s *serviceImpl) GetAll(ctx context.Context, scope access.Scope, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	filter, err = s.scopedFilter(ctx, scope, filter)
	if err != nil {
		return res, err
	}

	s.sweepStatuses(ctx, scope.UserID)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// MyBookings lists the caller's own bookings. No status sweep runs here; a
// guest seeing confirmed a minute past the check-in date is harmless.
func (s *serviceImpl) MyBookings(ctx context.Context, scope access.Scope, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MyBookings")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if len(filter.Filters) > 0 && filter.Operator == "" {
		filter.Operator = gDto.FilterGroupOperatorAnd
	}

	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldCustomerID,
		Operator: gDto.FilterOperatorEq,
		Value:    scope.UserID,
		Table:    model.TableName,
	})

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, scope access.Scope, id string) (res dto.BookingResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.guardBooking(ctx, scope, booking, "get"); err != nil {
		return res, err
	}

	return s.respond(ctx, booking)
}

// Update edits a pending booking. Room or date changes re-run the overlap
// probe, and the stay is re-priced with the promotion terms the booking
// already carries; nothing is stamped until payment.
func (s *serviceImpl) Update(ctx context.Context, scope access.Scope, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if err = s.guardHotel(ctx, scope, booking.HotelID, "update"); err != nil {
		return err
	}

	if booking.Status != model.StatusPending {
		return failure.InvalidTransition // nolint:wrapcheck
	}

	checkIn := booking.CheckInDate
	if req.CheckInDate != "" {
		checkIn, err = time.Parse(constant.DateOnlyFormat, req.CheckInDate)
		if err != nil {
			return failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
		}
	}

	checkOut := booking.CheckOutDate
	if req.CheckOutDate != "" {
		checkOut, err = time.Parse(constant.DateOnlyFormat, req.CheckOutDate)
		if err != nil {
			return failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
		}
	}

	if !checkIn.Before(checkOut) {
		return failure.InvalidDateRange // nolint:wrapcheck
	}

	roomID := booking.RoomID
	if req.RoomID != "" {
		roomID = req.RoomID
	}

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if roomID != booking.RoomID && room.Status != roomModel.StatusAvailable {
		return failure.RoomUnavailable // nolint:wrapcheck
	}

	guestCount := booking.GuestCount
	if req.GuestCount != nil {
		guestCount = *req.GuestCount
	}

	if guestCount > room.Capacity {
		return failure.BadRequestFromString("guest count exceeds room capacity") // nolint:wrapcheck
	}

	if roomID != booking.RoomID || !checkIn.Equal(booking.CheckInDate) || !checkOut.Equal(booking.CheckOutDate) {
		held, heldErr := s.heldForRange(ctx, roomID, booking.ID, checkIn, checkOut)
		if heldErr != nil {
			return heldErr
		}

		if held {
			return failure.RoomUnavailable // nolint:wrapcheck
		}
	}

	lineModels, err := s.lines.GetAll(ctx, gDto.QueryParams{}, lineFilter(booking.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking services")

		return fmt.Errorf("failed to get booking services: %w", err)
	}

	discount, clearPromotion, err := s.carriedDiscount(ctx, booking)
	if err != nil {
		return err
	}

	quote := pricing.ComputeQuote(room.BasePrice, pricing.Nights(checkIn, checkOut), pricingLines(lineModels), discount)

	updatedFields := map[string]any{
		model.FieldRoomID:         roomID,
		model.FieldHotelID:        room.HotelID,
		model.FieldCheckInDate:    checkIn,
		model.FieldCheckOutDate:   checkOut,
		model.FieldGuestCount:     guestCount,
		model.FieldSubtotal:       quote.Subtotal,
		model.FieldDiscountAmount: quote.Discount,
		model.FieldTotalPrice:     quote.Total,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  scope.UserID,
	}

	if req.Note != nil {
		updatedFields[model.FieldNote] = *req.Note
	}

	if clearPromotion {
		updatedFields[model.FieldPromotionID] = nil
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	changed := make([]string, 0, len(updatedFields))
	for field := range updatedFields {
		if field == constant.FieldModifiedAt || field == constant.FieldModifiedBy {
			continue
		}

		changed = append(changed, field)
	}

	sort.Strings(changed)

	s.audit.Record(ctx, scope, audit.ActionUpdate, model.EntityName, id, map[string]any{"fields": changed})

	return nil
}

// ConfirmPayment moves a pending booking to confirmed and records the
// payment. A booking holding a promotion re-validates it under the row lock
// and stamps promotion_used_at in the same transaction; if the promotion no
// longer qualifies the whole confirmation fails and the booking stays
// pending. The receipt email goes out in the background.
func (s *serviceImpl) ConfirmPayment(ctx context.Context, scope access.Scope, req dto.ConfirmPaymentRequest, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConfirmPayment")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if err = s.guardHotel(ctx, scope, booking.HotelID, "confirm_payment"); err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, model.StatusConfirmed) {
		return failure.InvalidTransition // nolint:wrapcheck
	}

	now := timezone.Now()

	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusConfirmed,
		model.FieldPaymentStatus: model.PaymentStatusCompleted,
		model.FieldPaymentMethod: req.PaymentMethod,
		model.FieldPaymentAmount: req.Amount,
		model.FieldPaymentDate:   now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: scope.UserID,
	}

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if booking.PromotionID != nil && booking.PromotionUsedAt == nil {
			if _, txErr := s.promotions.ValidateForUpdateTx(ctx, tx, *booking.PromotionID, now); txErr != nil {
				return txErr
			}

			updatedFields[model.FieldPromotionUsedAt] = now
		}

		return s.repo.UpdateTx(ctx, tx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName))
	})
	if err != nil {
		var fail *failure.Failure
		if errors.As(err, &fail) {
			return fail // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to confirm payment")

		return fmt.Errorf("failed to confirm payment: %w", err)
	}

	metrics.BookingTransition(booking.Status, model.StatusConfirmed)
	s.audit.Record(ctx, scope, audit.ActionPayment, model.EntityName, id, map[string]any{
		"amount": req.Amount,
		"method": req.PaymentMethod,
	})

	s.sendConfirmationEmail(ctx, booking, req.Amount)

	return nil
}

// Cancel releases the room. Guests may cancel their own pending or confirmed
// bookings; staff may cancel any booking of their hotel.
func (s *serviceImpl) Cancel(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if err = s.guardBooking(ctx, scope, booking, "cancel"); err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, model.StatusCancelled) {
		return failure.InvalidTransition // nolint:wrapcheck
	}

	return s.applyTransition(ctx, scope, booking, model.StatusCancelled)
}

func (s *serviceImpl) CheckIn(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if err = s.guardHotel(ctx, scope, booking.HotelID, "check_in"); err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, model.StatusCheckedIn) {
		return failure.InvalidTransition // nolint:wrapcheck
	}

	return s.applyTransition(ctx, scope, booking, model.StatusCheckedIn)
}

func (s *serviceImpl) CheckOut(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if err = s.guardHotel(ctx, scope, booking.HotelID, "check_out"); err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, model.StatusCheckedOut) {
		return failure.InvalidTransition // nolint:wrapcheck
	}

	return s.applyTransition(ctx, scope, booking, model.StatusCheckedOut)
}

// MarkNoShow is a staff call for guests that never arrived. It is never
// applied automatically; the sweep only advances paid stays.
func (s *serviceImpl) MarkNoShow(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkNoShow")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if err = s.guardHotel(ctx, scope, booking.HotelID, "mark_no_show"); err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, model.StatusNoShow) {
		return failure.InvalidTransition // nolint:wrapcheck
	}

	return s.applyTransition(ctx, scope, booking, model.StatusNoShow)
}

// Stats summarises the scoped bookings for the dashboard. Revenue counts
// completed payments only, so unpaid pending rows never inflate it.
func (s *serviceImpl) Stats(ctx context.Context, scope access.Scope, filter gDto.FilterGroup) (res dto.BookingStatsResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	filter, err = s.scopedFilter(ctx, scope, filter)
	if err != nil {
		return res, err
	}

	s.sweepStatuses(ctx, scope.UserID)

	counts, err := s.repo.CountByStatus(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings by status")

		return res, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	revenue, err := s.repo.Revenue(ctx, paidFilter(filter))
	if err != nil {
		log.Error().Err(err).Msg("failed to sum booking revenue")

		return res, fmt.Errorf("failed to sum booking revenue: %w", err)
	}

	res = dto.BookingStatsResponse{
		TotalBookings: total,
		ByStatus:      counts,
		Revenue:       revenue,
	}

	return res, nil
}

// Export writes the scoped bookings as a spreadsheet. The format decides the
// writer: csv carries a UTF-8 BOM for desktop spreadsheet apps, xlsx gets a
// bold header row.
func (s *serviceImpl) Export(ctx context.Context, scope access.Scope, format string, filter gDto.FilterGroup) (data []byte, filename string, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Export")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if format != ExportFormatCSV && format != ExportFormatXLSX {
		return nil, "", failure.BadRequestFromString(fmt.Sprintf("unsupported export format: %s", format)) // nolint:wrapcheck
	}

	filter, err = s.scopedFilter(ctx, scope, filter)
	if err != nil {
		return nil, "", err
	}

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return nil, "", fmt.Errorf("failed to get bookings: %w", err)
	}

	header := []string{"ID", "Hotel", "Room", "Customer", "Check-in", "Check-out", "Status", "Payment", "Total"}

	var buf bytes.Buffer

	switch format {
	case ExportFormatCSV:
		rows := make([][]string, len(models))
		for i, booking := range models {
			rows[i] = exportRow(booking)
		}

		err = export.WriteCSV(&buf, header, rows)
	case ExportFormatXLSX:
		rows := make([][]any, len(models))
		for i, booking := range models {
			row := exportRow(booking)

			cells := make([]any, len(row))
			for j, cell := range row {
				cells[j] = cell
			}

			rows[i] = cells
		}

		err = export.WriteXLSX(&buf, "Bookings", header, rows)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to write booking export")

		return nil, "", fmt.Errorf("failed to write booking export: %w", err)
	}

	filename = fmt.Sprintf("bookings-%s.%s", timezone.Now().Format("20060102-150405"), format)

	return buf.Bytes(), filename, nil
}

// SoftDelete hides the booking and cascades to its review in the same
// transaction, so a hidden booking never shows a live review.
func (s *serviceImpl) SoftDelete(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SoftDelete")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if err = s.guardHotel(ctx, scope, booking.HotelID, "delete"); err != nil {
		return err
	}

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.SoftDeleteTx(ctx, tx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); txErr != nil {
			return txErr
		}

		return s.reviews.SoftDeleteTx(ctx, tx, scope.UserID, reviewsOfBooking(id))
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionSoftDelete, model.EntityName, id, nil)

	return nil
}

// Recover restores the booking together with the reviews its deletion
// cascaded over. Reviews moderated away before the booking was deleted keep
// their own earlier deletion and stay hidden.
func (s *serviceImpl) Recover(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Recover")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	filter.IncludeDeleted = true

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if !booking.IsDeleted {
		return failure.BadRequestFromString("booking is not deleted") // nolint:wrapcheck
	}

	if err = s.guardHotel(ctx, scope, booking.HotelID, "recover"); err != nil {
		return err
	}

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.RecoverTx(ctx, tx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); txErr != nil {
			return txErr
		}

		if booking.DeletedAt == nil {
			return nil
		}

		return s.reviews.RecoverTx(ctx, tx, scope.UserID, cascadedReviews(id, *booking.DeletedAt))
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to recover booking")

		return fmt.Errorf("failed to recover booking: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionRecover, model.EntityName, id, nil)

	return nil
}

// sweepStatuses advances overdue bookings before a staff read. Failures are
// logged only; a stale status must never block the listing.
func (s *serviceImpl) sweepStatuses(ctx context.Context, by string) {
	checkedIn, checkedOut, err := s.repo.AdvanceStatuses(ctx, timezone.Now(), by)
	if err != nil {
		log.Error().Err(err).Msg("failed to advance booking statuses")

		return
	}

	if checkedIn > 0 {
		metrics.SweepTouched("booking_check_in", checkedIn)
	}

	if checkedOut > 0 {
		metrics.SweepTouched("booking_check_out", checkedOut)
	}
}

// buildLines assembles the service lines of a new booking: the package's
// service items first, then the extra services the guest picked. Unit prices
// are captured here and never re-read.
func (s *serviceImpl) buildLines(ctx context.Context, booking *model.Booking, room roomModel.Room, req dto.CreateBookingRequest) ([]model.BookingService, error) {
	var lineModels []model.BookingService

	if booking.PackageID != nil {
		items, err := s.packageItems(ctx, *booking.PackageID)
		if err != nil {
			return nil, err
		}

		roomTypeMatched := false

		for _, item := range items {
			if item.RoomTypeID != nil && *item.RoomTypeID == room.RoomTypeID {
				roomTypeMatched = true
			}

			if item.ServiceID != nil && item.ServicePrice != nil {
				lineModels = append(lineModels, model.BookingService{
					ID:        uuid.NewString(),
					BookingID: booking.ID,
					ServiceID: *item.ServiceID,
					Quantity:  item.Quantity,
					UnitPrice: *item.ServicePrice,
				})
			}
		}

		if !roomTypeMatched {
			return nil, failure.BadRequestFromString("room does not belong to the package") // nolint:wrapcheck
		}
	}

	if len(req.Services) > 0 {
		extras, err := s.extraLines(ctx, booking.ID, req.Services)
		if err != nil {
			return nil, err
		}

		lineModels = append(lineModels, extras...)
	}

	return lineModels, nil
}

func (s *serviceImpl) packageItems(ctx context.Context, packageID string) ([]bundleModel.PackageItem, error) {
	pkg, err := s.packages.Get(ctx, shared.FilterByID(packageID, bundleModel.FieldID, bundleModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get package")

		return nil, fmt.Errorf("failed to get package: %w", err)
	}

	if pkg.ID == "" {
		return nil, failure.NotFound("package not found") // nolint:wrapcheck
	}

	if !pkg.IsActive {
		return nil, failure.BadRequestFromString("package is not active") // nolint:wrapcheck
	}

	items, err := s.items.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bundleModel.ItemFieldPackageID,
				Operator: gDto.FilterOperatorEq,
				Value:    packageID,
				Table:    bundleModel.ItemTableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get package items")

		return nil, fmt.Errorf("failed to get package items: %w", err)
	}

	return items, nil
}

func (s *serviceImpl) extraLines(ctx context.Context, bookingID string, reqs []dto.BookingServiceRequest) ([]model.BookingService, error) {
	ids := make([]string, 0, len(reqs))
	for _, svc := range reqs {
		if !slices.Contains(ids, svc.ServiceID) {
			ids = append(ids, svc.ServiceID)
		}
	}

	models, err := s.services.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    serviceModel.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    serviceModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get services")

		return nil, fmt.Errorf("failed to get services: %w", err)
	}

	prices := make(map[string]float64, len(models))
	for _, svc := range models {
		prices[svc.ID] = svc.Price
	}

	lineModels := make([]model.BookingService, 0, len(reqs))

	for _, svc := range reqs {
		price, ok := prices[svc.ServiceID]
		if !ok {
			return nil, failure.BadRequestFromString("one or more services do not exist") // nolint:wrapcheck
		}

		lineModels = append(lineModels, model.BookingService{
			ID:        uuid.NewString(),
			BookingID: bookingID,
			ServiceID: svc.ServiceID,
			Quantity:  svc.Quantity,
			UnitPrice: price,
		})
	}

	return lineModels, nil
}

// carriedDiscount resolves the discount terms a pending booking re-prices
// with. A promotion deleted since checkout drops off the booking instead of
// failing the edit.
func (s *serviceImpl) carriedDiscount(ctx context.Context, booking model.Booking) (*pricing.Discount, bool, error) {
	if booking.PromotionID == nil {
		return nil, false, nil
	}

	promotion, err := s.promotions.Get(ctx, *booking.PromotionID)
	if err != nil {
		if failure.GetCode(err) == http.StatusNotFound {
			return nil, true, nil
		}

		return nil, false, err
	}

	return &pricing.Discount{
		Type:  pricing.DiscountType(promotion.DiscountType),
		Value: promotion.DiscountValue,
	}, false, nil
}

// heldForRange reports whether another holding booking overlaps the
// half-open date range. excludeID skips the booking being edited. The
// exclusion constraint enforces the same predicate at write time.
func (s *serviceImpl) heldForRange(ctx context.Context, roomID, excludeID string, checkIn, checkOut time.Time) (bool, error) {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorEq,
			Value:    roomID,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorIn,
			Value:    model.RoomHoldingStatuses,
			Table:    model.TableName,
		},
		gDto.Filter{
			Operator: gDto.FilterPlainQuery,
			Value:    "bookings.check_in_date < :probe_check_out AND bookings.check_out_date > :probe_check_in",
			Args: map[string]any{
				"probe_check_in":  checkIn.Format(constant.DateOnlyFormat),
				"probe_check_out": checkOut.Format(constant.DateOnlyFormat),
			},
		},
	}

	if excludeID != "" {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    excludeID,
			Table:    model.TableName,
		})
	}

	held, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check room availability")

		return false, fmt.Errorf("failed to check room availability: %w", err)
	}

	return held, nil
}

func (s *serviceImpl) applyTransition(ctx context.Context, scope access.Scope, booking model.Booking, to string) error {
	updatedFields := map[string]any{
		model.FieldStatus:        to,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: scope.UserID,
	}

	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	metrics.BookingTransition(booking.Status, to)
	s.audit.Record(ctx, scope, audit.ActionStatusChange, model.EntityName, booking.ID, map[string]any{
		"from": booking.Status,
		"to":   to,
	})

	return nil
}

// sendConfirmationEmail delivers the receipt in the background. The payment
// is already confirmed, so delivery failures are logged and dropped.
func (s *serviceImpl) sendConfirmationEmail(ctx context.Context, booking model.Booking, amount float64) {
	mailCtx := context.WithoutCancel(ctx)

	go func() {
		subject := fmt.Sprintf("Booking confirmed at %s", booking.HotelName)
		body := fmt.Sprintf(
			"Your booking %s at %s is confirmed.\nCheck-in: %s\nCheck-out: %s\nAmount paid: %.2f",
			booking.ID,
			booking.HotelName,
			booking.CheckInDate.Format(constant.DateOnlyFormat),
			booking.CheckOutDate.Format(constant.DateOnlyFormat),
			amount,
		)

		err := s.mailer.Send(mailCtx, booking.CustomerMail, subject, body)
		if err != nil && !errors.Is(err, mailer.ErrDisabled) {
			log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to send confirmation email")
		}
	}()
}

func (s *serviceImpl) hydrate(ctx context.Context, id string) (dto.BookingResponse, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return dto.BookingResponse{}, err
	}

	return s.respond(ctx, booking)
}

// respond builds the detail view: the booking, its service lines and its
// live review if one exists.
func (s *serviceImpl) respond(ctx context.Context, booking model.Booking) (res dto.BookingResponse, err error) {
	res.FromModel(booking)

	lineModels, err := s.lines.GetAll(ctx, gDto.QueryParams{}, lineFilter(booking.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking services")

		return res, fmt.Errorf("failed to get booking services: %w", err)
	}

	if len(lineModels) > 0 {
		res.FromServiceModels(lineModels)
	}

	review, err := s.reviews.Get(ctx, reviewsOfBooking(booking.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking review")

		return res, fmt.Errorf("failed to get booking review: %w", err)
	}

	if review.ID != "" {
		reviewRes := reviewDto.ReviewResponse{}
		reviewRes.FromModel(review)
		res.Review = &reviewRes
	}

	return res, nil
}

func (s *serviceImpl) getBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return model.Booking{}, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" {
		return model.Booking{}, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) getRoom(ctx context.Context, id string) (roomModel.Room, error) {
	room, err := s.rooms.Get(ctx, shared.FilterByID(id, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return roomModel.Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == "" {
		return roomModel.Room{}, failure.NotFound("room not found") // nolint:wrapcheck
	}

	return room, nil
}

// guardBooking admits the booking's own customer and staff of its hotel.
func (s *serviceImpl) guardBooking(ctx context.Context, scope access.Scope, booking model.Booking, action string) error {
	if booking.CustomerID == scope.UserID {
		return nil
	}

	if scope.IsStaffLevel() && scope.CanAccessHotel(booking.HotelID) {
		return nil
	}

	s.audit.Denied(ctx, scope, action, model.EntityName)

	return failure.ResourceRestrictedError // nolint:wrapcheck
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

func pricingLines(lineModels []model.BookingService) []pricing.ServiceLine {
	serviceLines := make([]pricing.ServiceLine, len(lineModels))
	for i, line := range lineModels {
		serviceLines[i] = pricing.ServiceLine{
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		}
	}

	return serviceLines
}

func lineFilter(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.LineFieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    model.LineTableName,
			},
		},
	}
}

func reviewsOfBooking(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    reviewModel.FieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    reviewModel.TableName,
			},
		},
	}
}

// cascadedReviews matches the reviews hidden by the booking's deletion, so
// recovery does not resurrect reviews moderated away earlier.
func cascadedReviews(bookingID string, deletedAt time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    reviewModel.FieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    reviewModel.TableName,
			},
			gDto.Filter{
				ArgName:  "cascade_deleted_at",
				Field:    constant.FieldDeletedAt,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    deletedAt,
				Table:    reviewModel.TableName,
			},
		},
	}
}

// paidFilter narrows the stats filter to completed payments for the revenue
// sum.
func paidFilter(filter gDto.FilterGroup) gDto.FilterGroup {
	filters := make([]any, 0, len(filter.Filters)+1)
	filters = append(filters, filter.Filters...)
	filters = append(filters, gDto.Filter{
		Field:    model.FieldPaymentStatus,
		Operator: gDto.FilterOperatorEq,
		Value:    model.PaymentStatusCompleted,
		Table:    model.TableName,
	})

	operator := filter.Operator
	if operator == "" {
		operator = gDto.FilterGroupOperatorAnd
	}

	return gDto.FilterGroup{
		Operator:       operator,
		Filters:        filters,
		IncludeDeleted: filter.IncludeDeleted,
	}
}

func exportRow(booking model.Booking) []string {
	customer := ""
	if booking.CustomerName != nil {
		customer = *booking.CustomerName
	}

	return []string{
		booking.ID,
		booking.HotelName,
		booking.RoomNumber,
		customer,
		booking.CheckInDate.Format(constant.DateOnlyFormat),
		booking.CheckOutDate.Format(constant.DateOnlyFormat),
		booking.Status,
		booking.PaymentStatus,
		strconv.FormatFloat(booking.TotalPrice, 'f', 2, 64),
	}
}
