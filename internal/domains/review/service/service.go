package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"innkeeper/infras/otel"
	"innkeeper/internal/access"
	"innkeeper/internal/audit"
	bookingModel "innkeeper/internal/domains/booking/model"
	bookingRepository "innkeeper/internal/domains/booking/repository"
	"innkeeper/internal/domains/review/model"
	"innkeeper/internal/domains/review/model/dto"
	"innkeeper/internal/domains/review/repository"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// reviewableStatuses are the booking statuses a guest may review from. A
// pending or cancelled stay never reaches the review form.
var reviewableStatuses = []string{
	bookingModel.StatusConfirmed,
	bookingModel.StatusCheckedIn,
	bookingModel.StatusCheckedOut,
}

type Review interface {
	Create(ctx context.Context, scope access.Scope, req dto.CreateReviewRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReviewsResponse, error)
	Get(ctx context.Context, id string) (dto.ReviewResponse, error)
	Update(ctx context.Context, scope access.Scope, req dto.UpdateReviewRequest, id string) error
	Stats(ctx context.Context, filter gDto.FilterGroup) (dto.ReviewStatsResponse, error)
	SoftDelete(ctx context.Context, scope access.Scope, id string) error
	Recover(ctx context.Context, scope access.Scope, id string) error
}

type serviceImpl struct {
	repo     repository.Review
	bookings bookingRepository.Booking
	audit    audit.Recorder
	otel     otel.Otel
}

func New(repo repository.Review, bookings bookingRepository.Booking, auditRecorder audit.Recorder, otel otel.Otel) Review {
	return &serviceImpl{
		repo:     repo,
		bookings: bookings,
		audit:    auditRecorder,
		otel:     otel,
	}
}

// Create files the guest's review of their own stay. One live review per
// booking: the service checks first and the partial unique index backs it up
// against concurrent submissions.
func (s *serviceImpl) Create(ctx context.Context, scope access.Scope, req dto.CreateReviewRequest) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	booking, err := s.bookings.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" {
		return failure.NotFound("booking not found")
	}

	if booking.CustomerID != scope.UserID {
		s.audit.Denied(ctx, scope, "create", model.EntityName)

		return failure.ResourceRestrictedError
	}

	if !slices.Contains(reviewableStatuses, booking.Status) {
		return failure.ReviewNotAllowed
	}

	reviewed, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    req.BookingID,
				Table:    model.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing review")

		return fmt.Errorf("failed to check existing review: %w", err)
	}

	if reviewed {
		return failure.DuplicateReview
	}

	review := req.ToModel(scope.UserID)

	if err = s.repo.Insert(ctx, review); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return failure.DuplicateReview
		}

		log.Error().Err(err).Msg("failed to create review")

		return fmt.Errorf("failed to create review: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionCreate, model.EntityName, review.ID, map[string]any{
		"booking_id": req.BookingID,
		"rating":     req.Rating,
	})

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReviewsResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReviewResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	review, err := s.getReview(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(review)

	return res, nil
}

// Update lets the guest revise their own rating or comment. Moderation
// never edits text; it hides the review instead.
func (s *serviceImpl) Update(ctx context.Context, scope access.Scope, req dto.UpdateReviewRequest, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if req == (dto.UpdateReviewRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	review, err := s.getReview(ctx, id)
	if err != nil {
		return err
	}

	if review.CustomerID != scope.UserID {
		s.audit.Denied(ctx, scope, "update", model.EntityName)

		return failure.ResourceRestrictedError
	}

	updatedFields := shared.TransformFields(req, scope.UserID)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update review")

		return fmt.Errorf("failed to update review: %w", err)
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

// Stats buckets live reviews by rating and derives the weighted average.
// All five buckets are always present so charts need no fallback.
func (s *serviceImpl) Stats(ctx context.Context, filter gDto.FilterGroup) (res dto.ReviewStatsResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	counts, err := s.repo.CountByRating(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews by rating")

		return res, fmt.Errorf("failed to count reviews by rating: %w", err)
	}

	total := 0
	weighted := 0

	for rating := 1; rating <= 5; rating++ {
		if _, ok := counts[rating]; !ok {
			counts[rating] = 0
		}

		total += counts[rating]
		weighted += rating * counts[rating]
	}

	res = dto.ReviewStatsResponse{
		TotalReviews: total,
		ByRating:     counts,
	}

	if total > 0 {
		res.AverageRating = float64(weighted) / float64(total)
	}

	return res, nil
}

// SoftDelete hides a review from public listings. Managers moderate only
// reviews of their own hotel.
func (s *serviceImpl) SoftDelete(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SoftDelete")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	review, err := s.getReview(ctx, id)
	if err != nil {
		return err
	}

	if !scope.CanAccessHotel(review.HotelID) {
		s.audit.Denied(ctx, scope, "delete", model.EntityName)

		return failure.ResourceRestrictedError
	}

	if err = s.repo.SoftDelete(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete review")

		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionSoftDelete, model.EntityName, id, nil)

	return nil
}

// Recover restores a moderated review. The parent booking must itself be
// live, and the one-live-review rule still holds: if another review took the
// slot meanwhile the unique index refuses the restore.
func (s *serviceImpl) Recover(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Recover")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	filter.IncludeDeleted = true

	review, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get review")

		return fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == "" {
		return failure.NotFound("review not found")
	}

	if !review.IsDeleted {
		return failure.BadRequestFromString("review is not deleted")
	}

	if !scope.CanAccessHotel(review.HotelID) {
		s.audit.Denied(ctx, scope, "recover", model.EntityName)

		return failure.ResourceRestrictedError
	}

	booking, err := s.bookings.Get(ctx, shared.FilterByID(review.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" {
		return failure.BadRequestFromString("cannot recover a review of a deleted booking")
	}

	if err = s.repo.Recover(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return failure.DuplicateReview
		}

		log.Error().Err(err).Msg("failed to recover review")

		return fmt.Errorf("failed to recover review: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionRecover, model.EntityName, id, nil)

	return nil
}

func (s *serviceImpl) getReview(ctx context.Context, id string) (model.Review, error) {
	review, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get review")

		return model.Review{}, fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == "" {
		return model.Review{}, failure.NotFound("review not found")
	}

	return review, nil
}
