package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"innkeeper/infras/otel"
	"innkeeper/internal/access"
	"innkeeper/internal/audit"
	"innkeeper/internal/domains/promotion/model"
	"innkeeper/internal/domains/promotion/model/dto"
	"innkeeper/internal/domains/promotion/repository"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	"innkeeper/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type Promotion interface {
	Create(ctx context.Context, scope access.Scope, req dto.CreatePromotionRequest) error
	GetAll(ctx context.Context, scope access.Scope, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPromotionsResponse, error)
	Get(ctx context.Context, id string) (dto.PromotionResponse, error)
	Update(ctx context.Context, scope access.Scope, req dto.UpdatePromotionRequest, id string) error
	Validate(ctx context.Context, code string, at time.Time) (dto.ValidatePromotionResponse, error)
	ValidateForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, promotionID string, at time.Time) (model.Promotion, error)
	SoftDelete(ctx context.Context, scope access.Scope, id string) error
	Recover(ctx context.Context, scope access.Scope, id string) error
}

type serviceImpl struct {
	repo  repository.Promotion
	audit audit.Recorder
	otel  otel.Otel
}

func New(repo repository.Promotion, auditRecorder audit.Recorder, otel otel.Otel) Promotion {
	return &serviceImpl{
		repo:  repo,
		audit: auditRecorder,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, scope access.Scope, req dto.CreatePromotionRequest) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	promotion, err := req.ToModel(scope.UserID)
	if err != nil {
		return failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err))
	}

	if promotion.EndDate.Before(promotion.StartDate) {
		return failure.InvalidDateRange
	}

	if err = s.repo.Insert(ctx, promotion); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return failure.Conflict("promotion code already exists")
		}

		log.Error().Err(err).Msg("failed to create promotion")

		return fmt.Errorf("failed to create promotion: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionCreate, model.EntityName, promotion.ID, map[string]any{"code": promotion.Code})

	return nil
}

// GetAll sweeps invalid promotions off the active flag before listing, so
// the admin view never shows a stale is_active.
func (s *serviceImpl) GetAll(ctx context.Context, scope access.Scope, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPromotionsResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	deactivated, sweepErr := s.repo.DeactivateInvalid(ctx, timezone.Now(), scope.UserID)
	if sweepErr != nil {
		log.Error().Err(sweepErr).Msg("failed to deactivate invalid promotions")
	} else if deactivated > 0 {
		log.Info().Int64("count", deactivated).Msg("deactivated invalid promotions")
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count promotions")

		return res, fmt.Errorf("failed to count promotions: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get promotions")

		return res, fmt.Errorf("failed to get promotions: %w", err)
	}

	ids := make([]string, len(models))
	for i, promotion := range models {
		ids[i] = promotion.ID
	}

	usage, err := s.repo.UsageByPromotion(ctx, ids)
	if err != nil {
		log.Error().Err(err).Msg("failed to count promotion usage")

		return res, fmt.Errorf("failed to count promotion usage: %w", err)
	}

	res.FromModels(models, total, req.Limit)
	for i := range res.Promotions {
		res.Promotions[i].Usage = usage[models[i].ID]
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PromotionResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	promotion, err := s.getPromotion(ctx, id)
	if err != nil {
		return res, err
	}

	usage, err := s.repo.UsageByPromotion(ctx, []string{promotion.ID})
	if err != nil {
		log.Error().Err(err).Msg("failed to count promotion usage")

		return res, fmt.Errorf("failed to count promotion usage: %w", err)
	}

	res.FromModel(promotion)
	res.Usage = usage[promotion.ID]

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, scope access.Scope, req dto.UpdatePromotionRequest, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if req == (dto.UpdatePromotionRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	promotion, err := s.getPromotion(ctx, id)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, scope.UserID)

	startDate := promotion.StartDate
	endDate := promotion.EndDate

	if req.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err))
		}

		updatedFields[model.FieldStartDate] = startDate
	}

	if req.EndDate != "" {
		endDate, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err))
		}

		updatedFields[model.FieldEndDate] = endDate
	}

	if endDate.Before(startDate) {
		return failure.InvalidDateRange
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update promotion")

		return fmt.Errorf("failed to update promotion: %w", err)
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

// Validate answers whether the code can be redeemed at the given instant.
// The same rules run again under lock when a payment confirms, so a positive
// answer here is advisory, not a reservation.
func (s *serviceImpl) Validate(ctx context.Context, code string, at time.Time) (res dto.ValidatePromotionResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Validate")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	promotion, err := s.repo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Operator: gDto.FilterOperatorEq,
				Value:    normalizeCode(code),
				Table:    model.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get promotion")

		return res, fmt.Errorf("failed to get promotion: %w", err)
	}

	if promotion.ID == "" || !promotion.IsActive {
		return res, failure.PromotionNotFound
	}

	if !promotion.Window(at) {
		return res, failure.PromotionExpired
	}

	if promotion.MaxUsage > 0 {
		usage, usageErr := s.repo.UsageByPromotion(ctx, []string{promotion.ID})
		if usageErr != nil {
			log.Error().Err(usageErr).Msg("failed to count promotion usage")

			return res, fmt.Errorf("failed to count promotion usage: %w", usageErr)
		}

		if usage[promotion.ID] >= promotion.MaxUsage {
			return res, failure.PromotionExhausted
		}
	}

	res.FromModel(promotion)

	return res, nil
}

// ValidateForUpdateTx re-runs the redemption rules with the promotion row
// locked, so the usage count cannot race another confirmation in flight.
func (s *serviceImpl) ValidateForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, promotionID string, at time.Time) (model.Promotion, error) {
	promotion, err := s.repo.GetForUpdateTx(ctx, sqltx, promotionID)
	if err != nil {
		log.Error().Err(err).Msg("failed to lock promotion")

		return model.Promotion{}, fmt.Errorf("failed to lock promotion: %w", err)
	}

	if promotion.ID == "" || !promotion.IsActive {
		return model.Promotion{}, failure.PromotionNotFound
	}

	if !promotion.Window(at) {
		return model.Promotion{}, failure.PromotionExpired
	}

	if promotion.MaxUsage > 0 {
		usage, usageErr := s.repo.CountUsageTx(ctx, sqltx, promotion.ID)
		if usageErr != nil {
			log.Error().Err(usageErr).Msg("failed to count promotion usage")

			return model.Promotion{}, fmt.Errorf("failed to count promotion usage: %w", usageErr)
		}

		if usage >= promotion.MaxUsage {
			return model.Promotion{}, failure.PromotionExhausted
		}
	}

	return promotion, nil
}

// SoftDelete hides the promotion from redemption. Stamped bookings keep
// their discount amounts untouched.
func (s *serviceImpl) SoftDelete(ctx context.Context, scope access.Scope, id string) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SoftDelete")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	if _, err = s.getPromotion(ctx, id); err != nil {
		return err
	}

	if err = s.repo.SoftDelete(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete promotion")

		return fmt.Errorf("failed to delete promotion: %w", err)
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

	promotion, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get promotion")

		return fmt.Errorf("failed to get promotion: %w", err)
	}

	if promotion.ID == "" {
		return failure.NotFound("promotion not found")
	}

	if !promotion.IsDeleted {
		return failure.BadRequestFromString("promotion is not deleted")
	}

	if err = s.repo.Recover(ctx, scope.UserID, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to recover promotion")

		return fmt.Errorf("failed to recover promotion: %w", err)
	}

	s.audit.Record(ctx, scope, audit.ActionRecover, model.EntityName, id, nil)

	return nil
}

func (s *serviceImpl) getPromotion(ctx context.Context, id string) (model.Promotion, error) {
	promotion, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get promotion")

		return model.Promotion{}, fmt.Errorf("failed to get promotion: %w", err)
	}

	if promotion.ID == "" {
		return model.Promotion{}, failure.NotFound("promotion not found")
	}

	return promotion, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
