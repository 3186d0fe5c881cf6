package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/promotion/model"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/logger"
	gRepo "innkeeper/shared/repository"
	"innkeeper/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Promotion interface {
	Insert(ctx context.Context, model model.Promotion) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Promotion, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Promotion, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, promotionID string) (model.Promotion, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	SoftDelete(ctx context.Context, deletedBy string, filter gDto.FilterGroup) error
	Recover(ctx context.Context, restoredBy string, filter gDto.FilterGroup) error
	UsageByPromotion(ctx context.Context, promotionIDs []string) (map[string]int, error)
	CountUsageTx(ctx context.Context, sqltx *sqlx.Tx, promotionID string) (int, error)
	DeactivateInvalid(ctx context.Context, at time.Time, by string) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Promotion]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Promotion {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Promotion](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetForUpdateTx locks the live promotion row for the rest of the
// transaction, serialising concurrent redemptions. A zero model with a nil
// error means the promotion is gone or soft-deleted.
func (repo *repositoryImpl) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, promotionID string) (model.Promotion, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".promotion.GetForUpdateTx")
	defer scope.End()

	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1 AND is_deleted = FALSE FOR UPDATE", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var promotion model.Promotion

	err := sqltx.GetContext(ctx, &promotion, query, promotionID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Promotion{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model.Promotion{}, fmt.Errorf("failed to lock data (%s): %w", model.EntityName, err)
	}

	return promotion, nil
}

// UsageByPromotion counts redemptions per promotion. Soft-deleted bookings
// keep their stamp, so they still count. Promotions with no redemption are
// absent from the map.
func (repo *repositoryImpl) UsageByPromotion(ctx context.Context, promotionIDs []string) (map[string]int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".promotion.UsageByPromotion")
	defer scope.End()

	if len(promotionIDs) == 0 {
		return map[string]int{}, nil
	}

	query, args, err := sqlx.In(
		"SELECT promotion_id, COUNT(id) AS total FROM bookings WHERE promotion_id IN (?) AND promotion_used_at IS NOT NULL GROUP BY promotion_id",
		promotionIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build usage query (%s): %w", model.EntityName, err)
	}

	query = repo.db.Read.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []struct {
		PromotionID string `db:"promotion_id"`
		Total       int    `db:"total"`
	}

	if err := repo.db.Read.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count usage (%s): %w", model.EntityName, err)
	}

	usage := make(map[string]int, len(rows))
	for _, row := range rows {
		usage[row.PromotionID] = row.Total
	}

	return usage, nil
}

// CountUsageTx counts redemptions through the transaction. With the promotion
// row locked this count cannot race another confirmation.
func (repo *repositoryImpl) CountUsageTx(ctx context.Context, sqltx *sqlx.Tx, promotionID string) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".promotion.CountUsageTx")
	defer scope.End()

	query := "SELECT COUNT(id) FROM bookings WHERE promotion_id = $1 AND promotion_used_at IS NOT NULL"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var usage int

	if err := sqltx.GetContext(ctx, &usage, query, promotionID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count usage (%s): %w", model.EntityName, err)
	}

	return usage, nil
}

// DeactivateInvalid flags live promotions that have run past their end date
// or burned through their usage allowance. The update only ever flips rows
// from active to inactive, so repeated sweeps are harmless.
func (repo *repositoryImpl) DeactivateInvalid(ctx context.Context, at time.Time, by string) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".promotion.DeactivateInvalid")
	defer scope.End()

	query := fmt.Sprintf(`UPDATE %s SET is_active = FALSE, modified_at = :modified_at, modified_by = :modified_by
		WHERE is_active = TRUE AND is_deleted = FALSE
		AND (end_date < :today
			OR max_usage <= (SELECT COUNT(b.id) FROM bookings b WHERE b.promotion_id = %s.id AND b.promotion_used_at IS NOT NULL))`,
		model.TableName, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"today":       at.Format(constant.DateOnlyFormat),
		"modified_at": timezone.Now(),
		"modified_by": by,
	}

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to deactivate invalid data (%s): %w", model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows (%s): %w", model.EntityName, err)
	}

	return affected, nil
}
