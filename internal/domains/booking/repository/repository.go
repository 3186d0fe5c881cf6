package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/booking/model"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/logger"
	gRepo "innkeeper/shared/repository"
	"innkeeper/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	SoftDeleteTx(ctx context.Context, sqltx *sqlx.Tx, deletedBy string, filter gDto.FilterGroup) error
	RecoverTx(ctx context.Context, sqltx *sqlx.Tx, restoredBy string, filter gDto.FilterGroup) error
	AdvanceStatuses(ctx context.Context, at time.Time, by string) (checkedIn, checkedOut int64, err error)
	CountByStatus(ctx context.Context, filter gDto.FilterGroup) (map[string]int, error)
	Revenue(ctx context.Context, filter gDto.FilterGroup) (float64, error)
}

// Line holds the add-on service rows of a booking. Lines are written once at
// checkout and never edited afterwards.
type Line interface {
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.BookingService) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BookingService, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type lineRepositoryImpl struct {
	gRepo.Repository[model.BookingService]
	db   *postgres.Connection
	otel otel.Otel
}

func NewLine(db *postgres.Connection, otel otel.Otel) Line {
	return &lineRepositoryImpl{
		Repository: gRepo.NewRepository[model.BookingService](model.LineEntityName, model.LineTableName, model.LineFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// AdvanceStatuses walks overdue bookings one hop forward: confirmed rows
// whose check-in date has arrived become checked_in, then checked_in rows
// whose check-out date has arrived become checked_out. Both updates are
// keyed on the current status, so reruns and concurrent sweeps are harmless.
func (repo *repositoryImpl) AdvanceStatuses(ctx context.Context, at time.Time, by string) (checkedIn, checkedOut int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.AdvanceStatuses")
	defer scope.End()

	checkedIn, err = repo.advance(ctx, model.StatusConfirmed, model.StatusCheckedIn, model.FieldCheckInDate, at, by)
	if err != nil {
		scope.TraceError(err)

		return 0, 0, err
	}

	checkedOut, err = repo.advance(ctx, model.StatusCheckedIn, model.StatusCheckedOut, model.FieldCheckOutDate, at, by)
	if err != nil {
		scope.TraceError(err)

		return checkedIn, 0, err
	}

	return checkedIn, checkedOut, nil
}

func (repo *repositoryImpl) advance(ctx context.Context, from, to, dateColumn string, at time.Time, by string) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET status = :to, modified_at = :modified_at, modified_by = :modified_by
		WHERE status = :from AND is_deleted = FALSE AND %s <= :at`, model.TableName, dateColumn)

	args := map[string]any{
		"from":        from,
		"to":          to,
		"at":          at.Format(constant.DateOnlyFormat),
		"modified_at": timezone.Now(),
		"modified_by": by,
	}

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to advance status %s to %s (%s): %w", from, to, model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows (%s): %w", model.EntityName, err)
	}

	return affected, nil
}

func (repo *repositoryImpl) CountByStatus(ctx context.Context, filter gDto.FilterGroup) (map[string]int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CountByStatus")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	query := fmt.Sprintf("SELECT status, COUNT(id) AS total FROM %s %s GROUP BY status", model.TableName, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows := []struct {
		Status string `db:"status"`
		Total  int    `db:"total"`
	}{}

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &rows, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count data by status (%s): %w", model.EntityName, err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	return counts, nil
}

func (repo *repositoryImpl) Revenue(ctx context.Context, filter gDto.FilterGroup) (float64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Revenue")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	query := fmt.Sprintf("SELECT COALESCE(SUM(total_price), 0) FROM %s %s", model.TableName, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var revenue float64

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &revenue, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum revenue (%s): %w", model.EntityName, err)
	}

	return revenue, nil
}
