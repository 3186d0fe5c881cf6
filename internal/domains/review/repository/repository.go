package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/review/model"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/logger"
	gRepo "innkeeper/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Review interface {
	Insert(ctx context.Context, model model.Review) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Review, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	SoftDelete(ctx context.Context, deletedBy string, filter gDto.FilterGroup) error
	SoftDeleteTx(ctx context.Context, sqltx *sqlx.Tx, deletedBy string, filter gDto.FilterGroup) error
	Recover(ctx context.Context, restoredBy string, filter gDto.FilterGroup) error
	RecoverTx(ctx context.Context, sqltx *sqlx.Tx, restoredBy string, filter gDto.FilterGroup) error
	CountByRating(ctx context.Context, filter gDto.FilterGroup) (map[int]int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// CountByRating buckets live reviews by rating. The filter may reference
// joined columns (hotel, room type) since the review join chain is applied.
func (repo *repositoryImpl) CountByRating(ctx context.Context, filter gDto.FilterGroup) (map[int]int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".review.CountByRating")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	query := fmt.Sprintf(`SELECT %s.rating, COUNT(%s.id) AS total FROM %s %s %s GROUP BY %s.rating`,
		model.TableName, model.TableName, model.TableName, model.Review{}.GetJoinQuery(), where, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows := []struct {
		Rating int `db:"rating"`
		Total  int `db:"total"`
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

		return nil, fmt.Errorf("failed to count data by rating (%s): %w", model.EntityName, err)
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Total
	}

	return counts, nil
}
