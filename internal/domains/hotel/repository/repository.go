package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/hotel/model"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/logger"
	gRepo "innkeeper/shared/repository"
)

type Hotel interface {
	Insert(ctx context.Context, model model.Hotel) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Hotel, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Hotel, error)
	GetFeatured(ctx context.Context, limit int) ([]model.Hotel, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	SoftDelete(ctx context.Context, deletedBy string, filter gDto.FilterGroup) error
	Recover(ctx context.Context, restoredBy string, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Hotel]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Hotel {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Hotel](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetFeatured returns a random selection of live hotels for landing surfaces.
func (repo *repositoryImpl) GetFeatured(ctx context.Context, limit int) ([]model.Hotel, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".hotel.GetFeatured")
	defer scope.End()

	query := fmt.Sprintf("SELECT * FROM %s WHERE is_deleted = FALSE ORDER BY RANDOM() LIMIT $1", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	hotels := []model.Hotel{}

	err := repo.db.Read.SelectContext(ctx, &hotels, query, limit)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get featured data (%s): %w", model.EntityName, err)
	}

	return hotels, nil
}
