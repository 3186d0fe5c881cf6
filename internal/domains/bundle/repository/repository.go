package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/bundle/model"
	gDto "innkeeper/shared/dto"
	gRepo "innkeeper/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Package interface {
	Insert(ctx context.Context, model model.Package) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Package) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Package, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Package, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	SoftDelete(ctx context.Context, deletedBy string, filter gDto.FilterGroup) error
	Recover(ctx context.Context, restoredBy string, filter gDto.FilterGroup) error
}

// Item rows are plain and replaced as a set inside the package update
// transaction.
type Item interface {
	InsertBulk(ctx context.Context, models []model.PackageItem) error
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.PackageItem) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.PackageItem, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Package]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Package {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Package](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type itemRepositoryImpl struct {
	gRepo.Repository[model.PackageItem]
	db   *postgres.Connection
	otel otel.Otel
}

func NewItem(db *postgres.Connection, otel otel.Otel) Item {
	return &itemRepositoryImpl{
		Repository: gRepo.NewRepository[model.PackageItem](model.ItemEntityName, model.ItemTableName, model.ItemFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
