package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/domains/roomtype/model"
	gDto "innkeeper/shared/dto"
	gRepo "innkeeper/shared/repository"

	"github.com/jmoiron/sqlx"
)

type RoomType interface {
	Insert(ctx context.Context, model model.RoomType) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.RoomType) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.RoomType, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.RoomType, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	SoftDelete(ctx context.Context, deletedBy string, filter gDto.FilterGroup) error
	Recover(ctx context.Context, restoredBy string, filter gDto.FilterGroup) error
}

// Link holds the room type/amenity pairs. Rows are plain and replaced as a
// set inside the room type update transaction.
type Link interface {
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.RoomTypeAmenity) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.RoomTypeAmenity, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type Image interface {
	Insert(ctx context.Context, model model.RoomImage) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.RoomImage, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.RoomImage, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	SoftDelete(ctx context.Context, deletedBy string, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.RoomType]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) RoomType {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.RoomType](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type linkRepositoryImpl struct {
	gRepo.Repository[model.RoomTypeAmenity]
	db   *postgres.Connection
	otel otel.Otel
}

func NewLink(db *postgres.Connection, otel otel.Otel) Link {
	return &linkRepositoryImpl{
		Repository: gRepo.NewRepository[model.RoomTypeAmenity](model.AmenityLinkEntityName, model.AmenityLinkTableName, model.AmenityLinkFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type imageRepositoryImpl struct {
	gRepo.Repository[model.RoomImage]
	db   *postgres.Connection
	otel otel.Otel
}

func NewImage(db *postgres.Connection, otel otel.Otel) Image {
	return &imageRepositoryImpl{
		Repository: gRepo.NewRepository[model.RoomImage](model.ImageEntityName, model.ImageTableName, model.ImageFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
