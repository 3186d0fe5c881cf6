package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeeper/config"
	kafkaMocks "innkeeper/infras/kafka/mocks"
	otelMocks "innkeeper/infras/otel/mocks"
	"innkeeper/infras/postgres"
	"innkeeper/internal/access"
	"innkeeper/internal/audit"
	"innkeeper/shared/constant"
)

func newRecorderFixture(t *testing.T) (audit.Recorder, sqlmock.Sqlmock, *kafkaMocks.MockClient, *config.Config) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	conn := &postgres.Connection{Read: sqlxDB, Write: sqlxDB}

	ctrl := gomock.NewController(t)
	kafkaClient := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.Enable = true
	cfg.Kafka.Topics.Audit = "innkeeper.audit"

	recorder := audit.New(cfg, conn, kafkaClient, otelMocks.NewOtel())

	return recorder, mock, kafkaClient, cfg
}

func TestRecorder_Record(t *testing.T) {
	scope := access.Scope{UserID: "user-1", Role: constant.RoleManager}

	t.Run("persists and publishes the event", func(t *testing.T) {
		recorder, mock, kafkaClient, cfg := newRecorderFixture(t)

		mock.ExpectPrepare("INSERT INTO audit_events").
			ExpectExec().
			WillReturnResult(sqlmock.NewResult(1, 1))
		kafkaClient.EXPECT().
			SendMessages(gomock.Any(), cfg.Kafka.Topics.Audit, gomock.Any()).
			Return(nil)

		recorder.Record(context.Background(), scope, audit.ActionCreate, "booking", "booking-1", map[string]any{"status": "pending"})

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("swallows persistence failures", func(t *testing.T) {
		recorder, mock, kafkaClient, cfg := newRecorderFixture(t)

		mock.ExpectPrepare("INSERT INTO audit_events").
			ExpectExec().
			WillReturnError(errors.New("connection reset"))
		kafkaClient.EXPECT().
			SendMessages(gomock.Any(), cfg.Kafka.Topics.Audit, gomock.Any()).
			Return(nil)

		assert.NotPanics(t, func() {
			recorder.Record(context.Background(), scope, audit.ActionUpdate, "booking", "booking-1", nil)
		})

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("swallows publish failures", func(t *testing.T) {
		recorder, mock, kafkaClient, cfg := newRecorderFixture(t)

		mock.ExpectPrepare("INSERT INTO audit_events").
			ExpectExec().
			WillReturnResult(sqlmock.NewResult(1, 1))
		kafkaClient.EXPECT().
			SendMessages(gomock.Any(), cfg.Kafka.Topics.Audit, gomock.Any()).
			Return(errors.New("broker unreachable"))

		assert.NotPanics(t, func() {
			recorder.Record(context.Background(), scope, audit.ActionSoftDelete, "review", "review-1", nil)
		})

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips publish when kafka is disabled", func(t *testing.T) {
		recorder, mock, _, cfg := newRecorderFixture(t)
		cfg.Kafka.Enable = false

		mock.ExpectPrepare("INSERT INTO audit_events").
			ExpectExec().
			WillReturnResult(sqlmock.NewResult(1, 1))

		recorder.Record(context.Background(), scope, audit.ActionRecover, "booking", "booking-2", nil)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecorder_Denied(t *testing.T) {
	recorder, mock, kafkaClient, cfg := newRecorderFixture(t)
	scope := access.Scope{UserID: "user-2", Role: constant.RoleStaff}

	mock.ExpectPrepare("INSERT INTO audit_events").
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(1, 1))
	kafkaClient.EXPECT().
		SendMessages(gomock.Any(), cfg.Kafka.Topics.Audit, gomock.Any()).
		Return(nil)

	recorder.Denied(context.Background(), scope, "read", "booking")

	assert.NoError(t, mock.ExpectationsWereMet())
}
