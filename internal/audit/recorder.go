package audit

//go:generate go run go.uber.org/mock/mockgen -source=./recorder.go -destination=./mocks/recorder_mock.go -package=mocks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"innkeeper/config"
	"innkeeper/infras/kafka"
	"innkeeper/infras/otel"
	"innkeeper/infras/postgres"
	"innkeeper/internal/access"
	"innkeeper/shared/constant"
	"innkeeper/shared/metrics"
	gRepo "innkeeper/shared/repository"
	"innkeeper/shared/timezone"
)

// Recorder writes the audit trail. Recording must never abort the business
// operation it describes, so the methods return nothing: failures are logged
// and dropped.
type Recorder interface {
	Record(ctx context.Context, scope access.Scope, action, entity, entityID string, detail map[string]any)
	Denied(ctx context.Context, scope access.Scope, action, resource string)
}

type recorderImpl struct {
	config *config.Config
	repo   gRepo.Repository[Event]
	kafka  kafka.Client
	otel   otel.Otel
}

func New(config *config.Config, db *postgres.Connection, kafkaClient kafka.Client, otel otel.Otel) Recorder {
	return &recorderImpl{
		config: config,
		repo:   gRepo.NewRepository[Event](EntityName, TableName, FieldID, db, otel),
		kafka:  kafkaClient,
		otel:   otel,
	}
}

func (r *recorderImpl) Record(ctx context.Context, scope access.Scope, action, entity, entityID string, detail map[string]any) {
	ctx, otelScope := r.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Audit.Record")
	defer otelScope.End()

	detailJSON := "{}"
	if len(detail) > 0 {
		raw, err := json.Marshal(detail)
		if err != nil {
			log.Error().Err(err).Str("action", action).Str("entity", entity).Msg("Failed to marshal audit detail.")
		} else {
			detailJSON = string(raw)
		}
	}

	event := Event{
		ID:         uuid.NewString(),
		OccurredAt: timezone.Now(),
		ActorID:    scope.UserID,
		ActorRole:  scope.Role,
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		Detail:     detailJSON,
	}

	err := r.repo.Insert(ctx, event)
	if err != nil {
		log.Error().Err(err).Str("action", action).Str("entity", entity).Str("entity_id", entityID).Msg("Failed to persist audit event.")
	}

	r.publish(ctx, event)
}

func (r *recorderImpl) Denied(ctx context.Context, scope access.Scope, action, resource string) {
	metrics.AccessDenied(resource)

	log.Warn().
		Str("user_id", scope.UserID).
		Str("role", scope.Role).
		Str("action", action).
		Str("resource", resource).
		Msg("Access denied.")

	r.Record(ctx, scope, ActionDenied, resource, "", map[string]any{"attempted_action": action})
}

func (r *recorderImpl) publish(ctx context.Context, event Event) {
	if !r.config.Kafka.Enable {
		return
	}

	err := r.kafka.SendMessages(ctx, r.config.Kafka.Topics.Audit, kafka.Message{
		Key:   event.Entity + ":" + event.EntityID,
		Value: event,
	})
	if err != nil {
		log.Error().Err(err).Str("action", event.Action).Msg("Failed to publish audit event.")
	}
}
