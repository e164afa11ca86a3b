package usecase

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/totegamma/rfb-playground/internal/domain"
)

var tracer = otel.Tracer("usecase")

type CrudUsecase[T domain.Entity[T]] struct {
	entity    string
	repo      CrudRepository[T]
	publisher ChangePublisher
}

// NewCrudUsecase builds the shared operations. publisher may be nil.
func NewCrudUsecase[T domain.Entity[T]](entity string, repo CrudRepository[T], publisher ChangePublisher) *CrudUsecase[T] {
	return &CrudUsecase[T]{
		entity:    entity,
		repo:      repo,
		publisher: publisher,
	}
}

// Entity returns the entity name used in alerts and change events.
func (uc *CrudUsecase[T]) Entity() string {
	return uc.entity
}

func (uc *CrudUsecase[T]) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, fmt.Sprintf("%s.Usecase.%s", strcase.ToCamel(uc.entity), op))
}

func (uc *CrudUsecase[T]) invalid(key, message string) error {
	return domain.ValidationError{Resource: uc.entity, Key: key, Message: message}
}

func (uc *CrudUsecase[T]) publish(ctx context.Context, span trace.Span, action domain.ChangeAction, id int64) {
	if uc.publisher == nil {
		return
	}
	err := uc.publisher.Publish(ctx, domain.Change{
		Entity:    uc.entity,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	})
	if err != nil {
		span.RecordError(errors.Wrap(err, "publish change"))
		slog.WarnContext(
			ctx, "Failed to publish change",
			slog.String("error", err.Error()),
			slog.String("entity", uc.entity),
			slog.String("module", "usecase"),
		)
	}
}

// Create inserts a new entity. The entity must not carry an id.
func (uc *CrudUsecase[T]) Create(ctx context.Context, entity T) (T, error) {
	ctx, span := uc.start(ctx, "Create")
	defer span.End()

	var zero T
	if entity.GetID() != nil {
		return zero, uc.invalid("idexists", fmt.Sprintf("A new %s cannot already have an ID", uc.entity))
	}

	saved, err := uc.repo.Save(ctx, entity)
	if err != nil {
		span.RecordError(errors.Wrap(err, "save failed"))
		return zero, err
	}

	id := *saved.GetID()
	span.SetAttributes(attribute.Int64("id", id))
	uc.publish(ctx, span, domain.ChangeCreated, id)
	return saved, nil
}

// checkTarget validates a write addressed to id and probes that the row exists.
func (uc *CrudUsecase[T]) checkTarget(ctx context.Context, id int64, entity T) error {
	bodyID := entity.GetID()
	if bodyID == nil {
		return uc.invalid("idnull", "Invalid id")
	}
	if *bodyID != id {
		return uc.invalid("idinvalid", "Invalid ID")
	}
	exists, err := uc.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return uc.invalid("idnotfound", "Entity not found")
	}
	return nil
}

// Update replaces every column of the entity stored under id.
func (uc *CrudUsecase[T]) Update(ctx context.Context, id int64, entity T) (T, error) {
	ctx, span := uc.start(ctx, "Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("id", id))

	var zero T
	if err := uc.checkTarget(ctx, id, entity); err != nil {
		span.RecordError(err)
		return zero, err
	}

	saved, err := uc.repo.Save(ctx, entity)
	if err != nil {
		span.RecordError(errors.Wrap(err, "save failed"))
		return zero, err
	}

	uc.publish(ctx, span, domain.ChangeUpdated, id)
	return saved, nil
}

// PartialUpdate merges the non-nil fields of patch into the stored entity.
// It returns nil when the entity disappeared after the existence probe.
func (uc *CrudUsecase[T]) PartialUpdate(ctx context.Context, id int64, patch T) (*T, error) {
	ctx, span := uc.start(ctx, "PartialUpdate")
	defer span.End()
	span.SetAttributes(attribute.Int64("id", id))

	if err := uc.checkTarget(ctx, id, patch); err != nil {
		span.RecordError(err)
		return nil, err
	}

	saved, err := uc.repo.PartialUpdate(ctx, patch)
	if err != nil {
		span.RecordError(errors.Wrap(err, "partial update failed"))
		return nil, err
	}
	if saved == nil {
		return nil, nil
	}

	uc.publish(ctx, span, domain.ChangeUpdated, id)
	return saved, nil
}

// FindAll returns one page of the entities matching every filter.
func (uc *CrudUsecase[T]) FindAll(ctx context.Context, filters []domain.Filter, page domain.Pageable) (domain.Page[T], error) {
	ctx, span := uc.start(ctx, "FindAll")
	defer span.End()

	total, err := uc.repo.Count(ctx, filters)
	if err != nil {
		span.RecordError(errors.Wrap(err, "count failed"))
		return domain.Page[T]{}, err
	}

	items, err := uc.repo.FindAll(ctx, filters, page)
	if err != nil {
		span.RecordError(errors.Wrap(err, "find failed"))
		return domain.Page[T]{}, err
	}

	return domain.Page[T]{Items: items, Total: total, Pageable: page}, nil
}

// Stream yields entities as they are read.
func (uc *CrudUsecase[T]) Stream(ctx context.Context, filters []domain.Filter, page domain.Pageable) iter.Seq2[T, error] {
	return uc.repo.Stream(ctx, filters, page)
}

func (uc *CrudUsecase[T]) FindOne(ctx context.Context, id int64) (*T, error) {
	ctx, span := uc.start(ctx, "FindOne")
	defer span.End()
	span.SetAttributes(attribute.Int64("id", id))

	entity, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(errors.Wrap(err, "find failed"))
		return nil, err
	}
	return entity, nil
}

// Delete removes the entity. Deleting a missing entity succeeds.
func (uc *CrudUsecase[T]) Delete(ctx context.Context, id int64) error {
	ctx, span := uc.start(ctx, "Delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("id", id))

	err := uc.repo.DeleteByID(ctx, id)
	if err != nil {
		span.RecordError(errors.Wrap(err, "delete failed"))
		return err
	}

	uc.publish(ctx, span, domain.ChangeDeleted, id)
	return nil
}
