package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
)

var tracer = otel.Tracer("stock-repository")

// GormRepositoryWithTracing wraps GormRepository with tracing spans on the
// hot paths. Methods not overridden fall through to the embedded repository.
type GormRepositoryWithTracing struct {
	*GormRepository
}

// NewGormRepositoryWithTracing creates a new repository with tracing
func NewGormRepositoryWithTracing(db *gorm.DB) *GormRepositoryWithTracing {
	return &GormRepositoryWithTracing{
		GormRepository: NewGormRepository(db),
	}
}

// ApplyChange with tracing
func (r *GormRepositoryWithTracing) ApplyChange(ctx context.Context, itemID uint, fn domain.ChangeFunc) (*domain.Item, *domain.Movement, error) {
	ctx, span := tracer.Start(ctx, "repository.ApplyChange",
		trace.WithAttributes(
			attribute.Int("item.id", int(itemID)),
		),
	)
	defer span.End()

	item, mv, err := r.GormRepository.ApplyChange(ctx, itemID, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetAttributes(
		attribute.String("item.sku", item.SKU),
		attribute.String("movement.type", mv.Type),
		attribute.Int("movement.before", mv.QuantityBefore),
		attribute.Int("movement.after", mv.QuantityAfter),
	)
	return item, mv, nil
}

// FindByID with tracing
func (r *GormRepositoryWithTracing) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(
			attribute.Int("item.id", int(id)),
		),
	)
	defer span.End()

	item, err := r.GormRepository.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("item.sku", item.SKU),
		attribute.Int("item.quantity", item.Quantity),
	)
	return item, nil
}

// FindBySKU with tracing
func (r *GormRepositoryWithTracing) FindBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	ctx, span := tracer.Start(ctx, "repository.FindBySKU",
		trace.WithAttributes(
			attribute.String("item.sku", sku),
		),
	)
	defer span.End()

	item, err := r.GormRepository.FindBySKU(ctx, sku)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("item.quantity", item.Quantity))
	return item, nil
}

// LowStock with tracing
func (r *GormRepositoryWithTracing) LowStock(ctx context.Context) ([]domain.Item, error) {
	ctx, span := tracer.Start(ctx, "repository.LowStock")
	defer span.End()

	items, err := r.GormRepository.LowStock(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

// ExpiringSoon with tracing
func (r *GormRepositoryWithTracing) ExpiringSoon(ctx context.Context, days int) ([]domain.Item, error) {
	ctx, span := tracer.Start(ctx, "repository.ExpiringSoon",
		trace.WithAttributes(
			attribute.Int("query.window_days", days),
		),
	)
	defer span.End()

	items, err := r.GormRepository.ExpiringSoon(ctx, days)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

// Search with tracing
func (r *GormRepositoryWithTracing) Search(ctx context.Context, query string) ([]domain.Item, error) {
	ctx, span := tracer.Start(ctx, "repository.Search",
		trace.WithAttributes(
			attribute.String("query.text", query),
		),
	)
	defer span.End()

	items, err := r.GormRepository.Search(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}
