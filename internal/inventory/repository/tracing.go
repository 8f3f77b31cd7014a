package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/material-ledger/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracedStore wraps a domain.Store with tracing spans around
// transactions, row locks, journal writes and aggregate queries
type TracedStore struct {
	domain.Store
}

// NewTracedStore creates a new store with tracing
func NewTracedStore(store domain.Store) *TracedStore {
	return &TracedStore{Store: store}
}

// Transaction with tracing
func (r *TracedStore) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	ctx, span := tracer.Start(ctx, "repository.Transaction")
	defer span.End()

	err := r.Store.Transaction(ctx, func(tx domain.Store) error {
		return fn(&TracedStore{Store: tx})
	})
	addDBErrorToSpan(span, err)
	return err
}

// FindMaterialForUpdate with tracing
func (r *TracedStore) FindMaterialForUpdate(ctx context.Context, id uint) (*domain.Material, error) {
	ctx, span := tracer.Start(ctx, "repository.FindMaterialForUpdate",
		trace.WithAttributes(
			attribute.Int("material.id", int(id)),
		),
	)
	defer span.End()

	material, err := r.Store.FindMaterialForUpdate(ctx, id)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("material.code", material.Code),
		attribute.String("material.balance_qty", material.BalanceQty.String()),
	)
	return material, nil
}

// SumInward with tracing
func (r *TracedStore) SumInward(ctx context.Context, projectID, materialID uint) (decimal.Decimal, decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "repository.SumInward", trace.WithAttributes(pairAttributes(projectID, materialID)...))
	defer span.End()

	ordered, received, err := r.Store.SumInward(ctx, projectID, materialID)
	if err != nil {
		addDBErrorToSpan(span, err)
		return ordered, received, err
	}

	span.SetAttributes(
		attribute.String("journal.total_ordered", ordered.String()),
		attribute.String("journal.total_received", received.String()),
	)
	return ordered, received, nil
}

// SumIssued with tracing
func (r *TracedStore) SumIssued(ctx context.Context, projectID, materialID uint) (decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "repository.SumIssued", trace.WithAttributes(pairAttributes(projectID, materialID)...))
	defer span.End()

	issued, err := r.Store.SumIssued(ctx, projectID, materialID)
	if err != nil {
		addDBErrorToSpan(span, err)
		return issued, err
	}

	span.SetAttributes(attribute.String("journal.total_issued", issued.String()))
	return issued, nil
}

// CreateInward with tracing
func (r *TracedStore) CreateInward(ctx context.Context, entry *domain.InwardEntry) error {
	ctx, span := tracer.Start(ctx, "repository.CreateInward", trace.WithAttributes(entryAttributes(entry.Code, entry.ProjectID, len(entry.Lines))...))
	defer span.End()

	if err := r.Store.CreateInward(ctx, entry); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("movement.id", int(entry.ID)))
	return nil
}

// CreateOutward with tracing
func (r *TracedStore) CreateOutward(ctx context.Context, entry *domain.OutwardEntry) error {
	ctx, span := tracer.Start(ctx, "repository.CreateOutward", trace.WithAttributes(entryAttributes(entry.Code, entry.ProjectID, len(entry.Lines))...))
	defer span.End()

	if err := r.Store.CreateOutward(ctx, entry); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("movement.id", int(entry.ID)))
	return nil
}

// CreateTransfer with tracing
func (r *TracedStore) CreateTransfer(ctx context.Context, entry *domain.TransferEntry) error {
	ctx, span := tracer.Start(ctx, "repository.CreateTransfer",
		trace.WithAttributes(
			attribute.String("movement.code", entry.Code),
			attribute.Int("transfer.from_project_id", int(entry.FromProjectID)),
			attribute.Int("transfer.to_project_id", int(entry.ToProjectID)),
			attribute.Int("movement.lines", len(entry.Lines)),
		),
	)
	defer span.End()

	if err := r.Store.CreateTransfer(ctx, entry); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("movement.id", int(entry.ID)))
	return nil
}

// ReplaceOutwardLines with tracing
func (r *TracedStore) ReplaceOutwardLines(ctx context.Context, entry *domain.OutwardEntry, lines []domain.OutwardLine) error {
	ctx, span := tracer.Start(ctx, "repository.ReplaceOutwardLines",
		trace.WithAttributes(
			attribute.Int("movement.id", int(entry.ID)),
			attribute.Int("movement.lines", len(lines)),
		),
	)
	defer span.End()

	err := r.Store.ReplaceOutwardLines(ctx, entry, lines)
	addDBErrorToSpan(span, err)
	return err
}

func pairAttributes(projectID, materialID uint) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("project.id", int(projectID)),
		attribute.Int("material.id", int(materialID)),
	}
}

func entryAttributes(code string, projectID uint, lines int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("movement.code", code),
		attribute.Int("project.id", int(projectID)),
		attribute.Int("movement.lines", lines),
	}
}

// Helper function to add database error details to span
func addDBErrorToSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("database error: %v", err))
	}
}
