package repository

import (
	"context"
	"log/slog"

	"github.com/Lixing-Zhang/roomservice/internal/models"
)

// LedgerRepository stores settled orders
type LedgerRepository interface {
	Append(ctx context.Context, order models.Order) error
	GetAll(ctx context.Context) ([]models.Order, error)
	Clear(ctx context.Context) error
}

// JSONLedgerRepository keeps the sales ledger in a single JSON document
type JSONLedgerRepository struct {
	doc *Document[models.Order]
}

// NewJSONLedgerRepository creates a ledger backed by the file at path
func NewJSONLedgerRepository(path string, logger *slog.Logger) *JSONLedgerRepository {
	return &JSONLedgerRepository{
		doc: NewDocument[models.Order](path, logger),
	}
}

// Append adds order to the end of the ledger and persists the full ledger
func (r *JSONLedgerRepository) Append(ctx context.Context, order models.Order) error {
	return r.doc.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		return append(orders, order), nil
	})
}

// GetAll returns the full ledger in insertion order
func (r *JSONLedgerRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	return r.doc.Read(ctx)
}

// Clear overwrites the ledger with an empty sequence
func (r *JSONLedgerRepository) Clear(ctx context.Context) error {
	return r.doc.Write(ctx, []models.Order{})
}
