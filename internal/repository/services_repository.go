package repository

import (
	"context"
	"encoding/json"
	"log/slog"
)

// ServicesRepository lists the hotel services catalog
type ServicesRepository interface {
	GetAll(ctx context.Context) ([]json.RawMessage, error)
}

// JSONServicesRepository serves the services document as stored
type JSONServicesRepository struct {
	doc *Document[json.RawMessage]
}

// NewJSONServicesRepository creates a services repository backed by the file at path
func NewJSONServicesRepository(path string, logger *slog.Logger) *JSONServicesRepository {
	return &JSONServicesRepository{
		doc: NewDocument[json.RawMessage](path, logger),
	}
}

// GetAll returns every service entry unchanged
func (r *JSONServicesRepository) GetAll(ctx context.Context) ([]json.RawMessage, error) {
	return r.doc.Read(ctx)
}
