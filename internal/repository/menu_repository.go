package repository

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Lixing-Zhang/roomservice/internal/models"
)

var (
	ErrItemNotFound = errors.New("menu item not found")
)

// MenuRepository defines the interface for menu data access
type MenuRepository interface {
	GetAll(ctx context.Context) ([]models.MenuItem, error)
	Create(ctx context.Context, item models.MenuItem) (*models.MenuItem, error)
	Update(ctx context.Context, id int64, apply func(*models.MenuItem)) (*models.MenuItem, error)
	Delete(ctx context.Context, id int64) error
}

// JSONMenuRepository implements MenuRepository on top of the menu document
type JSONMenuRepository struct {
	doc *Document[models.MenuItem]
	ids *IDSequence
}

// NewJSONMenuRepository creates a menu repository backed by the file at path
func NewJSONMenuRepository(path string, logger *slog.Logger) *JSONMenuRepository {
	return &JSONMenuRepository{
		doc: NewDocument[models.MenuItem](path, logger),
		ids: NewIDSequence(time.Now),
	}
}

// GetAll returns all menu items in stored order
func (r *JSONMenuRepository) GetAll(ctx context.Context) ([]models.MenuItem, error) {
	return r.doc.Read(ctx)
}

// Create appends item with a freshly generated id
func (r *JSONMenuRepository) Create(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	err := r.doc.Update(ctx, func(items []models.MenuItem) ([]models.MenuItem, error) {
		var maxID int64
		for _, existing := range items {
			if existing.ID > maxID {
				maxID = existing.ID
			}
		}
		r.ids.Observe(maxID)
		item.ID = r.ids.Next()
		return append(items, item), nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies a change to the item with the given id
func (r *JSONMenuRepository) Update(ctx context.Context, id int64, apply func(*models.MenuItem)) (*models.MenuItem, error) {
	var updated models.MenuItem
	err := r.doc.Update(ctx, func(items []models.MenuItem) ([]models.MenuItem, error) {
		for i := range items {
			if items[i].ID == id {
				apply(&items[i])
				updated = items[i]
				return items, nil
			}
		}
		return nil, ErrItemNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the item with the given id. Deleting an absent id is not an error.
func (r *JSONMenuRepository) Delete(ctx context.Context, id int64) error {
	return r.doc.Update(ctx, func(items []models.MenuItem) ([]models.MenuItem, error) {
		kept := items[:0]
		for _, item := range items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
}

// IDSequence hands out strictly increasing ids seeded from wall-clock milliseconds
type IDSequence struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDSequence creates a sequence using now as its clock
func NewIDSequence(now func() time.Time) *IDSequence {
	return &IDSequence{now: now}
}

// Next returns the next id
func (s *IDSequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// Observe makes sure future ids are greater than id
func (s *IDSequence) Observe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id > s.last {
		s.last = id
	}
}
