package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/roomservice/internal/models"
	"github.com/Lixing-Zhang/roomservice/internal/repository"
)

var (
	ErrInvalidItem   = errors.New("invalid menu item")
	ErrInvalidPrice  = errors.New("price must be a non-negative number")
	ErrImageRequired = errors.New("image is required")
)

// CatalogService handles menu and services business logic
type CatalogService struct {
	menu     repository.MenuRepository
	services repository.ServicesRepository
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(menu repository.MenuRepository, services repository.ServicesRepository, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		menu:     menu,
		services: services,
		logger:   logger,
	}
}

// ListMenu returns every menu item, available or not
func (s *CatalogService) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return s.menu.GetAll(ctx)
}

// ListServices returns the hotel services catalog as stored
func (s *CatalogService) ListServices(ctx context.Context) ([]json.RawMessage, error) {
	return s.services.GetAll(ctx)
}

// AddItem validates in and appends it to the menu as available
func (s *CatalogService) AddItem(ctx context.Context, in models.NewMenuItem) (*models.MenuItem, error) {
	if strings.TrimSpace(in.Image) == "" {
		return nil, ErrImageRequired
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}

	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	item, err := s.menu.Create(ctx, models.MenuItem{
		Name:        name,
		NameAm:      strings.TrimSpace(in.NameAm),
		Category:    strings.TrimSpace(in.Category),
		Price:       price,
		Image:       in.Image,
		IsAvailable: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add menu item: %w", err)
	}

	s.logger.Info("menu item added", "item_id", item.ID, "name", item.Name)
	return item, nil
}

// EditItem merges the supplied fields of patch into the stored item
func (s *CatalogService) EditItem(ctx context.Context, patch models.MenuItemPatch) (*models.MenuItem, error) {
	if !patch.ID.Valid {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidItem)
	}

	var name string
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidItem)
		}
	}

	if patch.Price != nil && patch.Price.Valid && patch.Price.Value < 0 {
		return nil, ErrInvalidPrice
	}

	item, err := s.menu.Update(ctx, patch.ID.Value, func(item *models.MenuItem) {
		if patch.Name != nil {
			item.Name = name
		}
		if patch.NameAm != nil {
			item.NameAm = strings.TrimSpace(*patch.NameAm)
		}
		if patch.Category != nil {
			item.Category = strings.TrimSpace(*patch.Category)
		}
		if patch.Price != nil && patch.Price.Valid {
			item.Price = patch.Price.Value
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("menu item updated", "item_id", item.ID)
	return item, nil
}

// SetAvailability marks the item with id as orderable or not
func (s *CatalogService) SetAvailability(ctx context.Context, req models.AvailabilityRequest) (*models.MenuItem, error) {
	if !req.ID.Valid {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if req.IsAvailable == nil {
		return nil, fmt.Errorf("%w: isAvailable is required", ErrInvalidItem)
	}

	available := *req.IsAvailable
	item, err := s.menu.Update(ctx, req.ID.Value, func(item *models.MenuItem) {
		item.IsAvailable = available
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("menu item availability changed", "item_id", item.ID, "available", available)
	return item, nil
}

// DeleteItem removes the item with id. Removing an unknown id succeeds.
func (s *CatalogService) DeleteItem(ctx context.Context, id models.FlexInt) error {
	if !id.Valid {
		return fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if err := s.menu.Delete(ctx, id.Value); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	s.logger.Info("menu item deleted", "item_id", id.Value)
	return nil
}

// Prices returns the price of every menu item by name.
// When names repeat the first entry wins.
func (s *CatalogService) Prices(ctx context.Context) (map[string]decimal.Decimal, error) {
	items, err := s.menu.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(items))
	for _, item := range items {
		if _, seen := prices[item.Name]; seen {
			continue
		}
		prices[item.Name] = decimal.NewFromFloat(item.Price)
	}
	return prices, nil
}

func parsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidPrice
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	if price.IsNegative() {
		return 0, ErrInvalidPrice
	}
	return price.InexactFloat64(), nil
}
