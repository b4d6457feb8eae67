package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/roomservice/internal/models"
	"github.com/Lixing-Zhang/roomservice/internal/notify"
	"github.com/Lixing-Zhang/roomservice/internal/repository"
)

var (
	ErrLocationRequired = errors.New("location is required")
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrOrderPending     = errors.New("an order is already pending for this location")
	ErrOrderNotFound    = errors.New("no pending order for this location")
	ErrDateRequired     = errors.New("date is required for this period")
)

// PendingOrderError reports a placement rejected because the location
// already has an order waiting for the kitchen
type PendingOrderError struct {
	Location     string
	LocationType models.LocationType
}

func (e *PendingOrderError) Error() string {
	return fmt.Sprintf("An order is already pending for this %s.", e.LocationType)
}

func (e *PendingOrderError) Unwrap() error {
	return ErrOrderPending
}

// PriceList returns current menu prices keyed by item name
type PriceList interface {
	Prices(ctx context.Context) (map[string]decimal.Decimal, error)
}

// OrderService owns the pending orders and settles them into the ledger
type OrderService struct {
	prices    PriceList
	ledger    repository.LedgerRepository
	publisher notify.Publisher
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	pending map[string]models.Order
}

// NewOrderService creates a new order service
func NewOrderService(prices PriceList, ledger repository.LedgerRepository, publisher notify.Publisher, logger *slog.Logger) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		prices:    prices,
		ledger:    ledger,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		pending:   make(map[string]models.Order),
	}
}

// PlaceOrder validates req, prices it against the menu and holds it as the
// pending order of its location
func (s *OrderService) PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	location, kind := resolveLocation(req)
	if location == "" {
		return nil, ErrLocationRequired
	}

	if s.hasPending(location) {
		return nil, &PendingOrderError{Location: location, LocationType: kind}
	}

	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	total, err := s.computeTotal(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		ID:           models.FlexString(uuid.New().String()),
		Location:     location,
		LocationType: kind,
		Items:        req.Items,
		Total:        total,
		Timestamp:    s.now().UTC(),
	}

	s.mu.Lock()
	if _, exists := s.pending[location]; exists {
		s.mu.Unlock()
		return nil, &PendingOrderError{Location: location, LocationType: kind}
	}
	s.pending[location] = order
	s.mu.Unlock()

	s.publisher.Publish(notify.TopicNewOrder, order)

	s.logger.Info("order placed",
		"order_id", order.ID,
		"location", location,
		"location_type", kind,
		"items_count", len(order.Items),
		"total", order.Total,
	)
	return &order, nil
}

// AcknowledgeOrder appends the pending order of location to the ledger and
// clears it. The order stays pending when the ledger write fails.
func (s *OrderService) AcknowledgeOrder(ctx context.Context, location string) (*models.Order, error) {
	location = strings.TrimSpace(location)

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.pending[location]
	if !ok {
		return nil, ErrOrderNotFound
	}

	if err := s.ledger.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to record order %s: %w", order.ID, err)
	}
	delete(s.pending, location)

	s.logger.Info("order acknowledged", "order_id", order.ID, "location", location)
	return &order, nil
}

// PendingOrders returns the orders waiting for the kitchen, oldest first
func (s *OrderService) PendingOrders() []models.Order {
	s.mu.Lock()
	orders := make([]models.Order, 0, len(s.pending))
	for _, order := range s.pending {
		orders = append(orders, order)
	}
	s.mu.Unlock()

	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Timestamp.Equal(orders[j].Timestamp) {
			return orders[i].Location < orders[j].Location
		}
		return orders[i].Timestamp.Before(orders[j].Timestamp)
	})
	return orders
}

// ReplayEvents renders the pending orders as new_order events for a
// kitchen dashboard that just connected
func (s *OrderService) ReplayEvents() []notify.Event {
	orders := s.PendingOrders()
	events := make([]notify.Event, 0, len(orders))
	for _, order := range orders {
		events = append(events, notify.Event{Topic: notify.TopicNewOrder, Data: order})
	}
	return events
}

// QuerySales returns settled orders whose timestamp falls in period.
// period is day, month or year; anything else returns the whole ledger.
func (s *OrderService) QuerySales(ctx context.Context, period, date string) ([]models.Order, error) {
	orders, err := s.ledger.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sales ledger: %w", err)
	}

	prefix, filtered, err := salesPrefix(period, date)
	if err != nil {
		return nil, err
	}
	if !filtered {
		return orders, nil
	}

	matched := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if strings.HasPrefix(order.Timestamp.UTC().Format(time.RFC3339), prefix) {
			matched = append(matched, order)
		}
	}
	return matched, nil
}

// SalesSummary totals the orders QuerySales would return
func (s *OrderService) SalesSummary(ctx context.Context, period, date string) (*models.SalesSummary, error) {
	orders, err := s.QuerySales(ctx, period, date)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	for _, order := range orders {
		revenue = revenue.Add(decimal.NewFromFloat(order.Total))
	}

	return &models.SalesSummary{
		Period:  period,
		Date:    date,
		Orders:  len(orders),
		Revenue: revenue.Round(2).InexactFloat64(),
	}, nil
}

// ClearSales empties the ledger
func (s *OrderService) ClearSales(ctx context.Context) error {
	if err := s.ledger.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear sales ledger: %w", err)
	}
	s.logger.Info("sales ledger cleared")
	return nil
}

func (s *OrderService) hasPending(location string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.pending[location]
	return ok
}

// computeTotal sums menu price times quantity. Items missing from the
// menu contribute nothing.
func (s *OrderService) computeTotal(ctx context.Context, items map[string]models.OrderLine) (float64, error) {
	prices, err := s.prices.Prices(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load menu prices: %w", err)
	}

	total := decimal.Zero
	for name, line := range items {
		price, ok := prices[name]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2).InexactFloat64(), nil
}

func resolveLocation(req models.OrderRequest) (string, models.LocationType) {
	if room := req.Room.String(); room != "" {
		return room, models.LocationRoom
	}
	return req.Table.String(), models.LocationTable
}

func salesPrefix(period, date string) (string, bool, error) {
	date = strings.TrimSpace(date)

	var n int
	switch period {
	case "day":
		n = len(date)
	case "month":
		n = 7
	case "year":
		n = 4
	default:
		return "", false, nil
	}

	if date == "" {
		return "", false, ErrDateRequired
	}
	if n > len(date) {
		n = len(date)
	}
	return date[:n], true, nil
}
