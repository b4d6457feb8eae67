package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/roomservice/internal/models"
	"github.com/Lixing-Zhang/roomservice/internal/notify"
)

var (
	ErrRoomRequired    = errors.New("room is required")
	ErrRequestRequired = errors.New("request text is required")
	ErrTableRequired   = errors.New("table is required")
)

// RequestService holds guest service requests until maintenance staff
// acknowledge them, and relays waiter calls
type RequestService struct {
	publisher notify.Publisher
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	pending map[string]models.ServiceRequest
}

// NewRequestService creates a new request service
func NewRequestService(publisher notify.Publisher, logger *slog.Logger) *RequestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestService{
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		pending:   make(map[string]models.ServiceRequest),
	}
}

// SubmitRequest stores a new request and notifies maintenance dashboards
func (s *RequestService) SubmitRequest(ctx context.Context, in models.ServiceRequestInput) (*models.ServiceRequest, error) {
	room := in.Room.String()
	if room == "" {
		return nil, ErrRoomRequired
	}
	text := strings.TrimSpace(in.Request)
	if text == "" {
		return nil, ErrRequestRequired
	}

	req := models.ServiceRequest{
		ID:        uuid.New().String(),
		Room:      room,
		Request:   text,
		RequestAm: strings.TrimSpace(in.RequestAm),
		Timestamp: s.now().UTC(),
	}

	s.mu.Lock()
	s.pending[req.ID] = req
	s.mu.Unlock()

	s.publisher.Publish(notify.TopicNewServiceRequest, req)

	s.logger.Info("service request submitted", "request_id", req.ID, "room", room)
	return &req, nil
}

// AcknowledgeRequest removes the request with id. Unknown ids are ignored
// and reported through the returned flag only.
func (s *RequestService) AcknowledgeRequest(ctx context.Context, id string) bool {
	id = strings.TrimSpace(id)

	s.mu.Lock()
	_, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()

	if ok {
		s.logger.Info("service request acknowledged", "request_id", id)
	} else {
		s.logger.Debug("acknowledged unknown service request", "request_id", id)
	}
	return ok
}

// CallWaiter broadcasts a waiter call for table. Calls are not stored.
func (s *RequestService) CallWaiter(ctx context.Context, table string) (*models.WaiterCall, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, ErrTableRequired
	}

	call := models.WaiterCall{
		Table:     table,
		Timestamp: s.now().UTC(),
	}
	s.publisher.Publish(notify.TopicNewWaiterCall, call)

	s.logger.Info("waiter called", "table", table)
	return &call, nil
}

// PendingRequests returns the requests not yet acknowledged, oldest first
func (s *RequestService) PendingRequests() []models.ServiceRequest {
	s.mu.Lock()
	requests := make([]models.ServiceRequest, 0, len(s.pending))
	for _, req := range s.pending {
		requests = append(requests, req)
	}
	s.mu.Unlock()

	sort.Slice(requests, func(i, j int) bool {
		if requests[i].Timestamp.Equal(requests[j].Timestamp) {
			return requests[i].ID < requests[j].ID
		}
		return requests[i].Timestamp.Before(requests[j].Timestamp)
	})
	return requests
}

// ReplayEvents renders the pending requests as new_service_request events
func (s *RequestService) ReplayEvents() []notify.Event {
	requests := s.PendingRequests()
	events := make([]notify.Event, 0, len(requests))
	for _, req := range requests {
		events = append(events, notify.Event{Topic: notify.TopicNewServiceRequest, Data: req})
	}
	return events
}
