package models

import "time"

// ServiceRequest is a guest request for housekeeping or maintenance
type ServiceRequest struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	Request   string    `json:"request"`
	RequestAm string    `json:"request_am"`
	Timestamp time.Time `json:"timestamp"`
}

// ServiceRequestInput is the body of POST /service-request
type ServiceRequestInput struct {
	Room      FlexString `json:"room"`
	Request   string     `json:"request"`
	RequestAm string     `json:"request_am"`
}

// AcknowledgeServiceRequest removes a pending request by id
type AcknowledgeServiceRequest struct {
	ID FlexString `json:"id"`
}

// WaiterCall is broadcast to dashboards and never stored
type WaiterCall struct {
	Table     string    `json:"table"`
	Timestamp time.Time `json:"timestamp"`
}

// WaiterCallRequest is the body of POST /call-waiter
type WaiterCallRequest struct {
	Table FlexString `json:"table"`
}
