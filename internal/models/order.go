package models

import "time"

// LocationType tells whether an order came from a room or a table
type LocationType string

const (
	LocationRoom  LocationType = "Room"
	LocationTable LocationType = "Table"
)

// OrderLine is one cart entry, keyed by item name in Order.Items
type OrderLine struct {
	Quantity FlexCount `json:"quantity"`
	Price    float64   `json:"price,omitempty"`
	NameAm   string    `json:"name_am,omitempty"`
}

// OrderRequest represents an incoming order from a guest
// Either Room or Table identifies the location; Room wins when both are set
type OrderRequest struct {
	Room  FlexString           `json:"room"`
	Table FlexString           `json:"table"`
	Items map[string]OrderLine `json:"items"`
}

// Order is a placed order, pending until staff acknowledge it.
// Ledgers written by older deployments carry numeric ids
type Order struct {
	ID           FlexString           `json:"id"`
	Location     string               `json:"location"`
	LocationType LocationType         `json:"locationType"`
	Items        map[string]OrderLine `json:"items"`
	Total        float64              `json:"total"`
	Timestamp    time.Time            `json:"timestamp"`
}

// AcknowledgeOrderRequest settles the pending order of a location
type AcknowledgeOrderRequest struct {
	Location FlexString `json:"location"`
}

// SalesSummary aggregates settled orders for a period
type SalesSummary struct {
	Period  string  `json:"period"`
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}
