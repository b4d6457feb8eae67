package models

// MenuItem represents a dish or drink on the guest menu
// Field names match the stored menu document
type MenuItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	NameAm      string  `json:"name_am"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	IsAvailable bool    `json:"isAvailable"`
}

// NewMenuItem carries the form fields of an add-item request
type NewMenuItem struct {
	Name     string
	NameAm   string
	Category string
	Price    string
	Image    string
}

// MenuItemPatch is a partial update; nil fields keep their stored value
type MenuItemPatch struct {
	ID       FlexInt    `json:"id"`
	Name     *string    `json:"name,omitempty"`
	NameAm   *string    `json:"name_am,omitempty"`
	Category *string    `json:"category,omitempty"`
	Price    *FlexFloat `json:"price,omitempty"`
}

// AvailabilityRequest toggles whether an item can be ordered
type AvailabilityRequest struct {
	ID          FlexInt `json:"id"`
	IsAvailable *bool   `json:"isAvailable"`
}

// DeleteItemRequest removes an item by id
type DeleteItemRequest struct {
	ID FlexInt `json:"id"`
}
