package domain

import "time"

type Property struct {
	ID                 string
	Title              string
	Type               string
	Subtype            string
	Area               *float64
	Value              *float64
	RegistrationNumber string
	Street             string
	Number             string
	Complement         string
	Neighborhood       string
	City               string
	State              string
	ZipCode            string
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Inspection struct {
	ID             string
	PropertyID     string
	InspectorID    string
	Status         InspectionStatus
	InspectionDate time.Time
	Observations   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Room struct {
	ID           string
	InspectionID string
	Name         string
	Description  string
	ImageURL     string
	CreatedAt    time.Time
}

type RoomItem struct {
	ID          string
	RoomID      string
	Name        string
	Category    string
	Subcategory string
	Condition   Condition
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ItemImage struct {
	ID         string
	ItemID     string
	ImageURL   string
	StorageKey string
	CreatedAt  time.Time
}

// ItemCategory is checklist template data: one item name suggested for a
// room type, grouped under a category.
type ItemCategory struct {
	ID          string
	RoomType    string
	Category    string
	Subcategory string
	Name        string
	CreatedAt   time.Time
}

// InspectionTree is an inspection fully materialized with its property and
// every room, item and image beneath it.
type InspectionTree struct {
	Inspection *Inspection
	Property   *Property
	Rooms      []RoomNode
}

type RoomNode struct {
	Room  Room
	Items []ItemNode
}

type ItemNode struct {
	Item   RoomItem
	Images []ItemImage
}

// InspectionListing pairs an inspection with its property for dashboard lists.
type InspectionListing struct {
	Inspection
	Property *Property
}
