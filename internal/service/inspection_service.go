package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vbonduro/vistoria/internal/auth"
	"github.com/vbonduro/vistoria/internal/checklist"
	"github.com/vbonduro/vistoria/internal/domain"
	"github.com/vbonduro/vistoria/internal/photostore"
	"github.com/vbonduro/vistoria/internal/report"
	"github.com/vbonduro/vistoria/internal/vision"
)

// propertyRepository is the subset of store.PropertyStore that InspectionService requires.
type propertyRepository interface {
	Create(ctx context.Context, p *domain.Property) (*domain.Property, error)
	GetByID(ctx context.Context, id string) (*domain.Property, error)
}

// inspectionRepository is the subset of store.InspectionStore that InspectionService requires.
type inspectionRepository interface {
	Create(ctx context.Context, in *domain.Inspection) (*domain.Inspection, error)
	GetByID(ctx context.Context, id string) (*domain.Inspection, error)
	LatestInProgress(ctx context.Context, inspectorID string) (*domain.Inspection, error)
	ListByInspector(ctx context.Context, inspectorID string) ([]domain.InspectionListing, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.InspectionStatus) error
	Delete(ctx context.Context, id string) error
}

type roomRepository interface {
	Create(ctx context.Context, r *domain.Room) (*domain.Room, error)
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	ListByInspectionID(ctx context.Context, inspectionID string) ([]domain.Room, error)
}

type itemRepository interface {
	Upsert(ctx context.Context, item *domain.RoomItem) (*domain.RoomItem, error)
	GetByID(ctx context.Context, id string) (*domain.RoomItem, error)
	Update(ctx context.Context, id string, condition domain.Condition, description string) error
	ListByInspectionID(ctx context.Context, inspectionID string) ([]domain.RoomItem, error)
}

type imageRepository interface {
	Attach(ctx context.Context, img *domain.ItemImage) (*domain.ItemImage, error)
	ListByInspectionID(ctx context.Context, inspectionID string) ([]domain.ItemImage, error)
	StorageKeysByInspectionID(ctx context.Context, inspectionID string) ([]string, error)
}

type categoryRepository interface {
	ListByRoomType(ctx context.Context, roomType string) ([]domain.ItemCategory, error)
}

// reportRenderer is the subset of report.Renderer that InspectionService requires.
type reportRenderer interface {
	Render(w io.Writer, in report.Input) error
	Filename(in report.Input) string
	WriteSpreadsheet(w io.Writer, in report.Input) error
	SpreadsheetFilename(in report.Input) string
}

// Repositories groups the persistence collaborators.
type Repositories struct {
	Properties  propertyRepository
	Inspections inspectionRepository
	Rooms       roomRepository
	Items       itemRepository
	Images      imageRepository
	Categories  categoryRepository
}

type InspectionService struct {
	properties  propertyRepository
	inspections inspectionRepository
	rooms       roomRepository
	items       itemRepository
	images      imageRepository
	categories  categoryRepository
	photoStg    photostore.PhotoStore
	analyzer    vision.ConditionAnalyzer
	catalog     *checklist.Catalog
	renderer    reportRenderer
	now         func() time.Time
	logger      *slog.Logger
}

// NewInspectionService wires the service. analyzer may be nil, in which case
// SuggestCondition reports domain.ErrUnavailable.
func NewInspectionService(
	repos Repositories,
	photoStg photostore.PhotoStore,
	analyzer vision.ConditionAnalyzer,
	catalog *checklist.Catalog,
	renderer reportRenderer,
	logger *slog.Logger,
) *InspectionService {
	return &InspectionService{
		properties:  repos.Properties,
		inspections: repos.Inspections,
		rooms:       repos.Rooms,
		items:       repos.Items,
		images:      repos.Images,
		categories:  repos.Categories,
		photoStg:    photoStg,
		analyzer:    analyzer,
		catalog:     catalog,
		renderer:    renderer,
		now:         time.Now,
		logger:      logger,
	}
}

type PropertyInput struct {
	Title              string   `json:"title"`
	Type               string   `json:"type"`
	Subtype            string   `json:"subtype"`
	Area               *float64 `json:"area,omitempty"`
	Value              *float64 `json:"value,omitempty"`
	RegistrationNumber string   `json:"registration_number,omitempty"`
	Street             string   `json:"street,omitempty"`
	Number             string   `json:"number,omitempty"`
	Complement         string   `json:"complement,omitempty"`
	Neighborhood       string   `json:"neighborhood,omitempty"`
	City               string   `json:"city,omitempty"`
	State              string   `json:"state,omitempty"`
	ZipCode            string   `json:"zip_code,omitempty"`
	Observations       string   `json:"observations,omitempty"`
}

func (in PropertyInput) validate() error {
	if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Type) == "" {
		return fmt.Errorf("property title or type is required: %w", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Type) == "" || strings.TrimSpace(in.Subtype) == "" {
		return fmt.Errorf("property type and subtype are required: %w", domain.ErrValidation)
	}
	if in.Area != nil && *in.Area < 0 {
		return fmt.Errorf("property area cannot be negative: %w", domain.ErrValidation)
	}
	return nil
}

// RegisterProperty records a property and opens an in-progress inspection
// for it.
func (s *InspectionService) RegisterProperty(ctx context.Context, id auth.Identity, in PropertyInput) (*domain.Property, *domain.Inspection, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.TrimSpace(in.Type) + " - " + strings.TrimSpace(in.Subtype)
	}

	property, err := s.properties.Create(ctx, &domain.Property{
		Title:              title,
		Type:               strings.TrimSpace(in.Type),
		Subtype:            strings.TrimSpace(in.Subtype),
		Area:               in.Area,
		Value:              in.Value,
		RegistrationNumber: strings.TrimSpace(in.RegistrationNumber),
		Street:             in.Street,
		Number:             in.Number,
		Complement:         in.Complement,
		Neighborhood:       in.Neighborhood,
		City:               in.City,
		State:              in.State,
		ZipCode:            in.ZipCode,
		CreatedBy:          id.UserID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create property: %w", err)
	}

	inspection, err := s.open(ctx, id, property.ID, in.Observations)
	if err != nil {
		return property, nil, err
	}
	s.logger.Info("property registered", "property_id", property.ID, "inspection_id", inspection.ID)
	return property, inspection, nil
}

// StartInspection opens a new in-progress inspection for a property the
// caller registered.
func (s *InspectionService) StartInspection(ctx context.Context, id auth.Identity, propertyID, observations string) (*domain.Inspection, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if property == nil || property.CreatedBy != id.UserID {
		return nil, fmt.Errorf("property %s: %w", propertyID, domain.ErrNotFound)
	}
	return s.open(ctx, id, property.ID, observations)
}

func (s *InspectionService) open(ctx context.Context, id auth.Identity, propertyID, observations string) (*domain.Inspection, error) {
	inspection, err := s.inspections.Create(ctx, &domain.Inspection{
		PropertyID:     propertyID,
		InspectorID:    id.UserID,
		Status:         domain.StatusInProgress,
		InspectionDate: s.now(),
		Observations:   strings.TrimSpace(observations),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create inspection: %w", err)
	}
	return inspection, nil
}

// ListInspections returns the caller's inspections, newest first.
func (s *InspectionService) ListInspections(ctx context.Context, id auth.Identity) ([]domain.InspectionListing, error) {
	list, err := s.inspections.ListByInspector(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	return list, nil
}

// CurrentInspection returns the caller's most recent in-progress inspection.
func (s *InspectionService) CurrentInspection(ctx context.Context, id auth.Identity) (*domain.Inspection, error) {
	inspection, err := s.inspections.LatestInProgress(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current inspection: %w", err)
	}
	if inspection == nil {
		return nil, fmt.Errorf("no inspection in progress: %w", domain.ErrNotFound)
	}
	return inspection, nil
}

// DeleteInspection removes the inspection with its rooms, items and images,
// then deletes the uploaded photo blobs.
func (s *InspectionService) DeleteInspection(ctx context.Context, id auth.Identity, inspectionID string) error {
	if _, err := s.ownedInspection(ctx, id, inspectionID); err != nil {
		return err
	}

	keys, err := s.images.StorageKeysByInspectionID(ctx, inspectionID)
	if err != nil {
		return fmt.Errorf("failed to list photos: %w", err)
	}

	if err := s.inspections.Delete(ctx, inspectionID); err != nil {
		return fmt.Errorf("failed to delete inspection: %w", err)
	}

	for _, key := range keys {
		if err := s.photoStg.Delete(ctx, key); err != nil {
			s.logger.Error("failed to delete photo file", "inspection_id", inspectionID, "storage_key", key, "error", err)
		}
	}
	s.logger.Info("inspection deleted", "inspection_id", inspectionID, "photos", len(keys))
	return nil
}

type RoomInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// AddRoom adds a room to an editable inspection, starting it if it is still
// pending. Rooms named after a known room type inherit its description when
// none is given.
func (s *InspectionService) AddRoom(ctx context.Context, id auth.Identity, inspectionID string, in RoomInput) (*domain.Room, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("room name is required: %w", domain.ErrValidation)
	}

	inspection, err := s.ownedInspection(ctx, id, inspectionID)
	if err != nil {
		return nil, err
	}
	if err := requireEditable(inspection); err != nil {
		return nil, err
	}
	if inspection.Status == domain.StatusPending {
		if err := s.inspections.UpdateStatus(ctx, inspectionID, domain.StatusPending, domain.StatusInProgress); err != nil {
			return nil, fmt.Errorf("failed to start inspection: %w", err)
		}
	}

	description := strings.TrimSpace(in.Description)
	if rt, ok := s.catalog.Lookup(name); ok && description == "" {
		description = rt.Description
	}

	room, err := s.rooms.Create(ctx, &domain.Room{
		InspectionID: inspectionID,
		Name:         name,
		Description:  description,
		ImageURL:     strings.TrimSpace(in.ImageURL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	s.logger.Info("room added", "inspection_id", inspectionID, "room_id", room.ID, "room_type", checklist.Slug(name))
	return room, nil
}

// Checklist is the item template for a room type.
type Checklist struct {
	checklist.RoomType
	// BaseCategories are the categories offered for free-form items.
	BaseCategories []string `json:"base_categories"`
}

func (s *InspectionService) Checklist(ctx context.Context, roomType string) (*Checklist, error) {
	rt, ok := s.catalog.Lookup(roomType)
	if !ok {
		return nil, fmt.Errorf("no checklist for room type %q: %w", roomType, domain.ErrValidation)
	}
	rows, err := s.categories.ListByRoomType(ctx, rt.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}

	out := *rt
	out.Categories = checklist.Group(rows)
	return &Checklist{RoomType: out, BaseCategories: s.catalog.Categories(rt.Slug)}, nil
}

// templates returns the checklist rows of the room type a room is named after,
// or nothing for a custom room.
func (s *InspectionService) templates(ctx context.Context, roomName string) ([]domain.ItemCategory, error) {
	rt, ok := s.catalog.Lookup(roomName)
	if !ok {
		return nil, nil
	}
	rows, err := s.categories.ListByRoomType(ctx, rt.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}
	return rows, nil
}

type ItemInput struct {
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty"`
}

// RecordItems upserts a batch of items into a room. The whole batch is
// validated before anything is written, and replaying it is harmless. Item
// names must be unique within a batch.
func (s *InspectionService) RecordItems(ctx context.Context, id auth.Identity, roomID string, in []ItemInput) ([]domain.RoomItem, error) {
	room, err := s.ownedRoom(ctx, id, roomID)
	if err != nil {
		return nil, err
	}

	templates, err := s.templates(ctx, room.Name)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.RoomItem, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, it := range in {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fmt.Errorf("item name is required: %w", domain.ErrValidation)
		}
		key := domain.Fold(name)
		if seen[key] {
			return nil, fmt.Errorf("item %q appears more than once: %w", name, domain.ErrValidation)
		}
		seen[key] = true
		cond, err := domain.ParseCondition(it.Condition)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", name, err)
		}
		row := domain.RoomItem{
			RoomID:      room.ID,
			Name:        name,
			Category:    strings.TrimSpace(it.Category),
			Subcategory: strings.TrimSpace(it.Subcategory),
			Condition:   cond,
			Description: strings.TrimSpace(it.Description),
		}
		if row.Category == "" {
			row.Category = checklist.DefaultCategory
			if t, ok := checklist.Match(templates, name); ok {
				row.Category = t.Category
				if row.Subcategory == "" {
					row.Subcategory = t.Subcategory
				}
			}
		}
		rows = append(rows, row)
	}

	items := make([]domain.RoomItem, 0, len(rows))
	for i, row := range rows {
		item, err := s.items.Upsert(ctx, &row)
		if err != nil {
			return nil, fmt.Errorf("failed to record item %q: %w", row.Name, err)
		}
		for _, url := range in[i].ImageURLs {
			if url = strings.TrimSpace(url); url == "" {
				continue
			}
			if _, err := s.images.Attach(ctx, &domain.ItemImage{ItemID: item.ID, ImageURL: url}); err != nil {
				return nil, fmt.Errorf("failed to attach image to item %q: %w", row.Name, err)
			}
		}
		items = append(items, *item)
	}
	s.logger.Info("items recorded", "room_id", room.ID, "items", len(items))
	return items, nil
}

func (s *InspectionService) UpdateItem(ctx context.Context, id auth.Identity, itemID, condition, description string) (*domain.RoomItem, error) {
	cond, err := domain.ParseCondition(condition)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedItem(ctx, id, itemID, true); err != nil {
		return nil, err
	}

	if err := s.items.Update(ctx, itemID, cond, strings.TrimSpace(description)); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return s.items.GetByID(ctx, itemID)
}

// UploadItemImage stores a photo of an item and links it. The blob is
// removed again when the link cannot be recorded.
func (s *InspectionService) UploadItemImage(ctx context.Context, id auth.Identity, itemID string, imageData []byte, mimeType string) (*domain.ItemImage, error) {
	item, err := s.ownedItem(ctx, id, itemID, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("upload item image started", "item_id", item.ID, "mime_type", mimeType, "bytes", len(imageData))
	storageKey, err := s.photoStg.Save(ctx, "item_"+item.ID, mimeType, bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	s.logger.Debug("photo saved", "item_id", item.ID, "storage_key", storageKey)

	img, err := s.images.Attach(ctx, &domain.ItemImage{
		ItemID:     item.ID,
		ImageURL:   s.photoStg.URL(storageKey),
		StorageKey: storageKey,
	})
	if err != nil {
		if stgErr := s.photoStg.Delete(ctx, storageKey); stgErr != nil {
			s.logger.Error("failed to roll back photo file", "item_id", item.ID, "storage_key", storageKey, "error", stgErr)
		}
		return nil, fmt.Errorf("failed to create image record: %w", err)
	}
	return img, nil
}

// SuggestCondition asks the image model to rate the item in the photo.
// Nothing is persisted.
func (s *InspectionService) SuggestCondition(ctx context.Context, id auth.Identity, itemID string, imageData []byte, mimeType string) (*vision.Assessment, error) {
	if s.analyzer == nil {
		return nil, fmt.Errorf("condition suggestions are not configured: %w", domain.ErrUnavailable)
	}
	item, err := s.ownedItem(ctx, id, itemID, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("vision analysis started", "item_id", item.ID)
	result, err := s.analyzer.Analyze(ctx, bytes.NewReader(imageData), mimeType, item.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}
	s.logger.Info("vision analysis complete", "item_id", item.ID, "condition", string(result.Condition))
	return result, nil
}

func (s *InspectionService) ownedInspection(ctx context.Context, id auth.Identity, inspectionID string) (*domain.Inspection, error) {
	inspection, err := s.inspections.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection: %w", err)
	}
	// Someone else's inspection looks the same as a missing one.
	if inspection == nil || inspection.InspectorID != id.UserID {
		return nil, fmt.Errorf("inspection %s: %w", inspectionID, domain.ErrNotFound)
	}
	return inspection, nil
}

// ownedRoom returns a room of an editable inspection owned by the caller.
func (s *InspectionService) ownedRoom(ctx context.Context, id auth.Identity, roomID string) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", roomID, domain.ErrNotFound)
	}
	inspection, err := s.ownedInspection(ctx, id, room.InspectionID)
	if err != nil {
		return nil, err
	}
	if err := requireEditable(inspection); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *InspectionService) ownedItem(ctx context.Context, id auth.Identity, itemID string, edit bool) (*domain.RoomItem, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	room, err := s.rooms.GetByID(ctx, item.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	inspection, err := s.ownedInspection(ctx, id, room.InspectionID)
	if err != nil {
		return nil, err
	}
	if edit {
		if err := requireEditable(inspection); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func requireEditable(in *domain.Inspection) error {
	if !in.Status.IsEditable() {
		return fmt.Errorf("inspection %s is %s: %w", in.ID, in.Status, domain.ErrValidation)
	}
	return nil
}
