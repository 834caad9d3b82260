package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/vbonduro/vistoria/internal/auth"
	"github.com/vbonduro/vistoria/internal/domain"
	"github.com/vbonduro/vistoria/internal/report"
	"github.com/vbonduro/vistoria/internal/summary"
)

// Load materializes an inspection with its property, rooms, items and images.
// Rooms, items and images come back in creation order.
func (s *InspectionService) Load(ctx context.Context, id auth.Identity, inspectionID string) (*domain.InspectionTree, error) {
	inspection, err := s.ownedInspection(ctx, id, inspectionID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, inspection)
}

func (s *InspectionService) load(ctx context.Context, inspection *domain.Inspection) (*domain.InspectionTree, error) {
	property, err := s.properties.GetByID(ctx, inspection.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("property %s of inspection %s: %w", inspection.PropertyID, inspection.ID, domain.ErrNotFound)
	}

	rooms, err := s.rooms.ListByInspectionID(ctx, inspection.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	items, err := s.items.ListByInspectionID(ctx, inspection.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	images, err := s.images.ListByInspectionID(ctx, inspection.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	return assemble(inspection, property, rooms, items, images), nil
}

func assemble(inspection *domain.Inspection, property *domain.Property, rooms []domain.Room, items []domain.RoomItem, images []domain.ItemImage) *domain.InspectionTree {
	sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].CreatedAt.Before(rooms[j].CreatedAt) })
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	sort.SliceStable(images, func(i, j int) bool { return images[i].CreatedAt.Before(images[j].CreatedAt) })

	imagesByItem := make(map[string][]domain.ItemImage)
	for _, img := range images {
		imagesByItem[img.ItemID] = append(imagesByItem[img.ItemID], img)
	}
	itemsByRoom := make(map[string][]domain.ItemNode)
	for _, it := range items {
		itemsByRoom[it.RoomID] = append(itemsByRoom[it.RoomID], domain.ItemNode{Item: it, Images: imagesByItem[it.ID]})
	}

	tree := &domain.InspectionTree{
		Inspection: inspection,
		Property:   property,
		Rooms:      make([]domain.RoomNode, 0, len(rooms)),
	}
	for _, r := range rooms {
		tree.Rooms = append(tree.Rooms, domain.RoomNode{Room: r, Items: itemsByRoom[r.ID]})
	}
	return tree
}

// Summarize loads the inspection and aggregates its condition counts.
func (s *InspectionService) Summarize(ctx context.Context, id auth.Identity, inspectionID string) (*domain.InspectionTree, *summary.Inspection, error) {
	tree, err := s.Load(ctx, id, inspectionID)
	if err != nil {
		return nil, nil, err
	}
	return tree, summary.Aggregate(tree), nil
}

// Finalize marks the inspection completed and renders its PDF report. The
// status change is conditional on the status read here, so a concurrent
// finalize loses with domain.ErrConflict. Nothing is rendered unless the
// status change succeeds.
func (s *InspectionService) Finalize(ctx context.Context, id auth.Identity, inspectionID string) (*report.Document, error) {
	inspection, err := s.ownedInspection(ctx, id, inspectionID)
	if err != nil {
		return nil, err
	}
	if !inspection.Status.CanTransitionTo(domain.StatusCompleted) {
		return nil, fmt.Errorf("inspection %s is %s: %w", inspectionID, inspection.Status, domain.ErrConflict)
	}

	if err := s.inspections.UpdateStatus(ctx, inspectionID, inspection.Status, domain.StatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete inspection: %w", err)
	}
	s.logger.Info("inspection finalized", "inspection_id", inspectionID, "from", string(inspection.Status))

	completed := *inspection
	completed.Status = domain.StatusCompleted
	return s.pdf(ctx, id, &completed)
}

// Report renders the PDF report without changing the inspection status.
func (s *InspectionService) Report(ctx context.Context, id auth.Identity, inspectionID string) (*report.Document, error) {
	inspection, err := s.ownedInspection(ctx, id, inspectionID)
	if err != nil {
		return nil, err
	}
	return s.pdf(ctx, id, inspection)
}

// Spreadsheet renders the XLSX export without changing the inspection status.
func (s *InspectionService) Spreadsheet(ctx context.Context, id auth.Identity, inspectionID string) (*report.Document, error) {
	inspection, err := s.ownedInspection(ctx, id, inspectionID)
	if err != nil {
		return nil, err
	}
	in, err := s.reportInput(ctx, id, inspection)
	if err != nil {
		return nil, err
	}
	return s.document(in, report.ContentTypeXLSX, s.renderer.SpreadsheetFilename(in), s.renderer.WriteSpreadsheet)
}

func (s *InspectionService) pdf(ctx context.Context, id auth.Identity, inspection *domain.Inspection) (*report.Document, error) {
	in, err := s.reportInput(ctx, id, inspection)
	if err != nil {
		return nil, err
	}
	return s.document(in, report.ContentTypePDF, s.renderer.Filename(in), s.renderer.Render)
}

func (s *InspectionService) reportInput(ctx context.Context, id auth.Identity, inspection *domain.Inspection) (report.Input, error) {
	tree, err := s.load(ctx, inspection)
	if err != nil {
		return report.Input{}, err
	}
	inspector := id.Email
	if inspector == "" {
		inspector = id.UserID
	}
	return report.Input{
		Property:   tree.Property,
		Inspection: tree.Inspection,
		Inspector:  inspector,
		Summary:    summary.Aggregate(tree),
	}, nil
}

func (s *InspectionService) document(in report.Input, contentType, filename string, write func(io.Writer, report.Input) error) (*report.Document, error) {
	var buf bytes.Buffer
	if err := write(&buf, in); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", filename, err)
	}
	s.logger.Info("report rendered", "inspection_id", in.Inspection.ID, "filename", filename, "bytes", buf.Len())
	return &report.Document{
		Filename:    filename,
		ContentType: contentType,
		Content:     buf.Bytes(),
	}, nil
}
