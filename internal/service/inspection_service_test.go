package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/vistoria/internal/auth"
	"github.com/vbonduro/vistoria/internal/checklist"
	"github.com/vbonduro/vistoria/internal/db"
	"github.com/vbonduro/vistoria/internal/domain"
	"github.com/vbonduro/vistoria/internal/report"
	"github.com/vbonduro/vistoria/internal/store"
	"github.com/vbonduro/vistoria/internal/vision"
)

var (
	ana   = auth.Identity{UserID: "user-ana", Email: "ana@example.com"}
	bruno = auth.Identity{UserID: "user-bruno"}
)

// stubVision is a minimal ConditionAnalyzer for tests.
type stubVision struct {
	result   *vision.Assessment
	err      error
	itemName string
}

func (s *stubVision) Analyze(_ context.Context, _ io.Reader, _, itemName string) (*vision.Assessment, error) {
	s.itemName = itemName
	return s.result, s.err
}

// stubPhotoStore is a minimal in-memory photostore.PhotoStore for tests.
type stubPhotoStore struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newStubPhotoStore() *stubPhotoStore {
	return &stubPhotoStore{saved: make(map[string][]byte)}
}

func (s *stubPhotoStore) Save(_ context.Context, prefix, _ string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, _ := io.ReadAll(r)
	key := prefix + "_" + string(rune('a'+len(s.saved))) + ".jpg"
	s.saved[key] = data
	return key, nil
}

func (s *stubPhotoStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	data, ok := s.saved[key]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), "image/jpeg", nil
}

func (s *stubPhotoStore) Delete(_ context.Context, key string) error {
	delete(s.saved, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubPhotoStore) URL(key string) string {
	return "/photos/" + key
}

// countingRenderer records how often each output was produced.
type countingRenderer struct {
	*report.Renderer
	pdfs, sheets int
}

func (c *countingRenderer) Render(w io.Writer, in report.Input) error {
	c.pdfs++
	return c.Renderer.Render(w, in)
}

func (c *countingRenderer) WriteSpreadsheet(w io.Writer, in report.Input) error {
	c.sheets++
	return c.Renderer.WriteSpreadsheet(w, in)
}

// failingStatus makes every status change fail as if the store were down.
type failingStatus struct {
	*store.InspectionStore
}

func (f failingStatus) UpdateStatus(context.Context, string, domain.InspectionStatus, domain.InspectionStatus) error {
	return fmt.Errorf("connection reset: %w", domain.ErrTransient)
}

// failingImages rejects every image link.
type failingImages struct {
	*store.ImageStore
}

func (f failingImages) Attach(context.Context, *domain.ItemImage) (*domain.ItemImage, error) {
	return nil, domain.ErrTransient
}

type fixture struct {
	svc      *InspectionService
	photos   *stubPhotoStore
	vision   *stubVision
	renderer *countingRenderer
	repos    Repositories
}

func newFixture(t *testing.T, tweak ...func(*Repositories)) *fixture {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	catalog, err := checklist.Load()
	require.NoError(t, err)
	categories := store.NewCategoryStore(d)
	_, err = categories.Seed(context.Background(), catalog.ItemCategories())
	require.NoError(t, err)

	repos := Repositories{
		Properties:  store.NewPropertyStore(d),
		Inspections: store.NewInspectionStore(d),
		Rooms:       store.NewRoomStore(d),
		Items:       store.NewItemStore(d),
		Images:      store.NewImageStore(d),
		Categories:  categories,
	}
	for _, fn := range tweak {
		fn(&repos)
	}

	f := &fixture{
		photos:   newStubPhotoStore(),
		vision:   &stubVision{result: &vision.Assessment{Condition: domain.ConditionPoor, Description: "Pia com vazamento"}},
		renderer: &countingRenderer{Renderer: report.NewRenderer()},
		repos:    repos,
	}
	f.svc = NewInspectionService(repos, f.photos, f.vision, catalog, f.renderer, slog.Default())
	f.svc.now = func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) register(t *testing.T) *domain.Inspection {
	t.Helper()
	_, in, err := f.svc.RegisterProperty(context.Background(), ana, PropertyInput{
		Title:   "Apartamento Centro",
		Type:    "Residencial",
		Subtype: "Apartamento",
		City:    "Curitiba",
	})
	require.NoError(t, err)
	return in
}

func (f *fixture) room(t *testing.T, inspectionID, name string, conditions ...string) (*domain.Room, []domain.RoomItem) {
	t.Helper()
	ctx := context.Background()
	room, err := f.svc.AddRoom(ctx, ana, inspectionID, RoomInput{Name: name})
	require.NoError(t, err)

	var in []ItemInput
	for i, c := range conditions {
		in = append(in, ItemInput{Name: name + " item " + string(rune('A'+i)), Condition: c})
	}
	items, err := f.svc.RecordItems(ctx, ana, room.ID, in)
	require.NoError(t, err)
	return room, items
}

func TestRegisterProperty(t *testing.T) {
	f := newFixture(t)

	property, inspection, err := f.svc.RegisterProperty(context.Background(), ana, PropertyInput{
		Type:         "Comercial",
		Subtype:      "Loja",
		Observations: " chave com o porteiro ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Comercial - Loja", property.Title)
	assert.Equal(t, ana.UserID, property.CreatedBy)
	assert.Equal(t, property.ID, inspection.PropertyID)
	assert.Equal(t, domain.StatusInProgress, inspection.Status)
	assert.Equal(t, "chave com o porteiro", inspection.Observations)
	assert.True(t, inspection.InspectionDate.Equal(f.svc.now()))
}

func TestRegisterPropertyValidation(t *testing.T) {
	f := newFixture(t)
	negative := -1.0

	tests := []struct {
		name string
		in   PropertyInput
	}{
		{name: "empty", in: PropertyInput{}},
		{name: "no subtype", in: PropertyInput{Title: "Casa", Type: "Residencial"}},
		{name: "no type", in: PropertyInput{Title: "Casa", Subtype: "Casa"}},
		{name: "negative area", in: PropertyInput{Type: "Residencial", Subtype: "Casa", Area: &negative}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.RegisterProperty(context.Background(), ana, tt.in)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestStartInspectionRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.register(t)

	second, err := f.svc.StartInspection(ctx, ana, first.PropertyID, "")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	_, err = f.svc.StartInspection(ctx, bruno, first.PropertyID, "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.svc.StartInspection(ctx, ana, "missing", "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCurrentAndListInspections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CurrentInspection(ctx, ana)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	first := f.register(t)
	second := f.register(t)

	current, err := f.svc.CurrentInspection(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	list, err := f.svc.ListInspections(ctx, ana)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, "Apartamento Centro", list[0].Property.Title)

	others, err := f.svc.ListInspections(ctx, bruno)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestOtherInspectorsSeeNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.register(t)

	_, err := f.svc.Load(ctx, bruno, in.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = f.svc.AddRoom(ctx, bruno, in.ID, RoomInput{Name: "Sala"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = f.svc.Finalize(ctx, bruno, in.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(f.svc.DeleteInspection(ctx, bruno, in.ID), domain.ErrNotFound))
}

func TestAddRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.register(t)

	room, err := f.svc.AddRoom(ctx, ana, in.ID, RoomInput{Name: " Cozinha "})
	require.NoError(t, err)
	assert.Equal(t, "Cozinha", room.Name)
	assert.Equal(t, "Moderna e equipada", room.Description)

	custom, err := f.svc.AddRoom(ctx, ana, in.ID, RoomInput{Name: "Escritório", Description: "Home office"})
	require.NoError(t, err)
	assert.Equal(t, "Home office", custom.Description)

	_, err = f.svc.AddRoom(ctx, ana, in.ID, RoomInput{Name: "  "})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestChecklist(t *testing.T) {
	f := newFixture(t)

	cl, err := f.svc.Checklist(context.Background(), "Banheiro")
	require.NoError(t, err)
	assert.Equal(t, "banheiro", cl.Slug)
	assert.Equal(t, []string{"Elétrica", "Hidráulica", "Acabamento", "Mobiliário"}, cl.BaseCategories)
	assert.NotEmpty(t, cl.Categories)

	_, err = f.svc.Checklist(context.Background(), "Garagem")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

type fixedCategories []domain.ItemCategory

func (c fixedCategories) ListByRoomType(_ context.Context, roomType string) ([]domain.ItemCategory, error) {
	var out []domain.ItemCategory
	for _, row := range c {
		if row.RoomType == roomType {
			out = append(out, row)
		}
	}
	return out, nil
}

func TestChecklistReadsStoredTemplates(t *testing.T) {
	rows := fixedCategories{
		{RoomType: "banheiro", Category: "Hidráulica", Subcategory: "Louças", Name: "Bidê"},
		{RoomType: "banheiro", Category: "Elétrica", Name: "Exaustor"},
		{RoomType: "cozinha", Category: "Hidráulica", Name: "Pia"},
	}
	f := newFixture(t, func(r *Repositories) { r.Categories = rows })
	ctx := context.Background()

	cl, err := f.svc.Checklist(ctx, "banheiro")
	require.NoError(t, err)
	assert.Equal(t, []checklist.Category{
		{Name: "Hidráulica", Subcategory: "Louças", Items: []string{"Bidê"}},
		{Name: "Elétrica", Items: []string{"Exaustor"}},
	}, cl.Categories)

	in := f.register(t)
	room, err := f.svc.AddRoom(ctx, ana, in.ID, RoomInput{Name: "Banheiro"})
	require.NoError(t, err)
	items, err := f.svc.RecordItems(ctx, ana, room.ID, []ItemInput{
		{Name: "bide", Condition: "bom"},
		{Name: "Chuveiro", Condition: "bom"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hidráulica", items[0].Category)
	assert.Equal(t, "Louças", items[0].Subcategory)
	assert.Equal(t, checklist.DefaultCategory, items[1].Category)
}

func TestRecordItemsRejectsRepeatedNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.register(t)
	room, err := f.svc.AddRoom(ctx, ana, in.ID, RoomInput{Name: "Sala"})
	require.NoError(t, err)

	_, err = f.svc.RecordItems(ctx, ana, room.ID, []ItemInput{
		{Name: "Tomada", Condition: "bom"},
		{Name: "Piso", Condition: "bom"},
		{Name: " tomada ", Condition: "péssimo"},
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	tree, err := f.svc.Load(ctx, ana, in.ID)
	require.NoError(t, err)
	assert.Empty(t, tree.Rooms[0].Items)
}

func TestRecordItemsFillsCategoriesAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.register(t)
	room, err := f.svc.AddRoom(ctx, ana, in.ID, RoomInput{Name: "Banheiro"})
	require.NoError(t, err)

	batch := []ItemInput{
		{Name: "Chuveiro", Condition: "Bom", ImageURLs: []string{"https://cdn.example/chuveiro.jpg"}},
		{Name: "Azulejo solto", Condition: "péssimo", Description: "três peças"},
		{Name: "Tomada", Category: "Elétrica", Condition: ""},
	}

	items, err := f.svc.RecordItems(ctx, ana, room.ID, batch)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Hidráulica", items[0].Category)
	assert.Equal(t, domain.ConditionGood, items[0].Condition)
	assert.Equal(t, checklist.DefaultCategory, items[1].Category)
	assert.Equal(t, domain.ConditionVeryPoor, items[1].Condition)
	assert.Equal(t, "Elétrica", items[2].Category)
	assert.Equal(t, domain.ConditionUnset, items[2].Condition)

	again, err := f.svc.RecordItems(ctx, ana, room.ID, batch)
	require.NoError(t, err)
	for i := range items {
		assert.Equal(t, items[i].ID, again[i].ID)
	}

	tree, err := f.svc.Load(ctx, ana, in.ID)
	require.NoError(t, err)
	require.Len(t, tree.Rooms, 1)
	require.Len(t, tree.Rooms[0].Items, 3)
	assert.Len(t, tree.Rooms[0].Items[0].Images, 1)
}

func TestRecordItemsRejectsWholeBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.register(t)
	room, err := f.svc.AddRoom(ctx, ana, in.ID, RoomInput{Name: "Sala"})
	require.NoError(t, err)

	_, err = f.svc.RecordItems(ctx, ana, room.ID, []ItemInput{
		{Name: "Piso", Condition: "bom"},
		{Name: "Teto", Condition: "otimo"},
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	tree, err := f.svc.Load(ctx, ana, in.ID)
	require.NoError(t, err)
	assert.Empty(t, tree.Rooms[0].Items)

	_, err = f.svc.RecordItems(ctx, ana, "missing-room", nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.register(t)
	_, items := f.room(t, in.ID, "Quarto", "bom")

	updated, err := f.svc.UpdateItem(ctx, ana, items[0].ID, "ruim", "mancha no teto")
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionPoor, updated.Condition)
	assert.Equal(t, "mancha no teto", updated.Description)

	_, err = f.svc.UpdateItem(ctx, ana, items[0].ID, "quebrado", "")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = f.svc.UpdateItem(ctx, bruno, items[0].ID, "bom", "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUploadItemImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.register(t)
	_, items := f.room(t, in.ID, "Cozinha", "bom")

	img, err := f.svc.UploadItemImage(ctx, ana, items[0].ID, []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, items[0].ID, img.ItemID)
	assert.Equal(t, "/photos/"+img.StorageKey, img.ImageURL)
	assert.Contains(t, f.photos.saved, img.StorageKey)
}

func TestUploadItemImageRollsBackBlob(t *testing.T) {
	f := newFixture(t, func(r *Repositories) {
		r.Images = failingImages{ImageStore: r.Images.(*store.ImageStore)}
	})
	ctx := context.Background()
	in := f.register(t)
	_, items := f.room(t, in.ID, "Cozinha", "bom")

	_, err := f.svc.UploadItemImage(ctx, ana, items[0].ID, []byte("jpeg"), "image/jpeg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransient))
	assert.Empty(t, f.photos.saved)
	assert.Len(t, f.photos.deleted, 1)
}

func TestUploadItemImageSaveError(t *testing.T) {
	f := newFixture(t)
	f.photos.saveErr = errors.New("disk full")
	in := f.register(t)
	_, items := f.room(t, in.ID, "Cozinha", "bom")

	_, err := f.svc.UploadItemImage(context.Background(), ana, items[0].ID, []byte("jpeg"), "image/jpeg")
	assert.Error(t, err)
	assert.Empty(t, f.photos.deleted)
}

func TestSuggestCondition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.register(t)
	_, items := f.room(t, in.ID, "Cozinha", "")

	got, err := f.svc.SuggestCondition(ctx, ana, items[0].ID, []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionPoor, got.Condition)
	assert.Equal(t, items[0].Name, f.vision.itemName)

	// Suggestions are advisory; the item keeps its condition.
	tree, err := f.svc.Load(ctx, ana, in.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionUnset, tree.Rooms[0].Items[0].Item.Condition)
}

func TestSuggestConditionUnavailable(t *testing.T) {
	f := newFixture(t)
	f.svc.analyzer = nil

	_, err := f.svc.SuggestCondition(context.Background(), ana, "any", nil, "image/jpeg")
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}

func TestLoadOrdersByCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.register(t)

	names := []string{"Sala", "Cozinha", "Banheiro", "Quarto"}
	for _, n := range names {
		f.room(t, in.ID, n, "bom", "ruim")
	}

	tree, err := f.svc.Load(ctx, ana, in.ID)
	require.NoError(t, err)
	require.Len(t, tree.Rooms, len(names))
	for i, n := range names {
		assert.Equal(t, n, tree.Rooms[i].Room.Name)
		require.Len(t, tree.Rooms[i].Items, 2)
		assert.Equal(t, n+" item A", tree.Rooms[i].Items[0].Item.Name)
	}
	assert.Equal(t, "Apartamento Centro", tree.Property.Title)
}

// An inspection without rooms still produces a report with empty totals.
func TestSummarizeEmptyInspection(t *testing.T) {
	f := newFixture(t)
	in := f.register(t)

	_, sum, err := f.svc.Summarize(context.Background(), ana, in.ID)
	require.NoError(t, err)
	assert.Empty(t, sum.Rooms)
	assert.Zero(t, sum.TotalItems)
	assert.Zero(t, sum.Totals.Rated())

	doc, err := f.svc.Report(context.Background(), ana, in.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))
}

// Counts read back through the store, including an unrated item.
func TestSummarizeCounts(t *testing.T) {
	f := newFixture(t)
	in := f.register(t)
	f.room(t, in.ID, "Quarto", "bom", "ruim")
	f.room(t, in.ID, "Cozinha", "pessimo")
	f.room(t, in.ID, "Sala", "bom", "bom", "")

	_, sum, err := f.svc.Summarize(context.Background(), ana, in.ID)
	require.NoError(t, err)
	require.Len(t, sum.Rooms, 3)

	assert.Equal(t, 2, sum.Rooms[0].TotalItems)
	assert.Equal(t, 1, sum.Rooms[0].Good)
	assert.Equal(t, 1, sum.Rooms[0].Poor)
	assert.Equal(t, 1, sum.Rooms[1].VeryPoor)

	assert.Equal(t, 3, sum.Rooms[2].TotalItems)
	assert.Equal(t, 2, sum.Rooms[2].Rated())
	assert.Equal(t, 1, sum.Rooms[2].Unrated)

	assert.Equal(t, 6, sum.TotalItems)
	assert.Equal(t, 3, sum.Totals.Good)
	assert.Equal(t, 1, sum.Totals.Poor)
	assert.Equal(t, 1, sum.Totals.VeryPoor)
}

func TestFinalize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.register(t)
	f.room(t, in.ID, "Quarto", "bom", "ruim")

	doc, err := f.svc.Finalize(ctx, ana, in.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ContentTypePDF, doc.ContentType)
	assert.True(t, strings.HasPrefix(doc.Filename, "vistoria_"))
	assert.True(t, strings.HasSuffix(doc.Filename, ".pdf"))
	assert.Equal(t, 1, f.renderer.pdfs)

	stored, err := f.repos.Inspections.GetByID(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)

	// Completed is terminal.
	_, err = f.svc.Finalize(ctx, ana, in.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, 1, f.renderer.pdfs)

	// And no longer editable.
	_, err = f.svc.AddRoom(ctx, ana, in.ID, RoomInput{Name: "Sala"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	// Reports are still available.
	_, err = f.svc.Report(ctx, ana, in.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.renderer.pdfs)
}

// A failed status write leaves the inspection in progress and
// renders nothing.
func TestFinalizeRequiresInProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	started := f.register(t)
	pending, err := f.repos.Inspections.Create(ctx, &domain.Inspection{PropertyID: started.PropertyID, InspectorID: ana.UserID})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, pending.Status)

	_, err = f.svc.Finalize(ctx, ana, pending.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Zero(t, f.renderer.pdfs)

	// Adding a room starts the inspection, after which it can be finalized.
	_, err = f.svc.AddRoom(ctx, ana, pending.ID, RoomInput{Name: "Sala"})
	require.NoError(t, err)
	stored, err := f.repos.Inspections.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, stored.Status)

	_, err = f.svc.Finalize(ctx, ana, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.renderer.pdfs)
}

func TestFinalizeStatusWriteFails(t *testing.T) {
	f := newFixture(t, func(r *Repositories) {
		r.Inspections = failingStatus{InspectionStore: r.Inspections.(*store.InspectionStore)}
	})
	ctx := context.Background()
	in := f.register(t)
	f.room(t, in.ID, "Quarto", "bom")

	doc, err := f.svc.Finalize(ctx, ana, in.ID)
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.Zero(t, f.renderer.pdfs)

	stored, err := f.repos.Inspections.GetByID(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, stored.Status)
}

func TestSpreadsheet(t *testing.T) {
	f := newFixture(t)
	in := f.register(t)
	f.room(t, in.ID, "Quarto", "bom")

	doc, err := f.svc.Spreadsheet(context.Background(), ana, in.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ContentTypeXLSX, doc.ContentType)
	assert.True(t, strings.HasSuffix(doc.Filename, ".xlsx"))
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("PK")))
	assert.Equal(t, 1, f.renderer.sheets)
}

func TestDeleteInspectionRemovesPhotos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.register(t)
	_, items := f.room(t, in.ID, "Cozinha", "bom")

	img, err := f.svc.UploadItemImage(ctx, ana, items[0].ID, []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteInspection(ctx, ana, in.ID))
	assert.Equal(t, []string{img.StorageKey}, f.photos.deleted)

	_, err = f.svc.Load(ctx, ana, in.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
