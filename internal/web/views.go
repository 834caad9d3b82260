package web

import (
	"time"

	"github.com/vbonduro/vistoria/internal/domain"
	"github.com/vbonduro/vistoria/internal/summary"
)

type propertyView struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Type               string    `json:"type"`
	Subtype            string    `json:"subtype"`
	Area               *float64  `json:"area,omitempty"`
	Value              *float64  `json:"value,omitempty"`
	RegistrationNumber string    `json:"registration_number,omitempty"`
	Street             string    `json:"street,omitempty"`
	Number             string    `json:"number,omitempty"`
	Complement         string    `json:"complement,omitempty"`
	Neighborhood       string    `json:"neighborhood,omitempty"`
	City               string    `json:"city,omitempty"`
	State              string    `json:"state,omitempty"`
	ZipCode            string    `json:"zip_code,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

func newPropertyView(p *domain.Property) *propertyView {
	if p == nil {
		return nil
	}
	return &propertyView{
		ID:                 p.ID,
		Title:              p.Title,
		Type:               p.Type,
		Subtype:            p.Subtype,
		Area:               p.Area,
		Value:              p.Value,
		RegistrationNumber: p.RegistrationNumber,
		Street:             p.Street,
		Number:             p.Number,
		Complement:         p.Complement,
		Neighborhood:       p.Neighborhood,
		City:               p.City,
		State:              p.State,
		ZipCode:            p.ZipCode,
		CreatedAt:          p.CreatedAt,
	}
}

type inspectionView struct {
	ID             string                  `json:"id"`
	PropertyID     string                  `json:"property_id"`
	Status         domain.InspectionStatus `json:"status"`
	InspectionDate time.Time               `json:"inspection_date"`
	Observations   string                  `json:"observations,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	Property       *propertyView           `json:"property,omitempty"`
}

func newInspectionView(in *domain.Inspection, p *domain.Property) inspectionView {
	return inspectionView{
		ID:             in.ID,
		PropertyID:     in.PropertyID,
		Status:         in.Status,
		InspectionDate: in.InspectionDate,
		Observations:   in.Observations,
		CreatedAt:      in.CreatedAt,
		Property:       newPropertyView(p),
	}
}

type roomView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Items       []itemView `json:"items,omitempty"`
}

func newRoomView(r *domain.Room) roomView {
	return roomView{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
	}
}

type itemView struct {
	ID          string           `json:"id"`
	RoomID      string           `json:"room_id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Subcategory string           `json:"subcategory,omitempty"`
	Condition   domain.Condition `json:"condition"`
	Label       string           `json:"condition_label"`
	Description string           `json:"description,omitempty"`
	Images      []imageView      `json:"images,omitempty"`
}

func newItemView(it *domain.RoomItem) itemView {
	return itemView{
		ID:          it.ID,
		RoomID:      it.RoomID,
		Name:        it.Name,
		Category:    it.Category,
		Subcategory: it.Subcategory,
		Condition:   it.Condition,
		Label:       it.Condition.Label(),
		Description: it.Description,
	}
}

type imageView struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	ImageURL string `json:"image_url"`
}

func newImageView(img *domain.ItemImage) imageView {
	return imageView{ID: img.ID, ItemID: img.ItemID, ImageURL: img.ImageURL}
}

type inspectionDetailView struct {
	inspectionView
	Rooms   []roomView          `json:"rooms"`
	Summary *summary.Inspection `json:"summary"`
}

func newInspectionDetailView(tree *domain.InspectionTree, sum *summary.Inspection) inspectionDetailView {
	v := inspectionDetailView{
		inspectionView: newInspectionView(tree.Inspection, tree.Property),
		Rooms:          make([]roomView, 0, len(tree.Rooms)),
		Summary:        sum,
	}
	for _, rn := range tree.Rooms {
		room := newRoomView(&rn.Room)
		for _, in := range rn.Items {
			item := newItemView(&in.Item)
			for _, img := range in.Images {
				item.Images = append(item.Images, newImageView(&img))
			}
			room.Items = append(room.Items, item)
		}
		v.Rooms = append(v.Rooms, room)
	}
	return v
}
