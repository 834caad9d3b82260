// Package summary turns a loaded inspection tree into per-room and overall
// condition counts for reports.
package summary

import "github.com/vbonduro/vistoria/internal/domain"

type Counts struct {
	Good     int `json:"bom"`
	Poor     int `json:"ruim"`
	VeryPoor int `json:"pessimo"`
}

// Add increments the bucket for c. Unset and unknown values are ignored and
// reported false.
func (c *Counts) Add(cond domain.Condition) bool {
	switch cond {
	case domain.ConditionGood:
		c.Good++
	case domain.ConditionPoor:
		c.Poor++
	case domain.ConditionVeryPoor:
		c.VeryPoor++
	default:
		return false
	}
	return true
}

func (c Counts) Rated() int {
	return c.Good + c.Poor + c.VeryPoor
}

type Item struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Condition   domain.Condition `json:"condition"`
	Description string           `json:"description"`
}

type Room struct {
	RoomID     string `json:"room_id"`
	Name       string `json:"name"`
	TotalItems int    `json:"total_items"`
	Counts
	Unrated int    `json:"unrated"`
	Image   string `json:"image,omitempty"`
	Items   []Item `json:"items"`
}

type Inspection struct {
	Rooms      []Room `json:"rooms"`
	Totals     Counts `json:"totals"`
	TotalItems int    `json:"total_items"`
	Unrated    int    `json:"unrated"`
}

// Aggregate counts conditions per room and across the inspection. Rooms and
// items keep the order they have in tree. A nil tree yields an empty summary.
func Aggregate(tree *domain.InspectionTree) *Inspection {
	out := &Inspection{Rooms: []Room{}}
	if tree == nil {
		return out
	}

	for _, node := range tree.Rooms {
		room := Room{
			RoomID: node.Room.ID,
			Name:   node.Room.Name,
			Image:  representativeImage(node),
			Items:  make([]Item, 0, len(node.Items)),
		}
		for _, it := range node.Items {
			room.TotalItems++
			if !room.Counts.Add(it.Item.Condition) {
				room.Unrated++
			}
			room.Items = append(room.Items, Item{
				ID:          it.Item.ID,
				Name:        it.Item.Name,
				Category:    it.Item.Category,
				Condition:   it.Item.Condition,
				Description: it.Item.Description,
			})
		}

		out.Totals.Good += room.Good
		out.Totals.Poor += room.Poor
		out.Totals.VeryPoor += room.VeryPoor
		out.TotalItems += room.TotalItems
		out.Unrated += room.Unrated
		out.Rooms = append(out.Rooms, room)
	}
	return out
}

// representativeImage prefers the room's own image, then the first image of
// the first item that has one.
func representativeImage(node domain.RoomNode) string {
	if node.Room.ImageURL != "" {
		return node.Room.ImageURL
	}
	for _, it := range node.Items {
		for _, img := range it.Images {
			if img.ImageURL != "" {
				return img.ImageURL
			}
		}
	}
	return ""
}
