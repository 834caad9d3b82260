// Package checklist holds the room-type vocabulary and the item templates the
// inspection flow offers for each room.
package checklist

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vbonduro/vistoria/internal/domain"
)

// DefaultCategory is used for items recorded without a category that match no
// template.
const DefaultCategory = "geral"

//go:embed checklists.yaml
var checklistsYAML []byte

type Category struct {
	Name        string   `yaml:"name" json:"name"`
	Subcategory string   `yaml:"subcategory,omitempty" json:"subcategory,omitempty"`
	Items       []string `yaml:"items" json:"items"`
}

type RoomType struct {
	Slug        string     `yaml:"slug" json:"slug"`
	Name        string     `yaml:"name" json:"name"`
	Aliases     []string   `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Description string     `yaml:"description" json:"description"`
	Categories  []Category `yaml:"categories" json:"categories"`
}

type Catalog struct {
	RoomTypes []RoomType `yaml:"room_types"`
	index     map[string]int
}

// Load parses the embedded checklist document.
func Load() (*Catalog, error) {
	return Parse(checklistsYAML)
}

// Parse builds a catalog from a YAML document shaped like checklists.yaml.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse checklists: %w", err)
	}

	c.index = make(map[string]int)
	for i, rt := range c.RoomTypes {
		if rt.Slug == "" {
			return nil, fmt.Errorf("room type %d has no slug", i)
		}
		keys := append([]string{rt.Slug, rt.Name}, rt.Aliases...)
		for _, k := range keys {
			s := Slug(k)
			if s == "" {
				continue
			}
			if j, dup := c.index[s]; dup && j != i {
				return nil, fmt.Errorf("room type key %q is used by both %s and %s", s, c.RoomTypes[j].Slug, rt.Slug)
			}
			c.index[s] = i
		}
	}
	return &c, nil
}

// Lookup finds a room type by slug, display name or alias.
func (c *Catalog) Lookup(roomType string) (*RoomType, bool) {
	i, ok := c.index[Slug(roomType)]
	if !ok {
		return nil, false
	}
	return &c.RoomTypes[i], true
}

// Categories lists the category choices offered when adding a custom item to a
// room. Wet rooms also get Hidráulica.
func (c *Catalog) Categories(roomType string) []string {
	base := []string{"Elétrica", "Acabamento", "Mobiliário"}
	switch Slug(roomType) {
	case "banheiro", "cozinha":
		return []string{base[0], "Hidráulica", base[1], base[2]}
	default:
		return base
	}
}

// ItemCategories flattens the catalog into template rows keyed by room type
// slug.
func (c *Catalog) ItemCategories() []domain.ItemCategory {
	var out []domain.ItemCategory
	for _, rt := range c.RoomTypes {
		for _, cat := range rt.Categories {
			for _, item := range cat.Items {
				out = append(out, domain.ItemCategory{
					RoomType:    rt.Slug,
					Category:    cat.Name,
					Subcategory: cat.Subcategory,
					Name:        item,
				})
			}
		}
	}
	return out
}

// Group folds template rows into categories. Categories and their items keep
// the order the rows arrive in.
func Group(rows []domain.ItemCategory) []Category {
	type key struct{ name, sub string }
	index := make(map[key]int)
	var out []Category
	for _, r := range rows {
		k := key{r.Category, r.Subcategory}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Category{Name: r.Category, Subcategory: r.Subcategory})
		}
		out[i].Items = append(out[i].Items, r.Name)
	}
	return out
}

// Match returns the template row of the named item, matching the name case-
// and accent-insensitively.
func Match(rows []domain.ItemCategory, itemName string) (domain.ItemCategory, bool) {
	want := domain.Fold(strings.TrimSpace(itemName))
	for _, r := range rows {
		if domain.Fold(r.Name) == want {
			return r, true
		}
	}
	return domain.ItemCategory{}, false
}

// Slug lower-cases name, strips accents and joins words with hyphens:
// "Sala de Estar" becomes "sala-de-estar".
func Slug(name string) string {
	folded := domain.Fold(name)
	var b strings.Builder
	hyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
		default:
			hyphen = true
		}
	}
	return b.String()
}
