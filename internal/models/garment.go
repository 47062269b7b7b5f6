// Package models defines the garment records exchanged with the recommendation service.
package models

import (
	"fmt"
	"strings"
)

// Garment is one clothing item of the wardrobe catalog.
// Optional attributes are nil when absent so they are omitted on the wire.
type Garment struct {
	ItemID   string  `json:"item_id,omitempty" yaml:"item_id,omitempty"`
	Name     string  `json:"nome" yaml:"nome"`
	Category string  `json:"categoria" yaml:"categoria"`
	Color    string  `json:"cor" yaml:"cor"`
	Pattern  *string `json:"padrao,omitempty" yaml:"padrao,omitempty"`
	Material *string `json:"material,omitempty" yaml:"material,omitempty"`
	Style    *string `json:"estilo,omitempty" yaml:"estilo,omitempty"`
	Occasion *string `json:"ocasion,omitempty" yaml:"ocasion,omitempty"`
	Climate  *string `json:"clima,omitempty" yaml:"clima,omitempty"`
}

// HasID reports whether the garment was persisted by the catalog.
func (g Garment) HasID() bool {
	return g.ItemID != ""
}

// Key returns a stable render key: the identifier, or "name-category".
func (g Garment) Key() string {
	if g.ItemID != "" {
		return g.ItemID
	}
	name, category := g.Name, g.Category
	if name == "" {
		name = "?"
	}
	if category == "" {
		category = "?"
	}
	return name + "-" + category
}

// SameAs reports whether two garments collide under the look dedup rule:
// equal identifiers (both present) or equal names.
func (g Garment) SameAs(other Garment) bool {
	if g.ItemID != "" && other.ItemID != "" && g.ItemID == other.ItemID {
		return true
	}
	return g.Name == other.Name
}

// Normalized returns a copy with blank optional attributes cleared.
func (g Garment) Normalized() Garment {
	g.Pattern = Optional(Value(g.Pattern))
	g.Material = Optional(Value(g.Material))
	g.Style = Optional(Value(g.Style))
	g.Occasion = Optional(Value(g.Occasion))
	g.Climate = Optional(Value(g.Climate))
	return g
}

// String renders a one-line summary, e.g. "camisa azul (blusa) cor: azul".
func (g Garment) String() string {
	return fmt.Sprintf("%s (%s) cor: %s", g.Name, g.Category, g.Color)
}

// Optional converts a form value to an optional attribute.
// Blank strings become nil.
func Optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Value dereferences an optional attribute, returning "" when absent.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Fold trims and lower-cases a token for case-insensitive comparisons.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
