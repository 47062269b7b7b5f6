package look

import (
	"strings"

	"github.com/raphaelgruber/wardrobe-go/internal/models"
)

// ManualForm holds the pending fields of a garment typed in by hand.
type ManualForm struct {
	Name     string
	Category string
	Color    string
	Pattern  string
	Material string
	Style    string
	Occasion string
	Climate  string
}

// Missing lists the required fields that are blank.
func (f ManualForm) Missing() []string {
	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "nome")
	}
	if strings.TrimSpace(f.Category) == "" {
		missing = append(missing, "categoria")
	}
	if strings.TrimSpace(f.Color) == "" {
		missing = append(missing, "cor")
	}
	return missing
}

// Garment converts the form to a garment; blank optional fields are absent.
func (f ManualForm) Garment() models.Garment {
	return models.Garment{
		Name:     strings.TrimSpace(f.Name),
		Category: strings.TrimSpace(f.Category),
		Color:    strings.TrimSpace(f.Color),
		Pattern:  models.Optional(strings.TrimSpace(f.Pattern)),
		Material: models.Optional(strings.TrimSpace(f.Material)),
		Style:    models.Optional(strings.TrimSpace(f.Style)),
		Occasion: models.Optional(strings.TrimSpace(f.Occasion)),
		Climate:  models.Optional(strings.TrimSpace(f.Climate)),
	}
}

// Form returns the pending form.
func (s *Store) Form() ManualForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetForm replaces the pending form.
func (s *Store) SetForm(f ManualForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = f
}

// ClearForm resets the pending form.
func (s *Store) ClearForm() {
	s.SetForm(ManualForm{})
}
