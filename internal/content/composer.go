// Package content composes a tenant's stored content model into the
// sequence a skin renders, and owns the editing operations that keep
// section and menu ordering dense.
package content

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/edvin/agencysites/internal/model"
)

// Direction is a reorder direction.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Up:
		return Up, true
	case Down:
		return Down, true
	}
	return "", false
}

// Compose returns the enabled sections sorted ascending by Order. Ties keep
// their stored relative position. The input is not modified.
func Compose(cm *model.ContentModel) []model.Section {
	if cm == nil {
		return []model.Section{}
	}
	out := make([]model.Section, 0, len(cm.Sections))
	for _, s := range cm.Sections {
		if s.Enabled {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Section) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out
}

// Sorted returns every section, enabled or not, in display order. This is
// the sequence editor indexes refer to.
func Sorted(sections []model.Section) []model.Section {
	out := slices.Clone(sections)
	slices.SortStableFunc(out, func(a, b model.Section) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out
}

// MoveSection swaps the section at index (in display order) with its
// neighbour in dir and renumbers Order to 0..n-1. When the neighbour does
// not exist the sections are returned unchanged.
func MoveSection(sections []model.Section, index int, dir Direction) ([]model.Section, bool) {
	out := Sorted(sections)
	if !swap(out, index, dir) {
		return slices.Clone(sections), false
	}
	for i := range out {
		out[i].Order = i
	}
	return out, true
}

// SetSectionEnabled flips the enabled flag of the section with id. Order is
// left untouched.
func SetSectionEnabled(sections []model.Section, id string, enabled bool) ([]model.Section, bool) {
	out := slices.Clone(sections)
	for i := range out {
		if out[i].ID == id {
			out[i].Enabled = enabled
			return out, true
		}
	}
	return out, false
}

// AppendSection adds a new enabled section at the end.
func AppendSection(sections []model.Section, typ model.SectionType, fields map[string]any) []model.Section {
	return append(slices.Clone(sections), model.Section{
		ID:      uuid.NewString(),
		Type:    typ,
		Enabled: true,
		Order:   len(sections),
		Content: fields,
	})
}

// AppendMenuItem adds a link at the end of a menu.
func AppendMenuItem(items []model.MenuItem, label, path string, external bool) []model.MenuItem {
	return append(slices.Clone(items), model.MenuItem{
		ID:         uuid.NewString(),
		Label:      label,
		Path:       path,
		IsExternal: external,
		Order:      len(items),
	})
}

// MoveMenuItem reorders a menu with the same rules as MoveSection.
func MoveMenuItem(items []model.MenuItem, index int, dir Direction) ([]model.MenuItem, bool) {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.MenuItem) int {
		return cmp.Compare(a.Order, b.Order)
	})
	if !swap(out, index, dir) {
		return slices.Clone(items), false
	}
	for i := range out {
		out[i].Order = i
	}
	return out, true
}

// SortedMenu returns the menu in display order.
func SortedMenu(items []model.MenuItem) []model.MenuItem {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.MenuItem) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out
}

// AppendPage adds a page at the end, assigning an id when the page has none.
func AppendPage(pages []model.Page, p model.Page) []model.Page {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Order = len(pages)
	return append(slices.Clone(pages), p)
}

// FindPage returns the enabled page with slug.
func FindPage(cm *model.ContentModel, slug string) (model.Page, bool) {
	if cm == nil {
		return model.Page{}, false
	}
	for _, p := range cm.Pages {
		if p.Slug == slug && p.Enabled {
			return p, true
		}
	}
	return model.Page{}, false
}

func swap[T any](items []T, index int, dir Direction) bool {
	var other int
	switch dir {
	case Up:
		other = index - 1
	case Down:
		other = index + 1
	default:
		return false
	}
	if index < 0 || index >= len(items) || other < 0 || other >= len(items) {
		return false
	}
	items[index], items[other] = items[other], items[index]
	return true
}
