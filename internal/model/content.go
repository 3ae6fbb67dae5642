package model

// SectionType tags a homepage section. Values outside the known set are kept
// as-is so newer content survives a round-trip through older code.
type SectionType string

const (
	SectionHero      SectionType = "hero"
	SectionFeatured  SectionType = "featured"
	SectionAboutMini SectionType = "about_mini"
	SectionServices  SectionType = "services"
	SectionCTA       SectionType = "cta"
	SectionRecent    SectionType = "recent"
)

// SectionTypes lists the known section tags in their canonical order.
var SectionTypes = []SectionType{
	SectionHero, SectionFeatured, SectionAboutMini, SectionServices, SectionCTA, SectionRecent,
}

// Known reports whether t is one of the section tags this build understands.
func (t SectionType) Known() bool {
	for _, k := range SectionTypes {
		if k == t {
			return true
		}
	}
	return false
}

// ContentModel is a tenant's editable site content.
type ContentModel struct {
	Sections []Section `json:"sections" yaml:"sections" validate:"dive"`
	Menus    Menus     `json:"menus" yaml:"menus"`
	Pages    []Page    `json:"pages" yaml:"pages" validate:"dive"`
	Social   *Social   `json:"social,omitempty" yaml:"social,omitempty"`
}

// Section is one block of the homepage. Content is a type-dependent bag of
// fields; see the skin package for the keys each type reads.
type Section struct {
	ID      string         `json:"id" yaml:"id" validate:"required"`
	Type    SectionType    `json:"type" yaml:"type" validate:"required"`
	Enabled bool           `json:"enabled" yaml:"enabled"`
	Order   int            `json:"order" yaml:"order"`
	Content map[string]any `json:"content,omitempty" yaml:"content,omitempty"`
}

type Menus struct {
	Main   []MenuItem `json:"main" yaml:"main" validate:"dive"`
	Footer []MenuItem `json:"footer" yaml:"footer" validate:"dive"`
}

// MenuItem is a navigation link. IsExternal is authoritative for rendering;
// it is never re-derived from the shape of Path.
type MenuItem struct {
	ID         string `json:"id" yaml:"id" validate:"required"`
	Label      string `json:"label" yaml:"label" validate:"required"`
	Path       string `json:"path" yaml:"path" validate:"required"`
	IsExternal bool   `json:"is_external" yaml:"is_external"`
	Order      int    `json:"order" yaml:"order"`
}

type Page struct {
	ID        string       `json:"id" yaml:"id" validate:"required"`
	Title     string       `json:"title" yaml:"title" validate:"required"`
	Slug      string       `json:"slug" yaml:"slug" validate:"required"`
	ContentMD string       `json:"content_md" yaml:"content_md"`
	Enabled   bool         `json:"enabled" yaml:"enabled"`
	Order     int          `json:"order" yaml:"order"`
	Mission   string       `json:"mission,omitempty" yaml:"mission,omitempty"`
	Vision    string       `json:"vision,omitempty" yaml:"vision,omitempty"`
	Values    []string     `json:"values,omitempty" yaml:"values,omitempty"`
	Gallery   []string     `json:"gallery,omitempty" yaml:"gallery,omitempty"`
	Team      []TeamMember `json:"team,omitempty" yaml:"team,omitempty"`
}

type TeamMember struct {
	Name  string `json:"name" yaml:"name"`
	Role  string `json:"role,omitempty" yaml:"role,omitempty"`
	Photo string `json:"photo,omitempty" yaml:"photo,omitempty"`
}

type Social struct {
	Facebook       string `json:"facebook,omitempty" yaml:"facebook,omitempty" validate:"omitempty,url"`
	Instagram      string `json:"instagram,omitempty" yaml:"instagram,omitempty" validate:"omitempty,url"`
	LinkedIn       string `json:"linkedin,omitempty" yaml:"linkedin,omitempty" validate:"omitempty,url"`
	WhatsApp       string `json:"whatsapp,omitempty" yaml:"whatsapp,omitempty" validate:"omitempty,url"`
	ComplaintsBook string `json:"complaints_book,omitempty" yaml:"complaints_book,omitempty" validate:"omitempty,url"`
}
