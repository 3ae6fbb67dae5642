package request

import "github.com/edvin/agencysites/internal/model"

type SignupTenant struct {
	Name     string           `json:"name" validate:"required,max=120"`
	Slug     string           `json:"slug" validate:"required,slug,max=63"`
	Template model.TemplateID `json:"template" validate:"omitempty,oneof=heritage canvas prestige skyline luxe"`
	Contact  model.Contact    `json:"contact"`
}

type MoveItem struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

type ToggleSection struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type AddSection struct {
	Type    model.SectionType `json:"type" validate:"required"`
	Content map[string]any    `json:"content"`
}

type AddMenuItem struct {
	Label      string `json:"label" validate:"required,max=80"`
	Path       string `json:"path" validate:"required"`
	IsExternal bool   `json:"is_external"`
}

type AddPage struct {
	Title     string             `json:"title" validate:"required,max=160"`
	Slug      string             `json:"slug" validate:"required,slug"`
	ContentMD string             `json:"content_md"`
	Enabled   *bool              `json:"enabled"`
	Mission   string             `json:"mission"`
	Vision    string             `json:"vision"`
	Values    []string           `json:"values"`
	Gallery   []string           `json:"gallery"`
	Team      []model.TeamMember `json:"team"`
}

type UpdateBranding struct {
	PrimaryColor   string           `json:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor string           `json:"secondary_color" validate:"omitempty,hexcolor"`
	Logo           string           `json:"logo"`
	Template       model.TemplateID `json:"template" validate:"omitempty,oneof=heritage canvas prestige skyline luxe"`
}

type Preview struct {
	Content  *model.ContentModel `json:"content" validate:"required"`
	Template model.TemplateID    `json:"template"`
}
