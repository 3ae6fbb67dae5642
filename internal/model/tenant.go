package model

import "github.com/edvin/agencysites/internal/timestamp"

// TemplateID selects the rendering skin for a tenant's public site.
type TemplateID string

const (
	TemplateHeritage TemplateID = "heritage"
	TemplateCanvas   TemplateID = "canvas"
	TemplatePrestige TemplateID = "prestige"
	TemplateSkyline  TemplateID = "skyline"
	TemplateLuxe     TemplateID = "luxe"
)

// Tenant is one agency and its whole stored document.
type Tenant struct {
	ID           string          `json:"id" yaml:"id"`
	Slug         string          `json:"slug" yaml:"slug"`
	Name         string          `json:"name" yaml:"name"`
	Branding     Branding        `json:"branding" yaml:"branding"`
	Contact      Contact         `json:"contact" yaml:"contact"`
	Subscription *Subscription   `json:"subscription,omitempty" yaml:"subscription,omitempty"`
	Content      *ContentModel   `json:"content,omitempty" yaml:"content,omitempty"`
	Active       bool            `json:"active" yaml:"active"`
	OwnerID      string          `json:"owner_id,omitempty" yaml:"owner_id,omitempty"`
	CreatedAt    timestamp.Value `json:"created_at" yaml:"created_at"`
}

type Branding struct {
	PrimaryColor   string     `json:"primary_color" yaml:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor string     `json:"secondary_color" yaml:"secondary_color" validate:"omitempty,hexcolor"`
	Logo           string     `json:"logo,omitempty" yaml:"logo,omitempty"`
	Template       TemplateID `json:"template" yaml:"template"`
}

type Contact struct {
	Email   string `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	City    string `json:"city,omitempty" yaml:"city,omitempty"`
}
