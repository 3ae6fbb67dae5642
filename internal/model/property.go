package model

import "time"

// Property is a catalog listing shown by the featured and recent sections.
type Property struct {
	ID        string    `json:"id" yaml:"id" db:"id"`
	TenantID  string    `json:"tenant_id" yaml:"tenant_id" db:"tenant_id"`
	Title     string    `json:"title" yaml:"title" db:"title"`
	Price     int64     `json:"price" yaml:"price" db:"price"`
	Currency  string    `json:"currency" yaml:"currency" db:"currency"`
	Location  string    `json:"location" yaml:"location" db:"location"`
	Bedrooms  int       `json:"bedrooms" yaml:"bedrooms" db:"bedrooms"`
	Bathrooms int       `json:"bathrooms" yaml:"bathrooms" db:"bathrooms"`
	AreaM2    int       `json:"area_m2" yaml:"area_m2" db:"area_m2"`
	Image     string    `json:"image,omitempty" yaml:"image,omitempty" db:"image"`
	Path      string    `json:"path,omitempty" yaml:"path,omitempty" db:"path"`
	Featured  bool      `json:"featured" yaml:"featured" db:"featured"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
}
