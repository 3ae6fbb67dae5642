package handler

import (
	"context"
	"time"

	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/core"
	"github.com/edvin/agencysites/internal/model"
)

// SnapshotLoader loads tenants for public rendering.
type SnapshotLoader interface {
	Load(ctx context.Context, slug string) (core.Snapshot, error)
}

// CacheInvalidator drops a tenant's cached render document.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, slug string)
}

// ListingSource fetches the catalog data composed sections ask for.
type ListingSource interface {
	ForSections(ctx context.Context, tenantID string, needs content.Needs) (core.Listings, error)
}

// MediaResolver turns stored media keys into loadable URLs.
type MediaResolver interface {
	ResolveTenant(ctx context.Context, t *model.Tenant)
	ResolveProperties(ctx context.Context, props []model.Property)
}

// ContentStore persists the editable parts of a tenant document.
type ContentStore interface {
	GetByID(ctx context.Context, id string) (*model.Tenant, error)
	SaveContent(ctx context.Context, tenantID string, cm *model.ContentModel) error
	SaveBranding(ctx context.Context, tenantID string, b model.Branding) error
}

type nopMedia struct{}

func (nopMedia) ResolveTenant(context.Context, *model.Tenant)        {}
func (nopMedia) ResolveProperties(context.Context, []model.Property) {}

func sitePath(slug string) string {
	return "/sites/" + slug
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
