package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/model"
)

const propertyColumns = `id, tenant_id, title, price, currency, location, bedrooms, bathrooms, area_m2, image, path, featured, created_at`

// PropertyService reads the listing catalog shown by featured and recent
// sections.
type PropertyService struct {
	db DB
}

func NewPropertyService(db DB) *PropertyService {
	return &PropertyService{db: db}
}

func (s *PropertyService) Create(ctx context.Context, p *model.Property) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO properties (`+propertyColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, price = EXCLUDED.price,
		   currency = EXCLUDED.currency, location = EXCLUDED.location, bedrooms = EXCLUDED.bedrooms,
		   bathrooms = EXCLUDED.bathrooms, area_m2 = EXCLUDED.area_m2, image = EXCLUDED.image,
		   path = EXCLUDED.path, featured = EXCLUDED.featured`,
		p.ID, p.TenantID, p.Title, p.Price, p.Currency, p.Location, p.Bedrooms, p.Bathrooms,
		p.AreaM2, p.Image, p.Path, p.Featured, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert property %s: %w", p.ID, err)
	}
	return nil
}

// ListFeatured returns the newest featured listings of a tenant.
func (s *PropertyService) ListFeatured(ctx context.Context, tenantID string, limit int) ([]model.Property, error) {
	return s.list(ctx, "featured",
		`SELECT `+propertyColumns+` FROM properties
		 WHERE tenant_id = $1 AND featured ORDER BY created_at DESC LIMIT $2`,
		tenantID, limit)
}

// ListRecent returns the newest listings of a tenant.
func (s *PropertyService) ListRecent(ctx context.Context, tenantID string, limit int) ([]model.Property, error) {
	return s.list(ctx, "recent",
		`SELECT `+propertyColumns+` FROM properties
		 WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2`,
		tenantID, limit)
}

func (s *PropertyService) list(ctx context.Context, kind, query, tenantID string, limit int) ([]model.Property, error) {
	rows, err := s.db.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s properties: %w", kind, err)
	}
	defer rows.Close()

	var props []model.Property
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Title, &p.Price, &p.Currency, &p.Location,
			&p.Bedrooms, &p.Bathrooms, &p.AreaM2, &p.Image, &p.Path, &p.Featured, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return props, nil
}

// Listings holds the catalog slices a composed home page asked for.
type Listings struct {
	Featured []model.Property
	Recent   []model.Property
}

// ForSections fetches the listings a section sequence needs, in parallel.
func (s *PropertyService) ForSections(ctx context.Context, tenantID string, needs content.Needs) (Listings, error) {
	var out Listings
	g, gctx := errgroup.WithContext(ctx)
	if needs.Featured {
		g.Go(func() error {
			props, err := s.ListFeatured(gctx, tenantID, needs.FeaturedLimit)
			out.Featured = props
			return err
		})
	}
	if needs.Recent {
		g.Go(func() error {
			props, err := s.ListRecent(gctx, tenantID, needs.RecentLimit)
			out.Recent = props
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Listings{}, err
	}
	return out, nil
}
