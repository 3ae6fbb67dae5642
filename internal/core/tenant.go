package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/entitlement"
	"github.com/edvin/agencysites/internal/model"
	"github.com/edvin/agencysites/internal/timestamp"
)

// TenantService stores tenants as whole JSON documents keyed by id and slug.
type TenantService struct {
	db  DB
	now func() time.Time
}

func NewTenantService(db DB) *TenantService {
	return &TenantService{db: db, now: time.Now}
}

// CreateTenantParams holds the signup fields for a new tenant.
type CreateTenantParams struct {
	Name     string
	Slug     string
	OwnerID  string
	Template model.TemplateID
	Contact  model.Contact
}

// Create signs up a tenant: a fourteen day trial starting now and the demo
// content as a starting point.
func (s *TenantService) Create(ctx context.Context, params CreateTenantParams) (*model.Tenant, error) {
	slug := strings.TrimSpace(params.Slug)
	if !content.ValidSlug(slug) || slug == content.DemoSlug {
		return nil, fmt.Errorf("create tenant %q: %w", slug, ErrInvalidSlug)
	}
	template := params.Template
	if template == "" {
		template = model.TemplateHeritage
	}

	now := s.now().UTC()
	demo := content.DemoTenant()
	t := &model.Tenant{
		ID:   uuid.New().String(),
		Slug: slug,
		Name: strings.TrimSpace(params.Name),
		Branding: model.Branding{
			PrimaryColor:   demo.Branding.PrimaryColor,
			SecondaryColor: demo.Branding.SecondaryColor,
			Template:       template,
		},
		Contact: params.Contact,
		Subscription: &model.Subscription{
			Status:      model.SubscriptionTrialing,
			TrialEndsAt: timestamp.Of(now.Add(entitlement.TrialLength)),
		},
		Content:   content.DefaultContent(),
		Active:    true,
		OwnerID:   params.OwnerID,
		CreatedAt: timestamp.Of(now),
	}

	doc, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode tenant: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO tenants (id, slug, document, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)`,
		t.ID, t.Slug, doc, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create tenant %q: %w", slug, ErrSlugTaken)
		}
		return nil, fmt.Errorf("insert tenant: %w", err)
	}
	return t, nil
}

// GetBySlug returns the tenant published under slug. Tenants without
// content come back with the default content filled in.
func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	doc, err := s.GetDocument(ctx, slug)
	if err != nil {
		return nil, err
	}
	return DecodeTenant(ctx, doc)
}

// GetDocument returns the raw stored document for slug.
func (s *TenantService) GetDocument(ctx context.Context, slug string) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, `SELECT document FROM tenants WHERE slug = $1`, slug).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get tenant %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("get tenant %s: %w", slug, err)
	}
	return doc, nil
}

func (s *TenantService) GetByID(ctx context.Context, id string) (*model.Tenant, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, `SELECT document FROM tenants WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get tenant %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get tenant %s: %w", id, err)
	}
	return DecodeTenant(ctx, doc)
}

// SaveContent validates and replaces a tenant's whole content model in one
// statement, so concurrent readers see either the old or the new model.
func (s *TenantService) SaveContent(ctx context.Context, tenantID string, cm *model.ContentModel) error {
	if err := content.Validate(cm); err != nil {
		return err
	}
	doc, err := json.Marshal(cm)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}
	return s.patch(ctx, tenantID, "content", doc)
}

// SaveBranding replaces a tenant's branding.
func (s *TenantService) SaveBranding(ctx context.Context, tenantID string, b model.Branding) error {
	doc, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode branding: %w", err)
	}
	return s.patch(ctx, tenantID, "branding", doc)
}

// SaveSubscription replaces a tenant's subscription record. Billing owns
// the transitions; this only persists what it reports.
func (s *TenantService) SaveSubscription(ctx context.Context, tenantID string, sub model.Subscription) error {
	doc, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode subscription: %w", err)
	}
	return s.patch(ctx, tenantID, "subscription", doc)
}

func (s *TenantService) patch(ctx context.Context, tenantID, field string, value []byte) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenants SET document = jsonb_set(document, ARRAY[$2::text], $3::jsonb), updated_at = now()
		 WHERE id = $1`,
		tenantID, field, value,
	)
	if err != nil {
		return fmt.Errorf("update tenant %s %s: %w", tenantID, field, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update tenant %s: %w", tenantID, ErrNotFound)
	}
	return nil
}
