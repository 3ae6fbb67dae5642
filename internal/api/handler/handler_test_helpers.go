package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/edvin/agencysites/internal/api/middleware"
	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/core"
	"github.com/edvin/agencysites/internal/model"
	"github.com/edvin/agencysites/internal/timestamp"
)

var testNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newRequestRaw creates a new HTTP request with a raw string body.
func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParams adds multiple chi URL parameters to the request context.
func withChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withTenant injects the tenant and an owner identity the way the admin
// middleware chain does.
func withTenant(r *http.Request, t *model.Tenant) *http.Request {
	ctx := mw.WithTenant(r.Context(), t)
	ctx = mw.WithIdentity(ctx, &model.Identity{UserID: t.OwnerID, TenantIDs: []string{t.ID}})
	return r.WithContext(ctx)
}

// decodeErrorResponse parses the JSON error response body into a map.
func decodeErrorResponse(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

// agencyTenant returns an active tenant built from the demo content.
func agencyTenant() *model.Tenant {
	t := content.DemoTenant()
	t.ID = "t-casa"
	t.Slug = "casa"
	t.Name = "Casa Andina"
	t.OwnerID = "owner-1"
	t.CreatedAt = timestamp.Of(testNow.Add(-30 * 24 * time.Hour))
	return &t
}

type fakeLoader struct {
	snap core.Snapshot
	err  error
}

func (f *fakeLoader) Load(_ context.Context, slug string) (core.Snapshot, error) {
	if f.err != nil {
		return core.Snapshot{}, f.err
	}
	return f.snap, nil
}

type fakeListings struct {
	mu       sync.Mutex
	listings core.Listings
	err      error
	calls    int
	needs    content.Needs
}

func (f *fakeListings) ForSections(_ context.Context, _ string, needs content.Needs) (core.Listings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.needs = needs
	return f.listings, f.err
}

type fakeContentStore struct {
	saved    *model.ContentModel
	branding *model.Branding
	saves    int
	err      error
	byID     map[string]*model.Tenant
}

func (f *fakeContentStore) GetByID(_ context.Context, id string) (*model.Tenant, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeContentStore) SaveContent(_ context.Context, _ string, cm *model.ContentModel) error {
	if f.err != nil {
		return f.err
	}
	if err := content.Validate(cm); err != nil {
		return err
	}
	f.saves++
	f.saved = cm
	return nil
}

func (f *fakeContentStore) SaveBranding(_ context.Context, _ string, b model.Branding) error {
	if f.err != nil {
		return f.err
	}
	f.saves++
	f.branding = &b
	return nil
}

type fakeInvalidator struct {
	slugs []string
}

func (f *fakeInvalidator) Invalidate(_ context.Context, slug string) {
	f.slugs = append(f.slugs, slug)
}

func sampleListings() core.Listings {
	return core.Listings{
		Featured: []model.Property{
			{ID: "p1", TenantID: "t-casa", Title: "Sea-view apartment", Price: 245000, Currency: "USD", Bedrooms: 2, Bathrooms: 2, AreaM2: 96, Featured: true},
		},
	}
}
