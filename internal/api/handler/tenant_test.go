package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/edvin/agencysites/internal/api/middleware"
	"github.com/edvin/agencysites/internal/core"
	"github.com/edvin/agencysites/internal/model"
)

type fakeCreator struct {
	params *core.CreateTenantParams
	err    error
}

func (f *fakeCreator) Create(_ context.Context, p core.CreateTenantParams) (*model.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.params = &p
	return &model.Tenant{ID: "t-new", Slug: p.Slug, Name: p.Name, OwnerID: p.OwnerID, Active: true}, nil
}

func withCaller(r *http.Request, userID string) *http.Request {
	return r.WithContext(mw.WithIdentity(r.Context(), &model.Identity{UserID: userID}))
}

func TestTenantCreate(t *testing.T) {
	svc := &fakeCreator{}
	h := NewTenant(svc)
	rec := httptest.NewRecorder()
	r := withCaller(newRequest(http.MethodPost, "/api/v1/tenants", map[string]any{
		"name": "Casa Andina", "slug": "casa-andina", "template": "canvas",
	}), "user-7")

	h.Create(rec, r)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.params)
	assert.Equal(t, "user-7", svc.params.OwnerID)
	assert.Equal(t, model.TemplateCanvas, svc.params.Template)
	assert.Equal(t, "casa-andina", svc.params.Slug)
}

func TestTenantCreate_InvalidJSON(t *testing.T) {
	h := NewTenant(&fakeCreator{})
	rec := httptest.NewRecorder()

	h.Create(rec, withCaller(newRequestRaw(http.MethodPost, "/api/v1/tenants", "{bad json"), "u"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "invalid JSON")
}

func TestTenantCreate_InvalidSlug(t *testing.T) {
	h := NewTenant(&fakeCreator{})
	rec := httptest.NewRecorder()

	h.Create(rec, withCaller(newRequest(http.MethodPost, "/api/v1/tenants", map[string]any{"name": "X", "slug": "Bad Slug"}), "u"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "validation error")
}

func TestTenantCreate_ServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("create tenant: %w", core.ErrSlugTaken), http.StatusConflict},
		{fmt.Errorf("create tenant: %w", core.ErrInvalidSlug), http.StatusBadRequest},
		{fmt.Errorf("insert tenant: boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		h := NewTenant(&fakeCreator{err: tt.err})
		rec := httptest.NewRecorder()

		h.Create(rec, withCaller(newRequest(http.MethodPost, "/api/v1/tenants", map[string]any{"name": "X", "slug": "demo"}), "u"))

		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
	}
}

func TestTenantCreate_Anonymous(t *testing.T) {
	h := NewTenant(&fakeCreator{})
	rec := httptest.NewRecorder()

	h.Create(rec, newRequest(http.MethodPost, "/api/v1/tenants", map[string]any{"name": "X", "slug": "x"}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
