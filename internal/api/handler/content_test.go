package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/agencysites/internal/api/response"
	"github.com/edvin/agencysites/internal/model"
)

func newContentHandler() (*Content, *fakeContentStore, *fakeInvalidator) {
	store := &fakeContentStore{}
	inv := &fakeInvalidator{}
	return NewContent(store, inv, &fakeListings{listings: sampleListings()}, nil).WithClock(fixedClock), store, inv
}

func decodeContent(t *testing.T, rec *httptest.ResponseRecorder) model.ContentModel {
	t.Helper()
	var cm model.ContentModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cm))
	return cm
}

func sectionIDs(sections []model.Section) []string {
	ids := make([]string, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
	}
	return ids
}

// --- Get / Put ---

func TestContentGet_IncludesDisabledSections(t *testing.T) {
	h, _, _ := newContentHandler()
	rec := httptest.NewRecorder()

	h.Get(rec, withTenant(newRequest(http.MethodGet, "/content", nil), agencyTenant()))

	require.Equal(t, http.StatusOK, rec.Code)
	cm := decodeContent(t, rec)
	assert.Len(t, cm.Sections, 6)
	assert.Equal(t, "sec-recent", cm.Sections[5].ID)
	assert.False(t, cm.Sections[5].Enabled)
}

func TestContentPut_Saves(t *testing.T) {
	h, store, inv := newContentHandler()
	tenant := agencyTenant()
	cm := *tenant.Content
	cm.Sections = cm.Sections[:2]
	rec := httptest.NewRecorder()

	h.Put(rec, withTenant(newRequest(http.MethodPut, "/content", cm), tenant))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, store.saved)
	assert.Len(t, store.saved.Sections, 2)
	assert.Equal(t, []string{"casa"}, inv.slugs)
}

func TestContentPut_InvalidJSON(t *testing.T) {
	h, store, _ := newContentHandler()
	rec := httptest.NewRecorder()

	h.Put(rec, withTenant(newRequestRaw(http.MethodPut, "/content", "{bad json"), agencyTenant()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "invalid JSON")
	assert.Zero(t, store.saves)
}

func TestContentPut_RejectsDuplicates(t *testing.T) {
	h, store, inv := newContentHandler()
	tenant := agencyTenant()
	cm := *tenant.Content
	cm.Sections = append(cm.Sections, cm.Sections[0])
	cm.Pages = append(cm.Pages, cm.Pages[0])
	rec := httptest.NewRecorder()

	h.Put(rec, withTenant(newRequest(http.MethodPut, "/content", cm), tenant))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body response.ValidationErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.GreaterOrEqual(t, len(body.Problems), 2)
	assert.Zero(t, store.saves)
	assert.Empty(t, inv.slugs)
}

func TestContentPut_KeepsMismatchedExternalFlag(t *testing.T) {
	h, store, _ := newContentHandler()
	tenant := agencyTenant()
	cm := *tenant.Content
	cm.Menus.Main = append([]model.MenuItem{}, cm.Menus.Main...)
	cm.Menus.Main = append(cm.Menus.Main, model.MenuItem{ID: "nav-blog", Label: "Blog", Path: "https://blog.example", IsExternal: false, Order: 4})
	rec := httptest.NewRecorder()

	h.Put(rec, withTenant(newRequest(http.MethodPut, "/content", cm), tenant))

	require.Equal(t, http.StatusOK, rec.Code)
	last := store.saved.Menus.Main[len(store.saved.Menus.Main)-1]
	assert.Equal(t, "nav-blog", last.ID)
	assert.False(t, last.IsExternal)
}

func TestContentPut_StoreError(t *testing.T) {
	h, store, inv := newContentHandler()
	store.err = errors.New("connection reset")
	tenant := agencyTenant()
	rec := httptest.NewRecorder()

	h.Put(rec, withTenant(newRequest(http.MethodPut, "/content", tenant.Content), tenant))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decodeErrorResponse(rec)["error"])
	assert.Empty(t, inv.slugs)
}

// --- Sections ---

func TestContentMoveSection(t *testing.T) {
	h, store, _ := newContentHandler()
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodPost, "/content/sections/0/move", map[string]string{"direction": "down"}), "index", "0")

	h.MoveSection(rec, withTenant(r, agencyTenant()))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, store.saved)
	assert.Equal(t, []string{"sec-featured", "sec-hero", "sec-about", "sec-services", "sec-cta", "sec-recent"}, sectionIDs(store.saved.Sections))
	for i, s := range store.saved.Sections {
		assert.Equal(t, i, s.Order)
	}
}

func TestContentMoveSection_AtBoundaryIsNoop(t *testing.T) {
	h, store, inv := newContentHandler()
	tests := []struct {
		index string
		dir   string
	}{
		{"0", "up"},
		{"5", "down"},
		{"9", "up"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r := withChiURLParam(newRequest(http.MethodPost, "/move", map[string]string{"direction": tt.dir}), "index", tt.index)

		h.MoveSection(rec, withTenant(r, agencyTenant()))

		assert.Equal(t, http.StatusOK, rec.Code)
		cm := decodeContent(t, rec)
		assert.Equal(t, "sec-hero", cm.Sections[0].ID)
	}
	assert.Zero(t, store.saves)
	assert.Empty(t, inv.slugs)
}

func TestContentMoveSection_BadInput(t *testing.T) {
	h, _, _ := newContentHandler()

	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodPost, "/move", map[string]string{"direction": "up"}), "index", "-1")
	h.MoveSection(rec, withTenant(r, agencyTenant()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r = withChiURLParam(newRequest(http.MethodPost, "/move", map[string]string{"direction": "sideways"}), "index", "1")
	h.MoveSection(rec, withTenant(r, agencyTenant()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "validation error")
}

func TestContentToggleSection(t *testing.T) {
	h, store, _ := newContentHandler()
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodPost, "/toggle", map[string]bool{"enabled": true}), "id", "sec-recent")

	h.ToggleSection(rec, withTenant(r, agencyTenant()))

	require.Equal(t, http.StatusOK, rec.Code)
	for _, s := range store.saved.Sections {
		if s.ID == "sec-recent" {
			assert.True(t, s.Enabled)
			assert.Equal(t, 5, s.Order)
		}
	}
}

func TestContentToggleSection_UnknownID(t *testing.T) {
	h, store, _ := newContentHandler()
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodPost, "/toggle", map[string]bool{"enabled": false}), "id", "nope")

	h.ToggleSection(rec, withTenant(r, agencyTenant()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, store.saves)
}

func TestContentAddSection(t *testing.T) {
	h, store, _ := newContentHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/sections", map[string]any{
		"type":    "cta",
		"content": map[string]any{"title": "Call us"},
	})

	h.AddSection(rec, withTenant(r, agencyTenant()))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.saved.Sections, 7)
	added := store.saved.Sections[6]
	assert.Equal(t, model.SectionCTA, added.Type)
	assert.Equal(t, 6, added.Order)
	assert.True(t, added.Enabled)
	assert.NotEmpty(t, added.ID)
}

func TestContentAddSection_UnknownType(t *testing.T) {
	h, store, _ := newContentHandler()
	rec := httptest.NewRecorder()

	h.AddSection(rec, withTenant(newRequest(http.MethodPost, "/sections", map[string]any{"type": "carousel"}), agencyTenant()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.saves)
}

// --- Menus ---

func TestContentAddMenuItem(t *testing.T) {
	h, store, _ := newContentHandler()
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodPost, "/menus/footer/items", map[string]any{
		"label": "Instagram", "path": "https://instagram.com/casa", "is_external": true,
	}), "menu", "footer")

	h.AddMenuItem(rec, withTenant(r, agencyTenant()))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.saved.Menus.Footer, 3)
	item := store.saved.Menus.Footer[2]
	assert.Equal(t, "Instagram", item.Label)
	assert.Equal(t, 2, item.Order)
	assert.True(t, item.IsExternal)
	assert.Len(t, store.saved.Menus.Main, 4)
}

func TestContentAddMenuItem_UnknownMenu(t *testing.T) {
	h, _, _ := newContentHandler()
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodPost, "/menus/side/items", map[string]any{"label": "X", "path": "/x"}), "menu", "side")

	h.AddMenuItem(rec, withTenant(r, agencyTenant()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContentMoveMenuItem(t *testing.T) {
	h, store, _ := newContentHandler()
	rec := httptest.NewRecorder()
	r := withChiURLParams(newRequest(http.MethodPost, "/move", map[string]string{"direction": "up"}), map[string]string{
		"menu": "main", "index": "3",
	})

	h.MoveMenuItem(rec, withTenant(r, agencyTenant()))

	require.Equal(t, http.StatusOK, rec.Code)
	ids := []string{}
	for _, it := range store.saved.Menus.Main {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"nav-home", "nav-properties", "nav-contact", "nav-about"}, ids)
}

// --- Pages ---

func TestContentAddPage(t *testing.T) {
	h, store, _ := newContentHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/pages", map[string]any{
		"title": "Careers", "slug": "careers", "content_md": "We are hiring.",
	})

	h.AddPage(rec, withTenant(r, agencyTenant()))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.saved.Pages, 4)
	p := store.saved.Pages[3]
	assert.Equal(t, "careers", p.Slug)
	assert.Equal(t, 3, p.Order)
	assert.True(t, p.Enabled)
	assert.NotEmpty(t, p.ID)
}

func TestContentAddPage_DuplicateSlug(t *testing.T) {
	h, store, _ := newContentHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/pages", map[string]any{"title": "About again", "slug": "about"})

	h.AddPage(rec, withTenant(r, agencyTenant()))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, store.saves)
}

// --- Preview / Branding ---

func TestContentPreview(t *testing.T) {
	h, store, _ := newContentHandler()
	tenant := agencyTenant()
	cm := *tenant.Content
	cm.Sections = []model.Section{
		{ID: "s1", Type: model.SectionFeatured, Enabled: true, Order: 0, Content: map[string]any{"title": "Our picks"}},
	}
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/preview", map[string]any{"content": cm, "template": "skyline"})

	h.Preview(rec, withTenant(r, tenant))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "skin--skyline")
	assert.Contains(t, body, "Our picks")
	assert.Contains(t, body, "US$ 245,000")
	assert.NotContains(t, body, `data-section="hero"`)
	assert.Zero(t, store.saves)
	assert.Equal(t, model.TemplateHeritage, tenant.Branding.Template, "preview does not touch the tenant")
}

func TestContentBranding(t *testing.T) {
	h, store, inv := newContentHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPut, "/branding", map[string]string{"primary_color": "#112233", "template": "prestige"})

	h.Branding(rec, withTenant(r, agencyTenant()))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, store.branding)
	assert.Equal(t, "#112233", store.branding.PrimaryColor)
	assert.Equal(t, "#c9a227", store.branding.SecondaryColor)
	assert.Equal(t, model.TemplatePrestige, store.branding.Template)
	assert.Equal(t, []string{"casa"}, inv.slugs)
}

func TestContentBranding_Invalid(t *testing.T) {
	h, store, _ := newContentHandler()
	for _, body := range []map[string]string{
		{"primary_color": "blue"},
		{"template": "brutalist"},
	} {
		rec := httptest.NewRecorder()
		h.Branding(rec, withTenant(newRequest(http.MethodPut, "/branding", body), agencyTenant()))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Nil(t, store.branding)
}
