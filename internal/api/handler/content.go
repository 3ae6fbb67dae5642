package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/agencysites/internal/api/middleware"
	"github.com/edvin/agencysites/internal/api/request"
	"github.com/edvin/agencysites/internal/api/response"
	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/model"
	"github.com/edvin/agencysites/internal/skin"
)

// Content edits a tenant's site content. The tenant comes from the Tenant
// middleware; every successful save drops the tenant's cached render
// document.
type Content struct {
	store    ContentStore
	cache    CacheInvalidator
	listings ListingSource
	media    MediaResolver
	clock    clock
}

func NewContent(store ContentStore, cache CacheInvalidator, listings ListingSource, media MediaResolver) *Content {
	if media == nil {
		media = nopMedia{}
	}
	return &Content{store: store, cache: cache, listings: listings, media: media}
}

// WithClock pins the preview render time.
func (h *Content) WithClock(now func() time.Time) *Content {
	h.clock = now
	return h
}

// current returns the tenant's content in display order.
func current(t *model.Tenant) *model.ContentModel {
	content.EnsureContent(t)
	cm := *t.Content
	cm.Sections = content.Sorted(cm.Sections)
	cm.Menus.Main = content.SortedMenu(cm.Menus.Main)
	cm.Menus.Footer = content.SortedMenu(cm.Menus.Footer)
	return &cm
}

func (h *Content) save(w http.ResponseWriter, r *http.Request, t *model.Tenant, cm *model.ContentModel) bool {
	logger := zerolog.Ctx(r.Context())
	for _, item := range content.ExternalMismatches(cm) {
		logger.Warn().
			Str("tenant_id", t.ID).
			Str("menu_item_id", item.ID).
			Str("path", item.Path).
			Bool("is_external", item.IsExternal).
			Msg("menu item external flag disagrees with its path")
	}
	if err := h.store.SaveContent(r.Context(), t.ID, cm); err != nil {
		response.WriteServiceError(w, err)
		return false
	}
	if h.cache != nil {
		h.cache.Invalidate(r.Context(), t.Slug)
	}
	t.Content = cm
	return true
}

// Get godoc
//
//	@Summary		Get content
//	@Description	Returns the full content model in display order, disabled sections included.
//	@Tags			Content
//	@Security		BearerAuth
//	@Param			slug path string true "Tenant slug"
//	@Success		200 {object} model.ContentModel
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		402 {object} model.AccessDecision
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/api/v1/tenants/{slug}/content [get]
func (h *Content) Get(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, current(middleware.GetTenant(r.Context())))
}

// Put godoc
//
//	@Summary		Replace content
//	@Description	Replaces the whole content model. Every validation problem is listed in a 422 response.
//	@Tags			Content
//	@Security		BearerAuth
//	@Param			slug path string true "Tenant slug"
//	@Param			body body model.ContentModel true "Content model"
//	@Success		200 {object} model.ContentModel
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		402 {object} model.AccessDecision
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		422 {object} response.ValidationErrorBody
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/tenants/{slug}/content [put]
func (h *Content) Put(w http.ResponseWriter, r *http.Request) {
	var cm model.ContentModel
	if err := json.NewDecoder(r.Body).Decode(&cm); err != nil {
		response.WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if err := content.Validate(&cm); err != nil {
		response.WriteServiceError(w, err)
		return
	}

	t := middleware.GetTenant(r.Context())
	if !h.save(w, r, t, &cm) {
		return
	}
	response.WriteJSON(w, http.StatusOK, current(t))
}

// MoveSection godoc
//
//	@Summary		Move a section
//	@Description	Swaps the section at a display position with its neighbour. Moving past either end is a no-op.
//	@Tags			Content
//	@Security		BearerAuth
//	@Param			slug path string true "Tenant slug"
//	@Param			index path int true "Display position"
//	@Param			body body request.MoveItem true "Direction"
//	@Success		200 {object} model.ContentModel
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		402 {object} model.AccessDecision
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/tenants/{slug}/sections/{index}/move [post]
func (h *Content) MoveSection(w http.ResponseWriter, r *http.Request) {
	index, err := request.RequireIndex(chi.URLParam(r, "index"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req request.MoveItem
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	dir, _ := content.ParseDirection(req.Direction)

	t := middleware.GetTenant(r.Context())
	cm := current(t)
	sections, moved := content.MoveSection(cm.Sections, index, dir)
	if !moved {
		response.WriteJSON(w, http.StatusOK, cm)
		return
	}
	cm.Sections = sections
	if !h.save(w, r, t, cm) {
		return
	}
	response.WriteJSON(w, http.StatusOK, current(t))
}

// ToggleSection godoc
//
//	@Summary		Enable or disable a section
//	@Tags			Content
//	@Security		BearerAuth
//	@Param			slug path string true "Tenant slug"
//	@Param			id path string true "Section ID"
//	@Param			body body request.ToggleSection true "Enabled flag"
//	@Success		200 {object} model.ContentModel
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		402 {object} model.AccessDecision
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/tenants/{slug}/sections/{id}/toggle [post]
func (h *Content) ToggleSection(w http.ResponseWriter, r *http.Request) {
	var req request.ToggleSection
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := middleware.GetTenant(r.Context())
	cm := current(t)
	sections, ok := content.SetSectionEnabled(cm.Sections, chi.URLParam(r, "id"), *req.Enabled)
	if !ok {
		response.WriteError(w, http.StatusNotFound, "section not found")
		return
	}
	cm.Sections = sections
	if !h.save(w, r, t, cm) {
		return
	}
	response.WriteJSON(w, http.StatusOK, current(t))
}

// AddSection godoc
//
//	@Summary		Add a section
//	@Description	Appends a new enabled section of a known type.
//	@Tags			Content
//	@Security		BearerAuth
//	@Param			slug path string true "Tenant slug"
//	@Param			body body request.AddSection true "Section"
//	@Success		201 {object} model.ContentModel
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		402 {object} model.AccessDecision
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/tenants/{slug}/sections [post]
func (h *Content) AddSection(w http.ResponseWriter, r *http.Request) {
	var req request.AddSection
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Type.Known() {
		response.WriteError(w, http.StatusBadRequest, "unknown section type "+string(req.Type))
		return
	}

	t := middleware.GetTenant(r.Context())
	cm := current(t)
	cm.Sections = content.AppendSection(cm.Sections, req.Type, req.Content)
	if !h.save(w, r, t, cm) {
		return
	}
	response.WriteJSON(w, http.StatusCreated, current(t))
}

func menuOf(cm *model.ContentModel, name string) (*[]model.MenuItem, bool) {
	switch name {
	case "main":
		return &cm.Menus.Main, true
	case "footer":
		return &cm.Menus.Footer, true
	}
	return nil, false
}

// AddMenuItem godoc
//
//	@Summary		Add a menu item
//	@Description	Appends a link to the main or footer menu.
//	@Tags			Menus
//	@Security		BearerAuth
//	@Param			slug path string true "Tenant slug"
//	@Param			menu path string true "Menu name" Enums(main, footer)
//	@Param			body body request.AddMenuItem true "Menu item"
//	@Success		201 {object} model.ContentModel
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		402 {object} model.AccessDecision
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/tenants/{slug}/menus/{menu}/items [post]
func (h *Content) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	var req request.AddMenuItem
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := middleware.GetTenant(r.Context())
	cm := current(t)
	menu, ok := menuOf(cm, chi.URLParam(r, "menu"))
	if !ok {
		response.WriteError(w, http.StatusNotFound, "menu not found")
		return
	}
	*menu = content.AppendMenuItem(*menu, strings.TrimSpace(req.Label), strings.TrimSpace(req.Path), req.IsExternal)
	if !h.save(w, r, t, cm) {
		return
	}
	response.WriteJSON(w, http.StatusCreated, current(t))
}

// MoveMenuItem godoc
//
//	@Summary		Move a menu item
//	@Description	Swaps a menu link with its neighbour.
//	@Tags			Menus
//	@Security		BearerAuth
//	@Param			slug path string true "Tenant slug"
//	@Param			menu path string true "Menu name" Enums(main, footer)
//	@Param			index path int true "Display position"
//	@Param			body body request.MoveItem true "Direction"
//	@Success		200 {object} model.ContentModel
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		402 {object} model.AccessDecision
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/tenants/{slug}/menus/{menu}/items/{index}/move [post]
func (h *Content) MoveMenuItem(w http.ResponseWriter, r *http.Request) {
	index, err := request.RequireIndex(chi.URLParam(r, "index"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req request.MoveItem
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	dir, _ := content.ParseDirection(req.Direction)

	t := middleware.GetTenant(r.Context())
	cm := current(t)
	menu, ok := menuOf(cm, chi.URLParam(r, "menu"))
	if !ok {
		response.WriteError(w, http.StatusNotFound, "menu not found")
		return
	}
	items, moved := content.MoveMenuItem(*menu, index, dir)
	if !moved {
		response.WriteJSON(w, http.StatusOK, cm)
		return
	}
	*menu = items
	if !h.save(w, r, t, cm) {
		return
	}
	response.WriteJSON(w, http.StatusOK, current(t))
}

// AddPage godoc
//
//	@Summary		Add a page
//	@Description	Appends a content page. Pages are enabled unless the request says otherwise.
//	@Tags			Pages
//	@Security		BearerAuth
//	@Param			slug path string true "Tenant slug"
//	@Param			body body request.AddPage true "Page"
//	@Success		201 {object} model.ContentModel
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		402 {object} model.AccessDecision
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		422 {object} response.ValidationErrorBody
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/tenants/{slug}/pages [post]
func (h *Content) AddPage(w http.ResponseWriter, r *http.Request) {
	var req request.AddPage
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	t := middleware.GetTenant(r.Context())
	cm := current(t)
	cm.Pages = content.AppendPage(cm.Pages, model.Page{
		Title:     strings.TrimSpace(req.Title),
		Slug:      req.Slug,
		ContentMD: req.ContentMD,
		Enabled:   enabled,
		Mission:   req.Mission,
		Vision:    req.Vision,
		Values:    req.Values,
		Gallery:   req.Gallery,
		Team:      req.Team,
	})
	if err := content.Validate(cm); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if !h.save(w, r, t, cm) {
		return
	}
	response.WriteJSON(w, http.StatusCreated, current(t))
}

// Preview godoc
//
//	@Summary		Preview content
//	@Description	Renders unsaved content with the tenant branding, optionally through another template. Nothing is stored.
//	@Tags			Content
//	@Security		BearerAuth
//	@Param			slug path string true "Tenant slug"
//	@Param			body body request.Preview true "Unsaved content"
//	@Success		200 {string} string "HTML document"
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		402 {object} model.AccessDecision
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/tenants/{slug}/preview [post]
func (h *Content) Preview(w http.ResponseWriter, r *http.Request) {
	var req request.Preview
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	t := *middleware.GetTenant(ctx)
	t.Content = req.Content
	if req.Template != "" {
		t.Branding.Template = req.Template
	}
	h.media.ResolveTenant(ctx, &t)

	sections := content.Compose(t.Content)
	view := skin.NewView(&t, sitePath(t.Slug), h.clock.now())
	if h.listings != nil {
		if needs := content.DataNeeds(sections); needs.Featured || needs.Recent {
			l, err := h.listings.ForSections(ctx, t.ID, needs)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("tenant_id", t.ID).Msg("load listings for preview")
			} else {
				h.media.ResolveProperties(ctx, l.Featured)
				h.media.ResolveProperties(ctx, l.Recent)
				view.Featured, view.Recent = l.Featured, l.Recent
			}
		}
	}

	html, err := skin.RenderHome(skin.Resolve(t.Branding.Template), view, sections)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteHTML(w, http.StatusOK, string(html))
}

// Branding godoc
//
//	@Summary		Update branding
//	@Description	Updates colours, logo and template. Empty fields keep their current value.
//	@Tags			Branding
//	@Security		BearerAuth
//	@Param			slug path string true "Tenant slug"
//	@Param			body body request.UpdateBranding true "Branding"
//	@Success		200 {object} model.Branding
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		402 {object} model.AccessDecision
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/tenants/{slug}/branding [put]
func (h *Content) Branding(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateBranding
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := middleware.GetTenant(r.Context())
	b := t.Branding
	if req.PrimaryColor != "" {
		b.PrimaryColor = req.PrimaryColor
	}
	if req.SecondaryColor != "" {
		b.SecondaryColor = req.SecondaryColor
	}
	if req.Logo != "" {
		b.Logo = strings.TrimSpace(req.Logo)
	}
	if req.Template != "" {
		b.Template = req.Template
	}

	if err := h.store.SaveBranding(r.Context(), t.ID, b); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if h.cache != nil {
		h.cache.Invalidate(r.Context(), t.Slug)
	}
	t.Branding = b
	response.WriteJSON(w, http.StatusOK, b)
}
