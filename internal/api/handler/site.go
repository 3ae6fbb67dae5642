package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/agencysites/internal/api/middleware"
	"github.com/edvin/agencysites/internal/api/response"
	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/core"
	"github.com/edvin/agencysites/internal/model"
	"github.com/edvin/agencysites/internal/skin"
)

// DegradedHeader marks responses rendered from demo content because the
// tenant store was unavailable.
const DegradedHeader = middleware.DegradedHeader

// Site serves tenants' public websites.
type Site struct {
	loader   SnapshotLoader
	listings ListingSource
	media    MediaResolver
	clock    clock
}

func NewSite(loader SnapshotLoader, listings ListingSource, media MediaResolver) *Site {
	if media == nil {
		media = nopMedia{}
	}
	return &Site{loader: loader, listings: listings, media: media}
}

// render is one tenant prepared for output.
type render struct {
	tenant   *model.Tenant
	degraded bool
	skin     skin.Strategy
	sections []model.Section
	view     skin.View
}

func (h *Site) prepare(ctx context.Context, slug string, withListings bool) (*render, error) {
	snap, err := h.loader.Load(ctx, slug)
	if err != nil {
		return nil, err
	}
	t := snap.Tenant
	if !t.Active && !snap.Degraded {
		return nil, core.ErrNotFound
	}
	rd := newRender(ctx, t, snap.Degraded, h.media, h.clock.now())
	if withListings && !snap.Degraded && h.listings != nil {
		needs := content.DataNeeds(rd.sections)
		if needs.Featured || needs.Recent {
			l, err := h.listings.ForSections(ctx, t.ID, needs)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("slug", slug).Msg("load listings, rendering without them")
			} else {
				h.media.ResolveProperties(ctx, l.Featured)
				h.media.ResolveProperties(ctx, l.Recent)
				rd.view.Featured = l.Featured
				rd.view.Recent = l.Recent
			}
		}
	}
	return rd, nil
}

// newRender resolves media, picks the skin and composes sections for t.
func newRender(ctx context.Context, t *model.Tenant, degraded bool, media MediaResolver, now time.Time) *render {
	logger := zerolog.Ctx(ctx)
	media.ResolveTenant(ctx, t)

	if !skin.Known(t.Branding.Template) {
		logger.Debug().Str("slug", t.Slug).Str("template", string(t.Branding.Template)).Msg("unknown template, using fallback")
	}
	st := skin.Resolve(t.Branding.Template)

	sections := content.Compose(t.Content)
	for _, s := range sections {
		if !s.Type.Known() {
			logger.Debug().Str("slug", t.Slug).Str("section_type", string(s.Type)).Msg("skipping unknown section type")
		}
	}

	return &render{
		tenant:   t,
		degraded: degraded,
		skin:     st,
		sections: sections,
		view:     skin.NewView(t, sitePath(t.Slug), now),
	}
}

func writeSiteError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrNotFound) {
		response.WriteError(w, http.StatusNotFound, "site not found")
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("render site")
	response.WriteServiceError(w, err)
}

func markDegraded(w http.ResponseWriter, rd *render) {
	if rd.degraded {
		w.Header().Set(DegradedHeader, "true")
	}
}

// Home godoc
//
//	@Summary		Render a tenant home page
//	@Description	Renders the public home page through the tenant template. Responds with X-Content-Degraded when demo content was served because the store was unavailable.
//	@Tags			Sites
//	@Param			slug path string true "Tenant slug"
//	@Success		200 {string} string "HTML document"
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/sites/{slug}/ [get]
func (h *Site) Home(w http.ResponseWriter, r *http.Request) {
	rd, err := h.prepare(r.Context(), chi.URLParam(r, "slug"), true)
	if err != nil {
		writeSiteError(w, r, err)
		return
	}

	html, err := skin.RenderHome(rd.skin, rd.view, rd.sections)
	if err != nil {
		writeSiteError(w, r, err)
		return
	}
	markDegraded(w, rd)
	response.WriteHTML(w, http.StatusOK, string(html))
}

// Page godoc
//
//	@Summary		Render a content page
//	@Description	Renders one enabled content page of the tenant.
//	@Tags			Sites
//	@Param			slug path string true "Tenant slug"
//	@Param			pageSlug path string true "Page slug"
//	@Success		200 {string} string "HTML document"
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/sites/{slug}/pages/{pageSlug} [get]
func (h *Site) Page(w http.ResponseWriter, r *http.Request) {
	rd, err := h.prepare(r.Context(), chi.URLParam(r, "slug"), false)
	if err != nil {
		writeSiteError(w, r, err)
		return
	}

	page, ok := content.FindPage(rd.tenant.Content, chi.URLParam(r, "pageSlug"))
	if !ok {
		response.WriteError(w, http.StatusNotFound, "page not found")
		return
	}

	html, err := skin.RenderPage(rd.skin, rd.view, page)
	if err != nil {
		writeSiteError(w, r, err)
		return
	}
	markDegraded(w, rd)
	response.WriteHTML(w, http.StatusOK, string(html))
}

// SiteContent is the composed, render-ready view of a tenant for clients
// that draw the site themselves.
type SiteContent struct {
	Slug     string                    `json:"slug"`
	Name     string                    `json:"name"`
	Template model.TemplateID          `json:"template"`
	Theme    SiteTheme                 `json:"theme"`
	Logo     string                    `json:"logo,omitempty"`
	Contact  model.Contact             `json:"contact"`
	Sections []model.Section           `json:"sections"`
	Menus    model.Menus               `json:"menus"`
	Pages    []PageSummary             `json:"pages"`
	Social   *model.Social             `json:"social,omitempty"`
	Featured []model.Property          `json:"featured"`
	Recent   []model.Property          `json:"recent"`
	Degraded bool                      `json:"degraded"`
	Cards    map[string]skin.CardStyle `json:"cards"`
}

type SiteTheme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

type PageSummary struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Path  string `json:"path"`
}

func siteContent(rd *render) SiteContent {
	t := rd.tenant
	out := SiteContent{
		Slug:     rd.view.Slug,
		Name:     t.Name,
		Template: rd.skin.ID(),
		Theme:    SiteTheme{Primary: rd.view.Theme.Primary, Secondary: rd.view.Theme.Secondary},
		Logo:     rd.view.LogoURL,
		Contact:  t.Contact,
		Sections: rd.sections,
		Menus:    model.Menus{Main: rd.view.Main, Footer: rd.view.Footer},
		Pages:    []PageSummary{},
		Social:   rd.view.Social,
		Featured: nonNil(rd.view.Featured),
		Recent:   nonNil(rd.view.Recent),
		Degraded: rd.degraded,
		Cards:    map[string]skin.CardStyle{},
	}
	if t.Content != nil {
		for _, p := range t.Content.Pages {
			if p.Enabled {
				out.Pages = append(out.Pages, PageSummary{Title: p.Title, Slug: p.Slug, Path: rd.view.Href("/pages/"+p.Slug, false)})
			}
		}
	}
	for _, kind := range []skin.EntityKind{skin.KindProperty, skin.KindService, skin.KindTeamMember} {
		out.Cards[string(kind)] = rd.skin.CardStyleFor(kind)
	}
	return out
}

func nonNil(props []model.Property) []model.Property {
	if props == nil {
		return []model.Property{}
	}
	return props
}

// Content godoc
//
//	@Summary		Get composed site content
//	@Description	Returns the composed, render-ready site as JSON for clients that draw it themselves.
//	@Tags			Sites
//	@Param			slug path string true "Tenant slug"
//	@Success		200 {object} handler.SiteContent
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/sites/{slug}/content [get]
func (h *Site) Content(w http.ResponseWriter, r *http.Request) {
	rd, err := h.prepare(r.Context(), chi.URLParam(r, "slug"), true)
	if err != nil {
		writeSiteError(w, r, err)
		return
	}
	markDegraded(w, rd)
	response.WriteJSON(w, http.StatusOK, siteContent(rd))
}

// TemplateInfo describes one selectable skin.
type TemplateInfo struct {
	ID      model.TemplateID          `json:"id"`
	Default bool                      `json:"default"`
	Cards   map[string]skin.CardStyle `json:"cards"`
}

// Templates godoc
//
//	@Summary		List templates
//	@Description	Lists the selectable skins with their card styles.
//	@Tags			Templates
//	@Success		200 {array} handler.TemplateInfo
//	@Router			/templates [get]
func (h *Site) Templates(w http.ResponseWriter, r *http.Request) {
	ids := skin.IDs()
	out := make([]TemplateInfo, 0, len(ids))
	for _, id := range ids {
		st := skin.Resolve(id)
		info := TemplateInfo{ID: id, Default: id == skin.Fallback, Cards: map[string]skin.CardStyle{}}
		for _, kind := range []skin.EntityKind{skin.KindProperty, skin.KindService, skin.KindTeamMember} {
			info.Cards[string(kind)] = st.CardStyleFor(kind)
		}
		out = append(out, info)
	}
	response.WriteJSON(w, http.StatusOK, out)
}

// WithClock pins the render time, used for the footer year.
func (h *Site) WithClock(now func() time.Time) *Site {
	h.clock = now
	return h
}
