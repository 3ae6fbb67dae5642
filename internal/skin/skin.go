// Package skin renders a tenant's composed content through one of a closed
// set of visual templates. Every skin reads the same View and section list
// and carries the same information; only presentation differs. Skins are
// stateless and never read or write tenant data beyond what they are given.
package skin

import (
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/model"
)

// EntityKind is a kind of card a skin lays out.
type EntityKind string

const (
	KindProperty   EntityKind = "property"
	KindService    EntityKind = "service"
	KindTeamMember EntityKind = "team_member"
)

// CardStyle is the visual treatment of a card. Semantic fields shown on the
// card are the same for every skin.
type CardStyle struct {
	AspectRatio string `json:"aspect_ratio"`
	Radius      string `json:"radius"`
	Monochrome  bool   `json:"monochrome"`
	Columns     int    `json:"columns"`
}

// Strategy is one skin.
type Strategy interface {
	ID() model.TemplateID
	RenderNav(v View) template.HTML
	// RenderSection returns an empty fragment for section types the skin
	// does not know.
	RenderSection(v View, s model.Section) template.HTML
	RenderFooter(v View) template.HTML
	CardStyleFor(kind EntityKind) CardStyle
}

// Theme holds validated brand colours for one render.
type Theme struct {
	Primary   string
	Secondary string
}

const (
	defaultPrimary   = "#1f4e79"
	defaultSecondary = "#c9a227"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// NewTheme validates brand colours, replacing anything that is not a hex
// colour with the platform default.
func NewTheme(b model.Branding) Theme {
	t := Theme{Primary: defaultPrimary, Secondary: defaultSecondary}
	if hexColor.MatchString(b.PrimaryColor) {
		t.Primary = strings.ToLower(b.PrimaryColor)
	}
	if hexColor.MatchString(b.SecondaryColor) {
		t.Secondary = strings.ToLower(b.SecondaryColor)
	}
	return t
}

// CSS renders the theme as custom properties for the document root.
func (t Theme) CSS() template.CSS {
	return template.CSS("--color-primary:" + t.Primary + ";--color-secondary:" + t.Secondary)
}

// View is everything a skin may read for one render. Featured and Recent
// are supplied by the caller; skins never fetch.
type View struct {
	TenantName string
	Slug       string
	BasePath   string
	LogoURL    string
	Theme      Theme
	Contact    model.Contact
	Main       []model.MenuItem
	Footer     []model.MenuItem
	Social     *model.Social
	Featured   []model.Property
	Recent     []model.Property
	Year       int
}

// NewView builds a View from a tenant snapshot. basePath prefixes internal
// links, e.g. "/sites/casa" or "" on a custom domain.
func NewView(t *model.Tenant, basePath string, now time.Time) View {
	v := View{
		TenantName: t.Name,
		Slug:       t.Slug,
		BasePath:   strings.TrimRight(basePath, "/"),
		LogoURL:    t.Branding.Logo,
		Theme:      NewTheme(t.Branding),
		Contact:    t.Contact,
		Year:       now.Year(),
	}
	if t.Content != nil {
		v.Main = content.SortedMenu(t.Content.Menus.Main)
		v.Footer = content.SortedMenu(t.Content.Menus.Footer)
		v.Social = t.Content.Social
	}
	return v
}

// Link is a resolved anchor.
type Link struct {
	Label    string
	Href     string
	External bool
}

// Href resolves a stored path. The stored external flag decides; the shape
// of the path is never consulted.
func (v View) Href(path string, external bool) string {
	if external {
		return path
	}
	if strings.HasPrefix(path, "/") {
		if path == "/" {
			return v.BasePath + "/"
		}
		return v.BasePath + path
	}
	return path
}

func (v View) links(items []model.MenuItem) []Link {
	out := make([]Link, 0, len(items))
	for _, it := range items {
		out = append(out, Link{Label: it.Label, Href: v.Href(it.Path, it.IsExternal), External: it.IsExternal})
	}
	return out
}
