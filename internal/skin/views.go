package skin

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/edvin/agencysites/internal/model"
)

type navData struct {
	Name    string
	Home    string
	LogoURL string
	Links   []Link
}

type footerData struct {
	Name      string
	Contact   model.Contact
	Links     []Link
	Social    []Link
	Year      int
	Complaint *Link
}

type heroData struct {
	Title    string
	Subtitle string
	Image    string
	CTALabel string
	CTAHref  string
}

type listingData struct {
	Title    string
	Subtitle string
	Cards    []propertyCard
	Style    template.CSS
	Columns  int
	Mono     bool
}

type propertyCard struct {
	Title    string
	Price    string
	Location string
	Beds     int
	Baths    int
	Area     string
	Image    string
	Href     string
	Style    template.CSS
	Mono     bool
}

type aboutData struct {
	Title string
	Body  string
	Image string
}

type servicesData struct {
	Title   string
	Items   []serviceItem
	Style   template.CSS
	Columns int
}

type serviceItem struct {
	Number      int
	Title       string
	Description string
	Icon        string
}

type ctaData struct {
	Title string
	Body  string
	Label string
	Href  string
}

func navOf(v View) navData {
	return navData{Name: v.TenantName, Home: v.Href("/", false), LogoURL: v.LogoURL, Links: v.links(v.Main)}
}

func footerOf(v View) footerData {
	f := footerData{Name: v.TenantName, Contact: v.Contact, Links: v.links(v.Footer), Year: v.Year}
	if s := v.Social; s != nil {
		for _, l := range []Link{
			{Label: "Facebook", Href: s.Facebook},
			{Label: "Instagram", Href: s.Instagram},
			{Label: "LinkedIn", Href: s.LinkedIn},
			{Label: "WhatsApp", Href: s.WhatsApp},
		} {
			if l.Href != "" {
				l.External = true
				f.Social = append(f.Social, l)
			}
		}
		if s.ComplaintsBook != "" {
			f.Complaint = &Link{Label: "Complaints book", Href: s.ComplaintsBook, External: true}
		}
	}
	return f
}

func heroOf(v View, s model.Section) heroData {
	return heroData{
		Title:    str(s.Content, "title"),
		Subtitle: str(s.Content, "subtitle"),
		Image:    str(s.Content, "image"),
		CTALabel: str(s.Content, "cta_label"),
		CTAHref:  v.Href(str(s.Content, "cta_path"), false),
	}
}

func listingOf(v View, s model.Section, props []model.Property, style CardStyle) listingData {
	limit := num(s.Content, "limit")
	if limit > 0 && len(props) > limit {
		props = props[:limit]
	}
	cards := make([]propertyCard, 0, len(props))
	for _, p := range props {
		c := cardOf(v, p)
		c.Style = style.css()
		c.Mono = style.Monochrome
		cards = append(cards, c)
	}
	return listingData{
		Title:    str(s.Content, "title"),
		Subtitle: str(s.Content, "subtitle"),
		Cards:    cards,
		Style:    style.css(),
		Columns:  style.Columns,
		Mono:     style.Monochrome,
	}
}

func cardOf(v View, p model.Property) propertyCard {
	href := p.Path
	if href == "" {
		href = "/properties/" + p.ID
	}
	return propertyCard{
		Title:    p.Title,
		Price:    FormatPrice(p.Price, p.Currency),
		Location: p.Location,
		Beds:     p.Bedrooms,
		Baths:    p.Bathrooms,
		Area:     FormatArea(p.AreaM2),
		Image:    p.Image,
		Href:     v.Href(href, false),
	}
}

func aboutOf(s model.Section) aboutData {
	return aboutData{
		Title: str(s.Content, "title"),
		Body:  str(s.Content, "body"),
		Image: str(s.Content, "image"),
	}
}

func servicesOf(s model.Section, style CardStyle) servicesData {
	d := servicesData{Title: str(s.Content, "title"), Style: style.css(), Columns: style.Columns}
	items, _ := s.Content["items"].([]any)
	for i, raw := range items {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		d.Items = append(d.Items, serviceItem{
			Number:      i + 1,
			Title:       str(m, "title"),
			Description: str(m, "description"),
			Icon:        str(m, "icon"),
		})
	}
	return d
}

func ctaOf(v View, s model.Section) ctaData {
	return ctaData{
		Title: str(s.Content, "title"),
		Body:  str(s.Content, "body"),
		Label: str(s.Content, "button_label"),
		Href:  v.Href(str(s.Content, "button_path"), false),
	}
}

func (c CardStyle) css() template.CSS {
	return template.CSS(fmt.Sprintf("aspect-ratio:%s;border-radius:%s", c.AspectRatio, c.Radius))
}

// str reads a string field from a content bag. Non-string scalars are
// formatted; anything else reads as empty.
func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func num(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}
