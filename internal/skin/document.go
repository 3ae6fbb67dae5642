package skin

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/edvin/agencysites/internal/model"
)

var layout = template.Must(template.New("layout").ParseFS(templateFS, "templates/partials.html", "templates/layout.html"))

type documentData struct {
	Lang     string
	Title    string
	Skin     model.TemplateID
	ThemeCSS template.CSS
	Nav      template.HTML
	Body     []template.HTML
	Footer   template.HTML
}

type pageData struct {
	Slug        string
	Title       string
	Body        template.HTML
	Mission     string
	Vision      string
	Values      []string
	Gallery     []string
	Team        []teamCard
	TeamColumns int
}

type teamCard struct {
	Name  string
	Role  string
	Photo string
	Style template.CSS
	Mono  bool
}

// RenderHome assembles the home document from composed sections. Sections
// the skin does not know render as nothing.
func RenderHome(st Strategy, v View, sections []model.Section) (template.HTML, error) {
	body := make([]template.HTML, 0, len(sections))
	for _, s := range sections {
		if html := st.RenderSection(v, s); html != "" {
			body = append(body, html)
		}
	}
	return document(st, v, v.TenantName, body)
}

// RenderPage assembles a content page document.
func RenderPage(st Strategy, v View, p model.Page) (template.HTML, error) {
	style := st.CardStyleFor(KindTeamMember)
	d := pageData{
		Slug:        p.Slug,
		Title:       p.Title,
		Body:        Markdown(p.ContentMD),
		Mission:     p.Mission,
		Vision:      p.Vision,
		Values:      p.Values,
		Gallery:     p.Gallery,
		TeamColumns: style.Columns,
	}
	for _, m := range p.Team {
		d.Team = append(d.Team, teamCard{Name: m.Name, Role: m.Role, Photo: m.Photo, Style: style.css(), Mono: style.Monochrome})
	}
	var buf bytes.Buffer
	if err := layout.ExecuteTemplate(&buf, "page", d); err != nil {
		return "", fmt.Errorf("render page %q: %w", p.Slug, err)
	}
	title := v.TenantName
	if p.Title != "" {
		title = p.Title + " | " + v.TenantName
	}
	return document(st, v, title, []template.HTML{template.HTML(buf.String())})
}

func document(st Strategy, v View, title string, body []template.HTML) (template.HTML, error) {
	d := documentData{
		Lang:     "en",
		Title:    title,
		Skin:     st.ID(),
		ThemeCSS: v.Theme.CSS(),
		Nav:      st.RenderNav(v),
		Body:     body,
		Footer:   st.RenderFooter(v),
	}
	var buf bytes.Buffer
	if err := layout.ExecuteTemplate(&buf, "document", d); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return template.HTML(buf.String()), nil
}
