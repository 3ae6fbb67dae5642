package skin

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/edvin/agencysites/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// base holds the parsed template set of one skin. The shared partials
// (property card, team card) are parsed into every set so card fields stay
// identical across skins.
type base struct {
	tmpl *template.Template
}

func mustBase(id model.TemplateID) base {
	t, err := template.New(string(id)).ParseFS(templateFS, "templates/partials.html", "templates/"+string(id)+".html")
	if err != nil {
		panic(fmt.Sprintf("skin %s: parse templates: %v", id, err))
	}
	return base{tmpl: t}
}

// exec renders a named template. A failing template yields an empty
// fragment rather than a partial one.
func (b base) exec(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := b.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}

func (b base) nav(v View) template.HTML {
	return b.exec("nav", navOf(v))
}

func (b base) footer(v View) template.HTML {
	return b.exec("footer", footerOf(v))
}

// section renders one homepage block. Card styles come from the owning skin
// so the shared partials pick up its treatment.
func (b base) section(st Strategy, v View, s model.Section) template.HTML {
	switch s.Type {
	case model.SectionHero:
		return b.exec("hero", heroOf(v, s))
	case model.SectionFeatured:
		return b.exec("featured", listingOf(v, s, v.Featured, st.CardStyleFor(KindProperty)))
	case model.SectionRecent:
		return b.exec("recent", listingOf(v, s, v.Recent, st.CardStyleFor(KindProperty)))
	case model.SectionAboutMini:
		return b.exec("about_mini", aboutOf(s))
	case model.SectionServices:
		return b.exec("services", servicesOf(s, st.CardStyleFor(KindService)))
	case model.SectionCTA:
		return b.exec("cta", ctaOf(v, s))
	}
	return ""
}
