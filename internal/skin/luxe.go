package skin

import (
	"html/template"

	"github.com/edvin/agencysites/internal/model"
)

// luxeSkin is a monochrome gallery layout for high-end listings.
type luxeSkin struct{ base }

func newLuxe() *luxeSkin {
	return &luxeSkin{base: mustBase(model.TemplateLuxe)}
}

func (s *luxeSkin) ID() model.TemplateID { return model.TemplateLuxe }

func (s *luxeSkin) RenderNav(v View) template.HTML { return s.nav(v) }

func (s *luxeSkin) RenderSection(v View, sec model.Section) template.HTML {
	return s.section(s, v, sec)
}

func (s *luxeSkin) RenderFooter(v View) template.HTML { return s.footer(v) }

func (s *luxeSkin) CardStyleFor(kind EntityKind) CardStyle {
	switch kind {
	case KindProperty:
		return CardStyle{AspectRatio: "2/3", Radius: "0", Monochrome: true, Columns: 3}
	case KindService:
		return CardStyle{AspectRatio: "auto", Radius: "0", Monochrome: true, Columns: 1}
	case KindTeamMember:
		return CardStyle{AspectRatio: "2/3", Radius: "0", Monochrome: true, Columns: 3}
	}
	return CardStyle{AspectRatio: "2/3", Radius: "0", Monochrome: true, Columns: 3}
}
