package skin

import (
	"html/template"

	"github.com/edvin/agencysites/internal/model"
)

// prestigeSkin is a dark formal layout with wide framed photography.
type prestigeSkin struct{ base }

func newPrestige() *prestigeSkin {
	return &prestigeSkin{base: mustBase(model.TemplatePrestige)}
}

func (s *prestigeSkin) ID() model.TemplateID { return model.TemplatePrestige }

func (s *prestigeSkin) RenderNav(v View) template.HTML { return s.nav(v) }

func (s *prestigeSkin) RenderSection(v View, sec model.Section) template.HTML {
	return s.section(s, v, sec)
}

func (s *prestigeSkin) RenderFooter(v View) template.HTML { return s.footer(v) }

func (s *prestigeSkin) CardStyleFor(kind EntityKind) CardStyle {
	switch kind {
	case KindProperty:
		return CardStyle{AspectRatio: "16/10", Radius: "2px", Columns: 2}
	case KindService:
		return CardStyle{AspectRatio: "auto", Radius: "2px", Columns: 3}
	case KindTeamMember:
		return CardStyle{AspectRatio: "4/5", Radius: "2px", Columns: 3}
	}
	return CardStyle{AspectRatio: "16/10", Radius: "2px", Columns: 2}
}
