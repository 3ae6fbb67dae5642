package skin

import (
	"html/template"

	"github.com/edvin/agencysites/internal/model"
)

// canvasSkin is a minimal editorial layout with open whitespace.
type canvasSkin struct{ base }

func newCanvas() *canvasSkin {
	return &canvasSkin{base: mustBase(model.TemplateCanvas)}
}

func (s *canvasSkin) ID() model.TemplateID { return model.TemplateCanvas }

func (s *canvasSkin) RenderNav(v View) template.HTML { return s.nav(v) }

func (s *canvasSkin) RenderSection(v View, sec model.Section) template.HTML {
	return s.section(s, v, sec)
}

func (s *canvasSkin) RenderFooter(v View) template.HTML { return s.footer(v) }

func (s *canvasSkin) CardStyleFor(kind EntityKind) CardStyle {
	switch kind {
	case KindProperty:
		return CardStyle{AspectRatio: "3/2", Radius: "0", Columns: 2}
	case KindService:
		return CardStyle{AspectRatio: "auto", Radius: "0", Columns: 1}
	case KindTeamMember:
		return CardStyle{AspectRatio: "3/4", Radius: "0", Columns: 3}
	}
	return CardStyle{AspectRatio: "3/2", Radius: "0", Columns: 2}
}
