package skin

import (
	"html/template"

	"github.com/edvin/agencysites/internal/model"
)

// skylineSkin is a modern grid layout for urban portfolios.
type skylineSkin struct{ base }

func newSkyline() *skylineSkin {
	return &skylineSkin{base: mustBase(model.TemplateSkyline)}
}

func (s *skylineSkin) ID() model.TemplateID { return model.TemplateSkyline }

func (s *skylineSkin) RenderNav(v View) template.HTML { return s.nav(v) }

func (s *skylineSkin) RenderSection(v View, sec model.Section) template.HTML {
	return s.section(s, v, sec)
}

func (s *skylineSkin) RenderFooter(v View) template.HTML { return s.footer(v) }

func (s *skylineSkin) CardStyleFor(kind EntityKind) CardStyle {
	switch kind {
	case KindProperty:
		return CardStyle{AspectRatio: "16/9", Radius: "14px", Columns: 4}
	case KindService:
		return CardStyle{AspectRatio: "auto", Radius: "14px", Columns: 4}
	case KindTeamMember:
		return CardStyle{AspectRatio: "1/1", Radius: "14px", Columns: 4}
	}
	return CardStyle{AspectRatio: "16/9", Radius: "14px", Columns: 4}
}
