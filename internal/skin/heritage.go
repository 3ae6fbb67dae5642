package skin

import (
	"html/template"

	"github.com/edvin/agencysites/internal/model"
)

// heritageSkin is a warm classic layout with framed cards and a serif voice.
type heritageSkin struct{ base }

func newHeritage() *heritageSkin {
	return &heritageSkin{base: mustBase(model.TemplateHeritage)}
}

func (s *heritageSkin) ID() model.TemplateID { return model.TemplateHeritage }

func (s *heritageSkin) RenderNav(v View) template.HTML { return s.nav(v) }

func (s *heritageSkin) RenderSection(v View, sec model.Section) template.HTML {
	return s.section(s, v, sec)
}

func (s *heritageSkin) RenderFooter(v View) template.HTML { return s.footer(v) }

func (s *heritageSkin) CardStyleFor(kind EntityKind) CardStyle {
	switch kind {
	case KindProperty:
		return CardStyle{AspectRatio: "4/3", Radius: "8px", Columns: 3}
	case KindService:
		return CardStyle{AspectRatio: "1/1", Radius: "8px", Columns: 3}
	case KindTeamMember:
		return CardStyle{AspectRatio: "1/1", Radius: "50%", Columns: 4}
	}
	return CardStyle{AspectRatio: "4/3", Radius: "8px", Columns: 3}
}
