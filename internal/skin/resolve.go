package skin

import "github.com/edvin/agencysites/internal/model"

// Fallback is the skin used for unknown or empty template identifiers.
const Fallback = model.TemplateHeritage

// registry is built once at init and only read afterwards.
var registry = map[model.TemplateID]Strategy{}

var order = []model.TemplateID{
	model.TemplateHeritage,
	model.TemplateCanvas,
	model.TemplatePrestige,
	model.TemplateSkyline,
	model.TemplateLuxe,
}

func init() {
	for _, s := range []Strategy{newHeritage(), newCanvas(), newPrestige(), newSkyline(), newLuxe()} {
		registry[s.ID()] = s
	}
}

// Resolve returns the skin for a template identifier. Empty and unknown
// identifiers resolve to the heritage skin; this never fails.
func Resolve(id model.TemplateID) Strategy {
	if s, ok := registry[id]; ok {
		return s
	}
	return registry[Fallback]
}

// Known reports whether id names a skin without falling back.
func Known(id model.TemplateID) bool {
	_, ok := registry[id]
	return ok
}

// IDs lists every skin in picker order.
func IDs() []model.TemplateID {
	return append([]model.TemplateID(nil), order...)
}
