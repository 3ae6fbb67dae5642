package content

import "github.com/edvin/agencysites/internal/model"

const defaultListingLimit = 6

// Needs describes the catalog data a composed sequence wants. The caller
// fetches it; the composer never does.
type Needs struct {
	Featured      bool
	FeaturedLimit int
	Recent        bool
	RecentLimit   int
}

// DataNeeds inspects composed sections for featured and recent blocks.
func DataNeeds(sections []model.Section) Needs {
	var n Needs
	for _, s := range sections {
		switch s.Type {
		case model.SectionFeatured:
			n.Featured = true
			n.FeaturedLimit = max(n.FeaturedLimit, limitOf(s))
		case model.SectionRecent:
			n.Recent = true
			n.RecentLimit = max(n.RecentLimit, limitOf(s))
		}
	}
	return n
}

func limitOf(s model.Section) int {
	switch v := s.Content["limit"].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return defaultListingLimit
}
