package content

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/edvin/agencysites/internal/model"
)

var validate = validator.New()

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a lowercase, hyphen-separated URL slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// ValidationError lists every problem found in a content model.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid content: " + strings.Join(e.Problems, "; ")
}

// Validate checks a content model before it is saved: field constraints,
// unique section ids, unique menu item ids per menu, and unique URL-safe
// page slugs.
func Validate(cm *model.ContentModel) error {
	if cm == nil {
		return &ValidationError{Problems: []string{"content is required"}}
	}

	var problems []string

	if err := validate.Struct(cm); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	problems = append(problems, duplicates("section id", cm.Sections, func(s model.Section) string { return s.ID })...)
	problems = append(problems, duplicates("main menu id", cm.Menus.Main, func(m model.MenuItem) string { return m.ID })...)
	problems = append(problems, duplicates("footer menu id", cm.Menus.Footer, func(m model.MenuItem) string { return m.ID })...)
	problems = append(problems, duplicates("page slug", cm.Pages, func(p model.Page) string { return p.Slug })...)

	for _, p := range cm.Pages {
		if p.Slug != "" && !ValidSlug(p.Slug) {
			problems = append(problems, fmt.Sprintf("page slug %q is not URL-safe", p.Slug))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func duplicates[T any](what string, items []T, key func(T) string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		k := key(it)
		if k == "" {
			continue
		}
		if seen[k] {
			out = append(out, fmt.Sprintf("duplicate %s %q", what, k))
		}
		seen[k] = true
	}
	return out
}

// LooksExternal reports whether path has the form of an absolute URL.
func LooksExternal(path string) bool {
	if strings.HasPrefix(path, "//") {
		return true
	}
	u, err := url.Parse(path)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "mailto", "tel":
		return true
	}
	return false
}

// ExternalMismatches returns menu items whose IsExternal flag disagrees with
// the shape of their path. They are reported, never corrected.
func ExternalMismatches(cm *model.ContentModel) []model.MenuItem {
	if cm == nil {
		return nil
	}
	var out []model.MenuItem
	for _, list := range [][]model.MenuItem{cm.Menus.Main, cm.Menus.Footer} {
		for _, it := range list {
			if LooksExternal(it.Path) != it.IsExternal {
				out = append(out, it)
			}
		}
	}
	return out
}
