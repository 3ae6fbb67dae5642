package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/edvin/agencysites/internal/model"
)

//go:embed demo.yaml
var demoDocument []byte

// DemoSlug is the slug of the built-in demo agency.
const DemoSlug = "demo"

func init() {
	if _, err := decodeDemo(); err != nil {
		panic(fmt.Sprintf("content: embedded demo tenant: %v", err))
	}
}

func decodeDemo() (model.Tenant, error) {
	var t model.Tenant
	if err := yaml.Unmarshal(demoDocument, &t); err != nil {
		return model.Tenant{}, err
	}
	if t.Content == nil {
		return model.Tenant{}, fmt.Errorf("demo tenant has no content")
	}
	return t, nil
}

// DemoTenant returns a fresh copy of the demo agency. It is the fallback
// whenever the store cannot deliver a tenant in time.
func DemoTenant() model.Tenant {
	t, _ := decodeDemo()
	return t
}

// DefaultContent returns a fresh copy of the demo agency's content, used to
// seed tenants that have none.
func DefaultContent() *model.ContentModel {
	t, _ := decodeDemo()
	return t.Content
}

// EnsureContent fills in the default content when a tenant has none.
func EnsureContent(t *model.Tenant) {
	if t.Content == nil {
		t.Content = DefaultContent()
	}
}
