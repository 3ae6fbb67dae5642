package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/edvin/agencysites/internal/content"
)

var validate = validator.New()

func init() {
	validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return content.ValidSlug(fl.Field().String())
	})
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// RequireIndex parses a non-negative list position from a URL parameter.
func RequireIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return i, nil
}
