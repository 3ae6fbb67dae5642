package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/model"
)

// maxRepairs bounds how many mistyped fields one document may carry before
// it is treated as unreadable.
const maxRepairs = 64

// DecodeTenant parses a stored tenant document. Fields written with the
// wrong JSON type (a numeric plan_id, a string order) are coerced to the
// expected type when the value converts cleanly and dropped otherwise, so
// one legacy field never hides the rest of the tenant. Only a document that
// is not a JSON object at all is an error.
func DecodeTenant(ctx context.Context, doc []byte) (*model.Tenant, error) {
	t, repaired, err := decodeTenant(doc)
	if err != nil {
		return nil, fmt.Errorf("decode tenant: %w", err)
	}
	if len(repaired) > 0 {
		zerolog.Ctx(ctx).Warn().
			Str("tenant_id", t.ID).
			Str("slug", t.Slug).
			Strs("fields", repaired).
			Msg("tenant document has mistyped fields")
	}
	return t, nil
}

func decodeTenant(doc []byte) (*model.Tenant, []string, error) {
	var (
		tree     any
		repaired []string
		data     = doc
	)
	for {
		var t model.Tenant
		err := json.Unmarshal(data, &t)
		if err == nil {
			content.EnsureContent(&t)
			return &t, repaired, nil
		}

		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || typeErr.Field == "" || len(repaired) == maxRepairs {
			return nil, repaired, err
		}
		if tree == nil {
			dec := json.NewDecoder(bytes.NewReader(doc))
			dec.UseNumber()
			if err := dec.Decode(&tree); err != nil {
				return nil, repaired, err
			}
		}
		if !repairField(tree, strings.Split(typeErr.Field, "."), typeErr.Type) {
			return nil, repaired, err
		}
		repaired = append(repaired, typeErr.Field)

		if data, err = json.Marshal(tree); err != nil {
			return nil, repaired, err
		}
	}
}

// repairField coerces or removes the value at path. Arrays along the path
// are walked element by element since decode errors carry no indices.
func repairField(node any, path []string, want reflect.Type) bool {
	switch n := node.(type) {
	case []any:
		changed := false
		for _, el := range n {
			if repairField(el, path, want) {
				changed = true
			}
		}
		return changed
	case map[string]any:
		v, ok := n[path[0]]
		if !ok {
			return false
		}
		if len(path) > 1 {
			return repairField(v, path[1:], want)
		}
		if arr, isArr := v.([]any); isArr && want.Kind() != reflect.Slice && want.Kind() != reflect.Array {
			n[path[0]] = repairElements(arr, want)
			return true
		}
		if fitsKind(v, want) {
			return false
		}
		if fixed, ok := coerce(v, want); ok {
			n[path[0]] = fixed
		} else {
			delete(n, path[0])
		}
		return true
	}
	return false
}

func repairElements(arr []any, want reflect.Type) []any {
	out := make([]any, 0, len(arr))
	for _, el := range arr {
		if fitsKind(el, want) {
			out = append(out, el)
			continue
		}
		if fixed, ok := coerce(el, want); ok {
			out = append(out, fixed)
		}
	}
	return out
}

// fitsKind reports whether v already decodes into want.
func fitsKind(v any, want reflect.Type) bool {
	switch x := v.(type) {
	case string:
		return want.Kind() == reflect.String
	case bool:
		return want.Kind() == reflect.Bool
	case json.Number:
		if !isNumberKind(want.Kind()) {
			return false
		}
		if isFloatKind(want.Kind()) {
			return true
		}
		i, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil {
			return false
		}
		_, ok := fitInt(i, want)
		return ok
	case map[string]any:
		return want.Kind() == reflect.Struct || want.Kind() == reflect.Map || want.Kind() == reflect.Interface
	}
	return false
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// coerce converts scalar v to the kind of want when that is lossless.
func coerce(v any, want reflect.Type) (any, bool) {
	switch want.Kind() {
	case reflect.String:
		switch s := v.(type) {
		case json.Number:
			return s.String(), true
		case bool:
			return strconv.FormatBool(s), true
		}
	case reflect.Bool:
		switch s := v.(type) {
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			return b, err == nil
		case json.Number:
			b, err := strconv.ParseBool(s.String())
			return b, err == nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var text string
		switch s := v.(type) {
		case string:
			text = strings.TrimSpace(s)
		case json.Number:
			text = s.String()
		default:
			return nil, false
		}
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return fitInt(i, want)
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return nil, false
		}
		return fitInt(int64(f), want)
	case reflect.Float32, reflect.Float64:
		if s, ok := v.(string); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
				return nil, false
			}
			return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), true
		}
	}
	return nil, false
}

func fitInt(i int64, want reflect.Type) (any, bool) {
	slot := reflect.New(want).Elem()
	switch want.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i < 0 || slot.OverflowUint(uint64(i)) {
			return nil, false
		}
	default:
		if slot.OverflowInt(i) {
			return nil, false
		}
	}
	return json.Number(strconv.FormatInt(i, 10)), true
}
