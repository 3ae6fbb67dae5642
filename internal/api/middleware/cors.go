package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// DegradedHeader marks responses rendered from demo content because the
// tenant store was unavailable. Public clients may read it cross-origin.
const DegradedHeader = "X-Content-Degraded"

var corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// CORS answers cross-origin requests against routes. Paths under one of
// publicPrefixes are open to every origin without credentials, so agencies
// can read their site content from their own domains. Everything else is
// limited to adminOrigins with credentials. Preflights advertise only the
// methods routes serves for the requested path.
func CORS(routes chi.Routes, adminOrigins []string, publicPrefixes ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(adminOrigins))
	for _, o := range adminOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	isPublic := func(path string) bool {
		for _, p := range publicPrefixes {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			public := isPublic(r.URL.Path)

			if origin != "" && (public || allowed[origin]) {
				h := w.Header()
				h.Add("Vary", "Origin")
				if public {
					h.Set("Access-Control-Allow-Origin", "*")
					h.Set("Access-Control-Expose-Headers", DegradedHeader)
				} else {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if preflight {
					if methods := methodsFor(routes, r.URL.Path); len(methods) > 0 {
						h.Set("Access-Control-Allow-Methods", strings.Join(append(methods, http.MethodOptions), ", "))
						h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
						h.Set("Access-Control-Max-Age", "86400")
					}
				}
			}

			if preflight {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func methodsFor(routes chi.Routes, path string) []string {
	if routes == nil {
		return nil
	}
	var out []string
	for _, m := range corsMethods {
		if routes.Match(chi.NewRouteContext(), m, path) {
			out = append(out, m)
		}
	}
	return out
}
