package kit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouteLabel returns the matched chi route pattern. Requests that matched
// nothing share one label so unknown paths cannot grow metric cardinality.
func RouteLabel(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if rp := rc.RoutePattern(); rp != "" {
			return rp
		}
	}
	return "unmatched"
}
