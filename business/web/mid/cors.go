// Package mid contains the set of middleware functions.
package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/powchain/foundation/web"
)

// AnyOrigin allows browser clients served from any origin to call the node.
const AnyOrigin = "*"

// Cors allows browser clients served from the specified origin to call the
// node's public API. An empty origin is treated as AnyOrigin. The node only
// serves GET and POST routes with JSON bodies, so nothing else is advertised.
func Cors(origin string) web.Middleware {
	if origin == "" {
		origin = AnyOrigin
	}

	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			hdr := w.Header()
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			hdr.Set("Access-Control-Allow-Headers", "Accept, Content-Type")

			// Caches must not hand a response for one origin to another.
			if origin != AnyOrigin {
				hdr.Add("Vary", "Origin")
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
