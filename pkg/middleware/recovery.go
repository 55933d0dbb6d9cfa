package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/wasgeurtjeNL/storefront-session/pkg/httputil"
)

// Recovery converts a handler panic into a 500 response in the standard
// error envelope. The panic value and stack are logged; neither reaches the
// response body. It must be the outermost middleware so that panics in the
// rest of the chain are caught too.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)

					httputil.WriteJSON(w, http.StatusInternalServerError, httputil.Response{
						Error: &httputil.ErrorResponse{
							Code:    "INTERNAL_ERROR",
							Message: "an internal error occurred",
						},
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
