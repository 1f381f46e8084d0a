package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// panicBody mirrors the error envelope pkg/httputil writes, so a panic
// response looks the same as any other internal error to clients.
var panicBody = []byte(`{"error":{"code":"INTERNAL_ERROR","message":"an internal error occurred"}}` + "\n")

// Recovery converts a handler panic into a JSON 500 response so a single
// bad request cannot take the process down. The stack is logged, never
// returned to the caller.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				l.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write(panicBody)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
