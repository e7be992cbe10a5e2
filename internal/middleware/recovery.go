// file: internal/middleware/recovery.go
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"personahub/internal/contextutils"

	"go.uber.org/zap"
)

// Recovery converts panics into 500 responses and logs the stack trace
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestID := contextutils.GetRequestID(r.Context())

					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("request_id", requestID),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)

					w.Header().Set("Content-Type", "application/json; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprintf(w,
						`{"success":false,"error":{"type":"INTERNAL_ERROR","message":"an internal error occurred"},"request_id":%q}`,
						requestID,
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
