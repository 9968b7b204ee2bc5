package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/logger"
)

// RequestLogger logs one line per request, at warn level for 4xx and error level for 5xx
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}

			ipAddress := r.RemoteAddr
			if cloudflareConnectingIP := r.Header.Get("CF-Connecting-IP"); cloudflareConnectingIP != "" {
				ipAddress = cloudflareConnectingIP
			}

			fields := []interface{}{
				"status", code,
				"method", r.Method,
				"path", r.URL.Path,
				"ip", ipAddress,
				"latency", time.Since(startTime).String(),
				"bytes", ww.BytesWritten(),
				"user-agent", r.UserAgent(),
			}
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				fields = append(fields, "request_id", reqID)
			}

			switch {
			case code >= http.StatusBadRequest && code < http.StatusInternalServerError:
				log.Warn("HTTP Request", fields...)
			case code >= http.StatusInternalServerError:
				log.Error("HTTP Request", fields...)
			default:
				log.Info("HTTP Request", fields...)
			}
		})
	}
}
