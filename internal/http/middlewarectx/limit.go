package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/docupress/entitlement-service/internal/http/response"
)

// bootstrap администратора — редкая ручная операция; частые вызовы
// означают перебор и должны быть видны.
var bootstrapLimiter = rate.NewLimiter(rate.Limit(0.2), 3)

// AdminRateLimitMiddleware ограничивает частоту обращений к bootstrap
// администратора и логирует превышения.
func AdminRateLimitMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !bootstrapLimiter.Allow() {
				log.Error("admin bootstrap rate limit exceeded",
					slog.String("remote_addr", r.RemoteAddr))
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
