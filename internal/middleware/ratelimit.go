package middleware

import (
	"net/http"
	"strconv"

	"github.com/skillforge-app/skillforge-backend/internal/ratelimit"
	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

// RateLimit rejette en 429 les clients qui dépassent leur fenêtre.
// Le limiteur est injecté, pas une map globale: chaque test peut
// construire le sien. Corps et header imposés par le contrat d'API.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verdict := limiter.Admit(utils.ClientIP(r))
			if !verdict.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(verdict.RetryAfter))
				utils.JSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "Too many requests. Try again later.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
