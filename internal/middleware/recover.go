package middleware

import (
	"fmt"
	"net/http"

	"github.com/skillforge-app/skillforge-backend/internal/logger"
	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

// Recover transforme une panique de handler en 500. Message générique en
// production, trace détaillée seulement en développement.
func Recover(development bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic on %s %s: %v", r.Method, r.URL.Path, rec)
					msg := "internal server error"
					if development {
						msg = fmt.Sprintf("internal server error: %v", rec)
					}
					utils.Error(w, http.StatusInternalServerError, msg)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
