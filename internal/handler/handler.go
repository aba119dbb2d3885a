package handler

import (
	"net/http"
	"time"

	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

// HealthCheck répond toujours en direct, jamais depuis un cache
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	utils.JSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
