package middleware

import (
	"net/http"

	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

// MaxBodyBytes est le plafond dur sur la taille d'un corps de requête
const MaxBodyBytes = 5 << 20 // 5 MB

// BodyLimit rejette les corps trop gros à deux niveaux: pré-vérification
// du Content-Length avant tout traitement, puis plafond dur imposé au
// parseur via MaxBytesReader pour les clients qui mentent sur la taille
func BodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > MaxBodyBytes {
			utils.JSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": "Payload too large",
			})
			return
		}
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}
