package middleware

import (
	"net/http"

	"github.com/skillforge-app/skillforge-backend/internal/respcache"
)

// Directives Cache-Control par classe de lecture
const (
	cacheControlLong    = "public, max-age=300, s-maxage=600" // agrégats: leaderboard, feed, arènes
	cacheControlShort   = "private, max-age=60"               // lectures liées à un utilisateur
	cacheControlDefault = "public, max-age=300"
)

// CacheControl pose la directive correspondant à la classe de la route
func CacheControl(class respcache.Class) func(http.Handler) http.Handler {
	directive := cacheControlDefault
	switch class {
	case respcache.ClassLong:
		directive = cacheControlLong
	case respcache.ClassShort:
		directive = cacheControlShort
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", directive)
			next.ServeHTTP(w, r)
		})
	}
}
