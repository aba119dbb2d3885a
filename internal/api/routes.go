package api

import (
	"net/http"

	"github.com/fatih/color"
	"github.com/gorilla/mux"
	"github.com/skillforge-app/skillforge-backend/internal/dedupe"
	"github.com/skillforge-app/skillforge-backend/internal/handler"
	"github.com/skillforge-app/skillforge-backend/internal/logger"
	"github.com/skillforge-app/skillforge-backend/internal/middleware"
	"github.com/skillforge-app/skillforge-backend/internal/ratelimit"
	"github.com/skillforge-app/skillforge-backend/internal/respcache"
	"github.com/skillforge-app/skillforge-backend/internal/services"
	"github.com/skillforge-app/skillforge-backend/internal/skillblend"
	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

// Deps regroupe les composants construits une fois dans main et
// injectés dans le routeur
type Deps struct {
	Limiter     *ratelimit.Limiter
	Deduper     *dedupe.Deduplicator
	Cache       *respcache.Cache
	Blends      *skillblend.Resolver
	Cloudinary  *services.CloudinaryService
	Development bool
}

// SetupRouter câble les routes et la chaîne de protection.
// Recover et le logger enveloppent tout le reste: une panique dans le
// bouclier lui-même est rattrapée, et les rejets 413/429 apparaissent
// dans les logs de requêtes comme n'importe quelle réponse.
func SetupRouter(deps Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Recover(deps.Development))
	r.Use(middleware.LoggerMiddleware)
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.BodyLimit)
	r.Use(middleware.RateLimit(deps.Limiter))
	r.Use(middleware.OptionalAuth)

	authenticatedRoutes := r.PathPrefix("/").Subrouter()
	authenticatedRoutes.Use(middleware.AuthMiddleware)

	// Lectures agrégées coûteuses: dédupliquées et cachées côté client.
	// Le Cache-Control est posé en dehors de la déduplication pour que
	// les abonnés d'un calcul partagé reçoivent aussi le header.
	collapsed := func(h http.Handler) http.Handler {
		return middleware.Dedupe(deps.Deduper)(h)
	}
	longCache := middleware.CacheControl(respcache.ClassLong)
	shortCache := middleware.CacheControl(respcache.ClassShort)
	defaultCache := middleware.CacheControl(respcache.ClassDefault)

	// Root - API documentation
	r.HandleFunc("/", handler.RootHandler).Methods(http.MethodGet)

	// Arenas
	r.Handle("/arenas", longCache(collapsed(handler.GetArenas(deps.Cache)))).Methods(http.MethodGet)
	r.Handle("/arenas/{id}", defaultCache(http.HandlerFunc(handler.GetArenaById))).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/arenas/{id}/join", handler.JoinArena).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/arenas/{id}/score", handler.SubmitArenaScore).Methods(http.MethodPost)
	authenticatedRoutes.Handle("/arenas/{id}/banner", handler.UploadArenaBanner(deps.Cloudinary)).Methods(http.MethodPost)
	r.Handle("/arenas/{id}/leaderboard", longCache(collapsed(handler.GetArenaLeaderboard(deps.Cache)))).Methods(http.MethodGet)

	// Quests
	r.Handle("/quests", defaultCache(http.HandlerFunc(handler.GetQuests))).Methods(http.MethodGet)
	r.Handle("/quests/{id}", defaultCache(http.HandlerFunc(handler.GetQuestById))).Methods(http.MethodGet)
	authenticatedRoutes.Handle("/quests/{id}/complete", handler.CompleteQuest(deps.Blends)).Methods(http.MethodPost)

	// Leaderboard
	r.Handle("/leaderboard", longCache(collapsed(handler.GetLeaderboard(deps.Cache)))).Methods(http.MethodGet)
	r.Handle("/leaderboard/podium", longCache(collapsed(handler.GetPodium(deps.Cache)))).Methods(http.MethodGet)

	// Users
	r.Handle("/users/{id}", shortCache(handler.GetProfile(deps.Cache))).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/me", handler.GetMe).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/me/quests", handler.GetMyQuestProgress).Methods(http.MethodGet)
	authenticatedRoutes.Handle("/me/avatar", handler.UploadAvatar(deps.Cloudinary)).Methods(http.MethodPost)

	// Clans
	r.Handle("/clans", defaultCache(http.HandlerFunc(handler.GetClans))).Methods(http.MethodGet)
	r.Handle("/clans/leaderboard", longCache(collapsed(handler.GetClanLeaderboard(deps.Cache)))).Methods(http.MethodGet)

	// Feed
	r.Handle("/feed", longCache(collapsed(handler.GetFeed(deps.Cache)))).Methods(http.MethodGet)

	// Health check - jamais caché, jamais dédupliqué
	r.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Warning("404 Not Found: %s %s", r.Method, r.URL.Path)
		color.Yellow("[404] %s %s (route non trouvée)", r.Method, r.URL.Path)
		utils.Error(w, http.StatusNotFound, "route not found")
	})

	return r
}
