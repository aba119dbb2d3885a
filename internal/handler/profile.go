package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/skillforge-app/skillforge-backend/internal/database"
	"github.com/skillforge-app/skillforge-backend/internal/dedupe"
	"github.com/skillforge-app/skillforge-backend/internal/middleware"
	"github.com/skillforge-app/skillforge-backend/internal/progression"
	"github.com/skillforge-app/skillforge-backend/internal/respcache"
	"github.com/skillforge-app/skillforge-backend/internal/scanner"
	"github.com/skillforge-app/skillforge-backend/internal/services"
	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

const profileColumns = `
	u.id, u.name, u.email, u.avatar, u.bio,
	u.xp, u.daily_streak, u.last_activity_date, u.clan_id,
	u.join_date, u.created_at, u.updated_at, u.updated_by
`

// GetProfile renvoie le profil public d'un apprenant. Le niveau n'est
// jamais lu en base: il est redérivé de l'XP à chaque lecture. Profil
// volatil (XP, streak), donc classe de cache courte.
func GetProfile(cache *respcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mux.Vars(r)["id"]

		key := dedupe.Key(r.Method, r.URL.Path, r.URL.Query())
		if cached, ok := cache.Get(key); ok {
			utils.Success(w, cached)
			return
		}

		row := database.DB.QueryRow(r.Context(), `
			SELECT `+profileColumns+`
			FROM users u
			WHERE u.id = $1 AND u.deleted_at IS NULL
		`, userID)

		user, err := scanner.ScanLearnerProfile(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				utils.Error(w, http.StatusNotFound, "user not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, "could not fetch profile", err)
			return
		}

		user.Level = progression.LevelFromXP(user.XP)

		cache.Set(key, user, respcache.ClassShort)
		utils.Success(w, user)
	}
}

// GetMe renvoie le profil de l'apprenant authentifié, sans cache
func GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user.Level = progression.LevelFromXP(user.XP)
	utils.Success(w, user)
}

// UploadAvatar téléverse l'avatar de l'apprenant courant sur Cloudinary
// et enregistre l'URL retournée
func UploadAvatar(uploader *services.CloudinaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if uploader == nil {
			utils.Error(w, http.StatusServiceUnavailable, "avatar upload is not configured")
			return
		}

		user, err := middleware.GetUserFromContext(r)
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}

		file, header, err := r.FormFile("avatar")
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "avatar file is required", err)
			return
		}
		defer file.Close()

		url, err := uploader.UploadAvatar(r.Context(), file, user.ID, header.Filename)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not upload avatar", err)
			return
		}

		_, err = database.DB.Exec(r.Context(), `
			UPDATE users SET avatar = $1, updated_at = NOW() WHERE id = $2
		`, url, user.ID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not save avatar url", err)
			return
		}

		utils.Success(w, map[string]string{"avatar": url})
	}
}
