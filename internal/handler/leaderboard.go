package handler

import (
	"net/http"
	"strconv"

	"github.com/skillforge-app/skillforge-backend/internal/database"
	"github.com/skillforge-app/skillforge-backend/internal/dedupe"
	"github.com/skillforge-app/skillforge-backend/internal/ranking"
	"github.com/skillforge-app/skillforge-backend/internal/respcache"
	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

const defaultLeaderboardLimit = 50

// GetLeaderboard renvoie le classement global par XP. Les rangs sont
// attribués en Go sur l'ensemble des lignes jusqu'à offset+limit, puis
// découpés: un ex aequo à cheval sur la page garde ainsi son vrai rang.
func GetLeaderboard(cache *respcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := dedupe.Key(r.Method, r.URL.Path, r.URL.Query())
		if cached, ok := cache.Get(key); ok {
			utils.Success(w, cached)
			return
		}

		limit := queryInt(r, "limit", defaultLeaderboardLimit)
		offset := queryInt(r, "offset", 0)
		if limit <= 0 || limit > 200 {
			limit = defaultLeaderboardLimit
		}
		if offset < 0 {
			offset = 0
		}

		rows, err := database.DB.Query(r.Context(), `
			SELECT u.id, u.name, COALESCE(u.avatar, ''), u.xp
			FROM users u
			WHERE u.deleted_at IS NULL
			ORDER BY u.xp DESC, u.id ASC
			LIMIT $1
		`, offset+limit)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not query leaderboard", err)
			return
		}
		defer rows.Close()

		scores := []ranking.UserScore{}
		for rows.Next() {
			var s ranking.UserScore
			if err := rows.Scan(&s.UserID, &s.UserName, &s.Avatar, &s.Score); err != nil {
				utils.Error(w, http.StatusInternalServerError, "could not scan leaderboard row", err)
				return
			}
			scores = append(scores, s)
		}

		entries := ranking.Rank(scores)
		if offset >= len(entries) {
			entries = []ranking.Entry{}
		} else {
			entries = entries[offset:]
		}

		cache.Set(key, entries, respcache.ClassLong)
		utils.Success(w, entries)
	}
}

// GetPodium renvoie les trois premiers dans l'ordre d'affichage
// (rang 2, rang 1, rang 3)
func GetPodium(cache *respcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := dedupe.Key(r.Method, r.URL.Path, r.URL.Query())
		if cached, ok := cache.Get(key); ok {
			utils.Success(w, cached)
			return
		}

		// On lit un peu plus que trois lignes: des ex aequo en tête
		// peuvent décaler le rang 3
		rows, err := database.DB.Query(r.Context(), `
			SELECT u.id, u.name, COALESCE(u.avatar, ''), u.xp
			FROM users u
			WHERE u.deleted_at IS NULL
			ORDER BY u.xp DESC, u.id ASC
			LIMIT 10
		`)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not query podium", err)
			return
		}
		defer rows.Close()

		scores := []ranking.UserScore{}
		for rows.Next() {
			var s ranking.UserScore
			if err := rows.Scan(&s.UserID, &s.UserName, &s.Avatar, &s.Score); err != nil {
				utils.Error(w, http.StatusInternalServerError, "could not scan podium row", err)
				return
			}
			scores = append(scores, s)
		}

		entries := ranking.Rank(scores)
		if len(entries) > 3 {
			entries = entries[:3]
		}
		podium := ranking.Podium(entries)

		cache.Set(key, podium, respcache.ClassLong)
		utils.Success(w, podium)
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
