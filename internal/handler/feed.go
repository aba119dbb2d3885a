package handler

import (
	"net/http"

	"github.com/skillforge-app/skillforge-backend/internal/database"
	"github.com/skillforge-app/skillforge-backend/internal/dedupe"
	model "github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/respcache"
	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

// GetFeed renvoie le fil d'activité communautaire, du plus récent au
// plus ancien. Lecture très sollicitée et peu volatile: classe longue.
func GetFeed(cache *respcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := dedupe.Key(r.Method, r.URL.Path, r.URL.Query())
		if cached, ok := cache.Get(key); ok {
			utils.Success(w, cached)
			return
		}

		limit := queryInt(r, "limit", 30)
		if limit <= 0 || limit > 100 {
			limit = 30
		}

		rows, err := database.DB.Query(r.Context(), `
			SELECT f.id, f.user_id, u.name, COALESCE(u.avatar, ''),
				f.kind, f.subject, f.xp_awarded, f.occurred_at
			FROM feed_items f
			INNER JOIN users u ON f.user_id = u.id
			WHERE u.deleted_at IS NULL
			ORDER BY f.occurred_at DESC
			LIMIT $1
		`, limit)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not query feed", err)
			return
		}
		defer rows.Close()

		items := []model.FeedItem{}
		for rows.Next() {
			var it model.FeedItem
			err := rows.Scan(&it.ID, &it.UserID, &it.UserName, &it.Avatar,
				&it.Kind, &it.Subject, &it.XPAwarded, &it.OccurredAt)
			if err != nil {
				utils.Error(w, http.StatusInternalServerError, "could not scan feed row", err)
				return
			}
			items = append(items, it)
		}

		cache.Set(key, items, respcache.ClassLong)
		utils.Success(w, items)
	}
}
