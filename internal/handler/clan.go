package handler

import (
	"database/sql"
	"net/http"

	"github.com/skillforge-app/skillforge-backend/internal/database"
	"github.com/skillforge-app/skillforge-backend/internal/dedupe"
	model "github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/ranking"
	"github.com/skillforge-app/skillforge-backend/internal/respcache"
	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

// GetClans liste les clans avec leurs effectifs et XP cumulés
func GetClans(w http.ResponseWriter, r *http.Request) {
	rows, err := database.DB.Query(r.Context(), `
		SELECT c.id, c.name, c.tag, c.description,
			COUNT(u.id) AS members,
			SUM(u.xp) AS total_xp,
			c.created_at
		FROM clans c
		LEFT JOIN users u ON u.clan_id = c.id AND u.deleted_at IS NULL
		WHERE c.deleted_at IS NULL
		GROUP BY c.id, c.name, c.tag, c.description, c.created_at
		ORDER BY total_xp DESC NULLS LAST
	`)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query clans", err)
		return
	}
	defer rows.Close()

	clans := []model.Clan{}
	for rows.Next() {
		var c model.Clan
		var totalXP sql.NullInt64 // clan vide: SUM renvoie NULL
		err := rows.Scan(&c.ID, &c.Name, &c.Tag, &c.Description, &c.Members, &totalXP, &c.CreatedAt)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan clan row", err)
			return
		}
		c.TotalXP = utils.NullInt64ToInt(totalXP)
		clans = append(clans, c)
	}

	utils.Success(w, clans)
}

// GetClanLeaderboard classe les clans par XP cumulé de leurs membres.
// Même moteur de rangs que le classement individuel: un clan est traité
// comme une entrée de score dont l'ID sert de départage.
func GetClanLeaderboard(cache *respcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := dedupe.Key(r.Method, r.URL.Path, r.URL.Query())
		if cached, ok := cache.Get(key); ok {
			utils.Success(w, cached)
			return
		}

		rows, err := database.DB.Query(r.Context(), `
			SELECT c.id, c.name, COALESCE(SUM(u.xp), 0) AS total_xp
			FROM clans c
			LEFT JOIN users u ON u.clan_id = c.id AND u.deleted_at IS NULL
			WHERE c.deleted_at IS NULL
			GROUP BY c.id, c.name
		`)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not query clan leaderboard", err)
			return
		}
		defer rows.Close()

		scores := []ranking.UserScore{}
		for rows.Next() {
			var s ranking.UserScore
			if err := rows.Scan(&s.UserID, &s.UserName, &s.Score); err != nil {
				utils.Error(w, http.StatusInternalServerError, "could not scan clan score row", err)
				return
			}
			scores = append(scores, s)
		}

		entries := ranking.Rank(scores)
		cache.Set(key, entries, respcache.ClassLong)
		utils.Success(w, entries)
	}
}
