package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/skillforge-app/skillforge-backend/internal/database"
	"github.com/skillforge-app/skillforge-backend/internal/dedupe"
	"github.com/skillforge-app/skillforge-backend/internal/lifecycle"
	"github.com/skillforge-app/skillforge-backend/internal/middleware"
	model "github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/ranking"
	"github.com/skillforge-app/skillforge-backend/internal/respcache"
	"github.com/skillforge-app/skillforge-backend/internal/scanner"
	"github.com/skillforge-app/skillforge-backend/internal/services"
	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

const arenaColumns = `
	a.id, a.title, a.description, a.category, a.difficulty,
	a.start_date, a.end_date, a.max_participants, a.participants,
	a.prize_xp, a.tags, a.banner, a.created_at, a.updated_at, a.updated_by
`

var (
	errArenaFull     = errors.New("arena is full")
	errAlreadyJoined = errors.New("already joined this arena")
)

// GetArenas liste les arènes avec leur statut dérivé de l'horloge.
// Lecture agrégée coûteuse: passe par le cache de réponses (classe longue).
// La clé reprend la query complète pour ne pas mélanger deux filtrages.
func GetArenas(cache *respcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := dedupe.Key(r.Method, r.URL.Path, r.URL.Query())
		if cached, ok := cache.Get(key); ok {
			utils.Success(w, cached)
			return
		}

		category := r.URL.Query().Get("category")

		sqlQuery := `
			SELECT ` + arenaColumns + `
			FROM arenas a
			WHERE a.deleted_at IS NULL
		`
		args := []interface{}{}
		if category != "" {
			sqlQuery += ` AND a.category = $1`
			args = append(args, category)
		}
		sqlQuery += ` ORDER BY a.start_date ASC`

		rows, err := database.DB.Query(r.Context(), sqlQuery, args...)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not query arenas", err)
			return
		}
		defer rows.Close()

		now := time.Now()
		arenas := []model.Arena{}
		for rows.Next() {
			arena, err := scanner.ScanArena(rows)
			if err != nil {
				utils.Error(w, http.StatusInternalServerError, "could not scan arena row", err)
				return
			}
			// Le statut stocké n'est jamais renvoyé: on redérive à chaque lecture
			arena.DeriveStatus(now)
			arenas = append(arenas, *arena)
		}

		cache.Set(key, arenas, respcache.ClassLong)
		utils.Success(w, arenas)
	}
}

// GetArenaById récupère une arène, statut recalculé
func GetArenaById(w http.ResponseWriter, r *http.Request) {
	arenaID := mux.Vars(r)["id"]

	row := database.DB.QueryRow(r.Context(), `
		SELECT `+arenaColumns+`
		FROM arenas a
		WHERE a.id = $1 AND a.deleted_at IS NULL
	`, arenaID)

	arena, err := scanner.ScanArena(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.Error(w, http.StatusNotFound, "arena not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not fetch arena", err)
		return
	}

	arena.DeriveStatus(time.Now())
	utils.Success(w, arena)
}

// JoinArena inscrit l'apprenant courant dans une arène active.
// Inscription et incrément du compteur partagent une transaction: un
// échec sur l'un annule l'autre, le compteur ne peut pas dériver.
func JoinArena(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	arenaID := mux.Vars(r)["id"]

	var startDate, endDate time.Time
	err = database.DB.QueryRow(r.Context(), `
		SELECT start_date, end_date FROM arenas
		WHERE id = $1 AND deleted_at IS NULL
	`, arenaID).Scan(&startDate, &endDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.Error(w, http.StatusNotFound, "arena not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not fetch arena", err)
		return
	}

	// Seule une arène active accepte des inscriptions
	if status := lifecycle.StatusOf(startDate, endDate, time.Now()); status != lifecycle.StatusActive {
		utils.Error(w, http.StatusConflict, "arena is not active")
		return
	}

	tx, err := database.DB.Begin(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not start transaction", err)
		return
	}
	defer tx.Rollback(r.Context())

	participant, err := joinArenaTx(r.Context(), tx, arenaID, user.ID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, errAlreadyJoined):
			utils.Error(w, http.StatusConflict, "already joined this arena")
		case errors.Is(err, errArenaFull):
			utils.Error(w, http.StatusConflict, "arena is full")
		default:
			utils.Error(w, http.StatusInternalServerError, "could not join arena", err)
		}
		return
	}

	if err := tx.Commit(r.Context()); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not commit arena join", err)
		return
	}

	utils.Success(w, participant)
}

// joinArenaTx enregistre l'inscription puis incrémente le compteur dans
// la même transaction. Le double join est arbitré par la contrainte
// unique (arena_id, user_id); une arène pleine fait échouer l'UPDATE
// conditionnel et le rollback de l'appelant retire aussi l'inscription.
func joinArenaTx(ctx context.Context, tx pgx.Tx, arenaID, userID string, now time.Time) (*model.ArenaParticipant, error) {
	participant := &model.ArenaParticipant{
		ID:       uuid.NewString(),
		ArenaID:  arenaID,
		UserID:   userID,
		JoinedAt: now,
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO arena_participants (id, arena_id, user_id, score, joined_at)
		VALUES ($1, $2, $3, 0, $4)
		ON CONFLICT (arena_id, user_id) DO NOTHING
	`, participant.ID, arenaID, userID, now)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, errAlreadyJoined
	}

	var participants int
	err = tx.QueryRow(ctx, `
		UPDATE arenas
		SET participants = participants + 1, updated_at = NOW()
		WHERE id = $1 AND participants < max_participants
		RETURNING participants
	`, arenaID).Scan(&participants)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errArenaFull
		}
		return nil, err
	}

	return participant, nil
}

// SubmitArenaScore enregistre le score de l'apprenant courant dans une
// arène active. Le meilleur score est conservé: soumettre moins bien
// ne régresse jamais.
func SubmitArenaScore(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	arenaID := mux.Vars(r)["id"]

	var payload struct {
		Score int `json:"score"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid score payload", err)
		return
	}
	if payload.Score < 0 {
		utils.Error(w, http.StatusBadRequest, "score cannot be negative")
		return
	}

	var startDate, endDate time.Time
	err = database.DB.QueryRow(r.Context(), `
		SELECT start_date, end_date FROM arenas
		WHERE id = $1 AND deleted_at IS NULL
	`, arenaID).Scan(&startDate, &endDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.Error(w, http.StatusNotFound, "arena not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not fetch arena", err)
		return
	}
	if status := lifecycle.StatusOf(startDate, endDate, time.Now()); status != lifecycle.StatusActive {
		utils.Error(w, http.StatusConflict, "arena is not active")
		return
	}

	tag, err := database.DB.Exec(r.Context(), `
		UPDATE arena_participants
		SET score = GREATEST(score, $1)
		WHERE arena_id = $2 AND user_id = $3
	`, payload.Score, arenaID, user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not record score", err)
		return
	}
	if tag.RowsAffected() == 0 {
		utils.Error(w, http.StatusConflict, "not a participant of this arena")
		return
	}

	utils.Message(w, "score recorded")
}

// UploadArenaBanner téléverse la bannière d'une arène sur Cloudinary
func UploadArenaBanner(uploader *services.CloudinaryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if uploader == nil {
			utils.Error(w, http.StatusServiceUnavailable, "banner upload is not configured")
			return
		}

		if _, err := middleware.GetUserFromContext(r); err != nil {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		arenaID := mux.Vars(r)["id"]

		file, _, err := r.FormFile("banner")
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "banner file is required", err)
			return
		}
		defer file.Close()

		url, err := uploader.UploadArenaBanner(r.Context(), file, arenaID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not upload banner", err)
			return
		}

		tag, err := database.DB.Exec(r.Context(), `
			UPDATE arenas SET banner = $1, updated_at = NOW()
			WHERE id = $2 AND deleted_at IS NULL
		`, url, arenaID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not save banner url", err)
			return
		}
		if tag.RowsAffected() == 0 {
			utils.Error(w, http.StatusNotFound, "arena not found")
			return
		}

		utils.Success(w, map[string]string{"banner": url})
	}
}

// GetArenaLeaderboard classe les participants d'une arène. Les rangs sont
// recalculés à chaque lecture depuis les scores bruts, jamais relus d'une
// colonne rank.
func GetArenaLeaderboard(cache *respcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		arenaID := mux.Vars(r)["id"]

		key := dedupe.Key(r.Method, r.URL.Path, r.URL.Query())
		if cached, ok := cache.Get(key); ok {
			utils.Success(w, cached)
			return
		}

		rows, err := database.DB.Query(r.Context(), `
			SELECT ap.user_id, u.name, COALESCE(u.avatar, ''), ap.score
			FROM arena_participants ap
			INNER JOIN users u ON ap.user_id = u.id
			WHERE ap.arena_id = $1 AND u.deleted_at IS NULL
		`, arenaID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not query arena leaderboard", err)
			return
		}
		defer rows.Close()

		scores := []ranking.UserScore{}
		for rows.Next() {
			var s ranking.UserScore
			if err := rows.Scan(&s.UserID, &s.UserName, &s.Avatar, &s.Score); err != nil {
				utils.Error(w, http.StatusInternalServerError, "could not scan participant row", err)
				return
			}
			scores = append(scores, s)
		}

		entries := ranking.Rank(scores)
		payload := map[string]interface{}{
			"arenaId": arenaID,
			"entries": entries,
			"podium":  ranking.Podium(entries),
		}

		cache.Set(key, payload, respcache.ClassLong)
		utils.Success(w, payload)
	}
}
