package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/skillforge-app/skillforge-backend/internal/database"
	"github.com/skillforge-app/skillforge-backend/internal/logger"
	"github.com/skillforge-app/skillforge-backend/internal/middleware"
	model "github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/progression"
	"github.com/skillforge-app/skillforge-backend/internal/scanner"
	"github.com/skillforge-app/skillforge-backend/internal/skillblend"
	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

const questColumns = `
	q.id, q.title, q.description, q.category, q.difficulty,
	q.xp_reward, q.skill_tags, q.course_id, q.is_official,
	q.created_at, q.updated_at
`

var errQuestAlreadyCompleted = errors.New("quest already completed")

// GetQuests liste les quêtes, filtrables par catégorie (DAILY, WEEKLY, COURSE)
func GetQuests(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	sqlQuery := `
		SELECT ` + questColumns + `
		FROM quests q
		WHERE q.deleted_at IS NULL
	`
	args := []interface{}{}
	if category != "" {
		sqlQuery += ` AND q.category = $1`
		args = append(args, category)
	}
	sqlQuery += ` ORDER BY q.created_at DESC`

	rows, err := database.DB.Query(r.Context(), sqlQuery, args...)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query quests", err)
		return
	}
	defer rows.Close()

	quests := []model.Quest{}
	for rows.Next() {
		quest, err := scanner.ScanQuest(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan quest row", err)
			return
		}
		quests = append(quests, *quest)
	}

	utils.Success(w, quests)
}

// GetQuestById récupère une quête par son ID
func GetQuestById(w http.ResponseWriter, r *http.Request) {
	questID := mux.Vars(r)["id"]

	row := database.DB.QueryRow(r.Context(), `
		SELECT `+questColumns+`
		FROM quests q
		WHERE q.id = $1 AND q.deleted_at IS NULL
	`, questID)

	quest, err := scanner.ScanQuest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.Error(w, http.StatusNotFound, "quest not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not fetch quest", err)
		return
	}

	utils.Success(w, quest)
}

// GetMyQuestProgress liste la progression de quêtes de l'apprenant courant
func GetMyQuestProgress(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	rows, err := database.DB.Query(r.Context(), `
		SELECT qp.id, qp.quest_id, qp.user_id, qp.completed_at, qp.created_at
		FROM quest_progress qp
		WHERE qp.user_id = $1
		ORDER BY qp.created_at DESC
	`, user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query quest progress", err)
		return
	}
	defer rows.Close()

	progress := []model.QuestProgress{}
	for rows.Next() {
		var qp model.QuestProgress
		var completedAt sql.NullTime
		if err := rows.Scan(&qp.ID, &qp.QuestID, &qp.UserID, &completedAt, &qp.CreatedAt); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan progress row", err)
			return
		}
		qp.CompletedAt = utils.NullTimeToPointer(completedAt)
		progress = append(progress, qp)
	}

	utils.Success(w, progress)
}

// CompleteQuest valide une quête pour l'apprenant courant: résout un
// éventuel bonus de combinaison sur les skill tags, puis applique et
// persiste la progression dans une transaction. L'état XP/streak est
// relu sous verrou dans la transaction, jamais repris du snapshot
// d'authentification: deux complétions simultanées du même apprenant
// se sérialisent au lieu de s'écraser.
func CompleteQuest(resolver *skillblend.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := middleware.GetUserFromContext(r)
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		questID := mux.Vars(r)["id"]

		row := database.DB.QueryRow(r.Context(), `
			SELECT `+questColumns+`
			FROM quests q
			WHERE q.id = $1 AND q.deleted_at IS NULL
		`, questID)

		quest, err := scanner.ScanQuest(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				utils.Error(w, http.StatusNotFound, "quest not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, "could not fetch quest", err)
			return
		}

		xpAwarded := quest.XPReward
		var blendTag string
		var blendBonus int
		if len(quest.SkillTags) == 2 {
			if blend, ok := resolver.Resolve(quest.SkillTags[0], quest.SkillTags[1]); ok {
				blendTag = blend.ResultTag
				blendBonus = blend.BonusXP
				xpAwarded += blend.BonusXP
			}
		}

		now := time.Now()
		tx, err := database.DB.Begin(r.Context())
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not start transaction", err)
			return
		}
		defer tx.Rollback(r.Context())

		next, err := completeQuestTx(r.Context(), tx, user.ID, questID, xpAwarded, now)
		if err != nil {
			switch {
			case errors.Is(err, errQuestAlreadyCompleted):
				utils.Error(w, http.StatusConflict, "quest already completed")
			case errors.Is(err, progression.ErrNegativeXP):
				utils.Error(w, http.StatusBadRequest, "xp delta cannot be negative")
			default:
				utils.Error(w, http.StatusInternalServerError, "could not complete quest", err)
			}
			return
		}

		if err := tx.Commit(r.Context()); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not commit quest completion", err)
			return
		}

		// Entrée de feed best-effort, hors transaction: un échec ici ne
		// doit pas annuler la quête
		_, err = database.DB.Exec(r.Context(), `
			INSERT INTO feed_items (id, user_id, kind, subject, xp_awarded, occurred_at)
			VALUES ($1, $2, 'quest_completed', $3, $4, $5)
		`, uuid.NewString(), user.ID, quest.Title, xpAwarded, now)
		if err != nil {
			logger.Warning("feed item not published for quest %s: %v", questID, err)
		}

		utils.Success(w, model.QuestCompletion{
			QuestID:     questID,
			XPAwarded:   xpAwarded,
			BlendTag:    blendTag,
			BlendBonus:  blendBonus,
			XP:          next.XP,
			Level:       next.Level,
			DailyStreak: next.DailyStreak,
		})
	}
}

// completeQuestTx relit l'état de progression sous verrou de ligne,
// marque la quête complétée puis persiste le nouvel état. Le doublon
// est arbitré par la contrainte unique (quest_id, user_id): une ligne
// déjà complétée rend l'UPDATE conditionnel vide, et le rollback de
// l'appelant ne laisse alors aucune écriture derrière lui.
func completeQuestTx(ctx context.Context, tx pgx.Tx, userID, questID string, xpAwarded int, now time.Time) (progression.Snapshot, error) {
	snap := progression.Snapshot{UserID: userID}

	var lastActivity sql.NullTime
	err := tx.QueryRow(ctx, `
		SELECT xp, daily_streak, last_activity_date
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID).Scan(&snap.XP, &snap.DailyStreak, &lastActivity)
	if err != nil {
		return snap, err
	}
	snap.LastActivityDate = utils.NullTimeToTime(lastActivity)

	next, err := progression.ApplyActivity(snap, xpAwarded, now)
	if err != nil {
		return snap, err
	}

	var progressID string
	err = tx.QueryRow(ctx, `
		INSERT INTO quest_progress (id, quest_id, user_id, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (quest_id, user_id) DO UPDATE
		SET completed_at = EXCLUDED.completed_at
		WHERE quest_progress.completed_at IS NULL
		RETURNING id
	`, uuid.NewString(), questID, userID, now).Scan(&progressID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return snap, errQuestAlreadyCompleted
		}
		return snap, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET xp = $1, daily_streak = $2, last_activity_date = $3, updated_at = NOW()
		WHERE id = $4
	`, next.XP, next.DailyStreak, next.LastActivityDate, userID)
	if err != nil {
		return snap, err
	}

	return next, nil
}
