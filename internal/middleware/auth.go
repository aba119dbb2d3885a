package middleware

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/skillforge-app/skillforge-backend/internal/database"
	model "github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

// Context keys
type contextKey string

const userContextKey = contextKey("user")

// AuthMiddleware valide le token et injecte l'apprenant dans le contexte
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			utils.Error(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		user, err := lookupUserByToken(r.Context(), token)
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, *user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth injecte l'apprenant si un token valide est présent,
// laisse passer sinon
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.Header.Get("Authorization"); token != "" {
			if user, err := lookupUserByToken(r.Context(), token); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), userContextKey, *user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// lookupUserByToken retrouve l'apprenant associé à un token de session actif
func lookupUserByToken(ctx context.Context, token string) (*model.LearnerProfile, error) {
	var user model.LearnerProfile
	var avatar, clanID sql.NullString
	var lastActivity sql.NullTime

	err := database.DB.QueryRow(ctx, `
		SELECT
			u.id, u.name, u.email, u.avatar, u.xp, u.daily_streak,
			u.last_activity_date, u.clan_id, u.join_date
		FROM users u
		JOIN sessions s ON u.id = s.user_id
		WHERE s.token = $1
			AND s.is_active = true
			AND s.expires_at > NOW()
			AND u.deleted_at IS NULL`, token).Scan(
		&user.ID, &user.Name, &user.Email, &avatar, &user.XP, &user.DailyStreak,
		&lastActivity, &clanID, &user.JoinDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("token not found or expired")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	user.Avatar = utils.NullStringToString(avatar)
	user.ClanID = utils.NullStringToPointer(clanID)
	user.LastActivityDate = utils.NullTimeToTime(lastActivity)

	return &user, nil
}

// GetUserFromContext récupère l'apprenant depuis le contexte de la requête
func GetUserFromContext(r *http.Request) (model.LearnerProfile, error) {
	user, ok := r.Context().Value(userContextKey).(model.LearnerProfile)
	if !ok {
		return model.LearnerProfile{}, fmt.Errorf("user not found in context")
	}
	return user, nil
}
