package model

import (
	"time"

	"github.com/skillforge-app/skillforge-backend/internal/lifecycle"
)

// Arena est une compétition bornée dans le temps. Le champ Status est
// recalculé à chaque lecture depuis (StartDate, EndDate, now); la valeur
// éventuellement stockée en base n'est jamais renvoyée telle quelle.
type Arena struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Category        string           `json:"category"`
	Difficulty      string           `json:"difficulty"`
	StartDate       time.Time        `json:"startDate"`
	EndDate         time.Time        `json:"endDate"`
	MaxParticipants int              `json:"maxParticipants"`
	Participants    int              `json:"participants"`
	PrizeXP         int              `json:"prizeXp"`
	Tags            []string         `json:"tags,omitempty"`
	Banner          string           `json:"banner,omitempty"`
	Status          lifecycle.Status `json:"status"`
	DateFields
}

// DeriveStatus fixe Status et le compteur de participants affiché
// à partir de l'horloge
func (a *Arena) DeriveStatus(now time.Time) {
	a.Status = lifecycle.StatusOf(a.StartDate, a.EndDate, now)
	a.Participants = lifecycle.DisplayParticipants(a.Status, a.Participants)
}

type ArenaParticipant struct {
	ID       string    `json:"id"`
	ArenaID  string    `json:"arenaId"`
	UserID   string    `json:"userId"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joinedAt"`
}
