package progression

import (
	"errors"
	"time"
)

// XPPerLevel: la courbe de niveaux est un palier tous les 500 XP
const XPPerLevel = 500

// ErrNegativeXP: un delta négatif est une erreur de validation,
// jamais un clamp silencieux
var ErrNegativeXP = errors.New("xp delta must be non-negative")

// Snapshot est l'état de progression d'un apprenant. Le niveau est
// dérivé de l'XP cumulé, il n'est jamais stocké comme source de vérité.
type Snapshot struct {
	UserID           string    `json:"userId"`
	XP               int       `json:"xp"`
	Level            int       `json:"level"`
	DailyStreak      int       `json:"dailyStreak"`
	LastActivityDate time.Time `json:"lastActivityDate"`
}

// LevelFromXP est une fonction en escalier monotone: le niveau ne
// descend jamais quand l'XP monte
func LevelFromXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// ApplyActivity applique une activité (quête, défi) au snapshot et
// retourne le nouvel état. Le snapshot d'entrée n'est jamais modifié:
// en cas de rejet, l'appelant garde l'état d'origine intact.
//
// Règles de streak, sur des dates calendaires et pas des instants:
//   - même jour que la dernière activité: streak inchangé (ré-application
//     idempotente dans la même journée)
//   - lendemain exact: streak + 1
//   - tout autre écart (trou > 1 jour, ou date antérieure): streak = 1
func ApplyActivity(snap Snapshot, xpDelta int, activityDate time.Time) (Snapshot, error) {
	if xpDelta < 0 {
		return snap, ErrNegativeXP
	}

	next := snap
	next.XP = snap.XP + xpDelta
	next.Level = LevelFromXP(next.XP)

	day := truncateToDay(activityDate)
	last := truncateToDay(snap.LastActivityDate)

	switch {
	case snap.LastActivityDate.IsZero():
		next.DailyStreak = 1
	case day.Equal(last):
		// pas de double comptage le même jour
	case day.Equal(last.AddDate(0, 0, 1)):
		next.DailyStreak = snap.DailyStreak + 1
	default:
		next.DailyStreak = 1
	}

	if !day.Before(last) {
		next.LastActivityDate = day
	}

	return next, nil
}

func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
