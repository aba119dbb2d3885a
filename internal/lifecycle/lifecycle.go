package lifecycle

import "time"

// Status est l'état d'une arène, toujours dérivé de l'horloge.
// La colonne status en base n'est qu'un cache de cette fonction:
// les lectures recalculent, les écritures ne la fixent jamais à la main.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusEnded    Status = "ended"
)

// StatusOf dérive le statut d'une fenêtre de compétition. Fonction pure:
// même (startAt, endAt, now) donne toujours le même statut.
func StatusOf(startAt, endAt, now time.Time) Status {
	switch {
	case now.Before(startAt):
		return StatusUpcoming
	case now.After(endAt):
		return StatusEnded
	default:
		return StatusActive
	}
}

// DisplayParticipants: une arène à venir affiche toujours 0 participant,
// quelle que soit la valeur stockée
func DisplayParticipants(status Status, stored int) int {
	if status == StatusUpcoming {
		return 0
	}
	return stored
}
