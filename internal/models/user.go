package model

import (
	"time"
)

// DateFields contient les champs d'audit standard pour toutes les entités
type DateFields struct {
	CreatedBy *string    `json:"createdBy,omitempty"`
	UpdatedBy *string    `json:"updatedBy,omitempty"`
	DeletedBy *string    `json:"deletedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

type LearnerProfile struct {
	ID               string    `json:"id,omitempty"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Avatar           string    `json:"avatar,omitempty"`
	Bio              string    `json:"bio,omitempty"`
	XP               int       `json:"xp"`
	Level            int       `json:"level"` // dérivé de l'XP, jamais lu depuis la base
	DailyStreak      int       `json:"dailyStreak"`
	LastActivityDate time.Time `json:"lastActivityDate,omitempty"`
	ClanID           *string   `json:"clanId,omitempty"`
	JoinDate         time.Time `json:"joinDate,omitempty"`
	DateFields
}
