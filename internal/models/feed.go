package model

import "time"

// FeedItem est un événement d'activité affiché sur le fil de la plateforme
type FeedItem struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	Avatar     string    `json:"avatar,omitempty"`
	Kind       string    `json:"kind"` // quest_completed, arena_joined, level_up, blend_unlocked
	Subject    string    `json:"subject"`
	XPAwarded  int       `json:"xpAwarded,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
