package model

import "time"

type Clan struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Tag         string    `json:"tag"`
	Description string    `json:"description,omitempty"`
	Members     int       `json:"members"`
	TotalXP     int       `json:"totalXp"`
	CreatedAt   time.Time `json:"createdAt"`
}
