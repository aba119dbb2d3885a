package model

import (
	"database/sql"
	"time"
)

type Quest struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"` // DAILY, WEEKLY, COURSE
	Difficulty  string         `json:"difficulty"`
	XPReward    int            `json:"xpReward"`
	SkillTags   []string       `json:"skillTags,omitempty"` // deux tags max, candidats au skill blend
	CourseID    sql.NullString `json:"courseId,omitempty"`
	IsOfficial  bool           `json:"isOfficial"`
	DateFields
}

// QuestCompletion est le résultat renvoyé après un CompleteQuest:
// le snapshot recalculé, plus le bonus de combinaison s'il y en a un
type QuestCompletion struct {
	QuestID     string `json:"questId"`
	XPAwarded   int    `json:"xpAwarded"`
	BlendTag    string `json:"blendTag,omitempty"`
	BlendBonus  int    `json:"blendBonus,omitempty"`
	XP          int    `json:"xp"`
	Level       int    `json:"level"`
	DailyStreak int    `json:"dailyStreak"`
}

type QuestProgress struct {
	ID          string     `json:"id"`
	QuestID     string     `json:"questId"`
	UserID      string     `json:"userId"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
