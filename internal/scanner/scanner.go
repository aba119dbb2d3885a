package scanner

import (
	"database/sql"

	"github.com/lib/pq"
	model "github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/utils"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// ScanLearnerProfile scanne une ligne SQL vers un LearnerProfile.
// Utilise les types sql.Null* et les convertit automatiquement.
// Le niveau n'est pas scanné: il est dérivé de l'XP par l'appelant.
func ScanLearnerProfile(s rowScanner) (*model.LearnerProfile, error) {
	var user model.LearnerProfile
	var avatar, bio, clanID sql.NullString
	var lastActivity sql.NullTime
	var updatedBy sql.NullString

	err := s.Scan(
		&user.ID, &user.Name, &user.Email, &avatar, &bio,
		&user.XP, &user.DailyStreak, &lastActivity, &clanID,
		&user.JoinDate, &user.CreatedAt, &user.UpdatedAt, &updatedBy,
	)
	if err != nil {
		return nil, err
	}

	// Conversions
	user.Avatar = utils.NullStringToString(avatar)
	user.Bio = utils.NullStringToString(bio)
	user.ClanID = utils.NullStringToPointer(clanID)
	user.LastActivityDate = utils.NullTimeToTime(lastActivity)
	user.UpdatedBy = utils.NullStringToPointer(updatedBy)

	return &user, nil
}

// ScanArena scanne une ligne SQL vers une Arena, tags via pq.Array
func ScanArena(s rowScanner) (*model.Arena, error) {
	var a model.Arena
	var banner, updatedBy sql.NullString

	err := s.Scan(
		&a.ID, &a.Title, &a.Description, &a.Category, &a.Difficulty,
		&a.StartDate, &a.EndDate, &a.MaxParticipants, &a.Participants,
		&a.PrizeXP, pq.Array(&a.Tags), &banner,
		&a.CreatedAt, &a.UpdatedAt, &updatedBy,
	)
	if err != nil {
		return nil, err
	}

	a.Banner = utils.NullStringToString(banner)
	a.UpdatedBy = utils.NullStringToPointer(updatedBy)

	return &a, nil
}

// ScanQuest scanne une ligne SQL vers une Quest
func ScanQuest(s rowScanner) (*model.Quest, error) {
	var q model.Quest

	err := s.Scan(
		&q.ID, &q.Title, &q.Description, &q.Category, &q.Difficulty,
		&q.XPReward, pq.Array(&q.SkillTags), &q.CourseID, &q.IsOfficial,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &q, nil
}
