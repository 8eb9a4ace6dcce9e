package domain

import "time"

// ProgressItem registra el avance de aprendizaje de un skill dentro de un campo.
type ProgressItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Field     string    `json:"field"`
	Skill     string    `json:"skill"`
	Percent   int       `json:"percent"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	AchievementFirstAssessment = "first_assessment"
	AchievementFirstStep       = "first_step"
	AchievementSkillMaster     = "skill_master"
	AchievementWellRounded     = "well_rounded"
	AchievementCommunityVoice  = "community_voice"
)

type Achievement struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
