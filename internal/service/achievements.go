package service

import (
	"strings"

	"career-advisor/internal/domain"
)

const (
	wellRoundedFields   = 3
	communityVoicePosts = 5
	skillMasterPercent  = 100
)

// ActivitySnapshot es lo que se necesita para derivar logros de un usuario.
type ActivitySnapshot struct {
	Assessments   int
	Progress      []domain.ProgressItem
	Contributions int
}

type achievementRule struct {
	achievement domain.Achievement
	earned      func(ActivitySnapshot) bool
}

var achievementRules = []achievementRule{
	{
		achievement: domain.Achievement{
			Code:        domain.AchievementFirstAssessment,
			Title:       "Know Thyself",
			Description: "Completed your first personality assessment.",
		},
		earned: func(a ActivitySnapshot) bool { return a.Assessments >= 1 },
	},
	{
		achievement: domain.Achievement{
			Code:        domain.AchievementFirstStep,
			Title:       "First Step",
			Description: "Recorded progress on a skill.",
		},
		earned: func(a ActivitySnapshot) bool {
			for _, p := range a.Progress {
				if p.Percent > 0 {
					return true
				}
			}
			return false
		},
	},
	{
		achievement: domain.Achievement{
			Code:        domain.AchievementSkillMaster,
			Title:       "Skill Master",
			Description: "Completed a skill.",
		},
		earned: func(a ActivitySnapshot) bool {
			for _, p := range a.Progress {
				if p.Percent >= skillMasterPercent {
					return true
				}
			}
			return false
		},
	},
	{
		achievement: domain.Achievement{
			Code:        domain.AchievementWellRounded,
			Title:       "Well Rounded",
			Description: "Made progress in three or more fields.",
		},
		earned: func(a ActivitySnapshot) bool {
			fields := make(map[string]struct{})
			for _, p := range a.Progress {
				if p.Percent > 0 {
					fields[strings.ToLower(p.Field)] = struct{}{}
				}
			}
			return len(fields) >= wellRoundedFields
		},
	},
	{
		achievement: domain.Achievement{
			Code:        domain.AchievementCommunityVoice,
			Title:       "Community Voice",
			Description: "Wrote five or more forum posts or comments.",
		},
		earned: func(a ActivitySnapshot) bool { return a.Contributions >= communityVoicePosts },
	},
}

// EvaluateAchievements es determinista: mismo snapshot, misma lista, en el orden de las reglas.
func EvaluateAchievements(snapshot ActivitySnapshot) []domain.Achievement {
	out := []domain.Achievement{}
	for _, rule := range achievementRules {
		if rule.earned(snapshot) {
			out = append(out, rule.achievement)
		}
	}
	return out
}
