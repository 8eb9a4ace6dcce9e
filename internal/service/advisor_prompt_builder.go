package service

import (
	"fmt"
	"strings"

	"career-advisor/internal/domain"
)

// BuildProfileBlock resume el ultimo assessment para el asesor. Sin assessment devuelve
// una indicacion para que el asesor sugiera hacer el test.
func BuildProfileBlock(result *domain.AssessmentResult) string {
	if result == nil {
		return "The user has not completed the personality assessment yet. " +
			"Encourage them to take it for personalized guidance."
	}

	var sb strings.Builder
	sb.WriteString("Big Five scores (0-100):\n")
	for _, c := range domain.TraitOrder {
		fmt.Fprintf(&sb, "- %s: %.0f (%s)\n", c, result.Scores.Get(c), levelLabel(ClassifyTrait(result.Scores.Get(c))))
	}
	if s := strings.TrimSpace(result.Interpretation.Summary); s != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", s)
	}
	if len(result.Recommendations) > 0 {
		fields := make([]string, 0, len(result.Recommendations))
		for _, r := range result.Recommendations {
			fields = append(fields, r.Field)
		}
		fmt.Fprintf(&sb, "Recommended fields: %s\n", strings.Join(fields, ", "))
	}
	return sb.String()
}

func levelLabel(level TraitLevel) string {
	switch level {
	case TraitHigh:
		return "high"
	case TraitLow:
		return "low"
	default:
		return "moderate"
	}
}

// BuildAdvisorPrompt arma el prompt completo para una respuesta del asesor.
func BuildAdvisorPrompt(profileBlock, transcript, userMessage string) string {
	var sb strings.Builder

	sb.WriteString("You are a friendly, practical career advisor for people exploring technology and other careers.\n")
	sb.WriteString("Ground your advice in the user's personality profile and recommended fields, ")
	sb.WriteString("suggest concrete next steps (courses, projects, communities) and keep answers under 200 words.\n")
	sb.WriteString("Never diagnose; personality scores describe preferences, not limits.\n\n")

	sb.WriteString("=== USER PROFILE ===\n")
	sb.WriteString(strings.TrimSpace(profileBlock))
	sb.WriteString("\n")

	if strings.TrimSpace(transcript) != "" {
		sb.WriteString("\n=== RECENT CONVERSATION ===\n")
		sb.WriteString(transcript)
		sb.WriteString("\n")
	}

	sb.WriteString("\n=== USER MESSAGE ===\n")
	fmt.Fprintf(&sb, "%q\n\n", userMessage)
	sb.WriteString("Reply as the advisor, in the same language the user writes in.")
	return sb.String()
}
