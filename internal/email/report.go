package email

import (
	"fmt"
	"strings"
	"time"

	"career-advisor/internal/domain"
)

const reportSubject = "Your career assessment results"

// renderReport arma el cuerpo en texto plano del reporte.
func renderReport(displayName string, result domain.AssessmentResult) string {
	var b strings.Builder

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Here are the results of your assessment taken on %s UTC.\n\n", result.CreatedAt.UTC().Format(time.RFC1123))

	b.WriteString("Trait scores (0-100)\n")
	for _, c := range domain.TraitOrder {
		fmt.Fprintf(&b, "  %-18s %6.2f\n", c, result.Scores.Get(c))
	}

	if s := strings.TrimSpace(result.Interpretation.Summary); s != "" {
		fmt.Fprintf(&b, "\n%s\n", s)
	}
	writeList(&b, "Strengths", result.Interpretation.Strengths)
	writeList(&b, "Growth areas", result.Interpretation.GrowthAreas)

	b.WriteString("\nRecommended fields\n")
	for _, rec := range result.Recommendations {
		if rec.Confidence != nil {
			fmt.Fprintf(&b, "  %d. %s (%.0f%% fit)\n", rec.Rank, rec.Field, *rec.Confidence)
			continue
		}
		fmt.Fprintf(&b, "  %d. %s\n", rec.Rank, rec.Field)
	}

	if result.Elaboration != nil && strings.TrimSpace(result.Elaboration.Overview) != "" {
		fmt.Fprintf(&b, "\n%s\n", strings.TrimSpace(result.Elaboration.Overview))
	}

	b.WriteString("\nLog in to chat with your career advisor about next steps.\n")
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "  - %s\n", it)
	}
}
