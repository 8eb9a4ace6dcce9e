package service

import (
	"strings"

	"career-advisor/internal/domain"
)

// Umbrales inclusivos: >= HighTraitThreshold es alto, <= LowTraitThreshold es bajo.
const (
	HighTraitThreshold = 70.0
	LowTraitThreshold  = 30.0
)

// TraitLevel clasifica un puntaje en alto, neutro o bajo.
type TraitLevel int

const (
	TraitNeutral TraitLevel = iota
	TraitHigh
	TraitLow
)

type traitPhrases struct {
	high string
	low  string
}

var interpretationPhrases = map[domain.TraitCategory]traitPhrases{
	domain.Openness: {
		high: "You are curious and open to new ideas and experiences.",
		low:  "You may benefit from exploring unfamiliar ideas and approaches.",
	},
	domain.Conscientiousness: {
		high: "You are organized, reliable and goal-oriented.",
		low:  "Building planning and follow-through habits could help you grow.",
	},
	domain.Extraversion: {
		high: "You draw energy from people and communicate with ease.",
		low:  "Practicing networking and speaking up in groups could open doors.",
	},
	domain.Agreeableness: {
		high: "You are cooperative, empathetic and a strong team player.",
		low:  "Working on collaboration and active listening could strengthen your teamwork.",
	},
	domain.Neuroticism: {
		high: "You are emotionally attuned and quick to anticipate risks and problems.",
		low:  "Staying alert to risks and emotional signals could make your decisions more careful.",
	},
}

// ClassifyTrait devuelve el nivel de un puntaje segun los umbrales inclusivos.
func ClassifyTrait(score float64) TraitLevel {
	switch {
	case score >= HighTraitThreshold:
		return TraitHigh
	case score <= LowTraitThreshold:
		return TraitLow
	default:
		return TraitNeutral
	}
}

// InterpretTraits produce fortalezas (rasgos altos), areas de mejora (rasgos bajos) y un
// resumen en orden O, C, E, A, N. Si ningun rasgo cruza un umbral, las listas quedan
// vacias y el resumen es "".
func InterpretTraits(scores domain.TraitScores) domain.TraitInterpretation {
	out := domain.TraitInterpretation{
		Strengths:   []string{},
		GrowthAreas: []string{},
	}
	var triggered []string

	for _, c := range domain.TraitOrder {
		phrases := interpretationPhrases[c]

		switch ClassifyTrait(scores.Get(c)) {
		case TraitHigh:
			out.Strengths = append(out.Strengths, phrases.high)
			triggered = append(triggered, phrases.high)
		case TraitLow:
			out.GrowthAreas = append(out.GrowthAreas, phrases.low)
			triggered = append(triggered, phrases.low)
		}
	}

	out.Summary = strings.Join(triggered, " ")
	return out
}
