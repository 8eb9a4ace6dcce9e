package service

import (
	"math"

	"career-advisor/internal/domain"
)

// reverseScore invierte una respuesta Likert: (max + 1) - raw.
func reverseScore(raw int) int {
	return (LikertMax + 1) - raw
}

func clampLikert(raw int) int {
	if raw < LikertMin {
		return LikertMin
	}
	if raw > LikertMax {
		return LikertMax
	}
	return raw
}

// normalizeAverage lleva un promedio 1-5 a 0-100 con (avg - 1) * 25.
func normalizeAverage(avg float64) float64 {
	score := (avg - LikertMin) * (100.0 / (LikertMax - LikertMin))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return math.Round(score*100) / 100
}

// AggregateScores reduce las respuestas a cinco promedios normalizados 0-100.
// Solo cuentan preguntas presentes en questions y en answers; IDs desconocidos se ignoran.
// Un rasgo sin respuestas vale 0.
func AggregateScores(answers map[string]int, questions []domain.SurveyQuestion) domain.TraitScores {
	var (
		sums   = make(map[domain.TraitCategory]int, len(domain.TraitOrder))
		counts = make(map[domain.TraitCategory]int, len(domain.TraitOrder))
	)

	for _, q := range questions {
		raw, ok := answers[q.ID]
		if !ok || !q.Category.Valid() {
			continue
		}
		raw = clampLikert(raw)
		if q.Reverse {
			raw = reverseScore(raw)
		}
		sums[q.Category] += raw
		counts[q.Category]++
	}

	var scores domain.TraitScores
	for _, c := range domain.TraitOrder {
		n := counts[c]
		if n == 0 {
			continue
		}
		scores = scores.With(c, normalizeAverage(float64(sums[c])/float64(n)))
	}
	return scores
}
