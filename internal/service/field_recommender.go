package service

import (
	"math"
	"sort"
	"strings"

	"career-advisor/internal/domain"
)

const (
	// DefaultMaxRecommendations se usa cuando maxResults <= 0.
	DefaultMaxRecommendations = 5

	StrategyRules    = "rules"
	StrategyDistance = "distance"
)

// FieldRecommender mapea puntajes OCEAN a una lista ordenada de campos profesionales.
// Las implementaciones nunca devuelven una lista vacia.
type FieldRecommender interface {
	Strategy() string
	Recommend(scores domain.TraitScores, fields []domain.FieldDefinition, maxResults int) []domain.FieldMatch
}

// NewFieldRecommender elige la estrategia por nombre; cualquier valor desconocido cae en reglas.
func NewFieldRecommender(strategy string) FieldRecommender {
	if strings.EqualFold(strings.TrimSpace(strategy), StrategyDistance) {
		return DistanceRecommender{}
	}
	return NewRuleRecommender(nil)
}

func capResults(maxResults int) int {
	if maxResults <= 0 {
		return DefaultMaxRecommendations
	}
	return maxResults
}

// DefaultFallbackFields se devuelve cuando ninguna regla coincide.
var DefaultFallbackFields = []string{
	"Software Development",
	"Business Analysis",
	"Project Coordination",
}

// RuleRecommender recorre los campos en orden de prioridad y toma los que cumplen todas
// sus reglas, hasta maxResults.
type RuleRecommender struct {
	fallback []string
}

// NewRuleRecommender crea el recomendador; fallback nil o vacio usa DefaultFallbackFields.
func NewRuleRecommender(fallback []string) RuleRecommender {
	if len(fallback) == 0 {
		fallback = DefaultFallbackFields
	}
	return RuleRecommender{fallback: append([]string(nil), fallback...)}
}

func (RuleRecommender) Strategy() string { return StrategyRules }

func (r RuleRecommender) Recommend(scores domain.TraitScores, fields []domain.FieldDefinition, maxResults int) []domain.FieldMatch {
	limit := capResults(maxResults)
	out := make([]domain.FieldMatch, 0, limit)

	for _, f := range fields {
		if len(out) == limit {
			break
		}
		if !matchesAll(scores, f.Rules) {
			continue
		}
		out = append(out, domain.FieldMatch{Field: f.Name})
	}
	if len(out) > 0 {
		return out
	}

	fallback := r.fallback
	if len(fallback) == 0 {
		fallback = DefaultFallbackFields
	}
	for _, name := range fallback {
		if len(out) == limit {
			break
		}
		out = append(out, domain.FieldMatch{Field: name})
	}
	return out
}

// Un campo sin reglas nunca coincide; si no, cualquier perfil lo recibiria.
func matchesAll(scores domain.TraitScores, rules []domain.TraitThreshold) bool {
	if len(rules) == 0 {
		return false
	}
	for _, rule := range rules {
		if !rule.Matches(scores) {
			return false
		}
	}
	return true
}

// DistanceRecommender puntua cada campo con 100 - promedio(|usuario - ideal|) y devuelve
// los mejores en orden descendente; los empates respetan el orden de declaracion.
type DistanceRecommender struct{}

func (DistanceRecommender) Strategy() string { return StrategyDistance }

func (DistanceRecommender) Recommend(scores domain.TraitScores, fields []domain.FieldDefinition, maxResults int) []domain.FieldMatch {
	if len(fields) == 0 {
		return NewRuleRecommender(nil).Recommend(scores, nil, maxResults)
	}

	out := make([]domain.FieldMatch, 0, len(fields))
	for _, f := range fields {
		confidence := FieldConfidence(scores, f.Ideal)
		out = append(out, domain.FieldMatch{Field: f.Name, Confidence: &confidence})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Confidence > *out[j].Confidence
	})

	if limit := capResults(maxResults); len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FieldConfidence calcula la afinidad 0-100 entre un perfil y el vector ideal de un campo.
func FieldConfidence(scores, ideal domain.TraitScores) float64 {
	var total float64
	for _, c := range domain.TraitOrder {
		total += math.Abs(scores.Get(c) - ideal.Get(c))
	}
	confidence := 100 - total/float64(len(domain.TraitOrder))
	return math.Round(confidence*100) / 100
}

// DefaultCareerFields es la tabla de campos en orden de prioridad.
func DefaultCareerFields() []domain.FieldDefinition {
	at := func(c domain.TraitCategory, op domain.ThresholdOp, v float64) domain.TraitThreshold {
		return domain.TraitThreshold{Trait: c, Op: op, Value: v}
	}
	ideal := func(o, c, e, a, n float64) domain.TraitScores {
		return domain.TraitScores{Openness: o, Conscientiousness: c, Extraversion: e, Agreeableness: a, Neuroticism: n}
	}

	return []domain.FieldDefinition{
		{
			Name:        "Software Engineering",
			Description: "Designing and building reliable software systems.",
			Rules:       []domain.TraitThreshold{at(domain.Conscientiousness, domain.AtLeast, 60), at(domain.Openness, domain.AtLeast, 50)},
			Ideal:       ideal(70, 80, 40, 55, 35),
		},
		{
			Name:        "Data Science",
			Description: "Extracting insight from data with statistics and machine learning.",
			Rules:       []domain.TraitThreshold{at(domain.Openness, domain.AtLeast, 70), at(domain.Conscientiousness, domain.AtLeast, 60)},
			Ideal:       ideal(85, 75, 35, 50, 35),
		},
		{
			Name:        "UX Design",
			Description: "Shaping products around the needs of real people.",
			Rules:       []domain.TraitThreshold{at(domain.Openness, domain.AtLeast, 70), at(domain.Agreeableness, domain.AtLeast, 60)},
			Ideal:       ideal(85, 60, 55, 75, 40),
		},
		{
			Name:        "Product Management",
			Description: "Coordinating teams and priorities to ship the right product.",
			Rules:       []domain.TraitThreshold{at(domain.Extraversion, domain.AtLeast, 60), at(domain.Conscientiousness, domain.AtLeast, 60)},
			Ideal:       ideal(65, 75, 75, 65, 30),
		},
		{
			Name:        "Cybersecurity",
			Description: "Protecting systems and data against threats.",
			Rules:       []domain.TraitThreshold{at(domain.Conscientiousness, domain.AtLeast, 70), at(domain.Neuroticism, domain.AtMost, 40)},
			Ideal:       ideal(60, 85, 35, 45, 25),
		},
		{
			Name:        "DevOps & Site Reliability",
			Description: "Keeping infrastructure automated, observable and available.",
			Rules:       []domain.TraitThreshold{at(domain.Conscientiousness, domain.AtLeast, 60), at(domain.Neuroticism, domain.AtMost, 50)},
			Ideal:       ideal(55, 80, 45, 55, 25),
		},
		{
			Name:        "Technical Sales",
			Description: "Helping customers find the right technical solution.",
			Rules:       []domain.TraitThreshold{at(domain.Extraversion, domain.AtLeast, 70), at(domain.Agreeableness, domain.AtLeast, 50)},
			Ideal:       ideal(55, 60, 85, 70, 30),
		},
		{
			Name:        "Research & Academia",
			Description: "Advancing knowledge through deep, independent study.",
			Rules:       []domain.TraitThreshold{at(domain.Openness, domain.AtLeast, 70), at(domain.Extraversion, domain.AtMost, 40)},
			Ideal:       ideal(90, 70, 25, 50, 45),
		},
		{
			Name:        "Healthcare",
			Description: "Caring for the wellbeing of patients and communities.",
			Rules:       []domain.TraitThreshold{at(domain.Agreeableness, domain.AtLeast, 70), at(domain.Conscientiousness, domain.AtLeast, 50)},
			Ideal:       ideal(50, 75, 55, 85, 35),
		},
		{
			Name:        "Education & Training",
			Description: "Teaching and mentoring others.",
			Rules:       []domain.TraitThreshold{at(domain.Agreeableness, domain.AtLeast, 60), at(domain.Extraversion, domain.AtLeast, 60)},
			Ideal:       ideal(65, 65, 70, 80, 35),
		},
		{
			Name:        "Entrepreneurship",
			Description: "Starting and growing new ventures.",
			Rules: []domain.TraitThreshold{
				at(domain.Openness, domain.AtLeast, 70),
				at(domain.Extraversion, domain.AtLeast, 70),
				at(domain.Neuroticism, domain.AtMost, 40),
			},
			Ideal: ideal(85, 65, 80, 50, 25),
		},
	}
}
