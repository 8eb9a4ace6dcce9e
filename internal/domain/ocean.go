package domain

// TraitCategory identifica una de las cinco dimensiones del modelo Big Five (OCEAN).
type TraitCategory string

const (
	Openness          TraitCategory = "openness"
	Conscientiousness TraitCategory = "conscientiousness"
	Extraversion      TraitCategory = "extraversion"
	Agreeableness     TraitCategory = "agreeableness"
	Neuroticism       TraitCategory = "neuroticism"
)

// TraitOrder es el orden estable de los rasgos (O, C, E, A, N).
var TraitOrder = [5]TraitCategory{Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism}

// Valid indica si la categoria pertenece al conjunto cerrado OCEAN.
func (c TraitCategory) Valid() bool {
	for _, t := range TraitOrder {
		if c == t {
			return true
		}
	}
	return false
}

// SurveyQuestion es un item del cuestionario. Inmutable una vez construido.
type SurveyQuestion struct {
	ID       string        `json:"id"`
	Text     string        `json:"text"`
	Category TraitCategory `json:"category"`
	Reverse  bool          `json:"-"`
}

// TraitScores guarda los cinco rasgos normalizados a 0-100.
type TraitScores struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// Get devuelve el valor de un rasgo. Categorias desconocidas devuelven 0.
func (s TraitScores) Get(c TraitCategory) float64 {
	switch c {
	case Openness:
		return s.Openness
	case Conscientiousness:
		return s.Conscientiousness
	case Extraversion:
		return s.Extraversion
	case Agreeableness:
		return s.Agreeableness
	case Neuroticism:
		return s.Neuroticism
	}
	return 0
}

// With devuelve una copia con el rasgo c fijado en v.
func (s TraitScores) With(c TraitCategory, v float64) TraitScores {
	switch c {
	case Openness:
		s.Openness = v
	case Conscientiousness:
		s.Conscientiousness = v
	case Extraversion:
		s.Extraversion = v
	case Agreeableness:
		s.Agreeableness = v
	case Neuroticism:
		s.Neuroticism = v
	}
	return s
}

// TraitInterpretation es el resumen cualitativo derivado de TraitScores.
type TraitInterpretation struct {
	Strengths   []string `json:"strengths"`
	GrowthAreas []string `json:"growth_areas"`
	Summary     string   `json:"summary"`
}

// ThresholdOp compara un rasgo contra un limite.
type ThresholdOp string

const (
	AtLeast ThresholdOp = ">="
	AtMost  ThresholdOp = "<="
)

// TraitThreshold es una condicion atomica de una regla de campo.
type TraitThreshold struct {
	Trait TraitCategory `json:"trait"`
	Op    ThresholdOp   `json:"op"`
	Value float64       `json:"value"`
}

// Matches evalua la condicion sobre los puntajes dados.
func (t TraitThreshold) Matches(scores TraitScores) bool {
	v := scores.Get(t.Trait)
	switch t.Op {
	case AtLeast:
		return v >= t.Value
	case AtMost:
		return v <= t.Value
	}
	return false
}

// FieldDefinition describe un campo profesional. Rules alimenta al modelo por reglas
// (conjuncion de umbrales) e Ideal al modelo por distancia.
type FieldDefinition struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Rules       []TraitThreshold `json:"rules,omitempty"`
	Ideal       TraitScores      `json:"ideal"`
}

// FieldMatch es un campo recomendado. Confidence es nil cuando la estrategia no la calcula.
type FieldMatch struct {
	Field      string   `json:"field"`
	Confidence *float64 `json:"confidence,omitempty"`
}
