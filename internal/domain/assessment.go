package domain

import "time"

// AssessmentResult es el resultado persistido de un test OCEAN.
type AssessmentResult struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	Scores          TraitScores            `json:"scores"`
	Interpretation  TraitInterpretation    `json:"interpretation"`
	AnswerCount     int                    `json:"answer_count"`
	Strategy        string                 `json:"strategy"`
	Recommendations []CareerRecommendation `json:"recommendations"`
	Elaboration     *CareerElaboration     `json:"elaboration"`
	CreatedAt       time.Time              `json:"created_at"`
}

// CareerRecommendation es un campo sugerido dentro de un AssessmentResult.
type CareerRecommendation struct {
	ID           string   `json:"id"`
	AssessmentID string   `json:"assessment_id"`
	Rank         int      `json:"rank"`
	Field        string   `json:"field"`
	Confidence   *float64 `json:"confidence,omitempty"`
}

// CareerElaboration es el texto libre que el LLM genera sobre las recomendaciones.
type CareerElaboration struct {
	Overview string             `json:"overview"`
	Fields   []FieldElaboration `json:"fields"`
}

type FieldElaboration struct {
	Field      string   `json:"field"`
	Reason     string   `json:"reason"`
	FirstSteps []string `json:"first_steps"`
}
