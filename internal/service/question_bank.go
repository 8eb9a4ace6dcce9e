package service

import "career-advisor/internal/domain"

// LikertMin y LikertMax definen la escala de respuesta del cuestionario.
const (
	LikertMin = 1
	LikertMax = 5
)

// DefaultQuestionBank devuelve el cuestionario OCEAN de 25 items (5 por rasgo).
// Cada llamada devuelve un slice nuevo, asi ningun llamador puede mutar el banco de otro.
func DefaultQuestionBank() []domain.SurveyQuestion {
	return []domain.SurveyQuestion{
		{ID: "o1", Text: "I enjoy exploring unconventional or abstract ideas.", Category: domain.Openness},
		{ID: "o2", Text: "I like learning new tools and technologies just out of curiosity.", Category: domain.Openness},
		{ID: "o3", Text: "I enjoy creative work such as writing, drawing or building experimental projects.", Category: domain.Openness},
		{ID: "o4", Text: "I prefer sticking to familiar routines over trying new approaches.", Category: domain.Openness, Reverse: true},
		{ID: "o5", Text: "I find theoretical discussions boring.", Category: domain.Openness, Reverse: true},

		{ID: "c1", Text: "I plan my day in advance and follow my schedule.", Category: domain.Conscientiousness},
		{ID: "c2", Text: "I stay consistent when working toward an important goal.", Category: domain.Conscientiousness},
		{ID: "c3", Text: "I pay close attention to details in my work.", Category: domain.Conscientiousness},
		{ID: "c4", Text: "I often leave tasks unfinished.", Category: domain.Conscientiousness, Reverse: true},
		{ID: "c5", Text: "I tend to miss deadlines.", Category: domain.Conscientiousness, Reverse: true},

		{ID: "e1", Text: "I enjoy being the center of attention at social events.", Category: domain.Extraversion},
		{ID: "e2", Text: "I feel energized after spending time with a lot of people.", Category: domain.Extraversion},
		{ID: "e3", Text: "I find it easy to start conversations with strangers.", Category: domain.Extraversion},
		{ID: "e4", Text: "I prefer working alone rather than in a team.", Category: domain.Extraversion, Reverse: true},
		{ID: "e5", Text: "I keep in the background during group discussions.", Category: domain.Extraversion, Reverse: true},

		{ID: "a1", Text: "I am understanding and forgive the mistakes of others easily.", Category: domain.Agreeableness},
		{ID: "a2", Text: "Keeping harmony in my relationships is important to me.", Category: domain.Agreeableness},
		{ID: "a3", Text: "I enjoy helping colleagues solve their problems.", Category: domain.Agreeableness},
		{ID: "a4", Text: "In a conflict I usually impose my point of view.", Category: domain.Agreeableness, Reverse: true},
		{ID: "a5", Text: "I am not very interested in other people's problems.", Category: domain.Agreeableness, Reverse: true},

		{ID: "n1", Text: "I often worry about the future.", Category: domain.Neuroticism},
		{ID: "n2", Text: "When something goes wrong it affects me for a long time.", Category: domain.Neuroticism},
		{ID: "n3", Text: "I experience intense mood swings.", Category: domain.Neuroticism},
		{ID: "n4", Text: "I stay calm under pressure.", Category: domain.Neuroticism, Reverse: true},
		{ID: "n5", Text: "I rarely feel anxious in uncertain situations.", Category: domain.Neuroticism, Reverse: true},
	}
}

// QuestionIndex indexa un banco por ID.
func QuestionIndex(questions []domain.SurveyQuestion) map[string]domain.SurveyQuestion {
	idx := make(map[string]domain.SurveyQuestion, len(questions))
	for _, q := range questions {
		idx[q.ID] = q
	}
	return idx
}
