package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-advisor/internal/domain"
	"career-advisor/internal/llm"
)

func TestCareerElaborator_ValidResponse(t *testing.T) {
	mock := &llm.MockClient{Response: "```json\n" + `{
		"overview": "A curious and organized profile.",
		"fields": [
			{"field": "Data Science", "reason": "Loves patterns.", "first_steps": ["Learn SQL"]},
			{"field": "Astronaut", "reason": "Not recommended.", "first_steps": []},
			{"field": "UX Design", "reason": "Empathic."}
		]
	}` + "\n```"}
	e, err := NewCareerElaborator(mock)
	require.NoError(t, err)

	matches := []domain.FieldMatch{{Field: "Data Science"}, {Field: "UX Design"}}
	out, err := e.Elaborate(context.Background(), domain.TraitScores{Openness: 90}, domain.TraitInterpretation{Summary: "Curious."}, matches)
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "A curious and organized profile.", out.Overview)
	require.Len(t, out.Fields, 2)
	assert.Equal(t, "Data Science", out.Fields[0].Field)
	assert.Equal(t, []string{"Learn SQL"}, out.Fields[0].FirstSteps)
	assert.Equal(t, []string{}, out.Fields[1].FirstSteps)

	prompt := mock.LastPrompt()
	assert.True(t, strings.Contains(prompt, "1. Data Science"))
	assert.True(t, strings.Contains(prompt, "- openness: 90"))
}

func TestCareerElaborator_SchemaViolation(t *testing.T) {
	cases := map[string]string{
		"missing overview": `{"fields": []}`,
		"wrong type":       `{"overview": "x", "fields": "nope"}`,
		"empty reason":     `{"overview": "x", "fields": [{"field": "Data Science", "reason": ""}]}`,
		"not json":         `I cannot help with that.`,
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			e, err := NewCareerElaborator(&llm.MockClient{Response: resp})
			require.NoError(t, err)
			_, err = e.Elaborate(context.Background(), domain.TraitScores{}, domain.TraitInterpretation{}, []domain.FieldMatch{{Field: "Data Science"}})
			assert.True(t, errors.Is(err, ErrElaborationInvalid), "got %v", err)
		})
	}
}

func TestCareerElaborator_LLMError(t *testing.T) {
	e, err := NewCareerElaborator(llm.DisabledClient{})
	require.NoError(t, err)
	_, err = e.Elaborate(context.Background(), domain.TraitScores{}, domain.TraitInterpretation{}, []domain.FieldMatch{{Field: "Data Science"}})
	assert.ErrorIs(t, err, llm.ErrDisabled)
}
