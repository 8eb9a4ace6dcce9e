package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"career-advisor/internal/domain"
	"career-advisor/internal/llm"
)

// ErrElaborationInvalid indica que el LLM respondio algo que no cumple el esquema.
var ErrElaborationInvalid = errors.New("elaboration response invalid")

const elaborationSchema = `{
  "type": "object",
  "required": ["overview", "fields"],
  "properties": {
    "overview": {"type": "string", "minLength": 1},
    "fields": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["field", "reason"],
        "properties": {
          "field": {"type": "string", "minLength": 1},
          "reason": {"type": "string", "minLength": 1},
          "first_steps": {"type": "array", "items": {"type": "string"}, "maxItems": 5}
        }
      }
    }
  }
}`

// CareerElaborator pide al LLM una explicacion por campo recomendado.
type CareerElaborator struct {
	llmClient llm.LLMClient
	schema    *gojsonschema.Schema
}

func NewCareerElaborator(llmClient llm.LLMClient) (*CareerElaborator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(elaborationSchema))
	if err != nil {
		return nil, fmt.Errorf("compile elaboration schema: %w", err)
	}
	return &CareerElaborator{llmClient: llmClient, schema: schema}, nil
}

// Elaborate nunca inventa campos: descarta los que no fueron recomendados.
func (e *CareerElaborator) Elaborate(ctx context.Context, scores domain.TraitScores, interp domain.TraitInterpretation, matches []domain.FieldMatch) (*domain.CareerElaboration, error) {
	if e == nil || e.llmClient == nil {
		return nil, llm.ErrDisabled
	}
	if len(matches) == 0 {
		return nil, ErrElaborationInvalid
	}

	raw, err := e.llmClient.Generate(ctx, buildElaborationPrompt(scores, interp, matches))
	if err != nil {
		return nil, fmt.Errorf("llm generate: %w", err)
	}

	doc := ExtractLLMJSON(raw)
	if doc == "" {
		return nil, fmt.Errorf("%w: no json object", ErrElaborationInvalid)
	}

	result, err := e.schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrElaborationInvalid, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrElaborationInvalid, strings.Join(errs, "; "))
	}

	var out domain.CareerElaboration
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrElaborationInvalid, err)
	}

	allowed := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		allowed[strings.ToLower(m.Field)] = struct{}{}
	}
	kept := make([]domain.FieldElaboration, 0, len(out.Fields))
	for _, f := range out.Fields {
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(f.Field))]; !ok {
			continue
		}
		if f.FirstSteps == nil {
			f.FirstSteps = []string{}
		}
		kept = append(kept, f)
	}
	out.Overview = strings.TrimSpace(out.Overview)
	out.Fields = kept
	return &out, nil
}

func buildElaborationPrompt(scores domain.TraitScores, interp domain.TraitInterpretation, matches []domain.FieldMatch) string {
	var b strings.Builder
	b.WriteString("You are a career advisor. A user completed a Big Five (OCEAN) personality assessment.\n\n")
	b.WriteString("Trait scores (0-100):\n")
	for _, c := range domain.TraitOrder {
		fmt.Fprintf(&b, "- %s: %.0f\n", c, scores.Get(c))
	}
	if interp.Summary != "" {
		fmt.Fprintf(&b, "\nSummary: %s\n", interp.Summary)
	}
	b.WriteString("\nRecommended career fields, in order:\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m.Field)
	}
	b.WriteString(`
For each recommended field write one short paragraph explaining why it fits this profile and up to
three concrete first steps. Do not add fields that are not in the list.
Return ONLY a JSON object with this shape:
{"overview": "...", "fields": [{"field": "<name from the list>", "reason": "...", "first_steps": ["..."]}]}`)
	return b.String()
}
