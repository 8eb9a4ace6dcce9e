package service

import (
	"regexp"
	"strings"
)

var (
	fenceStart = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	fenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// cleanLLMJSONResponse quita BOM y fences ```json ... ```.
func cleanLLMJSONResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// extractFirstJSONObject devuelve el primer objeto {...} balanceado, ignorando llaves
// dentro de strings. Devuelve "" si no hay ninguno.
func extractFirstJSONObject(input string) string {
	start := strings.IndexByte(input, '{')
	if start == -1 {
		return ""
	}

	inString := false
	escape := false
	depth := 0

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}

// ExtractLLMJSON combina limpieza y extraccion sobre la respuesta cruda del LLM.
func ExtractLLMJSON(raw string) string {
	if obj := extractFirstJSONObject(cleanLLMJSONResponse(raw)); obj != "" {
		return obj
	}
	return extractFirstJSONObject(raw)
}
