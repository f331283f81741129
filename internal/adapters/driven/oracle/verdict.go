package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
)

// verdictPayload is the JSON object the model is instructed to return.
type verdictPayload struct {
	Reason      string  `json:"reason"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	Mixed       bool    `json:"is_mixed"`
	Description string  `json:"description"`
}

// ParseVerdict decodes a model response into a verdict. Responses wrapped in
// markdown code fences or surrounded by prose are tolerated; an unknown
// category or malformed JSON is an error so the caller retries instead of
// acting on a bad judgment.
func ParseVerdict(raw string) (driven.Verdict, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return driven.Verdict{}, fmt.Errorf("no JSON object in oracle response")
	}

	var v verdictPayload
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return driven.Verdict{}, fmt.Errorf("decode oracle response: %w", err)
	}

	category, err := domain.ParseCategory(strings.ToLower(strings.TrimSpace(v.Category)))
	if err != nil {
		return driven.Verdict{}, err
	}

	return driven.Verdict{
		Category:    category,
		Confidence:  v.Confidence,
		Mixed:       v.Mixed,
		Description: strings.TrimSpace(v.Description),
		Reason:      strings.TrimSpace(v.Reason),
	}, nil
}

// extractJSON returns the first top-level JSON object in the text, stripping
// any surrounding code fences or prose.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
