package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"intellicoach/internal/textutil"
)

// Outcome records which parsing phase produced the scores.
type Outcome string

const (
	OutcomeParsed    Outcome = "parsed"
	OutcomeExtracted Outcome = "extracted"
	OutcomeFallback  Outcome = "fallback"
)

// ParseResult is the outcome of interpreting a model reply.
type ParseResult struct {
	Scores  Scores
	Outcome Outcome
	// Err explains why the strict phase failed. It is informational only.
	Err error
}

var errNoScores = errors.New("reply carries no rubric scores")

type rawScores struct {
	Clarity     score           `json:"clarity"`
	Engagement  score           `json:"engagement"`
	Confidence  score           `json:"confidence"`
	Technical   score           `json:"technical"`
	Interaction score           `json:"interaction"`
	Overall     score           `json:"overall"`
	Suggestions json.RawMessage `json:"suggestions"`
}

// score is a rubric value written either as a JSON number or as a numeric
// string such as "85". Some models quote their numbers.
type score struct {
	value float64
	set   bool
}

func (s *score) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("score %s is not a number", data)
	}
	*s = score{value: value, set: true}
	return nil
}

// Parse interprets raw model output. It first decodes the whole reply (after
// removing a Markdown code fence), then the first balanced top-level JSON
// object found in it, and otherwise returns FallbackScores.
func Parse(raw string) ParseResult {
	body := textutil.StripCodeFence(raw)
	scores, strictErr := decodeScores(body)
	if strictErr == nil {
		return ParseResult{Scores: scores, Outcome: OutcomeParsed}
	}
	if object, ok := firstObject(raw); ok {
		if scores, err := decodeScores(object); err == nil {
			return ParseResult{Scores: scores, Outcome: OutcomeExtracted, Err: strictErr}
		}
	}
	return ParseResult{Scores: FallbackScores(), Outcome: OutcomeFallback, Err: strictErr}
}

func decodeScores(body string) (Scores, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Scores{}, errors.New("empty reply")
	}
	var parsed rawScores
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return Scores{}, err
	}
	if !parsed.Clarity.set && !parsed.Engagement.set && !parsed.Confidence.set &&
		!parsed.Technical.set && !parsed.Interaction.set {
		return Scores{}, errNoScores
	}
	scores := Scores{
		Clarity:     clampScore(parsed.Clarity.value),
		Engagement:  clampScore(parsed.Engagement.value),
		Confidence:  clampScore(parsed.Confidence.value),
		Technical:   clampScore(parsed.Technical.value),
		Interaction: clampScore(parsed.Interaction.value),
		Suggestions: decodeSuggestions(parsed.Suggestions),
	}
	if o := parsed.Overall; o.set && o.value >= 0 && o.value <= 100 {
		scores.Overall = roundOverall(o.value)
	} else {
		scores.Overall = WeightedOverall(scores)
	}
	if len(scores.Suggestions) == 0 {
		scores.Suggestions = []string{PlaceholderSuggestion}
	}
	return scores, nil
}

// decodeSuggestions accepts a list of strings or a single string.
func decodeSuggestions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil
		}
		list = []string{single}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// firstObject returns the first balanced {...} span in s, skipping braces
// inside JSON strings.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	for start >= 0 {
		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(s); i++ {
			c := s[i]
			if inString {
				switch {
				case escaped:
					escaped = false
				case c == '\\':
					escaped = true
				case c == '"':
					inString = false
				}
				continue
			}
			switch c {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
		// Unbalanced from this brace; try the next one.
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}
