package generator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/eigo-practice/backend/internal/models"
)

// ParseFailure means no strategy could pull a JSON object out of the
// model's reply. Excerpt carries a truncated slice of the raw text for
// operational logs.
type ParseFailure struct {
	Excerpt string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("no JSON object found in model response: %q", e.Excerpt)
}

// ValidationError means the model produced JSON, but the JSON is
// missing required data. Distinct from ParseFailure so callers can log
// "no JSON at all" and "JSON missing fields" separately.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

const excerptLimit = 200

// ── Extraction Strategies ──────────────────────────────────

// A strategy pulls a JSON candidate out of free-form model text.
// Strategies are tried in order; the first whose candidate is a JSON
// object wins.
type strategy struct {
	name    string
	extract func(string) (string, bool)
}

var strategies = []strategy{
	{"direct", extractDirect},
	{"fenced_block", extractFencedBlock},
	{"brace_extract", extractBraceSubstring},
	{"prefix_strip", extractPrefixStrip},
}

func extractDirect(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

func extractFencedBlock(s string) (string, bool) {
	start := strings.Index(s, "```")
	if start < 0 {
		return "", false
	}
	rest := s[start+3:]
	// Skip a language tag like "json" on the fence line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(rest[:nl])
		if len(firstLine) <= 10 && !strings.Contains(firstLine, "{") {
			rest = rest[nl+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// extractBraceSubstring returns the first balanced {...} span. The
// scan counts braces without string-awareness; a brace inside a JSON
// string value defeats it, which is what the prefix_strip layer is for.
func extractBraceSubstring(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func extractPrefixStrip(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	stripped := strings.TrimSpace(s[start:])
	if end := strings.LastIndexByte(stripped, '}'); end >= 0 {
		stripped = stripped[:end+1]
	}
	return stripped, true
}

// extractJSON runs the strategies in order until one yields a JSON
// object, then unmarshals that object into dst. The two failure modes
// stay distinct: no strategy yielding an object is a ParseFailure,
// while an object whose fields do not fit dst (a non-numeric rating,
// hints as a string) is a ValidationError.
func extractJSON(raw string, dst interface{}) error {
	for _, st := range strategies {
		candidate, ok := st.extract(raw)
		if !ok {
			continue
		}
		var object map[string]json.RawMessage
		if json.Unmarshal([]byte(candidate), &object) != nil {
			continue
		}
		if err := json.Unmarshal([]byte(candidate), dst); err != nil {
			return &ValidationError{Errors: []string{err.Error()}}
		}
		return nil
	}

	excerpt := strings.TrimSpace(raw)
	if len(excerpt) > excerptLimit {
		cut := excerptLimit
		for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
			cut--
		}
		excerpt = excerpt[:cut]
	}
	return &ParseFailure{Excerpt: excerpt}
}

// ── Problem Parsing ────────────────────────────────────────

type generatedProblem struct {
	JapaneseSentence string   `json:"japaneseSentence"`
	ModelAnswer      string   `json:"modelAnswer"`
	Hints            []string `json:"hints"`
}

// ParseProblem extracts and validates a practice item from the model's
// free-text reply.
func ParseProblem(raw string) (*models.PracticeItem, error) {
	var gp generatedProblem
	if err := extractJSON(raw, &gp); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(gp.JapaneseSentence) == "" {
		errs = append(errs, "empty japaneseSentence")
	}
	if len(gp.Hints) == 0 {
		errs = append(errs, "no hints")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &models.PracticeItem{
		JapaneseSentence: strings.TrimSpace(gp.JapaneseSentence),
		Hints:            gp.Hints,
		ModelAnswer:      strings.TrimSpace(gp.ModelAnswer),
	}, nil
}

// ── Evaluation Parsing ─────────────────────────────────────

// flexRating accepts the rating as a JSON number, a float, or a numeric
// string — models return all three.
type flexRating int

func (r *flexRating) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*r = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("rating %q is not numeric", s)
	}
	*r = flexRating(int(f))
	return nil
}

type generatedEvaluation struct {
	CorrectTranslation string     `json:"correctTranslation"`
	Feedback           string     `json:"feedback"`
	Rating             flexRating `json:"rating"`
	Improvements       []string   `json:"improvements"`
	Explanation        string     `json:"explanation"`
	SimilarPhrases     []string   `json:"similarPhrases"`
}

var genericSimilarPhrases = []string{
	"Could you say that another way?",
	"Let me put it differently.",
}

// ParseEvaluation extracts and validates an evaluation from the model's
// free-text reply. Ratings are clamped to [1,5]; missing arrays default
// to empty; similarPhrases is padded to two entries rather than
// rejected.
func ParseEvaluation(raw string) (*models.EvaluationResult, error) {
	var ge generatedEvaluation
	if err := extractJSON(raw, &ge); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(ge.CorrectTranslation) == "" {
		errs = append(errs, "empty correctTranslation")
	}
	if strings.TrimSpace(ge.Feedback) == "" {
		errs = append(errs, "empty feedback")
	}
	if strings.TrimSpace(ge.Explanation) == "" {
		errs = append(errs, "empty explanation")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	improvements := ge.Improvements
	if improvements == nil {
		improvements = []string{}
	}

	similar := ge.SimilarPhrases
	for i := 0; len(similar) < 2 && i < len(genericSimilarPhrases); i++ {
		similar = append(similar, genericSimilarPhrases[i])
	}

	return &models.EvaluationResult{
		CorrectTranslation: strings.TrimSpace(ge.CorrectTranslation),
		Feedback:           strings.TrimSpace(ge.Feedback),
		Rating:             ClampRating(int(ge.Rating)),
		Improvements:       improvements,
		Explanation:        strings.TrimSpace(ge.Explanation),
		SimilarPhrases:     similar,
	}, nil
}

// ClampRating forces a model-supplied rating into [1,5].
func ClampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}
