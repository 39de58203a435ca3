package generator

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

const validProblemJSON = `{"japaneseSentence":"私は毎日学校に行きます。","modelAnswer":"I go to school every day.","hints":["every day = 毎日"]}`

func validEvaluationJSON(rating string) string {
	return fmt.Sprintf(`{
  "correctTranslation": "I go to school every day.",
  "feedback": "よくできました。",
  "rating": %s,
  "improvements": ["冠詞に注意"],
  "explanation": "文法は正確です。語彙も適切です。語順も自然です。丁寧さも問題ありません。",
  "similarPhrases": ["I walk to school every day.", "I attend school daily."]
}`, rating)
}

// ── Strategy Layering ──────────────────────────────────────

func TestParseProblem_Direct(t *testing.T) {
	item, err := ParseProblem(validProblemJSON)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if item.JapaneseSentence != "私は毎日学校に行きます。" {
		t.Errorf("unexpected sentence: %q", item.JapaneseSentence)
	}
	if len(item.Hints) != 1 {
		t.Errorf("expected 1 hint, got %d", len(item.Hints))
	}
}

func TestParseProblem_FencedBlock(t *testing.T) {
	input := "Here is the problem you asked for:\n```json\n" + validProblemJSON + "\n```\nGood luck!"

	item, err := ParseProblem(input)
	if err != nil {
		t.Fatalf("expected fenced-block extraction to succeed, got: %v", err)
	}
	if item.ModelAnswer != "I go to school every day." {
		t.Errorf("unexpected model answer: %q", item.ModelAnswer)
	}
}

func TestParseProblem_BraceExtract(t *testing.T) {
	// No fences; trailing prose contains a brace so the greedy
	// prefix-strip slice would be invalid. The balanced scan handles it.
	input := "Sure! " + validProblemJSON + " Note: {hints} are optional."

	item, err := ParseProblem(input)
	if err != nil {
		t.Fatalf("expected brace extraction to succeed, got: %v", err)
	}
	if item.JapaneseSentence == "" {
		t.Error("expected sentence to survive extraction")
	}
}

func TestParseProblem_PrefixStrip(t *testing.T) {
	// A brace inside a string value defeats the non-string-aware
	// balanced scan; the first-{-to-last-} slice still parses.
	input := `The JSON: {"japaneseSentence":"記号「}」に注意。","modelAnswer":"Watch the } symbol.","hints":["brace = 波括弧"]}`

	item, err := ParseProblem(input)
	if err != nil {
		t.Fatalf("expected prefix-strip extraction to succeed, got: %v", err)
	}
	if !strings.Contains(item.ModelAnswer, "}") {
		t.Errorf("brace inside string value lost: %q", item.ModelAnswer)
	}
}

func TestParseProblem_NoJSONAnywhere(t *testing.T) {
	_, err := ParseProblem("I'm sorry, I can't produce that sentence right now.")
	if err == nil {
		t.Fatal("expected ParseFailure")
	}

	var pf *ParseFailure
	if !errors.As(err, &pf) {
		t.Fatalf("expected *ParseFailure, got %T", err)
	}
	if pf.Excerpt == "" {
		t.Error("ParseFailure should carry a diagnostic excerpt")
	}
}

func TestParseFailure_ExcerptTruncated(t *testing.T) {
	_, err := ParseProblem(strings.Repeat("no json here ", 100))

	var pf *ParseFailure
	if !errors.As(err, &pf) {
		t.Fatalf("expected *ParseFailure, got %T", err)
	}
	if len(pf.Excerpt) > excerptLimit {
		t.Errorf("excerpt length %d exceeds limit %d", len(pf.Excerpt), excerptLimit)
	}
}

func TestParseFailure_ExcerptKeepsRuneBoundary(t *testing.T) {
	// Multi-byte text long enough that a byte-count cut would land
	// mid-rune.
	_, err := ParseProblem(strings.Repeat("申し訳ありませんが、", 30))

	var pf *ParseFailure
	if !errors.As(err, &pf) {
		t.Fatalf("expected *ParseFailure, got %T", err)
	}
	if !utf8.ValidString(pf.Excerpt) {
		t.Error("truncated excerpt must remain valid UTF-8")
	}
}

// ── Shape Validation ───────────────────────────────────────

func TestParseProblem_MissingSentenceIsValidationError(t *testing.T) {
	_, err := ParseProblem(`{"hints":["h"]}`)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError (model produced JSON), got %T", err)
	}

	var pf *ParseFailure
	if errors.As(err, &pf) {
		t.Error("validation failure must be distinct from parse failure")
	}
}

func TestParseProblem_MissingHintsIsValidationError(t *testing.T) {
	_, err := ParseProblem(`{"japaneseSentence":"今日は晴れです。"}`)
	if err == nil {
		t.Fatal("expected validation error for missing hints")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestParseProblem_WrongFieldTypeIsValidationError(t *testing.T) {
	// The model produced a JSON object, just with hints as a string
	// instead of an array. That is a shape problem, not a missing-JSON
	// problem.
	_, err := ParseProblem(`{"japaneseSentence":"今日は晴れです。","hints":"主語を忘れずに"}`)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestParseEvaluation_NonNumericRatingIsValidationError(t *testing.T) {
	_, err := ParseEvaluation(validEvaluationJSON(`"excellent"`))
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	var pf *ParseFailure
	if errors.As(err, &pf) {
		t.Error("a well-formed JSON object must never report as a parse failure")
	}
}

// ── Evaluation Parsing ─────────────────────────────────────

func TestParseEvaluation_Valid(t *testing.T) {
	result, err := ParseEvaluation(validEvaluationJSON("4"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Rating != 4 {
		t.Errorf("rating = %d, want 4", result.Rating)
	}
	if len(result.SimilarPhrases) < 2 {
		t.Errorf("expected at least 2 similar phrases, got %d", len(result.SimilarPhrases))
	}
}

func TestParseEvaluation_RatingClamped(t *testing.T) {
	cases := map[string]int{
		`0`:   1,
		`7`:   5,
		`"3"`: 3,
		`-2`:  1,
		`4.6`: 4,
	}

	for input, want := range cases {
		result, err := ParseEvaluation(validEvaluationJSON(input))
		if err != nil {
			t.Errorf("rating %s: unexpected error: %v", input, err)
			continue
		}
		if result.Rating != want {
			t.Errorf("rating %s clamped to %d, want %d", input, result.Rating, want)
		}
	}
}

func TestParseEvaluation_MissingArraysDefault(t *testing.T) {
	input := `{
  "correctTranslation": "I go to school.",
  "feedback": "よくできました。",
  "rating": 3,
  "explanation": "説明です。文法は正確です。語彙も適切です。語順も自然です。"
}`

	result, err := ParseEvaluation(input)
	if err != nil {
		t.Fatalf("missing arrays should not fail validation: %v", err)
	}
	if result.Improvements == nil {
		t.Error("improvements should default to empty, not nil")
	}
	if len(result.SimilarPhrases) < 2 {
		t.Errorf("similarPhrases should be padded to 2, got %d", len(result.SimilarPhrases))
	}
}

func TestParseEvaluation_OnePhrasePadded(t *testing.T) {
	input := `{
  "correctTranslation": "I go to school.",
  "feedback": "よくできました。",
  "rating": 3,
  "explanation": "説明です。文法は正確です。語彙も適切です。語順も自然です。",
  "similarPhrases": ["I attend school."]
}`

	result, err := ParseEvaluation(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.SimilarPhrases) != 2 {
		t.Fatalf("expected padding to 2 phrases, got %d", len(result.SimilarPhrases))
	}
	if result.SimilarPhrases[0] != "I attend school." {
		t.Errorf("model-supplied phrase should come first, got %q", result.SimilarPhrases[0])
	}
}

func TestParseEvaluation_MissingRequiredFields(t *testing.T) {
	_, err := ParseEvaluation(`{"rating": 3}`)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Errors) < 3 {
		t.Errorf("expected errors for translation, feedback, explanation; got %v", ve.Errors)
	}
}

func TestClampRating(t *testing.T) {
	cases := map[int]int{-5: 1, 0: 1, 1: 1, 3: 3, 5: 5, 6: 5, 100: 5}
	for input, want := range cases {
		if got := ClampRating(input); got != want {
			t.Errorf("ClampRating(%d) = %d, want %d", input, got, want)
		}
	}
}
