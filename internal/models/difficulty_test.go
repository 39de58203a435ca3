package models

import (
	"strings"
	"testing"
)

func TestNormalizeDifficulty_AcceptedSpellings(t *testing.T) {
	cases := map[string]DifficultyLevel{
		"toeic":          DifficultyTOEIC,
		"TOEIC":          DifficultyTOEIC,
		"middle_school":  DifficultyMiddleSchool,
		"middle-school":  DifficultyMiddleSchool,
		"Middle_School":  DifficultyMiddleSchool,
		"high_school":    DifficultyHighSchool,
		"high-school":    DifficultyHighSchool,
		"basic_verbs":    DifficultyBasicVerbs,
		"basic-verbs":    DifficultyBasicVerbs,
		"business_email": DifficultyBusinessEmail,
		"business-email": DifficultyBusinessEmail,
		"BUSINESS-EMAIL": DifficultyBusinessEmail,
		"simulation":     DifficultySimulation,
		"  simulation  ": DifficultySimulation,
	}

	for input, want := range cases {
		got, ok := NormalizeDifficulty(input)
		if !ok {
			t.Errorf("NormalizeDifficulty(%q): expected valid, got invalid", input)
			continue
		}
		if got != want {
			t.Errorf("NormalizeDifficulty(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeDifficulty_Rejected(t *testing.T) {
	for _, input := range []string{"", "xyz", "middle", "toefl", "middle school", "easy"} {
		if got, ok := NormalizeDifficulty(input); ok {
			t.Errorf("NormalizeDifficulty(%q): expected invalid, got %q", input, got)
		}
	}
}

func TestNormalizeDifficulty_NeverDefaults(t *testing.T) {
	level, ok := NormalizeDifficulty("not-a-level")
	if ok || level != "" {
		t.Errorf("invalid input must not map to a level, got %q", level)
	}
}

func TestAcceptedDifficultySpellings(t *testing.T) {
	hint := AcceptedDifficultySpellings()

	for _, want := range []string{"toeic", "middle-school", "middle_school", "business-email", "simulation"} {
		if !strings.Contains(hint, want) {
			t.Errorf("spellings hint missing %q: %s", want, hint)
		}
	}
}

func TestRawDifficultyPrecedence(t *testing.T) {
	req := GenerateProblemRequest{DifficultyLevel: "toeic", Difficulty: "simulation"}
	if got := req.RawDifficulty(); got != "toeic" {
		t.Errorf("difficultyLevel should win over difficulty, got %q", got)
	}

	req = GenerateProblemRequest{Difficulty: "simulation"}
	if got := req.RawDifficulty(); got != "simulation" {
		t.Errorf("difficulty alias not honored, got %q", got)
	}
}

func TestRawTranslationAliases(t *testing.T) {
	req := EvaluateRequest{UserTranslation: "a", UserAnswer: "b", Answer: "c"}
	if got := req.RawTranslation(); got != "a" {
		t.Errorf("userTranslation should win, got %q", got)
	}

	req = EvaluateRequest{UserAnswer: "b", Answer: "c"}
	if got := req.RawTranslation(); got != "b" {
		t.Errorf("userAnswer should win over answer, got %q", got)
	}

	req = EvaluateRequest{Answer: "c"}
	if got := req.RawTranslation(); got != "c" {
		t.Errorf("answer alias not honored, got %q", got)
	}
}
