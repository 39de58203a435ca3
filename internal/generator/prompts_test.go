package generator

import (
	"strings"
	"testing"

	"github.com/eigo-practice/backend/internal/models"
)

func TestAllLevelsHaveSpecs(t *testing.T) {
	for level := range models.ValidDifficultyLevels {
		spec, ok := levelSpecs[level]
		if !ok {
			t.Errorf("level %q has no spec", level)
			continue
		}
		if spec.Scope == "" || spec.Forbidden == "" || spec.Domain == "" || spec.WorkedExample == "" {
			t.Errorf("level %q spec has empty sections", level)
		}
		if spec.MinChars < 8 || spec.MaxChars > 50 || spec.MinChars >= spec.MaxChars {
			t.Errorf("level %q has implausible char range [%d,%d]", level, spec.MinChars, spec.MaxChars)
		}
	}
}

func TestGenerationSystemPrompt(t *testing.T) {
	prompt := GenerationSystemPrompt()

	required := []string{"Japanese", "ONE Japanese sentence", "HINTS", "MODEL ANSWER", "JSON"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("generation system prompt missing keyword %q", keyword)
		}
	}
}

func TestEvaluationSystemPrompt(t *testing.T) {
	prompt := EvaluationSystemPrompt()

	required := []string{"GRADING RUBRIC", "1-5", "encouragement", "Japanese", "JSON", "TWO similar"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("evaluation system prompt missing keyword %q", keyword)
		}
	}

	// The rubric anchors a 3 as adequate, not punitive.
	if !strings.Contains(prompt, "a 3 is merely adequate") {
		t.Error("rubric should anchor 3 as adequate")
	}
}

func TestBuildGenerationPrompt(t *testing.T) {
	prompt := BuildGenerationPrompt(models.DifficultyMiddleSchool, nil)

	required := []string{
		"middle school",
		"japaneseSentence",
		"modelAnswer",
		"hints",
		"LEVEL SCOPE",
		"FORBIDDEN AT THIS LEVEL",
		"8-25",
	}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("generation prompt missing keyword %q", keyword)
		}
	}

	// Worked examples at this level must appear.
	if !strings.Contains(prompt, "私は毎日学校に行きます。") {
		t.Error("generation prompt should include a worked example")
	}
}

func TestBuildGenerationPrompt_AvoidList(t *testing.T) {
	recent := []string{"昨日は雨でした。", "今日は晴れです。"}
	prompt := BuildGenerationPrompt(models.DifficultyMiddleSchool, recent)

	for _, sentence := range recent {
		if !strings.Contains(prompt, sentence) {
			t.Errorf("avoid-list missing sentence %q", sentence)
		}
	}
	if !strings.Contains(prompt, "do NOT reproduce") {
		t.Error("avoid-list instruction missing")
	}

	// No avoid-list section without prior sentences.
	empty := BuildGenerationPrompt(models.DifficultyMiddleSchool, nil)
	if strings.Contains(empty, "Already served") {
		t.Error("avoid-list should be omitted when no sentences are recent")
	}
}

func TestBuildGenerationPrompt_LevelSpecsInjected(t *testing.T) {
	for level := range models.ValidDifficultyLevels {
		prompt := BuildGenerationPrompt(level, nil)
		scope := GetLevelScope(level)

		firstLine := strings.Split(scope, "\n")[0]
		if !strings.Contains(prompt, firstLine) {
			t.Errorf("level %q: scope not found in generation prompt", level)
		}
	}
}

func TestBuildEvaluationPrompt(t *testing.T) {
	prompt := BuildEvaluationPrompt("私は毎日学校に行きます。", "I go to school every day.", models.DifficultyMiddleSchool)

	required := []string{
		"私は毎日学校に行きます。",
		"I go to school every day.",
		"correctTranslation",
		"feedback",
		"rating",
		"improvements",
		"explanation",
		"similarPhrases",
		"at least 2",
		"1 to 5",
	}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("evaluation prompt missing keyword %q", keyword)
		}
	}
}

func TestGetLevelCharRange(t *testing.T) {
	min, max := GetLevelCharRange(models.DifficultyBusinessEmail)
	if min != 15 || max != 50 {
		t.Errorf("business email range = [%d,%d], want [15,50]", min, max)
	}
}
