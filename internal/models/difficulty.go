package models

import "strings"

type DifficultyLevel string

const (
	DifficultyTOEIC         DifficultyLevel = "toeic"
	DifficultyMiddleSchool  DifficultyLevel = "middle-school"
	DifficultyHighSchool    DifficultyLevel = "high-school"
	DifficultyBasicVerbs    DifficultyLevel = "basic-verbs"
	DifficultyBusinessEmail DifficultyLevel = "business-email"
	DifficultySimulation    DifficultyLevel = "simulation"
)

var ValidDifficultyLevels = map[DifficultyLevel]bool{
	DifficultyTOEIC:         true,
	DifficultyMiddleSchool:  true,
	DifficultyHighSchool:    true,
	DifficultyBasicVerbs:    true,
	DifficultyBusinessEmail: true,
	DifficultySimulation:    true,
}

// AllDifficultyLevels lists the canonical levels in display order.
var AllDifficultyLevels = []DifficultyLevel{
	DifficultyTOEIC,
	DifficultyMiddleSchool,
	DifficultyHighSchool,
	DifficultyBasicVerbs,
	DifficultyBusinessEmail,
	DifficultySimulation,
}

// NormalizeDifficulty maps a client-supplied difficulty string onto the
// canonical enumeration. Legacy clients send underscore spellings
// ("middle_school") and arbitrary casing; both are accepted. The second
// return value is false when the input matches no known level — callers
// must reject the request rather than defaulting.
func NormalizeDifficulty(raw string) (DifficultyLevel, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", "-")
	level := DifficultyLevel(s)
	if !ValidDifficultyLevels[level] {
		return "", false
	}
	return level, true
}

// AcceptedDifficultySpellings returns the spellings listed in the 400
// hint when normalization fails.
func AcceptedDifficultySpellings() string {
	parts := make([]string, 0, len(AllDifficultyLevels)*2)
	for _, level := range AllDifficultyLevels {
		parts = append(parts, string(level))
		if underscore := strings.ReplaceAll(string(level), "-", "_"); underscore != string(level) {
			parts = append(parts, underscore)
		}
	}
	return strings.Join(parts, ", ")
}

// DifficultyDisplayName returns a human-readable name for a level.
func DifficultyDisplayName(level DifficultyLevel) string {
	switch level {
	case DifficultyTOEIC:
		return "TOEIC"
	case DifficultyMiddleSchool:
		return "middle school English"
	case DifficultyHighSchool:
		return "high school English"
	case DifficultyBasicVerbs:
		return "basic verbs"
	case DifficultyBusinessEmail:
		return "business email"
	case DifficultySimulation:
		return "real-life simulation"
	default:
		return string(level)
	}
}
