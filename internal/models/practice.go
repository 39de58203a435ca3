package models

// ── Core Structs ───────────────────────────────────────

// PracticeItem is a Japanese sentence presented to the learner, with
// hints and (on the model path) a model answer.
type PracticeItem struct {
	JapaneseSentence string   `json:"japaneseSentence"`
	Hints            []string `json:"hints"`
	ModelAnswer      string   `json:"modelAnswer,omitempty"`
}

// EvaluationResult is the graded outcome of a submitted translation.
// Rating is always within [1,5] by the time it reaches a client.
type EvaluationResult struct {
	CorrectTranslation string   `json:"correctTranslation"`
	Feedback           string   `json:"feedback"`
	Rating             int      `json:"rating"`
	Improvements       []string `json:"improvements"`
	Explanation        string   `json:"explanation"`
	SimilarPhrases     []string `json:"similarPhrases"`
}

// ── Request / Response Shapes ──────────────────────────

// GenerateProblemRequest accepts both field names clients have used for
// the difficulty; DifficultyLevel wins when both are present.
type GenerateProblemRequest struct {
	DifficultyLevel string `json:"difficultyLevel"`
	Difficulty      string `json:"difficulty"`
}

// RawDifficulty returns whichever difficulty field the client supplied.
func (r GenerateProblemRequest) RawDifficulty() string {
	if r.DifficultyLevel != "" {
		return r.DifficultyLevel
	}
	return r.Difficulty
}

// EvaluateRequest accepts legacy aliases for the translation field.
type EvaluateRequest struct {
	JapaneseSentence string `json:"japaneseSentence"`
	UserTranslation  string `json:"userTranslation"`
	UserAnswer       string `json:"userAnswer"`
	Answer           string `json:"answer"`
	DifficultyLevel  string `json:"difficultyLevel"`
	Difficulty       string `json:"difficulty"`
}

// RawTranslation returns whichever translation field the client
// supplied, in precedence order.
func (r EvaluateRequest) RawTranslation() string {
	if r.UserTranslation != "" {
		return r.UserTranslation
	}
	if r.UserAnswer != "" {
		return r.UserAnswer
	}
	return r.Answer
}

// RawDifficulty returns whichever difficulty field the client supplied.
func (r EvaluateRequest) RawDifficulty() string {
	if r.DifficultyLevel != "" {
		return r.DifficultyLevel
	}
	return r.Difficulty
}

// ProblemResponse is the 200 body for a generated practice item.
type ProblemResponse struct {
	JapaneseSentence  string   `json:"japaneseSentence"`
	Hints             []string `json:"hints"`
	ModelAnswer       string   `json:"modelAnswer,omitempty"`
	DailyLimitReached bool     `json:"dailyLimitReached"`
	CurrentCount      int      `json:"currentCount"`
	DailyLimit        int      `json:"dailyLimit"`
}

// QuotaExceededResponse is the 429 body when the daily limit is hit.
type QuotaExceededResponse struct {
	Message           string `json:"message"`
	DailyLimitReached bool   `json:"dailyLimitReached"`
	CurrentCount      int    `json:"currentCount"`
	DailyLimit        int    `json:"dailyLimit"`
}

// QuotaStatusResponse reports the caller's remaining allowance.
type QuotaStatusResponse struct {
	CurrentCount      int  `json:"currentCount"`
	DailyLimit        int  `json:"dailyLimit"`
	DailyLimitReached bool `json:"dailyLimitReached"`
}

// ErrorResponse is the body for 400-class rejections.
type ErrorResponse struct {
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}
