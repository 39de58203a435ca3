package practice

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/eigo-practice/backend/internal/fallback"
	"github.com/eigo-practice/backend/internal/generator"
	"github.com/eigo-practice/backend/internal/models"
	"github.com/eigo-practice/backend/internal/quota"
	"github.com/eigo-practice/backend/internal/session"
)

// QuotaExceededError is the one deliberate business rejection in the
// generation flow; handlers surface it as 429, never masked by
// fallback content.
type QuotaExceededError struct {
	Count int
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily limit reached: %d/%d", e.Count, e.Limit)
}

// Service sequences the practice pipeline: quota, selection or
// generation, parsing, and fallback.
type Service struct {
	quota     quota.Counter
	sessions  *session.UsedSet
	generator *generator.Generator
	fallback  *fallback.Provider
	usePool   bool
}

func NewService(counter quota.Counter, gen *generator.Generator) *Service {
	// With no provider credentials the model path would only ever time
	// out, so the static pools serve directly and selection still runs
	// through the repeat-avoidance set.
	usePool := os.Getenv("STATIC_POOL") == "true" || !generator.ProviderConfigured()
	if usePool {
		log.Println("Service: serving problems from static pools")
	}

	return &Service{
		quota:     counter,
		sessions:  session.NewUsedSet(),
		generator: gen,
		fallback:  fallback.NewProvider(),
		usePool:   usePool,
	}
}

// SetPoolOnly forces pool selection instead of the model path.
func (s *Service) SetPoolOnly(poolOnly bool) {
	s.usePool = poolOnly
}

// avoidListMax bounds how many prior sentences the generation prompt
// lists.
const avoidListMax = 5

// GenerateProblem issues one practice item for the identity key.
// Failures on the model path degrade to pool content; only quota
// exhaustion and counter errors propagate.
func (s *Service) GenerateProblem(ctx context.Context, key string, level models.DifficultyLevel) (*models.ProblemResponse, error) {
	allowed, count, err := s.quota.TryIncrement(key)
	if err != nil {
		return nil, fmt.Errorf("quota check: %w", err)
	}
	if !allowed {
		return nil, &QuotaExceededError{Count: count, Limit: s.quota.Limit()}
	}

	var item models.PracticeItem

	if s.usePool {
		item = s.pickFromPool(key, level)
	} else {
		generated, _, err := s.generator.GenerateProblem(ctx, level, s.sessions.Recent(key, level, avoidListMax))
		if err != nil {
			log.Printf("WARNING: problem generation failed for %s, serving fallback: %v", level, err)
			item = s.fallback.Problem(level)
		} else {
			item = *generated
		}
		s.sessions.MarkUsed(key, level, item.JapaneseSentence)
	}

	return &models.ProblemResponse{
		JapaneseSentence:  item.JapaneseSentence,
		Hints:             item.Hints,
		ModelAnswer:       item.ModelAnswer,
		DailyLimitReached: false,
		CurrentCount:      count,
		DailyLimit:        s.quota.Limit(),
	}, nil
}

func (s *Service) pickFromPool(key string, level models.DifficultyLevel) models.PracticeItem {
	sentence := s.sessions.Pick(key, level, fallback.PoolSentences(level))
	if item, ok := fallback.ItemBySentence(level, sentence); ok {
		return item
	}
	return s.fallback.Problem(level)
}

// EvaluateTranslation grades a submission. The model path degrades to
// the heuristic fallback on any failure — this method never returns an
// error for a well-formed request.
func (s *Service) EvaluateTranslation(ctx context.Context, japaneseSentence, userTranslation string, level models.DifficultyLevel) *models.EvaluationResult {
	result, _, err := s.generator.EvaluateTranslation(ctx, japaneseSentence, userTranslation, level)
	if err != nil {
		log.Printf("WARNING: evaluation failed, serving fallback: %v", err)
		fb := s.fallback.Evaluation(userTranslation)
		return &fb
	}
	return result
}

// QuotaStatus reports the identity key's remaining allowance.
func (s *Service) QuotaStatus(key string) (*models.QuotaStatusResponse, error) {
	count, err := s.quota.Count(key)
	if err != nil {
		return nil, fmt.Errorf("quota status: %w", err)
	}
	return &models.QuotaStatusResponse{
		CurrentCount:      count,
		DailyLimit:        s.quota.Limit(),
		DailyLimitReached: count >= s.quota.Limit(),
	}, nil
}

// ResetQuota zeroes today's count for a key. Administrative only.
func (s *Service) ResetQuota(key string) error {
	return s.quota.Reset(key)
}
