// Command verify exercises the live generation and evaluation pipeline
// for every difficulty level and reports parse/shape results. This is
// the one path that retries: exponential backoff with jitter, capped at
// a small number of attempts. The interactive server never retries.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/eigo-practice/backend/internal/generator"
	"github.com/eigo-practice/backend/internal/models"
)

const maxAttempts = 3

func main() {
	godotenv.Load()

	evaluate := flag.Bool("evaluate", false, "also run an evaluation round per level")
	flag.Parse()

	gen := generator.NewGenerator()
	log.Printf("Verifying content pipeline against model %s", gen.ModelName())

	ctx := context.Background()
	failures := 0

	for _, level := range models.AllDifficultyLevels {
		item, err := generateWithRetry(ctx, gen, level)
		if err != nil {
			log.Printf("FAIL %-15s generation: %v", level, err)
			failures++
			continue
		}

		minChars, maxChars := generator.GetLevelCharRange(level)
		runes := len([]rune(item.JapaneseSentence))
		lengthNote := ""
		if runes < minChars || runes > maxChars {
			lengthNote = fmt.Sprintf(" (length %d outside [%d,%d])", runes, minChars, maxChars)
		}
		log.Printf("ok   %-15s %q hints=%d%s", level, item.JapaneseSentence, len(item.Hints), lengthNote)

		if !*evaluate {
			continue
		}

		result, _, err := gen.EvaluateTranslation(ctx, item.JapaneseSentence, item.ModelAnswer, level)
		if err != nil {
			log.Printf("FAIL %-15s evaluation: %v", level, err)
			failures++
			continue
		}
		log.Printf("ok   %-15s evaluation rating=%d similar=%d", level, result.Rating, len(result.SimilarPhrases))
	}

	if failures > 0 {
		log.Printf("%d failure(s)", failures)
		os.Exit(1)
	}
	log.Println("All levels verified")
}

func generateWithRetry(ctx context.Context, gen *generator.Generator, level models.DifficultyLevel) (*models.PracticeItem, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			jitter := time.Duration(rand.Int63n(int64(time.Second)))
			log.Printf("Retrying %s in %v (attempt %d)", level, backoff+jitter, attempt+1)
			time.Sleep(backoff + jitter)
		}

		item, _, err := gen.GenerateProblem(ctx, level, nil)
		if err == nil {
			return item, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
