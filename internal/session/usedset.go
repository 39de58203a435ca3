package session

import (
	"math/rand"
	"sync"

	"github.com/eigo-practice/backend/internal/models"
)

// UsedSet tracks which pool sentences a session has already been
// served, per difficulty, so back-to-back requests do not repeat. Once
// a pool is exhausted the set clears and selection restarts over the
// full pool, so progress never stalls.
type UsedSet struct {
	mu   sync.Mutex
	rand *rand.Rand
	used map[string]map[string]bool
}

func NewUsedSet() *UsedSet {
	return &UsedSet{
		rand: rand.New(rand.NewSource(rand.Int63())),
		used: make(map[string]map[string]bool),
	}
}

// NewUsedSetWithSeed pins the random source. Tests use this.
func NewUsedSetWithSeed(seed int64) *UsedSet {
	s := NewUsedSet()
	s.rand = rand.New(rand.NewSource(seed))
	return s
}

func poolKey(sessionKey string, level models.DifficultyLevel) string {
	return sessionKey + "|" + string(level)
}

// Pick selects one unused sentence uniformly at random from pool and
// marks it used. On exhaustion the used record is cleared first and the
// pick is uniform over the whole pool.
func (s *UsedSet) Pick(sessionKey string, level models.DifficultyLevel, pool []string) string {
	if len(pool) == 0 {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := poolKey(sessionKey, level)
	used := s.used[key]
	if used == nil {
		used = make(map[string]bool)
		s.used[key] = used
	}

	unused := make([]string, 0, len(pool))
	for _, sentence := range pool {
		if !used[sentence] {
			unused = append(unused, sentence)
		}
	}

	if len(unused) == 0 {
		// Pool exhausted: clear and pick over the full pool. The pick
		// after a reset is uniform — the cleared selection is not
		// re-excluded first.
		used = make(map[string]bool)
		s.used[key] = used
		unused = pool
	}

	picked := unused[s.rand.Intn(len(unused))]
	used[picked] = true
	return picked
}

// MarkUsed records a sentence served outside pool selection (the model
// path) so the avoid-list covers it too.
func (s *UsedSet) MarkUsed(sessionKey string, level models.DifficultyLevel, sentence string) {
	if sentence == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := poolKey(sessionKey, level)
	if s.used[key] == nil {
		s.used[key] = make(map[string]bool)
	}
	s.used[key][sentence] = true
}

// Recent returns up to max sentences already served to this session at
// this level, for the generation prompt's avoid-list.
func (s *UsedSet) Recent(sessionKey string, level models.DifficultyLevel, max int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used[poolKey(sessionKey, level)]
	recent := make([]string, 0, len(used))
	for sentence := range used {
		if len(recent) >= max {
			break
		}
		recent = append(recent, sentence)
	}
	return recent
}
