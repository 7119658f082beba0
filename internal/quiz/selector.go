// Package quiz picks the next quiz question from a candidate pool.
package quiz

import (
	"math/rand/v2"
	"sync"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

// Result is the outcome of a pick. When Exhausted is set every candidate has
// already been served and Question is nil.
type Result struct {
	Question  *domain.Question
	Total     int
	Exhausted bool
}

// Selector picks uniformly among the unseen candidates
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a selector backed by a randomly seeded source
func NewSelector() *Selector {
	return NewSelectorWithSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSelectorWithSource creates a selector drawing from src
func NewSelectorWithSource(src rand.Source) *Selector {
	return &Selector{rng: rand.New(src)}
}

// Pick returns one candidate whose id is not in previous, paired with total.
// It reports exhaustion when no such candidate exists.
func (s *Selector) Pick(candidates []domain.Question, previous []int, total int) Result {
	seen := make(map[int]struct{}, len(previous))
	for _, id := range previous {
		seen[id] = struct{}{}
	}

	unseen := make([]int, 0, len(candidates))
	for i, q := range candidates {
		if _, ok := seen[q.ID]; !ok {
			unseen = append(unseen, i)
		}
	}

	if len(unseen) == 0 {
		return Result{Total: total, Exhausted: true}
	}

	// *rand.Rand is not safe for concurrent use.
	s.mu.Lock()
	n := s.rng.IntN(len(unseen))
	s.mu.Unlock()

	question := candidates[unseen[n]]
	return Result{Question: &question, Total: total}
}
