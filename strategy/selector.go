package strategy

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pfplabs/croaker/content"
	"github.com/pfplabs/croaker/models"
	"github.com/pfplabs/croaker/utils"
)

// History is the slice of the datastore the selector reads.
type History interface {
	AllTopicUsage() (map[string]models.TopicUsage, error)
	RecentPosts(limit int, status string) ([]models.Post, error)
}

const (
	neverUsedBoost   = 10.0
	highSuccessBoost = 1.5
	recentExclusion  = 2 // content types from the last N selections are skipped
)

// Selector picks content types by recency-boosted weighted draw and rotates
// user prompts per type so consecutive posts of one category never reuse the
// same prompt.
type Selector struct {
	templates []content.Template
	byType    map[string]int
	history   History

	mu          sync.Mutex
	rng         *rand.Rand
	now         func() time.Time
	recentTypes []string
	promptIdx   map[string]int
	forceThread *bool
	baseThreadP float64
}

// NewSelector registers the template table. rng drives every random decision
// so tests can seed it.
func NewSelector(templates []content.Template, history History, threadProbability float64, rng *rand.Rand) *Selector {
	byType := make(map[string]int, len(templates))
	for i, t := range templates {
		byType[t.ContentType] = i
	}
	return &Selector{
		templates:   templates,
		byType:      byType,
		history:     history,
		rng:         rng,
		now:         time.Now,
		promptIdx:   make(map[string]int),
		baseThreadP: threadProbability,
	}
}

// SelectContentType draws one content type. Effective weight is the template
// base weight scaled by a staleness boost: types never used get the highest
// boost, otherwise half the hours since last use (floored at 1), times 1.5
// when the type's success rate exceeds 0.8. Types picked within the last two
// selections are excluded unless that empties the pool.
func (s *Selector) SelectContentType() (string, error) {
	if len(s.templates) == 0 {
		return "", content.ErrNoTemplates
	}

	usage := map[string]models.TopicUsage{}
	if s.history != nil {
		loaded, err := s.history.AllTopicUsage()
		if err != nil {
			utils.Sugar.Warnw("topic usage unavailable, selecting on base weights", "err", err)
		} else {
			usage = loaded
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	excluded := map[string]bool{}
	if len(s.recentTypes) >= recentExclusion {
		for _, t := range s.recentTypes[len(s.recentTypes)-recentExclusion:] {
			excluded[t] = true
		}
	}

	candidates := make([]content.Template, 0, len(s.templates))
	for _, t := range s.templates {
		if !excluded[t.ContentType] {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		candidates = s.templates
	}

	now := s.now()
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, t := range candidates {
		w := float64(t.Weight) * stalenessBoost(usage[t.ContentType], now)
		weights[i] = w
		total += w
	}

	r := s.rng.Float64() * total
	chosen := candidates[weightedPick(r, weights)].ContentType

	s.recentTypes = append(s.recentTypes, chosen)
	if len(s.recentTypes) > recentExclusion {
		s.recentTypes = s.recentTypes[len(s.recentTypes)-recentExclusion:]
	}
	return chosen, nil
}

// weightedPick returns the index whose cumulative-weight interval contains r.
// A draw landing exactly on an interval boundary goes to the earlier candidate.
func weightedPick(r float64, weights []float64) int {
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r <= cum {
			return i
		}
	}
	return len(weights) - 1
}

func stalenessBoost(u models.TopicUsage, now time.Time) float64 {
	boost := neverUsedBoost
	if u.LastUsed != nil {
		boost = now.Sub(*u.LastUsed).Hours() / 2
		if boost < 1 {
			boost = 1
		}
	}
	if u.UsageCount > 0 && u.SuccessRate > 0.8 {
		boost *= highSuccessBoost
	}
	return boost
}

// PromptFor returns the type's system prompt and the least recently used user
// prompt. The first draw for a type starts at a random offset.
func (s *Selector) PromptFor(contentType string) (string, string, error) {
	idx, ok := s.byType[contentType]
	if !ok {
		return "", "", content.ErrNoTemplates
	}
	tpl := s.templates[idx]

	s.mu.Lock()
	defer s.mu.Unlock()
	cursor, seen := s.promptIdx[contentType]
	if !seen {
		cursor = s.rng.Intn(len(tpl.UserPrompts))
	}
	prompt := tpl.UserPrompts[cursor%len(tpl.UserPrompts)]
	s.promptIdx[contentType] = (cursor + 1) % len(tpl.UserPrompts)
	return tpl.SystemPrompt, prompt, nil
}

// ShouldPostThread decides whether the next post is a thread. The base
// probability shifts with recent thread density: four or more threads among
// the last ten posted halves it, zero threads doubles it.
func (s *Selector) ShouldPostThread() bool {
	s.mu.Lock()
	if s.forceThread != nil {
		decision := *s.forceThread
		s.mu.Unlock()
		return decision
	}
	s.mu.Unlock()

	p := s.baseThreadP
	if s.history != nil {
		if recent, err := s.history.RecentPosts(10, models.StatusPosted); err == nil {
			threads := 0
			for _, post := range recent {
				if post.IsThread {
					threads++
				}
			}
			switch {
			case threads >= 4:
				p = s.baseThreadP / 2
			case threads == 0 && len(recent) > 0:
				p = s.baseThreadP * 2
			}
		}
	}
	if p > 1 {
		p = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < p
}

// SetThreadOverride pins the thread decision; pass nil to restore the
// probabilistic behavior.
func (s *Selector) SetThreadOverride(force *bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceThread = force
}
