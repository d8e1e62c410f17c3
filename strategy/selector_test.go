package strategy

import (
	"errors"
	"math/rand"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pfplabs/croaker/content"
	"github.com/pfplabs/croaker/models"
	"github.com/pfplabs/croaker/utils"
)

func TestMain(m *testing.M) {
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()
	os.Exit(m.Run())
}

type fakeHistory struct {
	usage    map[string]models.TopicUsage
	usageErr error
	posts    []models.Post
}

func (f *fakeHistory) AllTopicUsage() (map[string]models.TopicUsage, error) {
	return f.usage, f.usageErr
}

func (f *fakeHistory) RecentPosts(limit int, status string) ([]models.Post, error) {
	return f.posts, nil
}

func testTemplates() []content.Template {
	return []content.Template{
		{ContentType: "alpha", SystemPrompt: "sys-a", UserPrompts: []string{"a1", "a2", "a3"}, Weight: 3},
		{ContentType: "beta", SystemPrompt: "sys-b", UserPrompts: []string{"b1"}, Weight: 1},
		{ContentType: "gamma", SystemPrompt: "sys-g", UserPrompts: []string{"g1"}, Weight: 1},
	}
}

func TestSelectEmptyTemplates(t *testing.T) {
	s := NewSelector(nil, &fakeHistory{}, 0.2, rand.New(rand.NewSource(1)))
	if _, err := s.SelectContentType(); !errors.Is(err, content.ErrNoTemplates) {
		t.Fatalf("expected ErrNoTemplates, got %v", err)
	}
}

func TestSelectWeightedDistribution(t *testing.T) {
	templates := []content.Template{
		{ContentType: "heavy", UserPrompts: []string{"h"}, Weight: 3},
		{ContentType: "light", UserPrompts: []string{"l"}, Weight: 1},
	}
	rng := rand.New(rand.NewSource(42))

	// Fresh selector per draw keeps draws independent of the recency exclusion.
	const draws = 4000
	heavy := 0
	for i := 0; i < draws; i++ {
		s := NewSelector(templates, &fakeHistory{}, 0.2, rng)
		got, err := s.SelectContentType()
		if err != nil {
			t.Fatal(err)
		}
		if got == "heavy" {
			heavy++
		}
	}
	ratio := float64(heavy) / draws
	if ratio < 0.70 || ratio > 0.80 {
		t.Fatalf("3:1 weights should yield ~75%% heavy, got %.3f", ratio)
	}
}

func TestSelectExcludesRecentTypes(t *testing.T) {
	s := NewSelector(testTemplates(), &fakeHistory{}, 0.2, rand.New(rand.NewSource(7)))
	s.recentTypes = []string{"alpha", "beta"}

	for i := 0; i < 20; i++ {
		got, err := s.SelectContentType()
		if err != nil {
			t.Fatal(err)
		}
		if got != "gamma" {
			t.Fatalf("draw %d: expected gamma with alpha and beta excluded, got %s", i, got)
		}
		s.recentTypes = []string{"alpha", "beta"}
	}
}

func TestSelectFallsBackWhenPoolEmpties(t *testing.T) {
	templates := testTemplates()[:2]
	s := NewSelector(templates, &fakeHistory{}, 0.2, rand.New(rand.NewSource(7)))
	s.recentTypes = []string{"alpha", "beta"}

	got, err := s.SelectContentType()
	if err != nil {
		t.Fatal(err)
	}
	if got != "alpha" && got != "beta" {
		t.Fatalf("unexpected type %s", got)
	}
}

func TestSelectDegradesOnUsageError(t *testing.T) {
	h := &fakeHistory{usageErr: errors.New("db locked")}
	s := NewSelector(testTemplates(), h, 0.2, rand.New(rand.NewSource(7)))
	if _, err := s.SelectContentType(); err != nil {
		t.Fatalf("usage errors should degrade to base weights, got %v", err)
	}
}

func TestStalenessBoost(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hoursAgo := func(h float64) *time.Time {
		ts := now.Add(-time.Duration(h * float64(time.Hour)))
		return &ts
	}

	cases := []struct {
		name  string
		usage models.TopicUsage
		want  float64
	}{
		{"never used", models.TopicUsage{}, 10},
		{"two hours ago", models.TopicUsage{LastUsed: hoursAgo(2), UsageCount: 1, SuccessRate: 0.5}, 1},
		{"one hour ago floors at one", models.TopicUsage{LastUsed: hoursAgo(1), UsageCount: 1, SuccessRate: 0.5}, 1},
		{"ten hours ago", models.TopicUsage{LastUsed: hoursAgo(10), UsageCount: 1, SuccessRate: 0.5}, 5},
		{"high success multiplies", models.TopicUsage{LastUsed: hoursAgo(10), UsageCount: 1, SuccessRate: 0.9}, 7.5},
		{"never used high success", models.TopicUsage{SuccessRate: 0.9}, 10},
	}
	for _, c := range cases {
		if got := stalenessBoost(c.usage, now); got != c.want {
			t.Errorf("%s: boost = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestPromptForRotates(t *testing.T) {
	s := NewSelector(testTemplates(), &fakeHistory{}, 0.2, rand.New(rand.NewSource(3)))

	seen := map[string]bool{}
	var order []string
	for i := 0; i < 3; i++ {
		_, prompt, err := s.PromptFor("alpha")
		if err != nil {
			t.Fatal(err)
		}
		if seen[prompt] {
			t.Fatalf("prompt %q repeated before the pool was exhausted", prompt)
		}
		seen[prompt] = true
		order = append(order, prompt)
	}

	// Fourth draw wraps around to the first.
	_, prompt, err := s.PromptFor("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if prompt != order[0] {
		t.Fatalf("expected wrap to %q, got %q", order[0], prompt)
	}
}

func TestPromptForUnknownType(t *testing.T) {
	s := NewSelector(testTemplates(), &fakeHistory{}, 0.2, rand.New(rand.NewSource(3)))
	if _, _, err := s.PromptFor("nope"); !errors.Is(err, content.ErrNoTemplates) {
		t.Fatalf("expected ErrNoTemplates, got %v", err)
	}
}

func TestShouldPostThreadOverride(t *testing.T) {
	s := NewSelector(testTemplates(), &fakeHistory{}, 1.0, rand.New(rand.NewSource(3)))

	force := false
	s.SetThreadOverride(&force)
	for i := 0; i < 10; i++ {
		if s.ShouldPostThread() {
			t.Fatal("override false must win over probability 1.0")
		}
	}

	force = true
	s.SetThreadOverride(&force)
	if !s.ShouldPostThread() {
		t.Fatal("override true must force a thread")
	}

	s.SetThreadOverride(nil)
	if !s.ShouldPostThread() {
		t.Fatal("probability 1.0 with no override should always thread")
	}
}

func TestShouldPostThreadDensity(t *testing.T) {
	noThreads := make([]models.Post, 10)
	h := &fakeHistory{posts: noThreads}

	// Base 0.5 doubles to 1.0 when the recent window has no threads.
	s := NewSelector(testTemplates(), h, 0.5, rand.New(rand.NewSource(3)))
	for i := 0; i < 20; i++ {
		if !s.ShouldPostThread() {
			t.Fatal("doubled probability capped at 1.0 should always thread")
		}
	}

	// Base 0 stays 0 regardless of history.
	s = NewSelector(testTemplates(), h, 0, rand.New(rand.NewSource(3)))
	for i := 0; i < 20; i++ {
		if s.ShouldPostThread() {
			t.Fatal("probability 0 should never thread")
		}
	}
}

func TestWeightedPickBoundaries(t *testing.T) {
	weights := []float64{3, 2, 5}
	cases := []struct {
		r    float64
		want int
	}{
		{0, 0},
		{2.9, 0},
		{3, 0}, // boundary draws favor the earlier candidate
		{3.0001, 1},
		{5, 1},
		{5.0001, 2},
		{10, 2},
		{11, 2}, // out of range falls back to the last candidate
	}
	for _, c := range cases {
		if got := weightedPick(c.r, weights); got != c.want {
			t.Errorf("weightedPick(%v) = %d, want %d", c.r, got, c.want)
		}
	}
}
