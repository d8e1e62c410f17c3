package store

import (
	"fmt"
	"math"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pfplabs/croaker/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	for _, m := range []interface{}{&models.Post{}, &models.TopicUsage{}, &models.Setting{}} {
		if err := db.AutoMigrate(m); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return New(db)
}

func TestNormalizeAndHash(t *testing.T) {
	if got := NormalizeContent("  GM   Frogs \n today "); got != "gm frogs today" {
		t.Fatalf("NormalizeContent = %q", got)
	}
	if HashContent("GM  Frogs") != HashContent("gm frogs") {
		t.Fatal("reworded whitespace should hash identically")
	}
	if HashContent("gm frogs") == HashContent("gn frogs") {
		t.Fatal("different text should hash differently")
	}
}

func TestCreatePostDefaults(t *testing.T) {
	s := newTestStore(t)
	post := &models.Post{Content: "gm frogs", ContentType: "general"}
	if err := s.CreatePost(post); err != nil {
		t.Fatal(err)
	}
	if post.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if post.Status != models.StatusPending {
		t.Fatalf("status = %q, want pending", post.Status)
	}
	if post.ContentHash != HashContent("gm frogs") {
		t.Fatal("content hash not filled")
	}
}

func TestMarkPostedAndFailed(t *testing.T) {
	s := newTestStore(t)
	a := &models.Post{Content: "first", ContentType: "general"}
	b := &models.Post{Content: "second", ContentType: "general"}
	for _, p := range []*models.Post{a, b} {
		if err := s.CreatePost(p); err != nil {
			t.Fatal(err)
		}
	}

	now := time.Now()
	if err := s.MarkPosted(a.ID, "1234567890", now); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkFailed(b.ID, "rate limited"); err != nil {
		t.Fatal(err)
	}

	posted, err := s.RecentPosts(10, models.StatusPosted)
	if err != nil {
		t.Fatal(err)
	}
	if len(posted) != 1 || posted[0].ID != a.ID || posted[0].TweetID == nil || *posted[0].TweetID != "1234567890" {
		t.Fatalf("unexpected posted rows: %+v", posted)
	}

	failed, err := s.RecentPosts(10, models.StatusFailed)
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 1 || failed[0].ErrorMessage != "rate limited" {
		t.Fatalf("unexpected failed rows: %+v", failed)
	}
}

func TestIsDuplicate(t *testing.T) {
	s := newTestStore(t)
	post := &models.Post{Content: "unique frog wisdom", ContentType: "general"}
	if err := s.CreatePost(post); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkPosted(post.ID, "111", time.Now()); err != nil {
		t.Fatal(err)
	}

	dup, err := s.IsDuplicate("UNIQUE   frog wisdom", 48*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !dup {
		t.Fatal("normalized match inside the window should be a duplicate")
	}

	dup, err = s.IsDuplicate("different frog wisdom", 48*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if dup {
		t.Fatal("different text flagged as duplicate")
	}
}

func TestIsDuplicateOutsideWindow(t *testing.T) {
	s := newTestStore(t)
	post := &models.Post{Content: "ancient frog wisdom", ContentType: "general"}
	if err := s.CreatePost(post); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkPosted(post.ID, "222", time.Now().Add(-72*time.Hour)); err != nil {
		t.Fatal(err)
	}

	dup, err := s.IsDuplicate("ancient frog wisdom", 48*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if dup {
		t.Fatal("post older than the window should not count")
	}
}

func TestIsDuplicateIgnoresPendingAndFailed(t *testing.T) {
	s := newTestStore(t)
	pending := &models.Post{Content: "never made it out", ContentType: "general"}
	if err := s.CreatePost(pending); err != nil {
		t.Fatal(err)
	}
	failed := &models.Post{Content: "also never made it", ContentType: "general"}
	if err := s.CreatePost(failed); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkFailed(failed.ID, "boom"); err != nil {
		t.Fatal(err)
	}

	for _, text := range []string{"never made it out", "also never made it"} {
		dup, err := s.IsDuplicate(text, 48*time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		if dup {
			t.Fatalf("%q was never posted, must not be a duplicate", text)
		}
	}
}

func TestCountPostedSince(t *testing.T) {
	s := newTestStore(t)
	times := []time.Duration{-10 * time.Minute, -30 * time.Minute, -3 * time.Hour}
	for i, ago := range times {
		p := &models.Post{Content: fmt.Sprintf("post %d", i), ContentType: "general"}
		if err := s.CreatePost(p); err != nil {
			t.Fatal(err)
		}
		if err := s.MarkPosted(p.ID, fmt.Sprintf("id-%d", i), time.Now().Add(ago)); err != nil {
			t.Fatal(err)
		}
	}

	hourly, err := s.CountPostedSince(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if hourly != 2 {
		t.Fatalf("hourly = %d, want 2", hourly)
	}

	daily, err := s.CountPostedSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if daily != 3 {
		t.Fatalf("daily = %d, want 3", daily)
	}
}

func TestRecentPostsLimitAndOrder(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		p := &models.Post{
			Content:     fmt.Sprintf("post %d", i),
			ContentType: "general",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.CreatePost(p); err != nil {
			t.Fatal(err)
		}
	}

	posts, err := s.RecentPosts(3, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 3 {
		t.Fatalf("limit ignored, got %d rows", len(posts))
	}
	if posts[0].Content != "post 4" {
		t.Fatalf("expected newest first, got %q", posts[0].Content)
	}
}

func TestTopicUsageUnseen(t *testing.T) {
	s := newTestStore(t)
	usage, err := s.TopicUsage("never_selected")
	if err != nil {
		t.Fatal(err)
	}
	if usage.ContentType != "never_selected" || usage.SuccessRate != 1 || usage.UsageCount != 0 {
		t.Fatalf("unexpected zero row: %+v", usage)
	}
}

func TestTouchTopicUpserts(t *testing.T) {
	s := newTestStore(t)
	first := time.Now().Add(-time.Hour)
	second := time.Now()

	if err := s.TouchTopic("degen_wisdom", first); err != nil {
		t.Fatal(err)
	}
	if err := s.TouchTopic("degen_wisdom", second); err != nil {
		t.Fatal(err)
	}

	usage, err := s.TopicUsage("degen_wisdom")
	if err != nil {
		t.Fatal(err)
	}
	if usage.UsageCount != 2 {
		t.Fatalf("usage count = %d, want 2", usage.UsageCount)
	}
	if usage.LastUsed == nil || usage.LastUsed.Unix() != second.Unix() {
		t.Fatalf("last used not advanced: %+v", usage.LastUsed)
	}
}

func TestRecordOutcomeEMA(t *testing.T) {
	s := newTestStore(t)
	if err := s.TouchTopic("shitpost", time.Now()); err != nil {
		t.Fatal(err)
	}

	// Row starts at success rate 1; one failure decays it by alpha.
	if err := s.RecordOutcome("shitpost", false, 0); err != nil {
		t.Fatal(err)
	}
	usage, err := s.TopicUsage("shitpost")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(usage.SuccessRate-0.7) > 1e-9 {
		t.Fatalf("success rate = %v, want 0.7", usage.SuccessRate)
	}

	if err := s.RecordOutcome("shitpost", true, 10); err != nil {
		t.Fatal(err)
	}
	usage, err = s.TopicUsage("shitpost")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(usage.SuccessRate-0.79) > 1e-9 {
		t.Fatalf("success rate = %v, want 0.79", usage.SuccessRate)
	}
	if math.Abs(usage.AvgEngagement-3.0) > 1e-9 {
		t.Fatalf("avg engagement = %v, want 3.0", usage.AvgEngagement)
	}
}

func TestRecordOutcomeNewType(t *testing.T) {
	s := newTestStore(t)
	if err := s.RecordOutcome("fresh_type", true, 5); err != nil {
		t.Fatal(err)
	}
	usage, err := s.TopicUsage("fresh_type")
	if err != nil {
		t.Fatal(err)
	}
	if usage.SuccessRate != 1 || usage.AvgEngagement != 5 {
		t.Fatalf("first outcome should seed the row directly: %+v", usage)
	}
}

func TestEngagementRefresh(t *testing.T) {
	s := newTestStore(t)
	if err := s.TouchTopic("market_analysis", time.Now()); err != nil {
		t.Fatal(err)
	}

	var ids []uint
	for i := 0; i < 2; i++ {
		p := &models.Post{Content: fmt.Sprintf("analysis %d", i), ContentType: "market_analysis"}
		if err := s.CreatePost(p); err != nil {
			t.Fatal(err)
		}
		if err := s.MarkPosted(p.ID, fmt.Sprintf("tw-%d", i), time.Now()); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, p.ID)
	}

	if err := s.UpdateEngagement(ids[0], 10, 2, 3); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateEngagement(ids[1], 4, 0, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.RefreshTopicEngagement(); err != nil {
		t.Fatal(err)
	}

	usage, err := s.TopicUsage("market_analysis")
	if err != nil {
		t.Fatal(err)
	}
	// (15 + 5) / 2
	if math.Abs(usage.AvgEngagement-10) > 1e-9 {
		t.Fatalf("avg engagement = %v, want 10", usage.AvgEngagement)
	}
}

func TestPostedWithTweetIDSince(t *testing.T) {
	s := newTestStore(t)

	old := &models.Post{Content: "old post", ContentType: "general"}
	if err := s.CreatePost(old); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkPosted(old.ID, "old-id", time.Now().Add(-10*24*time.Hour)); err != nil {
		t.Fatal(err)
	}

	recent := &models.Post{Content: "recent post", ContentType: "general"}
	if err := s.CreatePost(recent); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkPosted(recent.ID, "recent-id", time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}

	pending := &models.Post{Content: "pending post", ContentType: "general"}
	if err := s.CreatePost(pending); err != nil {
		t.Fatal(err)
	}

	posts, err := s.PostedWithTweetIDSince(time.Now().Add(-7 * 24 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 || *posts[0].TweetID != "recent-id" {
		t.Fatalf("unexpected rows: %+v", posts)
	}
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)

	val, err := s.Setting("missing")
	if err != nil {
		t.Fatal(err)
	}
	if val != "" {
		t.Fatalf("missing key should read empty, got %q", val)
	}

	if err := s.SetSetting("last_price_mention", "2026-03-01T12:00:00Z"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSetting("last_price_mention", "2026-03-02T08:00:00Z"); err != nil {
		t.Fatal(err)
	}

	val, err = s.Setting("last_price_mention")
	if err != nil {
		t.Fatal(err)
	}
	if val != "2026-03-02T08:00:00Z" {
		t.Fatalf("upsert did not overwrite, got %q", val)
	}
}

func TestEngagementStats(t *testing.T) {
	s := newTestStore(t)

	ok := &models.Post{Content: "winner", ContentType: "general"}
	if err := s.CreatePost(ok); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkPosted(ok.ID, "tw-1", time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateEngagement(ok.ID, 7, 1, 2); err != nil {
		t.Fatal(err)
	}

	bad := &models.Post{Content: "loser", ContentType: "general"}
	if err := s.CreatePost(bad); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkFailed(bad.ID, "nope"); err != nil {
		t.Fatal(err)
	}

	stats, err := s.EngagementStats(30)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalPosts != 2 || stats.Posted != 1 || stats.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.PostedToday != 1 {
		t.Fatalf("posted today = %d, want 1", stats.PostedToday)
	}
	if stats.TotalLikes != 7 || stats.TotalReposts != 1 || stats.TotalReplies != 2 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
}
