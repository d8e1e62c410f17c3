package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pfplabs/croaker/models"
)

// Store is the single accessor for the agent's local history datastore.
// All posting decisions that depend on the past (duplicates, rate windows,
// topic statistics) go through it.
type Store struct {
	db *gorm.DB
}

// New wraps an initialized gorm DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// NormalizeContent lowercases and collapses whitespace so trivially reworded
// duplicates hash identically.
func NormalizeContent(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// HashContent returns the hex sha256 of the normalized text.
func HashContent(text string) string {
	sum := sha256.Sum256([]byte(NormalizeContent(text)))
	return hex.EncodeToString(sum[:])
}

// CreatePost inserts a pending record before any publish attempt.
func (s *Store) CreatePost(post *models.Post) error {
	if post.ContentHash == "" {
		post.ContentHash = HashContent(post.Content)
	}
	if post.Status == "" {
		post.Status = models.StatusPending
	}
	return s.db.Create(post).Error
}

// MarkPosted records a successful publish. TweetID and PostedAt are set
// together with the status flip.
func (s *Store) MarkPosted(id uint, tweetID string, at time.Time) error {
	return s.db.Model(&models.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":    models.StatusPosted,
		"tweet_id":  tweetID,
		"posted_at": at,
	}).Error
}

// MarkFailed records a failed publish attempt with its reason.
func (s *Store) MarkFailed(id uint, reason string) error {
	return s.db.Model(&models.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": reason,
	}).Error
}

// RecentPosts returns the newest posts, optionally filtered by status.
func (s *Store) RecentPosts(limit int, status string) ([]models.Post, error) {
	q := s.db.Order("created_at DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var posts []models.Post
	err := q.Find(&posts).Error
	return posts, err
}

// IsDuplicate reports whether an identical normalized text was posted within
// the window.
func (s *Store) IsDuplicate(text string, window time.Duration) (bool, error) {
	since := time.Now().Add(-window)
	var count int64
	err := s.db.Model(&models.Post{}).
		Where("content_hash = ? AND status = ? AND posted_at >= ?", HashContent(text), models.StatusPosted, since).
		Count(&count).Error
	return count > 0, err
}

// CountPostedSince counts successful publishes after the given instant.
// Thread follow-ups count individually; the rate gate caps API writes, not topics.
func (s *Store) CountPostedSince(t time.Time) (int, error) {
	var count int64
	err := s.db.Model(&models.Post{}).
		Where("status = ? AND posted_at >= ?", models.StatusPosted, t).
		Count(&count).Error
	return int(count), err
}

// TopicUsage returns the usage row for a content type, zero row when unseen.
func (s *Store) TopicUsage(contentType string) (models.TopicUsage, error) {
	var usage models.TopicUsage
	err := s.db.Where("content_type = ?", contentType).First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TopicUsage{ContentType: contentType, SuccessRate: 1}, nil
	}
	return usage, err
}

// AllTopicUsage returns every known usage row keyed by content type.
func (s *Store) AllTopicUsage() (map[string]models.TopicUsage, error) {
	var rows []models.TopicUsage
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.TopicUsage, len(rows))
	for _, row := range rows {
		out[row.ContentType] = row
	}
	return out, nil
}

// TouchTopic bumps the usage counter and last-used timestamp for a selection.
func (s *Store) TouchTopic(contentType string, at time.Time) error {
	usage := models.TopicUsage{ContentType: contentType, UsageCount: 1, SuccessRate: 1, LastUsed: &at}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "content_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"usage_count": gorm.Expr("usage_count + 1"),
			"last_used":   at,
		}),
	}).Create(&usage).Error
}

// RecordOutcome folds one publish result into the topic's running statistics.
// Success rate and average engagement use an exponential moving average so old
// history decays.
func (s *Store) RecordOutcome(contentType string, success bool, engagement float64) error {
	usage, err := s.TopicUsage(contentType)
	if err != nil {
		return err
	}
	const alpha = 0.3
	outcome := 0.0
	if success {
		outcome = 1.0
	}
	if usage.ID == 0 {
		usage.SuccessRate = outcome
		usage.AvgEngagement = engagement
		return s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"success_rate", "avg_engagement"}),
		}).Create(&usage).Error
	}
	usage.SuccessRate = usage.SuccessRate*(1-alpha) + outcome*alpha
	usage.AvgEngagement = usage.AvgEngagement*(1-alpha) + engagement*alpha
	return s.db.Model(&models.TopicUsage{}).Where("id = ?", usage.ID).Updates(map[string]interface{}{
		"success_rate":   usage.SuccessRate,
		"avg_engagement": usage.AvgEngagement,
	}).Error
}

// PostedWithTweetIDSince returns posted rows newer than the cutoff that carry
// a tweet id, oldest first. The engagement poller feeds on this.
func (s *Store) PostedWithTweetIDSince(cutoff time.Time) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Where("status = ? AND tweet_id IS NOT NULL AND posted_at >= ?", models.StatusPosted, cutoff).
		Order("posted_at ASC").
		Find(&posts).Error
	return posts, err
}

// UpdateEngagement overwrites the public-metric counters for a post.
func (s *Store) UpdateEngagement(id uint, likes, reposts, replies int) error {
	return s.db.Model(&models.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"likes":   likes,
		"reposts": reposts,
		"replies": replies,
	}).Error
}

// Stats is an aggregate snapshot for the ops API.
type Stats struct {
	TotalPosts     int64              `json:"total_posts"`
	Posted         int64              `json:"posted"`
	Failed         int64              `json:"failed"`
	PostedToday    int                `json:"posted_today"`
	TotalLikes     int64              `json:"total_likes"`
	TotalReposts   int64              `json:"total_reposts"`
	TotalReplies   int64              `json:"total_replies"`
	TopicBreakdown []models.TopicUsage `json:"topic_breakdown"`
}

// EngagementStats aggregates outcomes over the trailing number of days.
func (s *Store) EngagementStats(days int) (Stats, error) {
	var stats Stats
	cutoff := time.Now().AddDate(0, 0, -days)

	if err := s.db.Model(&models.Post{}).Where("created_at >= ?", cutoff).Count(&stats.TotalPosts).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&models.Post{}).Where("created_at >= ? AND status = ?", cutoff, models.StatusPosted).Count(&stats.Posted).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&models.Post{}).Where("created_at >= ? AND status = ?", cutoff, models.StatusFailed).Count(&stats.Failed).Error; err != nil {
		return stats, err
	}

	today, err := s.CountPostedSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		return stats, err
	}
	stats.PostedToday = today

	type sums struct {
		Likes   int64
		Reposts int64
		Replies int64
	}
	var totals sums
	if err := s.db.Model(&models.Post{}).
		Select("COALESCE(SUM(likes),0) AS likes, COALESCE(SUM(reposts),0) AS reposts, COALESCE(SUM(replies),0) AS replies").
		Where("created_at >= ? AND status = ?", cutoff, models.StatusPosted).
		Scan(&totals).Error; err != nil {
		return stats, err
	}
	stats.TotalLikes = totals.Likes
	stats.TotalReposts = totals.Reposts
	stats.TotalReplies = totals.Replies

	if err := s.db.Order("usage_count DESC").Find(&stats.TopicBreakdown).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// RefreshTopicEngagement recomputes avg_engagement per content type from the
// posted rows' current counters. The engagement poller calls this after each
// metrics sweep.
func (s *Store) RefreshTopicEngagement() error {
	type row struct {
		ContentType string
		Avg         float64
	}
	var rows []row
	if err := s.db.Model(&models.Post{}).
		Select("content_type, AVG(likes + reposts + replies) AS avg").
		Where("status = ?", models.StatusPosted).
		Group("content_type").
		Scan(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		if err := s.db.Model(&models.TopicUsage{}).
			Where("content_type = ?", r.ContentType).
			Update("avg_engagement", r.Avg).Error; err != nil {
			return err
		}
	}
	return nil
}

// Setting reads a persisted key, empty string when absent.
func (s *Store) Setting(key string) (string, error) {
	var row models.Setting
	err := s.db.Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return row.Value, err
}

// SetSetting upserts a persisted key.
func (s *Store) SetSetting(key, value string) error {
	row := models.Setting{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}
