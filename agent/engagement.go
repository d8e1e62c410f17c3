package agent

import (
	"context"
	"time"

	"github.com/pfplabs/croaker/clients"
	"github.com/pfplabs/croaker/store"
	"github.com/pfplabs/croaker/utils"
)

const (
	engagementLookback = 7 * 24 * time.Hour
	lookupBatchSize    = 100
)

// EngagementPoller periodically refreshes public metrics for recently posted
// tweets and folds them into the topic statistics. Best effort; failures are
// logged and retried on the next tick.
type EngagementPoller struct {
	store     *store.Store
	publisher clients.Publisher
	interval  time.Duration
}

// NewEngagementPoller builds the poller.
func NewEngagementPoller(st *store.Store, pub clients.Publisher, interval time.Duration) *EngagementPoller {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &EngagementPoller{store: st, publisher: pub, interval: interval}
}

// Run polls until the context is canceled. It sleeps first to avoid racing
// the boot sequence.
func (p *EngagementPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *EngagementPoller) poll(ctx context.Context) {
	posts, err := p.store.PostedWithTweetIDSince(time.Now().Add(-engagementLookback))
	if err != nil {
		utils.Sugar.Warnw("engagement poll: history query failed", "err", err)
		return
	}
	if len(posts) == 0 {
		return
	}

	byTweetID := make(map[string]uint, len(posts))
	ids := make([]string, 0, len(posts))
	for _, post := range posts {
		if post.TweetID == nil {
			continue
		}
		byTweetID[*post.TweetID] = post.ID
		ids = append(ids, *post.TweetID)
	}

	updated := 0
	for start := 0; start < len(ids); start += lookupBatchSize {
		end := start + lookupBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		metrics, err := p.publisher.Lookup(ctx, ids[start:end])
		if err != nil {
			utils.Sugar.Warnw("engagement poll: metrics lookup failed", "err", err)
			return
		}
		for tweetID, m := range metrics {
			if err := p.store.UpdateEngagement(byTweetID[tweetID], m.Likes, m.Reposts, m.Replies); err != nil {
				utils.Sugar.Warnw("engagement poll: update failed", "tweet_id", tweetID, "err", err)
				continue
			}
			updated++
		}
	}

	if updated > 0 {
		if err := p.store.RefreshTopicEngagement(); err != nil {
			utils.Sugar.Warnw("engagement poll: topic refresh failed", "err", err)
		}
		utils.Sugar.Infow("engagement metrics refreshed", "posts", updated)
	}
}
