package agent

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pfplabs/croaker/clients"
	"github.com/pfplabs/croaker/models"
	"github.com/pfplabs/croaker/store"
	"github.com/pfplabs/croaker/strategy"
	"github.com/pfplabs/croaker/utils"
)

// EngagementClient is the inbound slice of the publishing API the responder
// drives: who am I, who talked to me, and posting replies.
type EngagementClient interface {
	Me(ctx context.Context) (clients.Account, error)
	Mentions(ctx context.Context, userID string, since time.Time) ([]clients.Mention, error)
	ConversationReplies(ctx context.Context, conversationID string) ([]clients.Mention, error)
	TweetText(ctx context.Context, id string) (string, error)
	Reply(ctx context.Context, text, inReplyTo string) (string, error)
}

// ReplyGenerator produces conversational replies.
type ReplyGenerator interface {
	MentionReply(ctx context.Context, author, mention, originalTweet string) (string, error)
	CommentReply(ctx context.Context, ownTweet, author, comment string) (string, error)
}

// ResponderConfig bounds one engagement cycle.
type ResponderConfig struct {
	PollInterval     time.Duration
	Lookback         time.Duration
	MaxPerTweet      int // comment replies per own tweet per cycle
	WatchedTweets    int // recent own tweets scanned for comments
	BlockedUsernames []string
}

// Responder periodically answers @-mentions and comments under the bot's own
// tweets. Every reply, of either kind, draws from one shared hourly budget.
// Best effort; failures are logged and retried on the next tick.
type Responder struct {
	store   *store.Store
	client  EngagementClient
	writer  ReplyGenerator
	limiter *strategy.ReplyLimiter
	cfg     ResponderConfig
	blocked map[string]bool

	self clients.Account

	mu      sync.Mutex
	replied map[string]bool
}

const (
	minMentionLength  = 15
	minCommentLength  = 10
	repliedTrackLimit = 5000
)

// NewResponder wires the engagement loop.
func NewResponder(st *store.Store, client EngagementClient, writer ReplyGenerator, limiter *strategy.ReplyLimiter, cfg ResponderConfig) *Responder {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Minute
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = 2 * time.Hour
	}
	if cfg.MaxPerTweet <= 0 {
		cfg.MaxPerTweet = 2
	}
	if cfg.WatchedTweets <= 0 {
		cfg.WatchedTweets = 3
	}
	blocked := make(map[string]bool, len(cfg.BlockedUsernames))
	for _, name := range cfg.BlockedUsernames {
		blocked[strings.ToLower(name)] = true
	}
	return &Responder{
		store:   st,
		client:  client,
		writer:  writer,
		limiter: limiter,
		cfg:     cfg,
		blocked: blocked,
		replied: make(map[string]bool),
	}
}

// Run polls until the context is canceled. The first poll waits a full
// interval so boot traffic settles first.
func (r *Responder) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.poll(ctx)
		}
	}
}

func (r *Responder) poll(ctx context.Context) {
	if r.self.ID == "" {
		me, err := r.client.Me(ctx)
		if err != nil {
			utils.Sugar.Warnw("responder: account lookup failed", "err", err)
			return
		}
		r.self = me
	}
	r.handleMentions(ctx)
	r.handleComments(ctx)
}

// handleMentions answers the highest-signal @-mentions from the lookback
// window, within the shared reply budget.
func (r *Responder) handleMentions(ctx context.Context) {
	mentions, err := r.client.Mentions(ctx, r.self.ID, time.Now().Add(-r.cfg.Lookback))
	if err != nil {
		utils.Sugar.Warnw("responder: mention fetch failed", "err", err)
		return
	}

	worthy := make([]clients.Mention, 0, len(mentions))
	for _, m := range mentions {
		if r.alreadyReplied(m.ID) || r.isSelf(m) || r.isBlocked(m) {
			continue
		}
		if looksSpammy(m.Text, minMentionLength) {
			continue
		}
		worthy = append(worthy, m)
	}
	sort.SliceStable(worthy, func(i, j int) bool {
		return mentionScore(worthy[i]) > mentionScore(worthy[j])
	})
	if quota := r.limiter.Remaining(); len(worthy) > quota {
		worthy = worthy[:quota]
	}

	for _, m := range worthy {
		if ok, reason := r.limiter.CanReply(); !ok {
			utils.Sugar.Infow("responder: stopping mention replies", "reason", reason)
			return
		}

		// When the mention answered another tweet, pull that tweet so the
		// reply addresses the whole exchange.
		original := ""
		if m.ReferencedTweetID != "" {
			if text, err := r.client.TweetText(ctx, m.ReferencedTweetID); err == nil {
				original = text
			} else {
				utils.Sugar.Debugw("responder: context fetch failed", "tweet_id", m.ReferencedTweetID, "err", err)
			}
		}

		text, err := r.writer.MentionReply(ctx, m.AuthorUsername, m.Text, original)
		if err != nil {
			utils.Sugar.Warnw("responder: mention reply generation failed", "author", m.AuthorUsername, "err", err)
			continue
		}
		if _, err := r.client.Reply(ctx, text, m.ID); err != nil {
			utils.Sugar.Warnw("responder: mention reply publish failed", "author", m.AuthorUsername, "err", err)
			continue
		}
		r.markReplied(m.ID)
		r.limiter.RecordReply()
		utils.Sugar.Infow("replied to mention", "author", m.AuthorUsername, "text", text)
	}
}

// handleComments answers comments under the bot's most recent tweets.
func (r *Responder) handleComments(ctx context.Context) {
	posts, err := r.store.RecentPosts(r.cfg.WatchedTweets, models.StatusPosted)
	if err != nil {
		utils.Sugar.Warnw("responder: history query failed", "err", err)
		return
	}

	for _, post := range posts {
		if post.TweetID == nil {
			continue
		}
		comments, err := r.client.ConversationReplies(ctx, *post.TweetID)
		if err != nil {
			utils.Sugar.Warnw("responder: comment fetch failed", "tweet_id", *post.TweetID, "err", err)
			continue
		}

		worthy := make([]clients.Mention, 0, len(comments))
		for _, c := range comments {
			if r.alreadyReplied(c.ID) || r.isSelf(c) || r.isBlocked(c) {
				continue
			}
			if !worthCommentReply(c) {
				continue
			}
			worthy = append(worthy, c)
		}
		sort.SliceStable(worthy, func(i, j int) bool {
			return commentScore(worthy[i]) > commentScore(worthy[j])
		})
		if len(worthy) > r.cfg.MaxPerTweet {
			worthy = worthy[:r.cfg.MaxPerTweet]
		}

		for _, c := range worthy {
			if ok, reason := r.limiter.CanReply(); !ok {
				utils.Sugar.Infow("responder: stopping comment replies", "reason", reason)
				return
			}
			text, err := r.writer.CommentReply(ctx, post.Content, c.AuthorUsername, c.Text)
			if err != nil {
				utils.Sugar.Warnw("responder: comment reply generation failed", "author", c.AuthorUsername, "err", err)
				continue
			}
			if _, err := r.client.Reply(ctx, text, c.ID); err != nil {
				utils.Sugar.Warnw("responder: comment reply publish failed", "author", c.AuthorUsername, "err", err)
				continue
			}
			r.markReplied(c.ID)
			r.limiter.RecordReply()
			utils.Sugar.Infow("replied to comment", "author", c.AuthorUsername, "text", text)
		}
	}
}

func (r *Responder) isSelf(m clients.Mention) bool {
	return m.AuthorID == r.self.ID || strings.EqualFold(m.AuthorUsername, r.self.Username)
}

func (r *Responder) isBlocked(m clients.Mention) bool {
	return r.blocked[strings.ToLower(m.AuthorUsername)]
}

func (r *Responder) alreadyReplied(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replied[id]
}

func (r *Responder) markReplied(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// The set is bounded; losing it only risks re-reading one lookback window.
	if len(r.replied) >= repliedTrackLimit {
		r.replied = make(map[string]bool)
	}
	r.replied[id] = true
}

var spamPhrases = []string{"dm me", "check out", "click here", "buy now", "follow me", "follow back"}

// looksSpammy filters obvious spam: too short, promo phrases, shouting.
func looksSpammy(text string, minLen int) bool {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	if len(lower) < minLen {
		return true
	}
	for _, phrase := range spamPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	if len(trimmed) > 20 && trimmed == strings.ToUpper(trimmed) && trimmed != lower {
		return true
	}
	return false
}

// worthCommentReply keeps comments with some signal and drops the obvious
// zero-follower bot accounts.
func worthCommentReply(c clients.Mention) bool {
	if c.AuthorFollowers < 5 && c.Likes == 0 {
		return false
	}
	if looksSpammy(c.Text, minCommentLength) {
		return false
	}
	return c.Likes > 0 || c.AuthorFollowers > 10
}

func mentionScore(m clients.Mention) float64 {
	return float64(m.Likes)*2 + float64(m.Retweets)*3 + float64(m.AuthorFollowers)/100
}

func commentScore(c clients.Mention) float64 {
	return float64(c.Likes)*2 + float64(c.AuthorFollowers)/100
}
