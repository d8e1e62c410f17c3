package agent

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pfplabs/croaker/clients"
	"github.com/pfplabs/croaker/models"
	"github.com/pfplabs/croaker/store"
	"github.com/pfplabs/croaker/strategy"
	"github.com/pfplabs/croaker/utils"
)

// ContentGenerator is the generation boundary the orchestrator drives.
type ContentGenerator interface {
	Tweet(ctx context.Context, contentType string) (string, error)
	Thread(ctx context.Context, contentType string, n int) ([]string, error)
}

// Config bounds one posting cycle.
type Config struct {
	DuplicateWindow time.Duration
	ThreadLength    int
	PublishTimeout  time.Duration
}

// Agent runs one publish cycle end to end: gate, selection, generation,
// duplicate rejection, publish, history write, statistics. Cycle failures are
// logged and never crash the loop; the scheduler always reschedules.
type Agent struct {
	store     *store.Store
	selector  *strategy.Selector
	scheduler *strategy.Scheduler
	generator ContentGenerator
	publisher clients.Publisher
	cfg       Config
}

// New wires the orchestrator.
func New(st *store.Store, sel *strategy.Selector, sched *strategy.Scheduler, gen ContentGenerator, pub clients.Publisher, cfg Config) *Agent {
	if cfg.ThreadLength < 2 {
		cfg.ThreadLength = 3
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 30 * time.Second
	}
	return &Agent{
		store:     st,
		selector:  sel,
		scheduler: sched,
		generator: gen,
		publisher: pub,
		cfg:       cfg,
	}
}

// Scheduler exposes the cadence state machine for the ops API.
func (a *Agent) Scheduler() *strategy.Scheduler { return a.scheduler }

// Run drives the scheduler loop until the context is canceled.
func (a *Agent) Run(ctx context.Context) {
	a.scheduler.Run(ctx, a.RunCycle)
}

// RunCycle executes one posting cycle. Every exit path leaves the scheduler
// free to reschedule.
func (a *Agent) RunCycle(ctx context.Context) {
	cycleID := uuid.NewString()[:8]
	log := utils.Sugar.With("cycle", cycleID)

	if ok, reason := a.scheduler.CanPostNow(); !ok {
		log.Infow("cycle skipped by rate gate", "reason", reason)
		return
	}

	contentType, err := a.selector.SelectContentType()
	if err != nil {
		log.Errorw("content type selection failed", "err", err)
		return
	}
	log = log.With("content_type", contentType)

	if a.selector.ShouldPostThread() {
		a.postThread(ctx, log, contentType)
		return
	}
	a.postTweet(ctx, log, contentType)
}

func (a *Agent) postTweet(ctx context.Context, log *zap.SugaredLogger, contentType string) {
	text, err := a.generator.Tweet(ctx, contentType)
	if err != nil {
		log.Warnw("generation failed", "err", err)
		return
	}

	dup, err := a.store.IsDuplicate(text, a.cfg.DuplicateWindow)
	if err != nil {
		log.Errorw("duplicate check failed", "err", err)
		return
	}
	if dup {
		log.Infow("duplicate content skipped", "text", text)
		return
	}

	post := &models.Post{Content: text, ContentType: contentType}
	if err := a.store.CreatePost(post); err != nil {
		log.Errorw("failed to record pending post", "err", err)
		return
	}

	if err := a.store.TouchTopic(contentType, time.Now()); err != nil {
		log.Warnw("failed to touch topic usage", "err", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, a.cfg.PublishTimeout)
	tweetID, err := a.publisher.PostTweet(pubCtx, text)
	cancel()
	if err != nil {
		a.recordFailure(log, post.ID, contentType, err)
		return
	}

	now := time.Now()
	if err := a.store.MarkPosted(post.ID, tweetID, now); err != nil {
		log.Errorw("failed to mark post as posted", "err", err, "tweet_id", tweetID)
	}
	if err := a.store.RecordOutcome(contentType, true, 0); err != nil {
		log.Warnw("failed to record outcome", "err", err)
	}
	log.Infow("posted", "tweet_id", tweetID, "text", text)
}

func (a *Agent) postThread(ctx context.Context, log *zap.SugaredLogger, contentType string) {
	texts, err := a.generator.Thread(ctx, contentType, a.cfg.ThreadLength)
	if err != nil {
		log.Warnw("thread generation failed", "err", err)
		return
	}

	dup, err := a.store.IsDuplicate(texts[0], a.cfg.DuplicateWindow)
	if err != nil {
		log.Errorw("duplicate check failed", "err", err)
		return
	}
	if dup {
		log.Infow("duplicate thread lead skipped", "text", texts[0])
		return
	}

	threadID := uuid.NewString()
	posts := make([]*models.Post, 0, len(texts))
	for _, text := range texts {
		post := &models.Post{Content: text, ContentType: contentType, IsThread: true, ThreadID: &threadID}
		if err := a.store.CreatePost(post); err != nil {
			log.Errorw("failed to record pending thread post", "err", err)
			return
		}
		posts = append(posts, post)
	}

	if err := a.store.TouchTopic(contentType, time.Now()); err != nil {
		log.Warnw("failed to touch topic usage", "err", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, a.cfg.PublishTimeout*time.Duration(len(texts)))
	ids, err := a.publisher.PostThread(pubCtx, texts)
	cancel()

	now := time.Now()
	for i, post := range posts {
		if i < len(ids) {
			if markErr := a.store.MarkPosted(post.ID, ids[i], now); markErr != nil {
				log.Errorw("failed to mark thread post as posted", "err", markErr, "tweet_id", ids[i])
			}
			continue
		}
		reason := "thread aborted before this segment"
		if err != nil {
			reason = err.Error()
		}
		if markErr := a.store.MarkFailed(post.ID, reason); markErr != nil {
			log.Errorw("failed to mark thread post as failed", "err", markErr)
		}
	}

	if err != nil {
		if outErr := a.store.RecordOutcome(contentType, false, 0); outErr != nil {
			log.Warnw("failed to record outcome", "err", outErr)
		}
		a.logPublishError(log, contentType, err)
		return
	}
	if err := a.store.RecordOutcome(contentType, true, 0); err != nil {
		log.Warnw("failed to record outcome", "err", err)
	}
	log.Infow("thread posted", "thread_id", threadID, "tweets", len(ids))
}

// recordFailure marks the post failed and updates statistics. Publish is never
// retried within a cycle regardless of error class.
func (a *Agent) recordFailure(log *zap.SugaredLogger, postID uint, contentType string, err error) {
	if markErr := a.store.MarkFailed(postID, err.Error()); markErr != nil {
		log.Errorw("failed to mark post as failed", "err", markErr)
	}
	if outErr := a.store.RecordOutcome(contentType, false, 0); outErr != nil {
		log.Warnw("failed to record outcome", "err", outErr)
	}
	a.logPublishError(log, contentType, err)
}

func (a *Agent) logPublishError(log *zap.SugaredLogger, contentType string, err error) {
	switch {
	case errors.Is(err, clients.ErrUnauthorized):
		log.Errorw("publish rejected, credentials invalid; not retrying", "err", err)
	case errors.Is(err, clients.ErrRateLimited):
		log.Warnw("publish rate limited", "err", err)
	default:
		log.Warnw("publish failed", "err", err)
	}
}
