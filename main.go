package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pfplabs/croaker/agent"
	"github.com/pfplabs/croaker/clients"
	"github.com/pfplabs/croaker/config"
	"github.com/pfplabs/croaker/content"
	"github.com/pfplabs/croaker/models"
	"github.com/pfplabs/croaker/routes"
	"github.com/pfplabs/croaker/store"
	"github.com/pfplabs/croaker/strategy"
	"github.com/pfplabs/croaker/utils"
)

func main() {
	cfg := config.Load()
	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(os.Stderr, "config:", p)
		}
		os.Exit(1)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Post{}, &models.TopicUsage{}, &models.Setting{})
	st := store.New(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	llm, err := clients.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, time.Duration(cfg.GenTimeoutSec)*time.Second)
	if err != nil {
		utils.Sugar.Fatalf("gemini client init failed: %v", err)
	}

	var publisher clients.Publisher
	var twitter *clients.Twitter
	if cfg.Debug {
		utils.Sugar.Warn("debug mode: tweets are logged, not published")
		publisher = clients.NoopPublisher{}
	} else {
		twitter = clients.NewTwitter(ctx,
			cfg.TwitterClientID, cfg.TwitterClientSecret,
			cfg.TwitterAccessToken, cfg.TwitterRefreshToken,
			time.Duration(cfg.PublishTimeoutSec)*time.Second)
		publisher = twitter
	}

	live := clients.NewDexScreener(cfg.TokenSymbol, cfg.TokenPairAddress, time.Duration(cfg.LiveDataTTLSeconds)*time.Second)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	selector := strategy.NewSelector(content.DefaultTemplates(), st, cfg.ThreadProbability, rng)
	scheduler := strategy.NewScheduler(strategy.SchedulerConfig{
		BaseInterval: time.Duration(cfg.PostIntervalMinutes) * time.Minute,
		MinInterval:  time.Duration(cfg.MinIntervalMinutes) * time.Minute,
		MaxInterval:  time.Duration(cfg.MaxIntervalMinutes) * time.Minute,
		MaxPerHour:   cfg.MaxPostsPerHour,
		MaxPerDay:    cfg.MaxPostsPerDay,
		QuietStart:   cfg.QuietHoursStart,
		QuietEnd:     cfg.QuietHoursEnd,
	}, st, rng)

	validator := content.NewValidator(cfg.MaxPostLength, cfg.MinPostLength, cfg.MaxHashtags)
	var critic *content.Critic
	if cfg.CriticEnabled {
		critic = content.NewCritic(llm, cfg.CriticThreshold)
	}
	generator := content.NewGenerator(llm, selector, validator, live, agent.NewPriceGate(st), critic, content.GeneratorConfig{
		MaxAttempts:    cfg.GenMaxAttempts,
		MaxTokens:      cfg.GenMaxTokens,
		Temperature:    cfg.GenTemperature,
		TokenSymbol:    cfg.TokenSymbol,
		PairAddress:    cfg.TokenPairAddress,
		CriticEnabled:  cfg.CriticEnabled,
		MaxThreadPosts: cfg.MaxThreadPosts,
	})

	a := agent.New(st, selector, scheduler, generator, publisher, agent.Config{
		DuplicateWindow: time.Duration(cfg.DuplicateWindowHours) * time.Hour,
		PublishTimeout:  time.Duration(cfg.PublishTimeoutSec) * time.Second,
	})
	go a.Run(ctx)

	poller := agent.NewEngagementPoller(st, publisher, time.Duration(cfg.EngagementPollMinutes)*time.Minute)
	go poller.Run(ctx)

	if cfg.EngagementEnabled {
		if twitter == nil {
			utils.Sugar.Warn("engagement enabled but debug mode is on; mention and comment replies disabled")
		} else {
			writer := content.NewReplyWriter(llm, validator)
			responder := agent.NewResponder(st, twitter, writer, strategy.NewReplyLimiter(cfg.MaxRepliesPerHour), agent.ResponderConfig{
				PollInterval:     time.Duration(cfg.MentionPollMinutes) * time.Minute,
				Lookback:         time.Duration(cfg.MentionLookbackMinutes) * time.Minute,
				MaxPerTweet:      cfg.MaxRepliesPerTweet,
				BlockedUsernames: cfg.BlockedUsernames,
			})
			go responder.Run(ctx)
		}
	}

	r := routes.SetupRouter(st, a)

	utils.Sugar.Infof("starting ops server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, cancel); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
