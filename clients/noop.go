package clients

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pfplabs/croaker/utils"
)

// NoopPublisher logs instead of posting. Debug mode runs the full pipeline
// against it so generation, validation and history behave exactly as live.
type NoopPublisher struct{}

func (NoopPublisher) PostTweet(ctx context.Context, text string) (string, error) {
	id := fakeTweetID()
	utils.Sugar.Infow("debug publish", "tweet_id", id, "text", text)
	return id, nil
}

func (NoopPublisher) PostThread(ctx context.Context, texts []string) ([]string, error) {
	ids := make([]string, 0, len(texts))
	for i, text := range texts {
		id := fakeTweetID()
		utils.Sugar.Infow("debug publish thread", "position", i+1, "tweet_id", id, "text", text)
		ids = append(ids, id)
	}
	return ids, nil
}

func (NoopPublisher) Lookup(ctx context.Context, ids []string) (map[string]Metrics, error) {
	return map[string]Metrics{}, nil
}

func fakeTweetID() string {
	return fmt.Sprintf("debug-%s", uuid.NewString()[:8])
}
