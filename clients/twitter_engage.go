package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Account identifies the authenticated bot user.
type Account struct {
	ID       string
	Username string
}

// Mention is an inbound tweet directed at the bot: an @-mention or a comment
// under one of its own tweets.
type Mention struct {
	ID                string
	Text              string
	AuthorID          string
	AuthorUsername    string
	AuthorFollowers   int
	Likes             int
	Retweets          int
	ConversationID    string
	ReferencedTweetID string
}

type meResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

// Me resolves the authenticated account. The responder calls it once at boot
// to filter self-mentions.
func (t *Twitter) Me(ctx context.Context) (Account, error) {
	var resp meResponse
	if err := t.doWithRetry(ctx, http.MethodGet, "/2/users/me", nil, &resp); err != nil {
		return Account{}, err
	}
	if resp.Data.ID == "" {
		return Account{}, fmt.Errorf("%w: response missing user id", ErrService)
	}
	return Account{ID: resp.Data.ID, Username: resp.Data.Username}, nil
}

type inboundResponse struct {
	Data []struct {
		ID             string `json:"id"`
		Text           string `json:"text"`
		AuthorID       string `json:"author_id"`
		ConversationID string `json:"conversation_id"`
		PublicMetrics  struct {
			LikeCount    int `json:"like_count"`
			RetweetCount int `json:"retweet_count"`
		} `json:"public_metrics"`
		ReferencedTweets []struct {
			Type string `json:"type"`
			ID   string `json:"id"`
		} `json:"referenced_tweets"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID            string `json:"id"`
			Username      string `json:"username"`
			PublicMetrics struct {
				FollowersCount int `json:"followers_count"`
			} `json:"public_metrics"`
		} `json:"users"`
	} `json:"includes"`
}

func (r inboundResponse) mentions() []Mention {
	type userInfo struct {
		name      string
		followers int
	}
	users := make(map[string]userInfo, len(r.Includes.Users))
	for _, u := range r.Includes.Users {
		users[u.ID] = userInfo{u.Username, u.PublicMetrics.FollowersCount}
	}

	out := make([]Mention, 0, len(r.Data))
	for _, row := range r.Data {
		m := Mention{
			ID:             row.ID,
			Text:           row.Text,
			AuthorID:       row.AuthorID,
			ConversationID: row.ConversationID,
			Likes:          row.PublicMetrics.LikeCount,
			Retweets:       row.PublicMetrics.RetweetCount,
		}
		if u, ok := users[row.AuthorID]; ok {
			m.AuthorUsername = u.name
			m.AuthorFollowers = u.followers
		}
		for _, ref := range row.ReferencedTweets {
			if ref.Type == "replied_to" {
				m.ReferencedTweetID = ref.ID
				break
			}
		}
		out = append(out, m)
	}
	return out
}

// Mentions fetches tweets mentioning the user since the given time, newest
// first, with author expansion for spam scoring.
func (t *Twitter) Mentions(ctx context.Context, userID string, since time.Time) ([]Mention, error) {
	q := url.Values{}
	q.Set("max_results", "50")
	q.Set("start_time", since.UTC().Format(time.RFC3339))
	q.Set("tweet.fields", "created_at,public_metrics,conversation_id,referenced_tweets")
	q.Set("expansions", "author_id")
	q.Set("user.fields", "username,public_metrics")

	var resp inboundResponse
	path := fmt.Sprintf("/2/users/%s/mentions?%s", userID, q.Encode())
	if err := t.doWithRetry(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.mentions(), nil
}

// ConversationReplies fetches recent comments under the tweet that started the
// conversation.
func (t *Twitter) ConversationReplies(ctx context.Context, conversationID string) ([]Mention, error) {
	q := url.Values{}
	q.Set("query", fmt.Sprintf("conversation_id:%s is:reply", conversationID))
	q.Set("max_results", "50")
	q.Set("tweet.fields", "author_id,public_metrics,conversation_id")
	q.Set("expansions", "author_id")
	q.Set("user.fields", "username,public_metrics")

	var resp inboundResponse
	if err := t.doWithRetry(ctx, http.MethodGet, "/2/tweets/search/recent?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.mentions(), nil
}

type tweetLookupResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

// TweetText fetches a single tweet's text prefixed with its author handle,
// used as conversation context when a mention replies to another tweet.
func (t *Twitter) TweetText(ctx context.Context, id string) (string, error) {
	q := url.Values{}
	q.Set("tweet.fields", "text")
	q.Set("expansions", "author_id")
	q.Set("user.fields", "username")

	var resp tweetLookupResponse
	path := fmt.Sprintf("/2/tweets/%s?%s", id, q.Encode())
	if err := t.doWithRetry(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("%w: tweet %s not found", ErrService, id)
	}
	author := "unknown"
	if len(resp.Includes.Users) > 0 {
		author = resp.Includes.Users[0].Username
	}
	return fmt.Sprintf("@%s: %s", author, resp.Data.Text), nil
}

// Reply posts a reply to the given tweet and returns the new tweet id.
func (t *Twitter) Reply(ctx context.Context, text, inReplyTo string) (string, error) {
	return t.createTweet(ctx, text, inReplyTo)
}
