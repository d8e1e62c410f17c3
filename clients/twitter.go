package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/pfplabs/croaker/utils"
)

const (
	twitterAPIBase     = "https://api.twitter.com"
	twitterTokenURL    = twitterAPIBase + "/2/oauth2/token"
	twitterMaxRetries  = 3
	twitterBackoffBase = 5 * time.Second
	twitterBackoffMax  = 60 * time.Second
)

// Metrics are the public engagement counters of a published tweet.
type Metrics struct {
	Likes   int
	Reposts int
	Replies int
}

// Publisher is the outbound side of the agent. The real client talks to the
// Twitter API v2; debug mode substitutes a no-op implementation.
type Publisher interface {
	PostTweet(ctx context.Context, text string) (string, error)
	PostThread(ctx context.Context, texts []string) ([]string, error)
	Lookup(ctx context.Context, ids []string) (map[string]Metrics, error)
}

// Twitter publishes via the API v2 /2/tweets endpoint using an OAuth2
// user-context token.
type Twitter struct {
	httpClient *http.Client
	baseURL    string
}

// NewTwitter builds the client. With a refresh token the underlying transport
// renews the access token automatically; otherwise the access token is used
// as-is until it expires.
func NewTwitter(ctx context.Context, clientID, clientSecret, accessToken, refreshToken string, timeout time.Duration) *Twitter {
	var src oauth2.TokenSource
	if refreshToken != "" {
		conf := &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  twitterTokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		}
		tok := &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		}
		if accessToken == "" {
			tok.Expiry = time.Now().Add(-time.Minute) // force an immediate refresh
		}
		src = conf.TokenSource(ctx, tok)
	} else {
		src = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	}

	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = timeout
	return &Twitter{httpClient: httpClient, baseURL: twitterAPIBase}
}

type tweetRequest struct {
	Text  string `json:"text"`
	Reply *struct {
		InReplyToTweetID string `json:"in_reply_to_tweet_id"`
	} `json:"reply,omitempty"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// PostTweet publishes a single tweet and returns its id.
func (t *Twitter) PostTweet(ctx context.Context, text string) (string, error) {
	return t.createTweet(ctx, text, "")
}

// PostThread publishes a reply chain, each tweet answering the previous one.
// The ids are returned in posting order. A mid-thread failure returns the
// error with however many ids made it out; the caller decides what to record.
func (t *Twitter) PostThread(ctx context.Context, texts []string) ([]string, error) {
	ids := make([]string, 0, len(texts))
	previous := ""
	for i, text := range texts {
		id, err := t.createTweet(ctx, text, previous)
		if err != nil {
			return ids, fmt.Errorf("thread tweet %d/%d: %w", i+1, len(texts), err)
		}
		ids = append(ids, id)
		previous = id
	}
	return ids, nil
}

func (t *Twitter) createTweet(ctx context.Context, text, inReplyTo string) (string, error) {
	payload := tweetRequest{Text: text}
	if inReplyTo != "" {
		payload.Reply = &struct {
			InReplyToTweetID string `json:"in_reply_to_tweet_id"`
		}{InReplyToTweetID: inReplyTo}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding tweet: %w", err)
	}

	var resp tweetResponse
	if err := t.doWithRetry(ctx, http.MethodPost, "/2/tweets", body, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("%w: response missing tweet id", ErrService)
	}
	return resp.Data.ID, nil
}

type lookupResponse struct {
	Data []struct {
		ID            string `json:"id"`
		PublicMetrics struct {
			LikeCount    int `json:"like_count"`
			RetweetCount int `json:"retweet_count"`
			ReplyCount   int `json:"reply_count"`
			QuoteCount   int `json:"quote_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

// Lookup fetches public metrics for up to 100 tweet ids.
func (t *Twitter) Lookup(ctx context.Context, ids []string) (map[string]Metrics, error) {
	if len(ids) == 0 {
		return map[string]Metrics{}, nil
	}
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("tweet.fields", "public_metrics")

	var resp lookupResponse
	if err := t.doWithRetry(ctx, http.MethodGet, "/2/tweets?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	out := make(map[string]Metrics, len(resp.Data))
	for _, row := range resp.Data {
		out[row.ID] = Metrics{
			Likes:   row.PublicMetrics.LikeCount,
			Reposts: row.PublicMetrics.RetweetCount + row.PublicMetrics.QuoteCount,
			Replies: row.PublicMetrics.ReplyCount,
		}
	}
	return out, nil
}

// doWithRetry issues the request, retrying rate limits and 5xx with backoff.
// Credential rejections surface immediately as ErrUnauthorized.
func (t *Twitter) doWithRetry(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt < twitterMaxRetries; attempt++ {
		err := t.doOnce(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrUnauthorized) || (!errors.Is(err, ErrRateLimited) && !errors.Is(err, ErrService)) {
			return err
		}
		lastErr = err
		if attempt < twitterMaxRetries-1 {
			select {
			case <-time.After(utils.BackoffDelay(attempt, twitterBackoffBase, twitterBackoffMax)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("twitter request exhausted retries: %w", lastErr)
}

func (t *Twitter) doOnce(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrService, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", ErrUnauthorized, resp.StatusCode, truncateBody(data))
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status 429: %s", ErrRateLimited, truncateBody(data))
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrService, resp.StatusCode, truncateBody(data))
	case resp.StatusCode >= 400:
		return fmt.Errorf("twitter request rejected: status %d: %s", resp.StatusCode, truncateBody(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrService, err)
		}
	}
	return nil
}

func truncateBody(b []byte) string {
	const limit = 256
	s := string(b)
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
