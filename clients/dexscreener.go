package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pfplabs/croaker/utils"
)

const (
	dexScreenerBase  = "https://api.dexscreener.com"
	liveDataCacheKey = "livedata:summary"
)

// TrendingToken is one boosted token from the DexScreener feed.
type TrendingToken struct {
	Address string `json:"address"`
	Label   string `json:"label"`
}

// Summary is the live market snapshot injected into generation prompts.
// A zero Summary (Fetched=false) means live data was unavailable; generation
// proceeds without enrichment.
type Summary struct {
	Fetched         bool            `json:"fetched"`
	TokenSymbol     string          `json:"token_symbol"`
	TokenPriceUSD   float64         `json:"token_price_usd"`
	TokenChange24h  float64         `json:"token_change_24h"`
	TokenVolume24h  float64         `json:"token_volume_24h"`
	Narrative       string          `json:"narrative"`
	Trending        []TrendingToken `json:"trending"`
	SuspiciousCount int             `json:"suspicious_count"`
}

// DexScreener fetches pair and trending data, cached for a bounded lifetime so
// a posting burst never hammers the upstream API.
type DexScreener struct {
	httpClient  *http.Client
	baseURL     string
	tokenSymbol string
	pairAddress string
	cacheTTL    time.Duration
}

// NewDexScreener builds the live-data client. pairAddress may be empty; the
// summary then carries trending data only.
func NewDexScreener(tokenSymbol, pairAddress string, cacheTTL time.Duration) *DexScreener {
	return &DexScreener{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     dexScreenerBase,
		tokenSymbol: tokenSymbol,
		pairAddress: pairAddress,
		cacheTTL:    cacheTTL,
	}
}

type pairResponse struct {
	Pairs []struct {
		PriceUsd    string `json:"priceUsd"`
		PriceChange struct {
			H24 float64 `json:"h24"`
		} `json:"priceChange"`
		Volume struct {
			H24 float64 `json:"h24"`
		} `json:"volume"`
	} `json:"pairs"`
}

type boostEntry struct {
	TokenAddress string `json:"tokenAddress"`
	ChainID      string `json:"chainId"`
	Description  string `json:"description"`
}

// ContextSummary returns the cached market snapshot, refreshing it when stale.
// Every upstream failure degrades to an unfetched summary; callers never block
// on live data.
func (d *DexScreener) ContextSummary(ctx context.Context) Summary {
	if raw, ok := utils.CacheGetBytes(liveDataCacheKey); ok {
		var cached Summary
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached
		}
	}

	summary := Summary{TokenSymbol: d.tokenSymbol}

	if d.pairAddress != "" {
		if err := d.fetchPair(ctx, &summary); err != nil {
			utils.Sugar.Warnw("live pair data unavailable", "err", err)
		}
	}
	if err := d.fetchTrending(ctx, &summary); err != nil {
		utils.Sugar.Warnw("trending data unavailable", "err", err)
	}

	if summary.Fetched {
		summary.Narrative = narrativeFor(summary.TokenChange24h)
		utils.CacheSetJSON(liveDataCacheKey, summary, d.cacheTTL)
	}
	return summary
}

func (d *DexScreener) fetchPair(ctx context.Context, out *Summary) error {
	var resp pairResponse
	if err := d.get(ctx, fmt.Sprintf("/latest/dex/pairs/solana/%s", d.pairAddress), &resp); err != nil {
		return err
	}
	if len(resp.Pairs) == 0 {
		return fmt.Errorf("pair %s not found", d.pairAddress)
	}
	pair := resp.Pairs[0]
	price, err := strconv.ParseFloat(pair.PriceUsd, 64)
	if err != nil {
		return fmt.Errorf("parsing price %q: %w", pair.PriceUsd, err)
	}
	out.TokenPriceUSD = price
	out.TokenChange24h = pair.PriceChange.H24
	out.TokenVolume24h = pair.Volume.H24
	out.Fetched = true
	return nil
}

func (d *DexScreener) fetchTrending(ctx context.Context, out *Summary) error {
	var entries []boostEntry
	if err := d.get(ctx, "/token-boosts/top/v1", &entries); err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.ChainID != "solana" {
			continue
		}
		if entry.Description == "" {
			// boosted tokens with no description read as low-effort promotion
			out.SuspiciousCount++
			continue
		}
		if len(out.Trending) < 3 {
			out.Trending = append(out.Trending, TrendingToken{
				Address: entry.TokenAddress,
				Label:   firstLine(entry.Description, 80),
			})
		}
	}
	if len(out.Trending) > 0 {
		out.Fetched = true
	}
	return nil
}

func (d *DexScreener) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: dexscreener 429", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: dexscreener status %d", ErrService, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrService, err)
	}
	return json.Unmarshal(data, out)
}

func narrativeFor(change24h float64) string {
	switch {
	case change24h >= 20:
		return "momentum phase, volume flowing in"
	case change24h >= 5:
		return "steady climb, buyers in control"
	case change24h <= -20:
		return "deep dip, max pain accumulation zone"
	case change24h <= -5:
		return "pullback, weak hands shaking out"
	default:
		return "crabbing sideways, coiling up"
	}
}

func firstLine(s string, limit int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
