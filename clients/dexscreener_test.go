package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pfplabs/croaker/utils"
)

func newTestDexScreener(srv *httptest.Server, pair string) *DexScreener {
	utils.CacheDelete(liveDataCacheKey)
	return &DexScreener{
		httpClient:  srv.Client(),
		baseURL:     srv.URL,
		tokenSymbol: "PFP",
		pairAddress: pair,
		cacheTTL:    time.Minute,
	}
}

func TestContextSummaryFetchesAndCaches(t *testing.T) {
	requests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/latest/dex/pairs/solana/pair123", func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"pairs":[{"priceUsd":"0.0000421","priceChange":{"h24":12.5},"volume":{"h24":150000}}]}`)
	})
	mux.HandleFunc("/token-boosts/top/v1", func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `[
			{"tokenAddress":"AAA","chainId":"solana","description":"frog season\nlong tail"},
			{"tokenAddress":"BBB","chainId":"ethereum","description":"wrong chain"},
			{"tokenAddress":"CCC","chainId":"solana","description":""},
			{"tokenAddress":"DDD","chainId":"solana","description":"utility token"},
			{"tokenAddress":"EEE","chainId":"solana","description":"dog coin"},
			{"tokenAddress":"FFF","chainId":"solana","description":"one too many"}
		]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	d := newTestDexScreener(srv, "pair123")
	s := d.ContextSummary(context.Background())

	if !s.Fetched {
		t.Fatal("expected fetched summary")
	}
	if s.TokenPriceUSD != 0.0000421 || s.TokenChange24h != 12.5 || s.TokenVolume24h != 150000 {
		t.Fatalf("unexpected pair data: %+v", s)
	}
	if s.Narrative != "steady climb, buyers in control" {
		t.Fatalf("narrative = %q", s.Narrative)
	}
	if len(s.Trending) != 3 {
		t.Fatalf("trending should cap at 3 solana tokens, got %v", s.Trending)
	}
	if s.Trending[0].Label != "frog season" {
		t.Fatalf("label should be the first description line, got %q", s.Trending[0].Label)
	}
	if s.SuspiciousCount != 1 {
		t.Fatalf("empty-description boost should count as suspicious, got %d", s.SuspiciousCount)
	}

	// Second call inside the TTL must come from cache.
	before := requests
	s2 := d.ContextSummary(context.Background())
	if requests != before {
		t.Fatalf("expected cache hit, saw %d extra requests", requests-before)
	}
	if !s2.Fetched || s2.TokenPriceUSD != s.TokenPriceUSD {
		t.Fatalf("cached summary differs: %+v", s2)
	}

	utils.CacheDelete(liveDataCacheKey)
}

func TestContextSummaryDegradesOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := newTestDexScreener(srv, "pair123")
	s := d.ContextSummary(context.Background())

	if s.Fetched {
		t.Fatal("upstream failure must yield an unfetched summary")
	}
	if s.TokenSymbol != "PFP" {
		t.Fatalf("symbol should still be set: %+v", s)
	}

	// Failures are not cached; the next call hits upstream again.
	if _, ok := utils.CacheGetBytes(liveDataCacheKey); ok {
		t.Fatal("unfetched summary must not be cached")
	}
}

func TestContextSummaryTrendingOnly(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token-boosts/top/v1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"tokenAddress":"AAA","chainId":"solana","description":"frog season"}]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	// No pair address configured: summary carries trending data only.
	d := newTestDexScreener(srv, "")
	s := d.ContextSummary(context.Background())

	if !s.Fetched {
		t.Fatal("trending data alone should mark the summary fetched")
	}
	if s.TokenPriceUSD != 0 || len(s.Trending) != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}

	utils.CacheDelete(liveDataCacheKey)
}

func TestNarrativeFor(t *testing.T) {
	cases := []struct {
		change float64
		want   string
	}{
		{25, "momentum phase, volume flowing in"},
		{20, "momentum phase, volume flowing in"},
		{7, "steady climb, buyers in control"},
		{0, "crabbing sideways, coiling up"},
		{-7, "pullback, weak hands shaking out"},
		{-25, "deep dip, max pain accumulation zone"},
	}
	for _, c := range cases {
		if got := narrativeFor(c.change); got != c.want {
			t.Errorf("narrativeFor(%v) = %q, want %q", c.change, got, c.want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("  hello world \nsecond", 80); got != "hello world" {
		t.Fatalf("firstLine = %q", got)
	}
	if got := firstLine("abcdef", 3); got != "abc" {
		t.Fatalf("firstLine limit = %q", got)
	}
}
