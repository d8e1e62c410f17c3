package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	Environment string
	Debug       bool

	// Ops API
	AppPort            string
	AdminToken         string
	RateLimitPerMinute int
	AllowedOrigins     []string

	// Generation (Gemini)
	GeminiAPIKey   string
	GeminiModel    string
	GenMaxTokens   int
	GenTemperature float64
	GenTimeoutSec  int
	GenMaxAttempts int

	// Publishing (Twitter/X API v2)
	TwitterClientID     string
	TwitterClientSecret string
	TwitterAccessToken  string
	TwitterRefreshToken string
	PublishTimeoutSec   int

	// Posting schedule
	PostIntervalMinutes int
	MinIntervalMinutes  int
	MaxIntervalMinutes  int
	MaxPostsPerHour     int
	MaxPostsPerDay      int
	// Blackout window in local hours [QuietHoursStart, QuietHoursEnd); -1 disables.
	QuietHoursStart int
	QuietHoursEnd   int

	// Content rules
	MaxPostLength        int
	MinPostLength        int
	MaxHashtags          int
	MaxThreadPosts       int
	DuplicateWindowHours int
	ThreadProbability    float64
	CriticEnabled        bool
	CriticThreshold      int

	// Live market data (DexScreener)
	TokenSymbol        string
	TokenPairAddress   string
	LiveDataTTLSeconds int

	// Engagement polling
	EngagementPollMinutes int

	// Interactive engagement: replying to mentions and comments
	EngagementEnabled      bool
	MaxRepliesPerHour      int
	MaxRepliesPerTweet     int
	MentionPollMinutes     int
	MentionLookbackMinutes int
	BlockedUsernames       []string

	// Database
	DatabasePath string

	// Redis for live-data caching; optional, in-memory fallback applies
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// Gin framework configuration
	GinMode string
	GinPath string

	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
// Precedence: defaults -> config/config.json -> environment variable overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	applyDefaults(&cfg)
	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyEnvOverrides(&cfg)

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Validate checks that required settings are present and consistent.
// Every problem found is returned so the operator can fix them in one pass.
func (c AppConfig) Validate() []string {
	var errs []string

	if c.GeminiAPIKey == "" {
		errs = append(errs, "GEMINI_API_KEY must be set")
	}
	if !c.Debug {
		hasUserToken := c.TwitterAccessToken != "" || c.TwitterRefreshToken != ""
		if c.TwitterClientID == "" || c.TwitterClientSecret == "" || !hasUserToken {
			errs = append(errs, "twitter credentials incomplete: client id, client secret and an access or refresh token are required unless DEBUG=true")
		}
	}
	if c.MinIntervalMinutes < 1 {
		errs = append(errs, "MIN_INTERVAL_MINUTES must be >= 1")
	}
	if c.PostIntervalMinutes < c.MinIntervalMinutes {
		errs = append(errs, fmt.Sprintf("POST_INTERVAL_MINUTES (%d) must be >= MIN_INTERVAL_MINUTES (%d)", c.PostIntervalMinutes, c.MinIntervalMinutes))
	}
	if c.PostIntervalMinutes > c.MaxIntervalMinutes {
		errs = append(errs, fmt.Sprintf("POST_INTERVAL_MINUTES (%d) must be <= MAX_INTERVAL_MINUTES (%d)", c.PostIntervalMinutes, c.MaxIntervalMinutes))
	}
	if c.DuplicateWindowHours < 24 || c.DuplicateWindowHours > 72 {
		errs = append(errs, fmt.Sprintf("DUPLICATE_WINDOW_HOURS (%d) must be within [24, 72]", c.DuplicateWindowHours))
	}
	if c.MaxPostLength < 1 {
		errs = append(errs, "MAX_POST_LENGTH must be >= 1")
	}
	if c.MinPostLength < 0 || c.MinPostLength > c.MaxPostLength {
		errs = append(errs, "MIN_POST_LENGTH must be within [0, MAX_POST_LENGTH]")
	}
	if c.ThreadProbability < 0 || c.ThreadProbability > 1 {
		errs = append(errs, "THREAD_PROBABILITY must be within [0, 1]")
	}
	if c.CriticThreshold < 1 || c.CriticThreshold > 10 {
		errs = append(errs, "CRITIC_THRESHOLD must be within [1, 10]")
	}
	if (c.QuietHoursStart >= 0) != (c.QuietHoursEnd >= 0) {
		errs = append(errs, "QUIET_HOURS_START and QUIET_HOURS_END must be set together")
	}
	if c.QuietHoursStart > 23 || c.QuietHoursEnd > 23 {
		errs = append(errs, "quiet hours must be within [0, 23]")
	}

	return errs
}

// IsProduction reports whether the agent runs in the production environment.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	dec := json.NewDecoder(f)
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	// Helper to read string/int/float/bool safely
	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case float64:
				return int(t)
			case int:
				return t
			case json.Number:
				i, _ := t.Int64()
				return int(i)
			}
		}
		return 0
	}
	getFloat := func(m map[string]any, key string) float64 {
		if v, ok := m[key]; ok {
			if f, ok := v.(float64); ok {
				return f
			}
		}
		return 0
	}
	getBool := func(m map[string]any, key string) (bool, bool) {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b, true
			}
		}
		return false, false
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if v, ok := m[key]; ok {
			if arr, ok := v.([]any); ok {
				res := make([]string, 0, len(arr))
				for _, it := range arr {
					if s, ok := it.(string); ok {
						res = append(res, s)
					}
				}
				return res
			}
		}
		return nil
	}

	if app, ok := raw["app"].(map[string]any); ok {
		if v := getString(app, "Environment"); v != "" {
			out.Environment = v
		}
		if b, set := getBool(app, "Debug"); set {
			out.Debug = b
		}
		if v := getString(app, "AppPort"); v != "" {
			out.AppPort = v
		}
		if v := getString(app, "AdminToken"); v != "" {
			out.AdminToken = v
		}
		if v := getInt(app, "RateLimitPerMinute"); v != 0 {
			out.RateLimitPerMinute = v
		}
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
	}

	if g, ok := raw["gemini"].(map[string]any); ok {
		if v := getString(g, "APIKey"); v != "" {
			out.GeminiAPIKey = v
		}
		if v := getString(g, "Model"); v != "" {
			out.GeminiModel = v
		}
		if v := getInt(g, "MaxTokens"); v != 0 {
			out.GenMaxTokens = v
		}
		if v := getFloat(g, "Temperature"); v != 0 {
			out.GenTemperature = v
		}
		if v := getInt(g, "TimeoutSec"); v != 0 {
			out.GenTimeoutSec = v
		}
		if v := getInt(g, "MaxAttempts"); v != 0 {
			out.GenMaxAttempts = v
		}
	}

	if tw, ok := raw["twitter"].(map[string]any); ok {
		if v := getString(tw, "ClientID"); v != "" {
			out.TwitterClientID = v
		}
		if v := getString(tw, "ClientSecret"); v != "" {
			out.TwitterClientSecret = v
		}
		if v := getString(tw, "AccessToken"); v != "" {
			out.TwitterAccessToken = v
		}
		if v := getString(tw, "RefreshToken"); v != "" {
			out.TwitterRefreshToken = v
		}
		if v := getInt(tw, "TimeoutSec"); v != 0 {
			out.PublishTimeoutSec = v
		}
	}

	if ps, ok := raw["posting"].(map[string]any); ok {
		if v := getInt(ps, "IntervalMinutes"); v != 0 {
			out.PostIntervalMinutes = v
		}
		if v := getInt(ps, "MinIntervalMinutes"); v != 0 {
			out.MinIntervalMinutes = v
		}
		if v := getInt(ps, "MaxIntervalMinutes"); v != 0 {
			out.MaxIntervalMinutes = v
		}
		if v := getInt(ps, "MaxPostsPerHour"); v != 0 {
			out.MaxPostsPerHour = v
		}
		if v := getInt(ps, "MaxPostsPerDay"); v != 0 {
			out.MaxPostsPerDay = v
		}
		// quiet hours may legitimately be 0 (midnight), read presence explicitly
		if v, ok := ps["QuietHoursStart"].(float64); ok {
			out.QuietHoursStart = int(v)
		}
		if v, ok := ps["QuietHoursEnd"].(float64); ok {
			out.QuietHoursEnd = int(v)
		}
	}

	if ct, ok := raw["content"].(map[string]any); ok {
		if v := getInt(ct, "MaxPostLength"); v != 0 {
			out.MaxPostLength = v
		}
		if v := getInt(ct, "MinPostLength"); v != 0 {
			out.MinPostLength = v
		}
		if v := getInt(ct, "MaxHashtags"); v != 0 {
			out.MaxHashtags = v
		}
		if v := getInt(ct, "MaxThreadPosts"); v != 0 {
			out.MaxThreadPosts = v
		}
		if v := getInt(ct, "DuplicateWindowHours"); v != 0 {
			out.DuplicateWindowHours = v
		}
		if v := getFloat(ct, "ThreadProbability"); v != 0 {
			out.ThreadProbability = v
		}
		if b, set := getBool(ct, "CriticEnabled"); set {
			out.CriticEnabled = b
		}
		if v := getInt(ct, "CriticThreshold"); v != 0 {
			out.CriticThreshold = v
		}
	}

	if ld, ok := raw["livedata"].(map[string]any); ok {
		if v := getString(ld, "TokenSymbol"); v != "" {
			out.TokenSymbol = v
		}
		if v := getString(ld, "TokenPairAddress"); v != "" {
			out.TokenPairAddress = v
		}
		if v := getInt(ld, "TTLSeconds"); v != 0 {
			out.LiveDataTTLSeconds = v
		}
		if v := getInt(ld, "EngagementPollMinutes"); v != 0 {
			out.EngagementPollMinutes = v
		}
	}

	if en, ok := raw["engagement"].(map[string]any); ok {
		if b, set := getBool(en, "Enabled"); set {
			out.EngagementEnabled = b
		}
		if v := getInt(en, "MaxRepliesPerHour"); v != 0 {
			out.MaxRepliesPerHour = v
		}
		if v := getInt(en, "MaxRepliesPerTweet"); v != 0 {
			out.MaxRepliesPerTweet = v
		}
		if v := getInt(en, "MentionPollMinutes"); v != 0 {
			out.MentionPollMinutes = v
		}
		if v := getInt(en, "MentionLookbackMinutes"); v != 0 {
			out.MentionLookbackMinutes = v
		}
		if list := getStringSlice(en, "BlockedUsernames"); len(list) > 0 {
			out.BlockedUsernames = list
		}
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		if v := getString(dbs, "Path"); v != "" {
			out.DatabasePath = v
		}
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		if v := getString(rds, "RedisHost"); v != "" {
			out.RedisHost = v
		}
		if v := getInt(rds, "RedisPort"); v != 0 {
			out.RedisPort = v
		}
		if v := getInt(rds, "RedisDB"); v != 0 {
			out.RedisDB = v
		}
		if v := getString(rds, "RedisPassword"); v != "" {
			out.RedisPassword = v
		}
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if v := getString(lg, "Level"); v != "" {
			out.LogLevel = v
		}
		if v := getString(lg, "Path"); v != "" {
			out.LogPath = v
		}
		if v := getString(lg, "GinMode"); v != "" {
			out.GinMode = v
		}
		if v := getString(lg, "GinPath"); v != "" {
			out.GinPath = v
		}
		if v := getInt(lg, "MaxSizeMB"); v != 0 {
			out.LogMaxSizeMB = v
		}
		if v := getInt(lg, "MaxBackups"); v != 0 {
			out.LogMaxBackups = v
		}
		if v := getInt(lg, "MaxAgeDays"); v != 0 {
			out.LogMaxAgeDays = v
		}
		if b, set := getBool(lg, "Compress"); set {
			out.LogCompress = b
		}
	}

	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-2.5-flash"
	}
	if c.GenMaxTokens == 0 {
		c.GenMaxTokens = 1024
	}
	if c.GenTemperature == 0 {
		c.GenTemperature = 0.8
	}
	if c.GenTimeoutSec == 0 {
		c.GenTimeoutSec = 30
	}
	if c.GenMaxAttempts == 0 {
		c.GenMaxAttempts = 3
	}
	if c.PublishTimeoutSec == 0 {
		c.PublishTimeoutSec = 15
	}
	if c.PostIntervalMinutes == 0 {
		c.PostIntervalMinutes = 120
	}
	if c.MinIntervalMinutes == 0 {
		c.MinIntervalMinutes = 60
	}
	if c.MaxIntervalMinutes == 0 {
		c.MaxIntervalMinutes = 240
	}
	if c.MaxPostsPerHour == 0 {
		c.MaxPostsPerHour = 5
	}
	if c.MaxPostsPerDay == 0 {
		c.MaxPostsPerDay = 20
	}
	// the zero pair means unset; a real 0..0 window would be empty anyway
	if c.QuietHoursStart == 0 && c.QuietHoursEnd == 0 {
		c.QuietHoursStart = -1
		c.QuietHoursEnd = -1
	}
	if c.MaxPostLength == 0 {
		c.MaxPostLength = 280
	}
	if c.MaxHashtags == 0 {
		c.MaxHashtags = 3
	}
	if c.MaxThreadPosts == 0 {
		c.MaxThreadPosts = 5
	}
	if c.DuplicateWindowHours == 0 {
		c.DuplicateWindowHours = 48
	}
	if c.ThreadProbability == 0 {
		c.ThreadProbability = 0.2
	}
	if c.CriticThreshold == 0 {
		c.CriticThreshold = 8
	}
	if c.TokenSymbol == "" {
		c.TokenSymbol = "PFP"
	}
	if c.LiveDataTTLSeconds == 0 {
		c.LiveDataTTLSeconds = 300
	}
	if c.EngagementPollMinutes == 0 {
		c.EngagementPollMinutes = 30
	}
	if c.MaxRepliesPerHour == 0 {
		c.MaxRepliesPerHour = 5
	}
	if c.MaxRepliesPerTweet == 0 {
		c.MaxRepliesPerTweet = 2
	}
	if c.MentionPollMinutes == 0 {
		c.MentionPollMinutes = 30
	}
	if c.MentionLookbackMinutes == 0 {
		c.MentionLookbackMinutes = 120
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/agent.db"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("ENVIRONMENT", ""); v != "" {
		c.Environment = v
	}
	if v := getEnv("DEBUG", ""); v != "" {
		c.Debug = v == "true"
	}
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("ADMIN_TOKEN", ""); v != "" {
		c.AdminToken = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	if v := getEnv("GEMINI_API_KEY", ""); v != "" {
		c.GeminiAPIKey = v
	}
	if v := getEnv("GEMINI_MODEL", ""); v != "" {
		c.GeminiModel = v
	}
	if v := getEnv("GEN_MAX_TOKENS", ""); v != "" {
		c.GenMaxTokens = mustParseInt(v)
	}
	if v := getEnv("GEN_TEMPERATURE", ""); v != "" {
		c.GenTemperature = mustParseFloat(v)
	}
	if v := getEnv("GEN_TIMEOUT_SEC", ""); v != "" {
		c.GenTimeoutSec = mustParseInt(v)
	}
	if v := getEnv("GEN_MAX_ATTEMPTS", ""); v != "" {
		c.GenMaxAttempts = mustParseInt(v)
	}
	if v := getEnv("TWITTER_CLIENT_ID", ""); v != "" {
		c.TwitterClientID = v
	}
	if v := getEnv("TWITTER_CLIENT_SECRET", ""); v != "" {
		c.TwitterClientSecret = v
	}
	if v := getEnv("TWITTER_ACCESS_TOKEN", ""); v != "" {
		c.TwitterAccessToken = v
	}
	if v := getEnv("TWITTER_REFRESH_TOKEN", ""); v != "" {
		c.TwitterRefreshToken = v
	}
	if v := getEnv("PUBLISH_TIMEOUT_SEC", ""); v != "" {
		c.PublishTimeoutSec = mustParseInt(v)
	}
	if v := getEnv("POST_INTERVAL_MINUTES", ""); v != "" {
		c.PostIntervalMinutes = mustParseInt(v)
	}
	if v := getEnv("MIN_INTERVAL_MINUTES", ""); v != "" {
		c.MinIntervalMinutes = mustParseInt(v)
	}
	if v := getEnv("MAX_INTERVAL_MINUTES", ""); v != "" {
		c.MaxIntervalMinutes = mustParseInt(v)
	}
	if v := getEnv("MAX_POSTS_PER_HOUR", ""); v != "" {
		c.MaxPostsPerHour = mustParseInt(v)
	}
	if v := getEnv("MAX_POSTS_PER_DAY", ""); v != "" {
		c.MaxPostsPerDay = mustParseInt(v)
	}
	if v := getEnv("QUIET_HOURS_START", ""); v != "" {
		c.QuietHoursStart = mustParseInt(v)
	}
	if v := getEnv("QUIET_HOURS_END", ""); v != "" {
		c.QuietHoursEnd = mustParseInt(v)
	}
	if v := getEnv("MAX_POST_LENGTH", ""); v != "" {
		c.MaxPostLength = mustParseInt(v)
	}
	if v := getEnv("MIN_POST_LENGTH", ""); v != "" {
		c.MinPostLength = mustParseInt(v)
	}
	if v := getEnv("MAX_HASHTAGS", ""); v != "" {
		c.MaxHashtags = mustParseInt(v)
	}
	if v := getEnv("MAX_THREAD_POSTS", ""); v != "" {
		c.MaxThreadPosts = mustParseInt(v)
	}
	if v := getEnv("DUPLICATE_WINDOW_HOURS", ""); v != "" {
		c.DuplicateWindowHours = mustParseInt(v)
	}
	if v := getEnv("THREAD_PROBABILITY", ""); v != "" {
		c.ThreadProbability = mustParseFloat(v)
	}
	if v := getEnv("CRITIC_ENABLED", ""); v != "" {
		c.CriticEnabled = v == "true"
	}
	if v := getEnv("CRITIC_THRESHOLD", ""); v != "" {
		c.CriticThreshold = mustParseInt(v)
	}
	if v := getEnv("TOKEN_SYMBOL", ""); v != "" {
		c.TokenSymbol = v
	}
	if v := getEnv("TOKEN_PAIR_ADDRESS", ""); v != "" {
		c.TokenPairAddress = v
	}
	if v := getEnv("LIVE_DATA_TTL_SECONDS", ""); v != "" {
		c.LiveDataTTLSeconds = mustParseInt(v)
	}
	if v := getEnv("ENGAGEMENT_POLL_MINUTES", ""); v != "" {
		c.EngagementPollMinutes = mustParseInt(v)
	}
	if v := getEnv("ENGAGEMENT_ENABLED", ""); v != "" {
		c.EngagementEnabled = v == "true"
	}
	if v := getEnv("MAX_REPLIES_PER_HOUR", ""); v != "" {
		c.MaxRepliesPerHour = mustParseInt(v)
	}
	if v := getEnv("MAX_REPLIES_PER_TWEET", ""); v != "" {
		c.MaxRepliesPerTweet = mustParseInt(v)
	}
	if v := getEnv("MENTION_POLL_MINUTES", ""); v != "" {
		c.MentionPollMinutes = mustParseInt(v)
	}
	if v := getEnv("MENTION_LOOKBACK_MINUTES", ""); v != "" {
		c.MentionLookbackMinutes = mustParseInt(v)
	}
	if v := getEnv("BLOCKED_USERNAMES", ""); v != "" {
		c.BlockedUsernames = splitAndTrim(v)
	}
	if v := getEnv("DATABASE_PATH", ""); v != "" {
		c.DatabasePath = v
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func mustParseFloat(val string) float64 {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		log.Fatalf("invalid float value %s: %v", val, err)
	}
	return f
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
