package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Contest   ContestConfig
	Browser   BrowserConfig
	Discovery DiscoveryConfig
	Fetch     FetchConfig
	Files     FilesConfig
	Aggregate AggregateConfig
	Notify    NotifyConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ContestConfig identifies the results page and the race being tracked.
type ContestConfig struct {
	// EntryURL is the contest summary page on the results site.
	EntryURL string

	// Counties restricts discovery to these county names (uppercase).
	// Empty means every county on the summary page.
	Counties []string

	// RepCandidate is the roster name used to locate the contest and
	// accumulated into rep_votes.
	RepCandidate string

	// DemCandidate is accumulated into dem_votes.
	DemCandidate string

	// TitleMarker must appear in the entry page title.
	TitleMarker string // default: "Election"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy routes browser traffic through the given proxy URL.
	Proxy string

	// Stealth injects anti-automation-detection evasions.
	Stealth bool // default: false

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// DiscoveryConfig controls endpoint discovery timing.
type DiscoveryConfig struct {
	// NavigationTimeout bounds each page.Navigate call.
	NavigationTimeout time.Duration // default: 30s

	// DetailWaitTimeout is how long to wait for the county detail marker.
	// Expiry is logged and discovery continues.
	DetailWaitTimeout time.Duration // default: 10s

	// DetailMarker is the selector that confirms a detail page loaded.
	DetailMarker string // default: "#precinctDetailLabel"
}

// FetchConfig controls retrieval of the per-county JSON documents.
type FetchConfig struct {
	// Timeout is the per-request deadline.
	Timeout time.Duration // default: 30s

	// RequestsPerSecond throttles requests to the results host.
	RequestsPerSecond float64 // default: 4

	// Burst is the limiter burst size.
	Burst int // default: 2

	// Concurrency is the number of counties fetched in parallel.
	Concurrency int // default: 4
}

// FilesConfig lists reference inputs and produced artifacts.
type FilesConfig struct {
	CanonicalCSV    string // default: "ajc_precincts_merged.csv"
	DemographicsCSV string // default: "2014_precincts_income_race.csv"
	MatchedCSV      string // default: "vote_data.csv"
	UnmatchedCSV    string // default: "unmatched_precincts.csv"
	AggregateJSON   string // default: "assets/data/2014agg_stats"
}

// AggregateConfig controls which demographic fields are summarised.
type AggregateConfig struct {
	// RaceFields are the race categories emitted per county.
	RaceFields []string // default: ["black", "white", "hispanic"]
}

// NotifyConfig controls the map-refresh webhook.
type NotifyConfig struct {
	// WebhookURL receives the map.refresh event. Empty disables it.
	WebhookURL string

	// Secret signs the payload with HMAC-SHA256 when set.
	Secret string

	// Retries is the number of redeliveries after the first attempt.
	Retries int // default: 3
}

// ServerConfig controls the artifact HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 10

	// Burst is the maximum burst size per API key.
	Burst int // default: 20
}

// CacheConfig controls the artifact cache used by the server.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached artifacts.
	MaxEntries int // default: 16
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is applied first; variables already
// set in the environment win.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, using process environment", "error", err)
	}

	return &Config{
		Contest: ContestConfig{
			EntryURL:     envOr("BALLOTMAP_CONTEST_URL", "http://results.enr.clarityelections.com/GA/58980/163369/en/md_data.html?cid=51&"),
			Counties:     upper(envSliceOr("BALLOTMAP_COUNTIES", []string{"CLAYTON", "FULTON", "GWINNETT", "DEKALB", "COBB"})),
			RepCandidate: envOr("BALLOTMAP_REP_CANDIDATE", "DONALD J. TRUMP"),
			DemCandidate: envOr("BALLOTMAP_DEM_CANDIDATE", "TED CRUZ"),
			TitleMarker:  envOr("BALLOTMAP_TITLE_MARKER", "Election"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("BALLOTMAP_HEADLESS", true),
			NoSandbox:  envBoolOr("BALLOTMAP_NO_SANDBOX", false),
			BrowserBin: os.Getenv("BALLOTMAP_BROWSER_BIN"),
			Proxy:      os.Getenv("BALLOTMAP_PROXY"),
			Stealth:    envBoolOr("BALLOTMAP_STEALTH", false),
			BlockedResourceTypes: envSliceOr("BALLOTMAP_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Discovery: DiscoveryConfig{
			NavigationTimeout: envDurationOr("BALLOTMAP_NAV_TIMEOUT", 30*time.Second),
			DetailWaitTimeout: envDurationOr("BALLOTMAP_DETAIL_WAIT", 10*time.Second),
			DetailMarker:      envOr("BALLOTMAP_DETAIL_MARKER", "#precinctDetailLabel"),
		},
		Fetch: FetchConfig{
			Timeout:           envDurationOr("BALLOTMAP_FETCH_TIMEOUT", 30*time.Second),
			RequestsPerSecond: envFloatOr("BALLOTMAP_FETCH_RPS", 4),
			Burst:             envIntOr("BALLOTMAP_FETCH_BURST", 2),
			Concurrency:       envIntOr("BALLOTMAP_FETCH_CONCURRENCY", 4),
		},
		Files: FilesConfig{
			CanonicalCSV:    envOr("BALLOTMAP_CANONICAL_CSV", "ajc_precincts_merged.csv"),
			DemographicsCSV: envOr("BALLOTMAP_DEMOGRAPHICS_CSV", "2014_precincts_income_race.csv"),
			MatchedCSV:      envOr("BALLOTMAP_MATCHED_CSV", "vote_data.csv"),
			UnmatchedCSV:    envOr("BALLOTMAP_UNMATCHED_CSV", "unmatched_precincts.csv"),
			AggregateJSON:   envOr("BALLOTMAP_AGGREGATE_JSON", "assets/data/2014agg_stats"),
		},
		Aggregate: AggregateConfig{
			RaceFields: envSliceOr("BALLOTMAP_RACE_FIELDS", []string{"black", "white", "hispanic"}),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("BALLOTMAP_WEBHOOK_URL"),
			Secret:     os.Getenv("BALLOTMAP_WEBHOOK_SECRET"),
			Retries:    envIntOr("BALLOTMAP_WEBHOOK_RETRIES", 3),
		},
		Server: ServerConfig{
			Host: envOr("BALLOTMAP_HOST", "0.0.0.0"),
			Port: envIntOr("BALLOTMAP_PORT", 8080),
			Mode: envOr("BALLOTMAP_MODE", "release"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("BALLOTMAP_AUTH_ENABLED", false),
			APIKeys: envSliceOr("BALLOTMAP_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("BALLOTMAP_RATE_RPS", 10),
			Burst:             envIntOr("BALLOTMAP_RATE_BURST", 20),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("BALLOTMAP_CACHE_MAX_ENTRIES", 16),
		},
		Log: LogConfig{
			Level:  envOr("BALLOTMAP_LOG_LEVEL", "info"),
			Format: envOr("BALLOTMAP_LOG_FORMAT", "text"),
		},
	}
}

func upper(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(v)
	}
	return out
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
