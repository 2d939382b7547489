// Package arcanum is the client SDK for the Arcanum LARP backend. It keeps a
// keyed in-memory cache of server entities, serves reads through
// subscriptions that refetch when stale, and runs writes through an
// optimistic mutation engine that applies local transition rules immediately
// and reconciles with server truth on settle.
package arcanum

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/arcanumlarp/arcanum-go/internal/cache"
	"github.com/arcanumlarp/arcanum-go/internal/game/character"
	"github.com/arcanumlarp/arcanum-go/internal/game/forge"
	"github.com/arcanumlarp/arcanum-go/internal/game/journal"
	"github.com/arcanumlarp/arcanum-go/internal/mutation"
	"github.com/arcanumlarp/arcanum-go/internal/platform/config"
	"github.com/arcanumlarp/arcanum-go/internal/platform/timeouts"
	"github.com/arcanumlarp/arcanum-go/internal/query"
	"github.com/arcanumlarp/arcanum-go/internal/transport/rest"
)

// Config holds client configuration, loadable from the environment.
type Config struct {
	// BaseURL is the backend root URL.
	BaseURL string `env:"ARCANUM_BASE_URL"`
	// Token is the bearer credential for the session.
	Token string `env:"ARCANUM_TOKEN"`
	// Locale selects the message catalog for rendered errors.
	Locale string `env:"ARCANUM_LOCALE" envDefault:"en-US"`
}

// ConfigFromEnv loads Config from ARCANUM_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLogf installs a debug log hook across the cache, query, and mutation
// layers. The zero hook discards output.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(c *Client) {
		if logf != nil {
			c.logf = logf
		}
	}
}

// WithRateLimit throttles outgoing requests to the backend.
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(c *Client) { c.limiter = limiter }
}

// WithClock overrides the time source, pinning staleness windows and item
// activation anchors in tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Client) { c.clock = clock }
}

// WithSessionExpiredHandler registers a callback invoked once when the
// session credential is rejected or locally detected as expired. Cached
// per-account state is evicted before the callback runs.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// Client is the SDK entry point. It is safe for concurrent use.
type Client struct {
	rest      *rest.Client
	store     *cache.Store
	queries   *query.Engine
	mutations *mutation.Engine

	httpClient       *http.Client
	limiter          *rate.Limiter
	clock            func() time.Time
	logf             func(format string, args ...any)
	onSessionExpired func()
	expireOnce       sync.Once
}

// NewClient validates the config and wires the cache, query, mutation, and
// transport layers together.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	c := &Client{
		clock: time.Now,
		logf:  func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: timeouts.HTTPRequest}
	}

	restClient, err := rest.NewClient(rest.Config{
		BaseURL:          cfg.BaseURL,
		Token:            func() string { return cfg.Token },
		HTTPClient:       c.httpClient,
		Limiter:          c.limiter,
		OnSessionExpired: c.teardownSession,
		Logf:             c.logf,
	})
	if err != nil {
		return nil, err
	}

	c.rest = restClient
	c.store = cache.NewStoreWithClock(c.clock)
	c.queries = query.NewEngine(c.store, query.WithLogf(c.logf))
	c.mutations = mutation.NewEngine(c.queries, mutation.WithLogf(c.logf))
	return c, nil
}

// Invalidate marks a cached character stale, forcing subscribed readers to
// reconcile with the server.
func (c *Client) Invalidate(characterID int64) {
	c.queries.Invalidate(character.Key(characterID))
}

// teardownSession evicts all per-account cached state and notifies the
// registered handler. It runs at most once per client; a burst of rejected
// requests tears down a single session only once.
func (c *Client) teardownSession() {
	c.expireOnce.Do(func() {
		c.logf("arcanum: session expired, evicting cached state")
		for _, kind := range []string{
			character.Kind,
			character.AcquirableSkillsKind,
			character.AcquirableInfusionsKind,
			character.AcquirableWeavingsKind,
			character.AcquirableCeremonialsKind,
			forge.Kind,
			journal.LogsKind,
			journal.TransactionsKind,
		} {
			c.store.EvictKind(kind)
		}
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
	})
}
