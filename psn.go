package psn

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jamesprial/go-psn-api-wrapper/internal"
	psnerrors "github.com/jamesprial/go-psn-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-psn-api-wrapper/pkg/types"
)

const (
	// DefaultUserAgent mimics the mobile browser the PSN app traffic
	// is expected to come from.
	DefaultUserAgent = "Mozilla/5.0 (Linux; Android 10; K) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Mobile Safari/537.36"
	// DefaultAcceptLanguage is the default response language.
	DefaultAcceptLanguage = "en-US,en;q=0.9"
	// DefaultCountry is the default region header.
	DefaultCountry = "US"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

// RateLimitConfig controls request pacing. See internal defaults: the
// zero value means roughly one request every three seconds.
type RateLimitConfig struct {
	RequestsPerMinute float64
	Burst             int
}

// Config holds the configuration for the PSN client.
//
// Only NpssoToken is required. The NPSSO token is obtained once, out of
// band, from a signed-in PlayStation Network browser session; the client
// exchanges it for short-lived bearer credentials and refreshes them
// silently for as long as the process lives.
type Config struct {
	// NpssoToken is the 64-character session token from a signed-in
	// PSN browser session. Required.
	NpssoToken string

	// UserAgent, AcceptLanguage and Country are sent on every request.
	// AcceptLanguage changes the response language; Country the region.
	UserAgent      string
	AcceptLanguage string
	Country        string

	// AuthBaseURL overrides the account authorization host.
	// Defaults to the production host. Usually only changed in tests.
	AuthBaseURL string

	// BaseURL overrides every non-auth API host with a single base,
	// keeping the per-service path prefixes. Usually only changed in tests.
	BaseURL string

	// HTTPClient to use for requests. Defaults to a client with
	// DefaultTimeout. Transport-level timeouts and proxies live here.
	HTTPClient *http.Client

	// RateLimit adjusts request pacing. Nil applies the default pacing.
	RateLimit *RateLimitConfig

	// Logger for structured diagnostics. Optional; no output when nil.
	Logger *zerolog.Logger
}

// Client is the entry point to the PSN API. It owns the authenticator and
// request gateway shared by every resource accessor it hands out.
type Client struct {
	auth      *internal.Authenticator
	gateway   *internal.Gateway
	endpoints internal.Endpoints
	logger    zerolog.Logger
}

// NewClient validates the configuration and builds a client. No network
// I/O happens here; the authentication handshake runs lazily on the first
// request (or explicitly via Connect).
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, psnerrors.InvalidArgument("config cannot be nil")
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	endpoints := internal.DefaultEndpoints()
	if config.BaseURL != "" {
		endpoints = internal.EndpointsWithBase(config.BaseURL)
	}
	if config.AuthBaseURL != "" {
		endpoints.Auth = config.AuthBaseURL
	}

	auth, err := internal.NewAuthenticator(httpClient, config.NpssoToken, endpoints.Auth, logger)
	if err != nil {
		return nil, err
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	acceptLanguage := config.AcceptLanguage
	if acceptLanguage == "" {
		acceptLanguage = DefaultAcceptLanguage
	}
	country := config.Country
	if country == "" {
		country = DefaultCountry
	}

	var rateCfg *internal.RateLimitConfig
	if config.RateLimit != nil {
		rateCfg = &internal.RateLimitConfig{
			RequestsPerMinute: config.RateLimit.RequestsPerMinute,
			Burst:             config.RateLimit.Burst,
		}
	}

	gateway := internal.NewGateway(httpClient, auth, map[string]string{
		"User-Agent":      userAgent,
		"Accept-Language": acceptLanguage,
		"Country":         country,
	}, rateCfg, logger)

	return &Client{
		auth:      auth,
		gateway:   gateway,
		endpoints: endpoints,
		logger:    logger,
	}, nil
}

// Connect eagerly runs the authentication handshake. Calling it is
// optional; the first request authenticates on demand. It is useful to
// fail fast on a bad NPSSO token.
func (c *Client) Connect(ctx context.Context) error {
	_, err := c.auth.GetToken(ctx)
	return err
}

// Me returns the accessor for the authenticated user's own account.
func (c *Client) Me() *Account {
	return &Account{client: c}
}

// User resolves a user by exactly one selector and returns its accessor.
// Resolution performs a profile lookup, so a nonexistent user surfaces
// here as a ResourceNotFound-kind error.
func (c *Client) User(ctx context.Context, selector UserSelector) (*User, error) {
	return resolveUser(ctx, c, selector)
}

// GroupFromID returns the accessor for an existing messaging group.
func (c *Client) GroupFromID(groupID string) *Group {
	return &Group{client: c, groupID: groupID}
}

// CreateGroup creates a new messaging group containing the given users
// and returns its accessor. Creating twice with the same users creates
// two distinct groups.
func (c *Client) CreateGroup(ctx context.Context, users ...*User) (*Group, error) {
	return createGroup(ctx, c, users)
}

// Search runs a universal search for games, add-ons or users. The returned
// iterators page through results lazily; see SearchOptions for capping.
func (c *Client) Search(query string, domain types.SearchDomain, opts *SearchOptions) (*GameSearchIterator, error) {
	return newGameSearchIterator(c, query, domain, opts)
}

// SearchUsers runs a universal search over PSN accounts.
func (c *Client) SearchUsers(query string, opts *SearchOptions) (*UserSearchIterator, error) {
	return newUserSearchIterator(c, query, opts)
}

// GameTitle returns the accessor for a catalog title.
func (c *Client) GameTitle(titleID string) *GameTitle {
	return &GameTitle{client: c, titleID: titleID}
}
