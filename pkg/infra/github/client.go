package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/interfaces"
	"github.com/m-mizutani/streakmon/pkg/domain/model"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
)

const (
	eventTypePush = "PushEvent"
	perPage       = 100

	// The events API serves at most 300 events per user
	defaultMaxPages = 3
)

type config struct {
	token          string
	appID          int64
	installationID int64
	privateKey     []byte
	baseURL        string
	httpClient     *http.Client
	maxPages       int
}

// Option is a functional option for the activity client
type Option func(*config)

// WithToken authenticates with a personal access token
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithApp authenticates as a GitHub App installation
func WithApp(appID, installationID int64, privateKey []byte) Option {
	return func(c *config) {
		c.appID = appID
		c.installationID = installationID
		c.privateKey = privateKey
	}
}

// WithBaseURL overrides the API endpoint, e.g. for GitHub Enterprise or tests
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

// WithMaxPages bounds the number of pages fetched per query
func WithMaxPages(n int) Option {
	return func(c *config) {
		c.maxPages = n
	}
}

type client struct {
	githubClient *github.Client
	maxPages     int
}

// NewClient creates a GitHub activity source. Either a token or App credentials are required.
func NewClient(opts ...Option) (interfaces.ActivitySource, error) {
	cfg := &config{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxPages:   defaultMaxPages,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var baseURL *url.URL
	if cfg.baseURL != "" {
		u, err := url.Parse(cfg.baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, goerr.New("invalid GitHub API base URL",
				goerr.V("base_url", cfg.baseURL),
				goerr.T(types.ErrTagConfig),
			)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		baseURL = u
	}

	var githubClient *github.Client
	switch {
	case cfg.appID != 0:
		base := cfg.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}

		// Create GitHub App transport
		itr, err := ghinstallation.New(base, cfg.appID, cfg.installationID, cfg.privateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub App transport",
				goerr.V("app_id", cfg.appID),
				goerr.V("installation_id", cfg.installationID),
				goerr.T(types.ErrTagConfig),
			)
		}
		// Installation tokens are minted at the same API endpoint
		if baseURL != nil {
			itr.BaseURL = strings.TrimSuffix(baseURL.String(), "/")
		}
		githubClient = github.NewClient(&http.Client{Transport: itr, Timeout: cfg.httpClient.Timeout})

	case cfg.token != "":
		githubClient = github.NewClient(cfg.httpClient).WithAuthToken(cfg.token)

	default:
		return nil, goerr.New("GitHub token or App credentials are required", goerr.T(types.ErrTagConfig))
	}

	if baseURL != nil {
		githubClient.BaseURL = baseURL
	}

	if cfg.maxPages < 1 {
		cfg.maxPages = 1
	}

	return &client{
		githubClient: githubClient,
		maxPages:     cfg.maxPages,
	}, nil
}

// ListPushEvents returns PushEvents performed by username, newest first
func (c *client) ListPushEvents(ctx context.Context, username string, since time.Time) ([]model.PushEvent, error) {
	logger := ctxlog.From(ctx)

	var pushes []model.PushEvent
	total := 0
	opts := &github.ListOptions{Page: 1, PerPage: perPage}

	for page := 1; page <= c.maxPages; page++ {
		opts.Page = page
		events, resp, err := c.githubClient.Activity.ListEventsPerformedByUser(ctx, username, false, opts)
		if err != nil {
			return nil, classifyError(err,
				goerr.V("username", username),
				goerr.V("page", page),
			)
		}
		if len(events) == 0 {
			break
		}

		total += len(events)
		logger.Debug("Fetched events page", "page", page, "count", len(events), "total", total)

		for _, ev := range events {
			if ev.GetType() != eventTypePush {
				continue
			}
			pushes = append(pushes, model.PushEvent{
				ID:        ev.GetID(),
				Repo:      ev.GetRepo().GetName(),
				CreatedAt: ev.GetCreatedAt().Time,
			})
		}

		// Events are returned newest first; stop once we are past the window
		oldest := events[len(events)-1].GetCreatedAt().Time
		if oldest.Before(since) {
			break
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
	}

	logger.Info("Fetched push events",
		"username", username,
		"events", total,
		"pushes", len(pushes),
	)

	return pushes, nil
}

// classifyError tags err so the handler can tell auth, rate limit and transport
// failures apart. Every result is tagged as an activity source failure.
func classifyError(err error, opts ...goerr.Option) error {
	opts = append(opts, goerr.T(types.ErrTagActivitySource))

	var (
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		respErr  *github.ErrorResponse
	)

	switch {
	case errors.As(err, &rateErr):
		opts = append(opts, goerr.T(types.ErrTagRateLimit), goerr.V("reset", rateErr.Rate.Reset.Time))
		return goerr.Wrap(err, "GitHub rate limit exceeded", opts...)

	case errors.As(err, &abuseErr):
		opts = append(opts, goerr.T(types.ErrTagRateLimit), goerr.V("retry_after", abuseErr.GetRetryAfter()))
		return goerr.Wrap(err, "GitHub secondary rate limit exceeded", opts...)

	case errors.As(err, &respErr):
		status := 0
		if respErr.Response != nil {
			status = respErr.Response.StatusCode
		}
		opts = append(opts, goerr.V("status", status))

		switch status {
		case http.StatusUnauthorized:
			return goerr.Wrap(err, "GitHub rejected the credential", append(opts, goerr.T(types.ErrTagAuth))...)
		case http.StatusForbidden:
			return goerr.Wrap(err, "GitHub denied access", append(opts, goerr.T(types.ErrTagAuth))...)
		case http.StatusTooManyRequests:
			return goerr.Wrap(err, "GitHub rate limit exceeded", append(opts, goerr.T(types.ErrTagRateLimit))...)
		default:
			return goerr.Wrap(err, "GitHub returned an error response", opts...)
		}

	default:
		return goerr.Wrap(err, "failed to reach GitHub", append(opts, goerr.T(types.ErrTagNetwork))...)
	}
}
