package anubis

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/user"
	"github.com/riskibarqy/ninety-minute/internal/platform/cache"
	"github.com/riskibarqy/ninety-minute/internal/platform/logging"
	"github.com/riskibarqy/ninety-minute/internal/platform/resilience"
	"github.com/riskibarqy/ninety-minute/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultCacheTTL = 30 * time.Second
	maxBodySize     = 1 << 20
)

var errAnubisTransient = errors.New("anubis transient failure")

type Config struct {
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	http          *fasthttp.Client
	introspectURL string
	adminKey      string
	timeout       time.Duration
	breaker       *resilience.CircuitBreaker
	principals    *cache.Store[user.Principal]
	logger        *logging.Logger
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "ninety-minute",
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxResponseBodySize: maxBodySize,
		},
		introspectURL: buildURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		timeout:       cfg.Timeout,
		breaker:       resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		principals:    cache.NewStore[user.Principal](cfg.CacheTTL),
		logger:        logger,
	}
}

// VerifyAccessToken resolves token to the member it was issued for.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "token is required")
	}

	return c.principals.GetOrLoad(ctx, hashToken(token), func(ctx context.Context) (user.Principal, error) {
		var principal user.Principal
		err := c.breaker.Execute(func() error {
			var callErr error
			principal, callErr = c.introspect(ctx, token)
			return callErr
		}, isCircuitFailure)
		if errors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "anubis circuit breaker rejected request", "state", c.breaker.State())
			return user.Principal{}, errors.Mark(errors.Wrap(err, "anubis is temporarily unavailable"), usecase.ErrDependencyUnavailable)
		}
		return principal, err
	})
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)

	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, errors.Wrap(err, "marshal introspect request")
	}
	_, _ = body.Write(encoded)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.introspectURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}
	req.SetBody(body.B)

	if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		return user.Principal{}, errors.Mark(
			errors.Wrapf(errAnubisTransient, "request introspection: %v", err),
			usecase.ErrDependencyUnavailable,
		)
	}

	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusUnauthorized:
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "introspection denied")
	case status == fasthttp.StatusForbidden:
		c.logger.ErrorContext(ctx, "anubis rejected admin key", "status_code", status)
		return user.Principal{}, errors.Wrapf(usecase.ErrDependencyUnavailable, "anubis introspection status %d", status)
	case isRetryableStatus(status):
		c.logger.WarnContext(ctx, "anubis introspection unavailable", "status_code", status)
		return user.Principal{}, errors.Mark(
			errors.Wrapf(errAnubisTransient, "anubis introspection status %d", status),
			usecase.ErrDependencyUnavailable,
		)
	case status != fasthttp.StatusOK:
		return user.Principal{}, errors.Wrapf(usecase.ErrDependencyUnavailable, "anubis introspection status %d", status)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		return user.Principal{}, errors.Wrap(err, "unmarshal introspect response")
	}
	if !decoded.Active {
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "inactive token")
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, errors.New("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID: decoded.UserID,
		AppID:  decoded.AppID,
		Roles:  decoded.Roles,
	}, nil
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool     `json:"active"`
	UserID string   `json:"user_id"`
	AppID  string   `json:"app_id"`
	Roles  []string `json:"roles"`
}
