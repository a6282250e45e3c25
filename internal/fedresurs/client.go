// Package fedresurs talks to the fedresurs.ru backend: company search,
// per-company publication listings and message details.
package fedresurs

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"fedlease/internal/config"
	"fedlease/internal/errors"
	"fedlease/internal/infrastructure"
	"fedlease/internal/ratelimit"
	"fedlease/pkg/contracts/domain"
)

// Endpoint labels used in logs, spans and metrics
const (
	EndpointCompanies    = "companies"
	EndpointPublications = "publications"
	EndpointMessage      = "message"
)

// Client is a registry client. It issues one request at a time and is not
// meant to be shared between concurrent runs.
type Client struct {
	baseURL   string
	userAgent string
	pageSize  int
	ceiling   int
	dedup     bool

	http    *http.Client
	gate    ratelimit.Gate
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.ScanMetrics
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTracer sets the tracer used for per-request spans
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) { c.tracer = tracer }
}

// WithMetrics sets the run metrics
func WithMetrics(m *infrastructure.ScanMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a registry client. gate is waited on before every page of
// a publication listing.
func NewClient(reg config.RegistryConfig, collect config.CollectConfig, gate ratelimit.Gate, opts ...Option) *Client {
	c := &Client{
		baseURL:   reg.BaseURL,
		userAgent: reg.UserAgent,
		pageSize:  collect.PageSize,
		ceiling:   collect.OffsetCeiling,
		dedup:     collect.Deduplicate,
		http:      &http.Client{Timeout: reg.Timeout},
		gate:      gate,
		logger:    slog.Default(),
		tracer:    tracenoop.NewTracerProvider().Tracer(""),
	}
	if c.pageSize <= 0 {
		c.pageSize = config.DefaultPageSize
	}
	if c.ceiling <= 0 {
		c.ceiling = config.DefaultOffsetCeiling
	}
	if c.gate == nil {
		c.gate = ratelimit.NewFixedGate(0)
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = infrastructure.WithComponent(c.logger, "fedresurs")
	return c
}

// ResolveCompany finds the registry token of the active company with the given
// ИНН. found is false when the search returns no hits.
func (c *Client) ResolveCompany(ctx context.Context, inn string) (token domain.CompanyToken, found bool, err error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageSize))
	q.Set("offset", "0")
	q.Set("code", inn)
	q.Set("isActive", "true")

	var page companyPage
	referer := fmt.Sprintf(config.SearchRefererPath, url.QueryEscape(inn))
	if err := c.getJSON(ctx, EndpointCompanies, config.CompaniesEndpoint, q, referer, &page); err != nil {
		return "", false, err.WithContext("inn", inn)
	}

	if len(page.PageData) == 0 || page.PageData[0].GUID == "" {
		c.logger.DebugContext(ctx, "company search returned no hits", slog.String("inn", inn))
		return "", false, nil
	}

	token = domain.CompanyToken(page.PageData[0].GUID)
	c.logger.DebugContext(ctx, "company resolved",
		slog.String("inn", inn),
		slog.String("company", string(token)))
	return token, true, nil
}

// LocateLeaseMessages lists the lease notices a company published on each day
// of window. Days are queried one at a time, pages of pageSize entries each,
// until a short page or the offset ceiling.
func (c *Client) LocateLeaseMessages(ctx context.Context, company domain.CompanyToken, window domain.DateWindow) ([]domain.MessageToken, error) {
	var (
		tokens []domain.MessageToken
		seen   map[domain.MessageToken]struct{}
	)
	if c.dedup {
		seen = make(map[domain.MessageToken]struct{})
	}

	path := fmt.Sprintf(config.PublicationsPath, url.PathEscape(string(company)))
	referer := fmt.Sprintf(config.CompanyRefererPath, url.PathEscape(string(company)))

	for _, day := range window.Days() {
		stamp := day.Format(config.RegistryQueryLayout)

		for offset := 0; offset < c.ceiling; offset += c.pageSize {
			if err := c.wait(ctx); err != nil {
				return nil, err
			}

			var page publicationPage
			if err := c.getJSON(ctx, EndpointPublications, path, c.publicationQuery(stamp, offset), referer, &page); err != nil {
				return nil, err.WithContext("company", string(company)).WithContext("day", stamp).WithContext("offset", offset)
			}
			if page.PageData == nil {
				return nil, errors.NewParsingError("publication listing has no pageData", nil).
					WithContext("company", string(company)).
					WithContext("day", stamp)
			}

			entries := *page.PageData
			matched := 0
			for _, p := range entries {
				if p.Title != config.LeaseNoticeTitle {
					continue
				}
				tok := domain.MessageToken(p.GUID)
				if seen != nil {
					if _, dup := seen[tok]; dup {
						c.logger.DebugContext(ctx, "duplicate message skipped", slog.String("message", p.GUID))
						continue
					}
					seen[tok] = struct{}{}
				}
				tokens = append(tokens, tok)
				matched++
			}

			c.logger.DebugContext(ctx, "publication page fetched",
				slog.String("company", string(company)),
				slog.String("day", day.Format(config.InputDateLayout)),
				slog.Int("offset", offset),
				slog.Int("entries", len(entries)),
				slog.Int("matched", matched))

			if len(entries) < c.pageSize {
				break
			}
		}
	}

	return tokens, nil
}

// publicationQuery builds the listing query for one day. Only the
// simple-facts category is enabled.
func (c *Client) publicationQuery(day string, offset int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageSize))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("startDate", day)
	q.Set("endDate", day)
	q.Set("searchCompanyEfrsb", "false")
	q.Set("searchAmReport", "false")
	q.Set("searchFirmBankruptMessage", "false")
	q.Set("searchFirmBankruptMessageWithoutLegalCase", "false")
	q.Set("searchSfactsMessage", "true")
	q.Set("searchSroAmMessage", "false")
	q.Set("searchTradeOrgMessage", "false")
	return q
}

// FetchMessage downloads one message detail
func (c *Client) FetchMessage(ctx context.Context, message domain.MessageToken) (*MessageDetail, error) {
	path := fmt.Sprintf(config.MessageEndpoint, url.PathEscape(string(message)))
	referer := fmt.Sprintf(config.MessageRefererPath, url.PathEscape(string(message)))

	var detail MessageDetail
	if err := c.getJSON(ctx, EndpointMessage, path, nil, referer, &detail); err != nil {
		return nil, err.WithContext("message", string(message))
	}
	return &detail, nil
}

// DetailURL is the backend address of a message, as quoted in blocked records
func (c *Client) DetailURL(message domain.MessageToken) string {
	return c.baseURL + fmt.Sprintf(config.MessageEndpoint, string(message))
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.gate.Wait(ctx); err != nil {
		return classifyTransport(err)
	}
	return nil
}

// getJSON performs a GET and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, referer string, out any) *errors.AppError {
	ctx, span := c.tracer.Start(ctx, "fedresurs."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("registry.path", path)))
	defer span.End()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	start := time.Now()
	appErr := c.do(ctx, target, referer, out)
	elapsed := time.Since(start)

	c.metrics.RecordRequest(ctx, endpoint, elapsed, nilIfNoError(appErr))
	if appErr != nil {
		infrastructure.RecordError(ctx, appErr)
		c.logger.DebugContext(ctx, "registry request failed",
			slog.String("endpoint", endpoint),
			slog.String("url", target),
			slog.Duration("elapsed", elapsed),
			slog.String("error", appErr.Error()))
		return appErr
	}

	c.logger.DebugContext(ctx, "registry request",
		slog.String("endpoint", endpoint),
		slog.String("url", target),
		slog.Duration("elapsed", elapsed))
	return nil
}

func (c *Client) do(ctx context.Context, target, referer string, out any) *errors.AppError {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errors.NewValidationError("invalid registry request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", c.baseURL+referer)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewNetworkError(config.MsgConnectionFailed,
			fmt.Errorf("registry returned status %d", resp.StatusCode)).
			WithContext("status", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		var netErr net.Error
		if stderrors.As(err, &netErr) || ctx.Err() != nil {
			return classifyTransport(err)
		}
		return errors.NewParsingError("unexpected registry response", err)
	}
	return nil
}

// classifyTransport maps a failed call to a fatal AppError
func classifyTransport(err error) *errors.AppError {
	var netErr net.Error
	switch {
	case stderrors.Is(err, context.DeadlineExceeded),
		stderrors.As(err, &netErr) && netErr.Timeout():
		return errors.NewTimeoutError(config.MsgTimeout, err)
	default:
		return errors.NewNetworkError(config.MsgConnectionFailed, err)
	}
}

// nilIfNoError avoids handing a typed nil *AppError to an error parameter
func nilIfNoError(e *errors.AppError) error {
	if e == nil {
		return nil
	}
	return e
}
