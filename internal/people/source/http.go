package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/go-resty/resty/v2"

	"github.com/kinfolk/kinctl/internal/httpclient"
	"github.com/kinfolk/kinctl/internal/log"
	"github.com/kinfolk/kinctl/internal/people"
)

// maxErrorBody bounds the response text quoted in a status error.
const maxErrorBody = 512

// HTTPOptions configures an HTTPSource.
type HTTPOptions struct {
	Timeout time.Duration
	Delay   time.Duration
	Logger  *slog.Logger
	// Client replaces the default logging client, mostly for tests.
	Client *http.Client
}

// HTTPSource reads the people collection from a JSON endpoint.
type HTTPSource struct {
	url    string
	delay  time.Duration
	logger *slog.Logger
	client *resty.Client
}

// NewHTTPSource builds a source for the endpoint at url.
func NewHTTPSource(url string, opts HTTPOptions) *HTTPSource {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	hc := opts.Client
	if hc == nil {
		hc = httpclient.NewClient(logger, opts.Timeout)
	}

	client := resty.NewWithClient(hc).
		SetHeader("Accept", "application/json")

	return &HTTPSource{
		url:    url,
		delay:  opts.Delay,
		logger: logger,
		client: client,
	}
}

// URL returns the endpoint the source reads.
func (s *HTTPSource) URL() string {
	return s.url
}

// ListPeople performs one GET of the endpoint.
func (s *HTTPSource) ListPeople(ctx context.Context) ([]people.Person, error) {
	ctx = log.WithRequestLogContext(ctx, log.RequestLogContext{Source: s.url})

	if err := wait(ctx, s.delay); err != nil {
		return nil, err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve people: %w", err)
	}
	if !resp.IsSuccess() {
		body := ansi.Truncate(strings.TrimSpace(string(resp.Body())), maxErrorBody, "…")
		return nil, fmt.Errorf("people request failed: status %d: %s", resp.StatusCode(), body)
	}

	var out []people.Person
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to decode people response: %w", err)
	}

	people.EnsureSlugs(out)
	s.logger.DebugContext(ctx, "fetched people", slog.Int("count", len(out)))
	return out, nil
}
