package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/daviddao/agents_catalog_viewer/internal/catalog"
)

// maxPayload caps the size of a catalog response body.
const maxPayload = 16 << 20

// HTTPSource fetches the static JSON catalog from a URL.
type HTTPSource struct {
	URL    string
	client *retryablehttp.Client
	log    *zap.Logger
}

// NewHTTPSource returns an HTTPSource for url.
func NewHTTPSource(url string, opts Options) *HTTPSource {
	log := opts.logger().Named("http")

	c := retryablehttp.NewClient()
	c.RetryMax = max(0, opts.RetryMax)
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	if opts.HTTPTimeout > 0 {
		c.HTTPClient.Timeout = opts.HTTPTimeout
	}
	c.Logger = leveledLogger{log.Sugar()}

	return &HTTPSource{URL: url, client: c, log: log}
}

func (s *HTTPSource) String() string { return s.URL }

// Load GETs the catalog. Non-2xx responses are load failures.
func (s *HTTPSource) Load(ctx context.Context) ([]catalog.Agent, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, loadErr(s, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, loadErr(s, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, loadErr(s, fmt.Errorf("unexpected status %s", resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, loadErr(s, fmt.Errorf("read body: %w", err))
	}
	agents, err := decodeJSON(data)
	if err != nil {
		return nil, loadErr(s, err)
	}
	agents, err = catalog.Normalize(agents)
	if err != nil {
		return nil, loadErr(s, err)
	}
	s.log.Debug("fetched catalog", zap.String("url", s.URL), zap.Int("records", len(agents)))
	return agents, nil
}

// leveledLogger routes retryablehttp logging into zap.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
