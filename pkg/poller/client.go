// Package poller keeps a local view of one analysis in sync with the server by
// polling the status-read endpoint until the analysis reaches a terminal
// status.
package poller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/infra"
	"github.com/secmon-lab/pipewatch/pkg/utils/safe"
)

const DefaultInterval = 3 * time.Second

type Client struct {
	baseURL    string
	httpClient infra.HTTPClient
	interval   time.Duration
}

type Option func(*Client)

func WithHTTPClient(client infra.HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithInterval sets the delay between two fetches. Non-positive values are
// ignored.
func WithInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.interval = d
		}
	}
}

func New(baseURL string, options ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "invalid server URL", goerr.V("url", baseURL))
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		interval:   DefaultInterval,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

type envelope struct {
	Success bool                    `json:"success"`
	Data    *model.AnalysisSnapshot `json:"data"`
	Error   string                  `json:"error"`
}

// Fetch reads the current snapshot of one analysis. A response that is not a
// success envelope is an error.
func (c *Client) Fetch(ctx context.Context, id types.AnalysisID) (*model.AnalysisSnapshot, error) {
	endpoint := c.baseURL + "/api/analyses/" + url.PathEscape(id.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("url", endpoint))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch analysis", goerr.V("url", endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, goerr.New("unexpected status code",
			goerr.V("url", endpoint),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, goerr.Wrap(err, "failed to decode response", goerr.V("url", endpoint))
	}
	if !env.Success || env.Data == nil {
		return nil, goerr.New("analysis fetch failed", goerr.V("url", endpoint), goerr.V("error", env.Error))
	}

	return env.Data, nil
}
