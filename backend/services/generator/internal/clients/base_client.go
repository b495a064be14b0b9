package clients

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Authorizer decorates outgoing requests with credentials.
type Authorizer interface {
	Authorize(req *http.Request) error
}

// BaseClient issues requests relative to a base URL.
type BaseClient struct {
	baseURL string
	client  HTTPDoer
	auth    Authorizer
}

// NewBaseClient builds client with base URL. auth may be nil.
func NewBaseClient(baseURL string, client HTTPDoer, auth Authorizer) *BaseClient {
	return &BaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		auth:    auth,
	}
}

func (c *BaseClient) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do executes the request and returns status and body.
func (c *BaseClient) Do(ctx context.Context, method, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.auth != nil {
		if err := c.auth.Authorize(req); err != nil {
			return 0, nil, err
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// NewDefaultHTTPClient returns *http.Client; a zero timeout means none.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
