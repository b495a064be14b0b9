package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"plugsim/backend/libs/shelly"
)

// PlugClient reads a (mock) Shelly Plug S over HTTP.
type PlugClient struct {
	base *BaseClient
}

// NewPlugClient returns client.
func NewPlugClient(baseURL string, httpClient HTTPDoer, auth Authorizer) *PlugClient {
	return &PlugClient{base: NewBaseClient(baseURL, httpClient, auth)}
}

// Meter fetches GET /meter/{id}. Any non-200 answer is a *shelly.MeterError.
func (c *PlugClient) Meter(ctx context.Context, id int) (shelly.MeterDoc, error) {
	var doc shelly.MeterDoc
	status, body, err := c.base.Do(ctx, http.MethodGet, fmt.Sprintf("/meter/%d", id))
	if err != nil {
		return doc, fmt.Errorf("plug client: meter %d: %w", id, err)
	}
	if status != http.StatusOK {
		return doc, &shelly.MeterError{ID: id, StatusCode: status}
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return doc, fmt.Errorf("plug client: decode meter %d: %w", id, err)
	}
	return doc, nil
}

// Settings fetches GET /settings.
func (c *PlugClient) Settings(ctx context.Context) (shelly.SettingsDoc, error) {
	var doc shelly.SettingsDoc
	if err := c.getJSON(ctx, "/settings", &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

func (c *PlugClient) getJSON(ctx context.Context, path string, out interface{}) error {
	status, body, err := c.base.Do(ctx, http.MethodGet, path)
	if err != nil {
		return fmt.Errorf("plug client: %s: %w", path, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("plug client: %s: unexpected status %d", path, status)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("plug client: decode %s: %w", path, err)
	}
	return nil
}
