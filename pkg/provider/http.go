package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/plantview/plantview-go/pkg/asset"
	"github.com/plantview/plantview-go/pkg/engine"
)

// DefaultHTTPTimeout bounds each gateway request.
const DefaultHTTPTimeout = 10 * time.Second

// HTTPProvider implements engine.Provider against a PlantView gateway's
// REST API:
//
//	GET  /api/v1/devices            -> {"devices": [...]}
//	GET  /api/v1/datapoints         -> {"data_points": [...]}
//	POST /api/v1/nodes/{id}/move    <- {"new_parent_id": "..."}
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates a provider for the gateway at baseURL
// (e.g. "http://gateway.local:8086").
func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

// NewHTTPProviderWithClient creates a provider using a custom HTTP client,
// e.g. one carrying auth middleware from the session layer.
func NewHTTPProviderWithClient(baseURL string, client *http.Client) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// LoadDeviceTree fetches the flat device snapshot.
func (p *HTTPProvider) LoadDeviceTree(ctx context.Context) ([]asset.DeviceRecord, error) {
	var body struct {
		Devices []asset.DeviceRecord `json:"devices"`
	}
	if err := p.getJSON(ctx, "/api/v1/devices", &body); err != nil {
		return nil, err
	}
	return body.Devices, nil
}

// LoadDataPoints fetches the standalone data point records.
func (p *HTTPProvider) LoadDataPoints(ctx context.Context) ([]asset.DataPointRecord, error) {
	var body struct {
		DataPoints []asset.DataPointRecord `json:"data_points"`
	}
	if err := p.getJSON(ctx, "/api/v1/datapoints", &body); err != nil {
		return nil, err
	}
	return body.DataPoints, nil
}

// MoveNode commits a reparent on the gateway.
func (p *HTTPProvider) MoveNode(ctx context.Context, nodeID, newParentID string) error {
	payload, err := json.Marshal(map[string]string{"new_parent_id": newParentID})
	if err != nil {
		return fmt.Errorf("failed to encode move request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/nodes/%s/move", p.baseURL, nodeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create move request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("move request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("move rejected by gateway: status %d", resp.StatusCode)
	}
	return nil
}

func (p *HTTPProvider) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s failed: status %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// Compile-time checks: both providers implement engine.Provider.
var (
	_ engine.Provider = (*HTTPProvider)(nil)
	_ engine.Provider = (*FixtureProvider)(nil)
)
