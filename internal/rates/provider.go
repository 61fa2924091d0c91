package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultProviderURL is the public endpoint serving latest rates per base
// currency; the base code is appended as the final path segment.
const DefaultProviderURL = "https://open.er-api.com/v6/latest"

// Provider fetches the current rate snapshot for a base currency.
type Provider interface {
	Fetch(ctx context.Context, baseCurrency string) (*Snapshot, error)
}

// HTTPProvider fetches snapshots from a rate-provider HTTP endpoint.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string, client *http.Client) *HTTPProvider {
	if baseURL == "" {
		baseURL = DefaultProviderURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPProvider{baseURL: baseURL, client: client}
}

// providerResponse mirrors the provider's JSON payload. The result field is
// the success indicator; error-type carries the failure reason when result
// is anything else.
type providerResponse struct {
	Result             string             `json:"result"`
	ErrorType          string             `json:"error-type"`
	BaseCode           string             `json:"base_code"`
	Rates              map[string]float64 `json:"rates"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
}

func (p *HTTPProvider) Fetch(ctx context.Context, baseCurrency string) (*Snapshot, error) {
	url := fmt.Sprintf("%s/%s", p.baseURL, baseCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates for %s: %w", baseCurrency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch rates for %s: unexpected status %d", baseCurrency, resp.StatusCode)
	}

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rates response for %s: %w", baseCurrency, err)
	}

	if body.Result != "success" {
		return nil, fmt.Errorf("rates provider error for %s: %s", baseCurrency, body.ErrorType)
	}

	return &Snapshot{
		BaseCode:           body.BaseCode,
		Rates:              body.Rates,
		TimeLastUpdateUnix: body.TimeLastUpdateUnix,
	}, nil
}
