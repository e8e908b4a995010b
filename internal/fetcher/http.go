package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 10 << 20

// HTTPConfig is shared by the HTTP-backed providers.
type HTTPConfig struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Client    *http.Client
}

func (c HTTPConfig) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

// get issues a GET and returns the body of a 2xx response. Failures come
// back as *ProviderError.
func get(ctx context.Context, cfg HTTPConfig, provider, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, malformedErr(provider, 0, fmt.Errorf("build request: %w", err))
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := cfg.client().Do(req)
	if err != nil {
		return nil, transientErr(provider, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, statusErr(provider, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transientErr(provider, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	return body, nil
}

// getJSON is get followed by a JSON decode into out.
func getJSON(ctx context.Context, cfg HTTPConfig, provider, url string, header http.Header, out any) error {
	body, err := get(ctx, cfg, provider, url, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return malformedErr(provider, http.StatusOK, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
