// Package translate turns article text into Vietnamese through an ordered
// chain of translation providers, ending in a local dictionary that never fails.
package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"
)

// Translator is one translation provider.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

var (
	// ErrEmptyResult is returned when a provider answers with no text.
	ErrEmptyResult = errors.New("empty translation")
	// ErrProviderStatus is returned when a provider reports an error in its payload.
	ErrProviderStatus = errors.New("provider reported an error")
)

const maxBodyBytes = 1 << 20

// HTTPConfig is shared by the HTTP-backed translators.
type HTTPConfig struct {
	BaseURL    string
	SourceLang string
	TargetLang string
	UserAgent  string
	Client     *http.Client
}

func (c HTTPConfig) withDefaults(baseURL string) HTTPConfig {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	if c.SourceLang == "" {
		c.SourceLang = "auto"
	}
	if c.TargetLang == "" {
		c.TargetLang = "vi"
	}
	if c.Client == nil {
		c.Client = http.DefaultClient
	}
	return c
}

// do sends req and returns the body of a 2xx response.
func (c HTTPConfig) do(req *http.Request) ([]byte, error) {
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	return body, nil
}

// truncate cuts s to at most max runes.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
