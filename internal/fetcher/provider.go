package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/deusflow/vnnews/internal/news"
)

// Provider is one upstream news source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q news.SearchQuery) ([]news.Article, error)
}

var (
	// ErrTransient marks failures worth retrying later: transport errors,
	// timeouts and non-2xx statuses.
	ErrTransient = errors.New("transient provider failure")
	// ErrMalformed marks a response that could not be decoded or that
	// reported a provider-level error.
	ErrMalformed = errors.New("malformed provider response")
	// ErrEmpty marks a well-formed response with no articles.
	ErrEmpty = errors.New("provider returned no articles")
	// ErrAllProvidersFailed is returned when no provider produced articles.
	ErrAllProvidersFailed = errors.New("all news providers failed")
)

// ProviderError describes a single provider failure. Kind is one of the
// sentinels above, so callers can test with errors.Is.
type ProviderError struct {
	Provider   string
	StatusCode int
	Kind       error
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func transientErr(provider string, status int, err error) *ProviderError {
	return &ProviderError{Provider: provider, StatusCode: status, Kind: ErrTransient, Err: err}
}

func malformedErr(provider string, status int, err error) *ProviderError {
	return &ProviderError{Provider: provider, StatusCode: status, Kind: ErrMalformed, Err: err}
}

func emptyErr(provider string) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ErrEmpty}
}

// IsRetryable reports whether err is a transient provider failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}

// statusKind classifies a non-2xx status. Client errors other than 408 and
// 429 will not improve on retry, so they count as malformed requests.
func statusKind(status int) error {
	switch {
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		return ErrTransient
	default:
		return ErrMalformed
	}
}

func statusErr(provider string, status int) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		StatusCode: status,
		Kind:       statusKind(status),
		Err:        fmt.Errorf("unexpected status %s", http.StatusText(status)),
	}
}
