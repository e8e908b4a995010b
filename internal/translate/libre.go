package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// LibreMaxRunes is the longest input sent to LibreTranslate.
const LibreMaxRunes = 1000

// LibreTranslator posts to a LibreTranslate /translate endpoint.
type LibreTranslator struct {
	cfg    HTTPConfig
	apiKey string
}

func NewLibreTranslator(cfg HTTPConfig, apiKey string) *LibreTranslator {
	cfg = cfg.withDefaults("https://libretranslate.com")
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &LibreTranslator{cfg: cfg, apiKey: apiKey}
}

func (l *LibreTranslator) Name() string {
	return "libretranslate"
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

func (l *LibreTranslator) Translate(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(libreRequest{
		Q:      truncate(text, LibreMaxRunes),
		Source: l.cfg.SourceLang,
		Target: l.cfg.TargetLang,
		Format: "text",
		APIKey: l.apiKey,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.cfg.BaseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := l.cfg.do(req)
	if err != nil {
		return "", fmt.Errorf("libretranslate: %w", err)
	}

	var resp libreResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrProviderStatus, resp.Error)
	}
	if strings.TrimSpace(resp.TranslatedText) == "" {
		return "", ErrEmptyResult
	}
	return resp.TranslatedText, nil
}
