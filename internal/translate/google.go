package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GoogleMaxRunes is the longest input sent to Google Translate.
const GoogleMaxRunes = 1000

// GoogleTranslator uses the free translate_a/single endpoint.
type GoogleTranslator struct {
	cfg HTTPConfig
}

func NewGoogleTranslator(cfg HTTPConfig) *GoogleTranslator {
	cfg = cfg.withDefaults("https://translate.googleapis.com")
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &GoogleTranslator{cfg: cfg}
}

func (g *GoogleTranslator) Name() string {
	return "google"
}

func (g *GoogleTranslator) Translate(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", g.cfg.SourceLang)
	params.Set("tl", g.cfg.TargetLang)
	params.Set("dt", "t") // return translations
	params.Set("q", truncate(text, GoogleMaxRunes))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"/translate_a/single?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	body, err := g.cfg.do(req)
	if err != nil {
		return "", fmt.Errorf("google translate: %w", err)
	}

	translation, err := parseGoogleTranslateResponse(body)
	if err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if strings.TrimSpace(translation) == "" {
		return "", ErrEmptyResult
	}
	return translation, nil
}

// parseGoogleTranslateResponse parses Google Translate API response
func parseGoogleTranslateResponse(body []byte) (string, error) {
	// Google Translate returns array of arrays
	var response []interface{}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}

	if len(response) == 0 {
		return "", errors.New("empty response from Google Translate")
	}

	// First element contains translations
	translations, ok := response[0].([]interface{})
	if !ok {
		return "", errors.New("unexpected response format")
	}

	var result strings.Builder

	// Collect all translation parts
	for _, translation := range translations {
		if translationArray, ok := translation.([]interface{}); ok && len(translationArray) > 0 {
			if translatedText, ok := translationArray[0].(string); ok {
				result.WriteString(translatedText)
			}
		}
	}

	return result.String(), nil
}
