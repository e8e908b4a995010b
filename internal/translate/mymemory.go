package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
)

// MyMemoryMaxRunes is the longest input sent to MyMemory.
const MyMemoryMaxRunes = 500

// MyMemoryTranslator calls the MyMemory /get endpoint. Email raises the
// anonymous daily quota when set.
type MyMemoryTranslator struct {
	cfg   HTTPConfig
	email string
}

func NewMyMemoryTranslator(cfg HTTPConfig, email string) *MyMemoryTranslator {
	cfg = cfg.withDefaults("https://api.mymemory.translated.net")
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &MyMemoryTranslator{cfg: cfg, email: email}
}

func (m *MyMemoryTranslator) Name() string {
	return "mymemory"
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  json.Number `json:"responseStatus"`
	ResponseDetails string      `json:"responseDetails"`
}

func (m *MyMemoryTranslator) Translate(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("q", truncate(text, MyMemoryMaxRunes))
	params.Set("langpair", m.cfg.SourceLang+"|"+m.cfg.TargetLang)
	if m.email != "" {
		params.Set("de", m.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.cfg.BaseURL+"/get?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	body, err := m.cfg.do(req)
	if err != nil {
		return "", fmt.Errorf("mymemory: %w", err)
	}

	var resp myMemoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if status := resp.ResponseStatus.String(); status != "" && status != "200" {
		return "", fmt.Errorf("%w: status %s: %s", ErrProviderStatus, status, resp.ResponseDetails)
	}

	translated := strings.TrimSpace(html.UnescapeString(resp.ResponseData.TranslatedText))
	if translated == "" {
		return "", ErrEmptyResult
	}
	// quota notices arrive as a 200 with the notice in place of the translation
	if strings.HasPrefix(strings.ToUpper(translated), "MYMEMORY WARNING") {
		return "", fmt.Errorf("%w: %s", ErrProviderStatus, translated)
	}
	return translated, nil
}
