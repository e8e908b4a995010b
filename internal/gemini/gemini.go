package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/deusflow/vnnews/internal/translate"
)

// MaxRunes is the longest input put into a prompt.
const MaxRunes = 4000

const DefaultModel = "gemini-1.5-flash"

var errNoResponse = errors.New("no response from Gemini")

// generateFunc sends a prompt and returns the model's text.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// Client translates text with a Gemini model.
type Client struct {
	client   *genai.Client
	generate generateFunc
	target   string
}

// NewClient connects to Gemini. target is the language name used in the
// prompt, e.g. "Vietnamese".
func NewClient(ctx context.Context, apiKey, model, target string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}

	gm := client.GenerativeModel(model)
	gm.SetTemperature(0.2)

	c := &Client{client: client, target: target}
	c.generate = func(ctx context.Context, prompt string) (string, error) {
		resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		return responseText(resp)
	}
	return c, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *Client) Name() string {
	return "gemini"
}

// Translate asks the model for a plain translation and strips any
// commentary it adds.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	text = prepare(text)
	if text == "" {
		return "", translate.ErrEmptyResult
	}

	out, err := c.generate(ctx, buildPrompt(c.targetLanguage(), text))
	if err != nil {
		return "", err
	}

	out = translate.SanitizeAIText(out)
	if out == "" {
		return "", translate.ErrEmptyResult
	}
	return out, nil
}

func (c *Client) targetLanguage() string {
	if c.target == "" {
		return "Vietnamese"
	}
	return c.target
}

func buildPrompt(target, text string) string {
	return fmt.Sprintf(`Translate the following news text to %s.
Keep the meaning, tone and journalistic style of the original.
Do not translate brand or organisation names.
Reply with the translation only, without notes or comments.

Text to translate:
%s`, target, text)
}

// prepare collapses whitespace and cuts text to MaxRunes, preferring to end
// on a sentence.
func prepare(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= MaxRunes {
		return text
	}
	trimmed := string([]rune(text)[:MaxRunes])
	if idx := strings.LastIndex(trimmed, ". "); idx > MaxRunes/4 {
		trimmed = trimmed[:idx+1]
	}
	return trimmed
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errNoResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", errNoResponse
	}
	return b.String(), nil
}

// LanguageName maps a language code to the name used in prompts.
func LanguageName(code string) string {
	switch strings.ToLower(code) {
	case "vi":
		return "Vietnamese"
	case "en":
		return "English"
	case "fr":
		return "French"
	case "ja":
		return "Japanese"
	case "zh", "zh-cn":
		return "Chinese"
	default:
		return code
	}
}
