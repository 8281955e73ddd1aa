// Package llm talks to the Gemini generative API: chat turns, the model
// catalog, and structured forum generation.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/rcliao/grimoire/internal/model"
)

// DefaultBaseURL is the public Gemini API host.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// ErrMissingAPIKey is returned before any network call when no key is configured.
var ErrMissingAPIKey = errors.New("API key is missing")

// generator is the slice of the genai Models service the client uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures a Client.
type Config struct {
	APIKey     string
	BaseURL    string // optional proxy or mirror; a trailing /v1beta is tolerated
	Model      string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client is a Gemini client bound to one API key, base URL and model.
type Client struct {
	models  generator
	model   string
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a Client. It fails with ErrMissingAPIKey when cfg has no key.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if base := NormalizeBaseURL(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base + "/"}
	}

	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newClient(gc.Models, cfg), nil
}

func newClient(models generator, cfg Config) *Client {
	modelName := cfg.Model
	if strings.TrimSpace(modelName) == "" {
		modelName = model.DefaultModelName
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		models:  models,
		model:   modelName,
		apiKey:  cfg.APIKey,
		baseURL: NormalizeBaseURL(cfg.BaseURL),
		http:    httpClient,
		logger:  logger,
	}
}

// Model returns the model id the client generates with.
func (c *Client) Model() string { return c.model }

// NormalizeBaseURL strips trailing slashes and a trailing /v1beta so the
// API version can be appended by the caller.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	base = strings.TrimSuffix(base, "/v1beta")
	return strings.TrimRight(base, "/")
}

func textContent(role, text string) *genai.Content {
	return &genai.Content{Role: role, Parts: []*genai.Part{{Text: text}}}
}

// responseText concatenates the visible text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
