package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/quizmith/mcqs/configs"
	"github.com/quizmith/mcqs/internal/core/domain/chat"
	"github.com/quizmith/mcqs/internal/core/ports"
)

// PerplexityClient talks to the Perplexity chat-completions API. The API is
// OpenAI-shaped with an extra web_search_options knob and search_results
// citations on responses.
type PerplexityClient struct {
	cfg        *configs.PerplexityConfig
	httpClient *http.Client
	// streamClient has no overall timeout; stream lifetime is bounded by
	// the request context instead.
	streamClient *http.Client
	logger       *logrus.Logger
}

// NewPerplexityClient creates a new Perplexity API client.
func NewPerplexityClient(cfg *configs.PerplexityConfig, logger *logrus.Logger) *PerplexityClient {
	return &PerplexityClient{
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		streamClient: &http.Client{},
		logger:       logger,
	}
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type webSearchOptions struct {
	SearchContextSize string `json:"search_context_size,omitempty"`
}

type completionRequest struct {
	Model            string            `json:"model"`
	Messages         []apiMessage      `json:"messages"`
	Stream           bool              `json:"stream,omitempty"`
	WebSearchOptions *webSearchOptions `json:"web_search_options,omitempty"`
}

type searchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type completionResponse struct {
	Choices []struct {
		Message apiMessage `json:"message"`
	} `json:"choices"`
	SearchResults []searchResult `json:"search_results"`
	Citations     []string       `json:"citations"`
}

// Generate performs a single-shot completion against the reasoning model
// with the requested web search context.
func (c *PerplexityClient) Generate(ctx context.Context, req *chat.GenerateRequest) (*chat.GenerateResult, error) {
	body := &completionRequest{
		Model:    c.cfg.ReasoningModel,
		Messages: []apiMessage{{Role: string(chat.RoleUser), Content: req.Prompt}},
	}
	if req.SearchContextSize != "" {
		body.WebSearchOptions = &webSearchOptions{SearchContextSize: string(req.SearchContextSize)}
	}

	resp, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode perplexity response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("perplexity returned no choices")
	}

	return &chat.GenerateResult{
		Text:    decoded.Choices[0].Message.Content,
		Sources: typedSources(decoded.SearchResults, decoded.Citations),
	}, nil
}

func (c *PerplexityClient) post(ctx context.Context, body *completionRequest) (*http.Response, error) {
	client := c.httpClient
	if body.Stream {
		client = c.streamClient
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode perplexity request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build perplexity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perplexity request failed: %w", err)
	}
	return resp, nil
}

func (c *PerplexityClient) apiError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"status": resp.StatusCode, "body": string(snippet)}).Error("perplexity API error")
	}
	return fmt.Errorf("perplexity API returned status %d", resp.StatusCode)
}

// typedSources normalizes both citation shapes the API may return into
// URL-typed sources.
func typedSources(results []searchResult, citations []string) []chat.Source {
	if len(results) > 0 {
		sources := make([]chat.Source, 0, len(results))
		for _, r := range results {
			sources = append(sources, chat.Source{Type: chat.SourceTypeURL, URL: r.URL, Title: r.Title})
		}
		return sources
	}
	sources := make([]chat.Source, 0, len(citations))
	for _, u := range citations {
		sources = append(sources, chat.Source{Type: chat.SourceTypeURL, URL: u})
	}
	return sources
}

var _ ports.TextGenerator = (*PerplexityClient)(nil)
