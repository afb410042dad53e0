package ai

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quizmith/mcqs/internal/core/domain/chat"
)

type streamChunk struct {
	Choices []struct {
		Delta apiMessage `json:"delta"`
	} `json:"choices"`
	SearchResults []searchResult `json:"search_results"`
	Citations     []string       `json:"citations"`
}

// StreamChat opens a server-sent-events completion and forwards each delta
// as it arrives. The returned channel is closed when the upstream stream
// ends, errors, or ctx is cancelled; cancellation also releases the
// upstream connection.
func (c *PerplexityClient) StreamChat(ctx context.Context, req *chat.StreamRequest) (<-chan chat.StreamEvent, error) {
	model := c.cfg.Model
	if req.Reasoning {
		model = c.cfg.ReasoningModel
	}

	messages := make([]apiMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, apiMessage{Role: string(chat.RoleSystem), Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, apiMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := c.post(ctx, &completionRequest{Model: model, Messages: messages, Stream: true})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.apiError(resp)
	}

	events := make(chan chat.StreamEvent)
	go c.forward(ctx, resp, events)
	return events, nil
}

func (c *PerplexityClient) forward(ctx context.Context, resp *http.Response, events chan<- chat.StreamEvent) {
	defer close(events)
	defer resp.Body.Close()

	// Deduplicate citations: the API repeats the full list on later chunks.
	seen := map[string]bool{}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			if c.logger != nil {
				c.logger.WithError(err).Debug("skipping undecodable stream chunk")
			}
			continue
		}

		for _, src := range typedSources(chunk.SearchResults, chunk.Citations) {
			if seen[src.URL] {
				continue
			}
			seen[src.URL] = true
			s := src
			if !emit(ctx, events, chat.StreamEvent{Type: chat.EventSource, Source: &s}) {
				return
			}
		}
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if !emit(ctx, events, chat.StreamEvent{Type: chat.EventText, Text: chunk.Choices[0].Delta.Content}) {
				return
			}
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		emit(ctx, events, chat.StreamEvent{Type: chat.EventError, Error: err.Error()})
		return
	}
	emit(ctx, events, chat.StreamEvent{Type: chat.EventDone})
}

func emit(ctx context.Context, events chan<- chat.StreamEvent, ev chat.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
