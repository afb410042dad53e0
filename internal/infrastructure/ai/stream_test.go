package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/quizmith/mcqs/configs"
	"github.com/quizmith/mcqs/internal/core/domain/chat"
)

func testClient(baseURL string) *PerplexityClient {
	return NewPerplexityClient(&configs.PerplexityConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		Model:          "sonar",
		ReasoningModel: "sonar-reasoning-pro",
		Timeout:        5 * time.Second,
	}, logrus.New())
}

func sseBody(lines ...string) string {
	out := ""
	for _, l := range lines {
		out += "data: " + l + "\n\n"
	}
	return out
}

func TestStreamChat_ForwardsTextAndDedupesSources(t *testing.T) {
	chunk1 := `{"choices":[{"delta":{"content":"Hello"}}],"citations":["https://a"]}`
	chunk2 := `{"choices":[{"delta":{"content":" world"}}],"citations":["https://a","https://b"]}`

	var gotBody completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseBody(chunk1, chunk2, "[DONE]"))
	}))
	defer srv.Close()

	events, err := testClient(srv.URL).StreamChat(context.Background(), &chat.StreamRequest{
		System:   "be helpful",
		Messages: []chat.Message{{Role: chat.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	var collected []chat.StreamEvent
	for ev := range events {
		collected = append(collected, ev)
	}

	require.True(t, gotBody.Stream)
	require.Equal(t, "sonar", gotBody.Model)
	require.Len(t, gotBody.Messages, 2)
	require.Equal(t, "system", gotBody.Messages[0].Role)

	var text string
	var sources []string
	for _, ev := range collected {
		switch ev.Type {
		case chat.EventText:
			text += ev.Text
		case chat.EventSource:
			sources = append(sources, ev.Source.URL)
		}
	}
	require.Equal(t, "Hello world", text)
	require.Equal(t, []string{"https://a", "https://b"}, sources)
	require.Equal(t, chat.EventDone, collected[len(collected)-1].Type)
}

func TestStreamChat_ReasoningSelectsReasoningModel(t *testing.T) {
	var gotBody completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, sseBody("[DONE]"))
	}))
	defer srv.Close()

	events, err := testClient(srv.URL).StreamChat(context.Background(), &chat.StreamRequest{
		Messages:  []chat.Message{{Role: chat.RoleUser, Content: "hi"}},
		Reasoning: true,
	})
	require.NoError(t, err)
	for range events {
	}
	require.Equal(t, "sonar-reasoning-pro", gotBody.Model)
}

func TestStreamChat_UpstreamErrorStatusFailsFast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"bad key"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).StreamChat(context.Background(), &chat.StreamRequest{
		Messages: []chat.Message{{Role: chat.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}

func TestStreamChat_SkipsUndecodableChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseBody("{broken", `{"choices":[{"delta":{"content":"ok"}}]}`, "[DONE]"))
	}))
	defer srv.Close()

	events, err := testClient(srv.URL).StreamChat(context.Background(), &chat.StreamRequest{
		Messages: []chat.Message{{Role: chat.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	var texts []string
	for ev := range events {
		if ev.Type == chat.EventText {
			texts = append(texts, ev.Text)
		}
	}
	require.Equal(t, []string{"ok"}, texts)
}

func TestGenerate_ParsesChoicesAndSearchResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "sonar-reasoning-pro", body.Model)
		require.NotNil(t, body.WebSearchOptions)
		require.Equal(t, "high", body.WebSearchOptions.SearchContextSize)
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"answer text"}}],"search_results":[{"title":"T","url":"https://a"}]}`)
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Generate(context.Background(), &chat.GenerateRequest{
		Prompt:            "why",
		SearchContextSize: chat.SearchContextHigh,
	})
	require.NoError(t, err)
	require.Equal(t, "answer text", result.Text)
	require.Len(t, result.Sources, 1)
	require.Equal(t, chat.SourceTypeURL, result.Sources[0].Type)
	require.Equal(t, "https://a", result.Sources[0].URL)
}
