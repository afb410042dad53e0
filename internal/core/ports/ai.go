package ports

import (
	"context"

	"github.com/quizmith/mcqs/internal/core/domain/chat"
	"github.com/quizmith/mcqs/internal/core/domain/question"
)

// TextGenerator abstracts the external text-generation collaborator.
type TextGenerator interface {
	// Generate performs a single-shot completion with web search, returning
	// the text plus typed source citations.
	Generate(ctx context.Context, req *chat.GenerateRequest) (*chat.GenerateResult, error)
	// StreamChat streams a conversation response. Events arrive on the
	// returned channel in upstream order; the channel is closed when the
	// stream ends or ctx is cancelled.
	StreamChat(ctx context.Context, req *chat.StreamRequest) (<-chan chat.StreamEvent, error)
}

// ExplanationService orchestrates stored-or-generated answer explanations
// and follow-up chat.
type ExplanationService interface {
	Explain(ctx context.Context, req *question.ExplainRequest) (*question.Explanation, error)
	StreamChat(ctx context.Context, req *ChatRequest) (<-chan chat.StreamEvent, error)
}

// ChatRequest is a follow-up conversation about an explanation.
type ChatRequest struct {
	Messages           []chat.Message `json:"messages"`
	Reasoning          bool           `json:"reasoning,omitempty"`
	ExplanationContext string         `json:"explanationContext,omitempty"`
}
