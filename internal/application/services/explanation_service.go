package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/quizmith/mcqs/internal/core/domain/chat"
	"github.com/quizmith/mcqs/internal/core/domain/question"
	"github.com/quizmith/mcqs/internal/core/ports"
)

const explainPromptTemplate = `In simple terms, please explain why "%s" is the correct answer to this question: "%s". Do NOT use any sort of markdown formatting. Cite multiple sources. Do not start the explanation with anything like "Explanation: ", just start the explanation.`

const chatSystemPromptTemplate = "You are a helpful assistant helping the user understand an explanation to a quiz question. Here is the explanation they are asking about:\n\n%s\n\nAnswer their follow-up questions about this explanation. Be concise and helpful."

// thinkingBlock matches the reasoning model's internal annotation, which is
// never meant for end users.
var thinkingBlock = regexp.MustCompile(`(?s)<think>.*?</think>\s*`)

// ExplanationService returns stored explanations and generates, persists
// and caches-invalidates missing ones through the external text generator.
type ExplanationService struct {
	repo      ports.QuestionRepository
	generator ports.TextGenerator
	logger    *logrus.Logger
}

func NewExplanationService(repo ports.QuestionRepository, generator ports.TextGenerator, logger *logrus.Logger) *ExplanationService {
	return &ExplanationService{repo: repo, generator: generator, logger: logger}
}

// Explain serves a stored explanation when present; otherwise it requests
// one with high search context, strips the thinking annotation, keeps only
// URL-typed citations and persists the result so the generator is called at
// most once per question.
func (s *ExplanationService) Explain(ctx context.Context, req *question.ExplainRequest) (*question.Explanation, error) {
	q, err := s.repo.GetByID(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}

	if q.Explanation != "" {
		if s.logger != nil {
			s.logger.WithField("question_id", q.ID).Debug("explanation already stored")
		}
		sources := q.ExplanationSources
		if sources == nil {
			sources = []string{}
		}
		return &question.Explanation{Text: q.Explanation, Sources: sources}, nil
	}

	prompt := fmt.Sprintf(explainPromptTemplate, req.Answer, req.Question)
	result, err := s.generator.Generate(ctx, &chat.GenerateRequest{
		Prompt:            prompt,
		SearchContextSize: chat.SearchContextHigh,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate explanation: %w", err)
	}

	text := StripThinking(result.Text)
	urls := urlSources(result.Sources)

	if err := s.repo.UpdateExplanation(ctx, q.ID, text, urls); err != nil {
		return nil, fmt.Errorf("failed to persist explanation: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"question_id": q.ID, "sources": len(urls)}).Info("explanation generated")
	}
	return &question.Explanation{Text: text, Sources: urls}, nil
}

// StreamChat proxies a follow-up conversation to the generator, embedding
// the explanation under discussion into the system prompt when provided.
// Chunks are forwarded in arrival order; nothing is persisted.
func (s *ExplanationService) StreamChat(ctx context.Context, req *ports.ChatRequest) (<-chan chat.StreamEvent, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("messages are required")
	}

	system := ""
	if req.ExplanationContext != "" {
		system = fmt.Sprintf(chatSystemPromptTemplate, req.ExplanationContext)
	}

	if s.logger != nil {
		s.logger.WithField("reasoning", req.Reasoning).Debug("chat stream requested")
	}
	return s.generator.StreamChat(ctx, &chat.StreamRequest{
		System:    system,
		Messages:  req.Messages,
		Reasoning: req.Reasoning,
	})
}

// StripThinking removes a bracketed <think>…</think> annotation block and
// trims surrounding whitespace. Text without such a block passes through
// unchanged.
func StripThinking(text string) string {
	return strings.TrimSpace(thinkingBlock.ReplaceAllString(text, ""))
}

// urlSources keeps only citations that are explicitly URL-typed and carry a
// non-empty URL.
func urlSources(sources []chat.Source) []string {
	urls := make([]string, 0, len(sources))
	for _, src := range sources {
		if src.Type == chat.SourceTypeURL && src.URL != "" {
			urls = append(urls, src.URL)
		}
	}
	return urls
}

var _ ports.ExplanationService = (*ExplanationService)(nil)
