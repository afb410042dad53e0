package services_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	impl "github.com/quizmith/mcqs/internal/application/services"
	"github.com/quizmith/mcqs/internal/core/domain/chat"
	"github.com/quizmith/mcqs/internal/core/domain/question"
	"github.com/quizmith/mcqs/internal/core/ports"
	"github.com/quizmith/mcqs/test/mocks"
)

func TestExplain_StoredExplanationShortCircuits(t *testing.T) {
	repo := &mocks.QuestionRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*question.Question, error) {
			return &question.Question{ID: id, Explanation: "stored text", ExplanationSources: []string{"https://a"}}, nil
		},
	}
	generatorCalled := false
	gen := &mocks.TextGeneratorMock{
		GenerateFn: func(ctx context.Context, req *chat.GenerateRequest) (*chat.GenerateResult, error) {
			generatorCalled = true
			return &chat.GenerateResult{}, nil
		},
	}
	svc := impl.NewExplanationService(repo, gen, logrus.New())

	expl, err := svc.Explain(context.Background(), &question.ExplainRequest{QuestionID: 7, Question: "q", Answer: "a"})
	require.NoError(t, err)
	require.Equal(t, "stored text", expl.Text)
	require.Equal(t, []string{"https://a"}, expl.Sources)
	require.False(t, generatorCalled)
}

func TestExplain_GeneratesStripsAndPersists(t *testing.T) {
	var savedText string
	var savedSources []string
	repo := &mocks.QuestionRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*question.Question, error) {
			return &question.Question{ID: id}, nil
		},
		UpdateExplanationFn: func(ctx context.Context, id int64, explanation string, sources []string) error {
			savedText = explanation
			savedSources = sources
			return nil
		},
	}
	calls := 0
	gen := &mocks.TextGeneratorMock{
		GenerateFn: func(ctx context.Context, req *chat.GenerateRequest) (*chat.GenerateResult, error) {
			calls++
			require.Equal(t, chat.SearchContextHigh, req.SearchContextSize)
			require.Contains(t, req.Prompt, "the answer")
			require.Contains(t, req.Prompt, "the question")
			return &chat.GenerateResult{
				Text: "<think>internal chain</think>  Because it is.",
				Sources: []chat.Source{
					{Type: chat.SourceTypeURL, URL: "https://a"},
					{Type: "doc", URL: "https://ignored"},
					{Type: chat.SourceTypeURL, URL: ""},
				},
			}, nil
		},
	}
	svc := impl.NewExplanationService(repo, gen, logrus.New())

	expl, err := svc.Explain(context.Background(), &question.ExplainRequest{QuestionID: 7, Question: "the question", Answer: "the answer"})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Equal(t, "Because it is.", expl.Text)
	require.Equal(t, []string{"https://a"}, expl.Sources)
	require.Equal(t, "Because it is.", savedText)
	require.Equal(t, []string{"https://a"}, savedSources)
}

func TestExplain_UnknownQuestionPropagatesNotFound(t *testing.T) {
	svc := impl.NewExplanationService(&mocks.QuestionRepositoryMock{}, &mocks.TextGeneratorMock{}, logrus.New())

	_, err := svc.Explain(context.Background(), &question.ExplainRequest{QuestionID: 404, Question: "q", Answer: "a"})
	require.ErrorIs(t, err, question.ErrNotFound)
}

func TestStreamChat_EmbedsExplanationContextInSystemPrompt(t *testing.T) {
	var captured *chat.StreamRequest
	gen := &mocks.TextGeneratorMock{
		StreamChatFn: func(ctx context.Context, req *chat.StreamRequest) (<-chan chat.StreamEvent, error) {
			captured = req
			ch := make(chan chat.StreamEvent)
			close(ch)
			return ch, nil
		},
	}
	svc := impl.NewExplanationService(&mocks.QuestionRepositoryMock{}, gen, logrus.New())

	events, err := svc.StreamChat(context.Background(), &ports.ChatRequest{
		Messages:           []chat.Message{{Role: chat.RoleUser, Content: "why?"}},
		Reasoning:          true,
		ExplanationContext: "the explanation body",
	})
	require.NoError(t, err)
	for range events {
	}
	require.NotNil(t, captured)
	require.True(t, captured.Reasoning)
	require.Contains(t, captured.System, "the explanation body")
	require.Len(t, captured.Messages, 1)
}

func TestStreamChat_RequiresMessages(t *testing.T) {
	svc := impl.NewExplanationService(&mocks.QuestionRepositoryMock{}, &mocks.TextGeneratorMock{}, logrus.New())

	_, err := svc.StreamChat(context.Background(), &ports.ChatRequest{})
	require.Error(t, err)
}

func TestStripThinking(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no block", "plain text", "plain text"},
		{"leading block", "<think>reasoning\nmore</think>\nanswer", "answer"},
		{"whitespace after block", "<think>x</think>   answer", "answer"},
		{"unclosed block kept", "<think>oops answer", "<think>oops answer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, impl.StripThinking(tc.in))
		})
	}
}
