package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/quizmith/mcqs/internal/core/domain/chat"
	"github.com/quizmith/mcqs/internal/core/domain/question"
	"github.com/quizmith/mcqs/internal/core/domain/visitor"
)

// CacheMock is a lightweight mock for ports.Cache
type CacheMock struct {
	GetFn           func(ctx context.Context, key string) ([]byte, bool, error)
	SetFn           func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePatternFn func(ctx context.Context, pattern string) (int, error)
}

func (m *CacheMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	return nil, false, nil
}
func (m *CacheMock) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value, ttl)
	}
	return nil
}
func (m *CacheMock) DeletePattern(ctx context.Context, pattern string) (int, error) {
	if m.DeletePatternFn != nil {
		return m.DeletePatternFn(ctx, pattern)
	}
	return 0, nil
}

// QuestionRepositoryMock is a lightweight mock for ports.QuestionRepository
type QuestionRepositoryMock struct {
	ListFn              func(ctx context.Context, topic string) ([]*question.Question, error)
	BulkInsertFn        func(ctx context.Context, topic string, drafts []question.Draft) (int, error)
	GetByIDFn           func(ctx context.Context, id int64) (*question.Question, error)
	UpdateExplanationFn func(ctx context.Context, id int64, explanation string, sources []string) error
}

func (m *QuestionRepositoryMock) List(ctx context.Context, topic string) ([]*question.Question, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, topic)
	}
	return nil, nil
}
func (m *QuestionRepositoryMock) BulkInsert(ctx context.Context, topic string, drafts []question.Draft) (int, error) {
	if m.BulkInsertFn != nil {
		return m.BulkInsertFn(ctx, topic, drafts)
	}
	return len(drafts), nil
}
func (m *QuestionRepositoryMock) GetByID(ctx context.Context, id int64) (*question.Question, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, question.ErrNotFound
}
func (m *QuestionRepositoryMock) UpdateExplanation(ctx context.Context, id int64, explanation string, sources []string) error {
	if m.UpdateExplanationFn != nil {
		return m.UpdateExplanationFn(ctx, id, explanation, sources)
	}
	return nil
}

// RateLimitRepositoryMock is a lightweight mock for ports.RateLimitRepository
type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, key, window)
	}
	return 1, window, nil
}

// TextGeneratorMock is a lightweight mock for ports.TextGenerator
type TextGeneratorMock struct {
	GenerateFn   func(ctx context.Context, req *chat.GenerateRequest) (*chat.GenerateResult, error)
	StreamChatFn func(ctx context.Context, req *chat.StreamRequest) (<-chan chat.StreamEvent, error)
}

func (m *TextGeneratorMock) Generate(ctx context.Context, req *chat.GenerateRequest) (*chat.GenerateResult, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *TextGeneratorMock) StreamChat(ctx context.Context, req *chat.StreamRequest) (<-chan chat.StreamEvent, error) {
	if m.StreamChatFn != nil {
		return m.StreamChatFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}

// VisitorRepositoryMock is a lightweight mock for ports.VisitorRepository
type VisitorRepositoryMock struct {
	UpsertFn func(ctx context.Context, v *visitor.Visitor) (*visitor.Visitor, error)
}

func (m *VisitorRepositoryMock) Upsert(ctx context.Context, v *visitor.Visitor) (*visitor.Visitor, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, v)
	}
	return v, nil
}
