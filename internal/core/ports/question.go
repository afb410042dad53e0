package ports

import (
	"context"

	"github.com/quizmith/mcqs/internal/core/domain/question"
)

// QuestionRepository is the persistence contract for question records.
// The caching decorator implements the same interface so callers cannot
// tell a cached read from a direct one.
type QuestionRepository interface {
	// List returns questions for topic ordered by id ascending; an empty
	// topic means all questions.
	List(ctx context.Context, topic string) ([]*question.Question, error)
	// BulkInsert persists drafts as new records tagged with topic in one
	// batch and returns how many rows were created.
	BulkInsert(ctx context.Context, topic string, drafts []question.Draft) (int, error)
	// GetByID returns question.ErrNotFound when no row matches.
	GetByID(ctx context.Context, id int64) (*question.Question, error)
	// UpdateExplanation sets the explanation text and source URLs on one record.
	UpdateExplanation(ctx context.Context, id int64, explanation string, sources []string) error
}

// QuestionService is the read/write surface for question sets.
type QuestionService interface {
	List(ctx context.Context, topic string) (*question.Set, error)
	BulkCreate(ctx context.Context, req *question.BulkCreateRequest) (int, error)
}
