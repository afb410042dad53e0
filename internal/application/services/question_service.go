package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/quizmith/mcqs/internal/core/domain/question"
	"github.com/quizmith/mcqs/internal/core/ports"
)

// QuestionService serves question listings through the caching repository
// and performs batch writes.
type QuestionService struct {
	repo   ports.QuestionRepository
	logger *logrus.Logger
}

func NewQuestionService(repo ports.QuestionRepository, logger *logrus.Logger) *QuestionService {
	return &QuestionService{repo: repo, logger: logger}
}

// List shapes the (possibly cached) rows into a named set. When a topic
// filter is active the per-question topic field is dropped — it is implied
// by the filter and only inflates the payload.
func (s *QuestionService) List(ctx context.Context, topic string) (*question.Set, error) {
	rows, err := s.repo.List(ctx, topic)
	if err != nil {
		return nil, err
	}

	views := make([]question.View, 0, len(rows))
	for _, q := range rows {
		v := question.View{
			ID:                 q.ID,
			Question:           q.Question,
			Options:            q.Options,
			Answer:             q.Answer,
			ExplanationSources: q.ExplanationSources,
		}
		if v.ExplanationSources == nil {
			v.ExplanationSources = []string{}
		}
		if q.Explanation != "" {
			expl := q.Explanation
			v.Explanation = &expl
		}
		if topic == "" {
			v.Topic = q.Topic
		}
		views = append(views, v)
	}

	name := topic
	if name == "" {
		name = "all"
	}
	return &question.Set{Name: name, Questions: views}, nil
}

// BulkCreate validates the batch up front so a bad request never touches
// the persistence substrate or the cache.
func (s *QuestionService) BulkCreate(ctx context.Context, req *question.BulkCreateRequest) (int, error) {
	if req == nil || len(req.Questions) == 0 {
		return 0, question.ErrEmptyBatch
	}
	if req.Name == "" {
		return 0, fmt.Errorf("topic name is required")
	}
	for i := range req.Questions {
		if err := req.Questions[i].Validate(); err != nil {
			return 0, fmt.Errorf("question %d: %w", i, err)
		}
	}

	count, err := s.repo.BulkInsert(ctx, req.Name, req.Questions)
	if err != nil {
		return 0, fmt.Errorf("failed to create questions: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"topic": req.Name, "count": count}).Info("bulk created questions")
	}
	return count, nil
}

var _ ports.QuestionService = (*QuestionService)(nil)
