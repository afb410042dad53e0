package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/quizmith/mcqs/internal/core/domain/question"
	"github.com/quizmith/mcqs/internal/core/ports"
	"github.com/quizmith/mcqs/internal/infrastructure/db"
)

// QuestionRepository implements the question repository interface on Postgres.
type QuestionRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(database *db.Database, logger *logrus.Logger) ports.QuestionRepository {
	return &QuestionRepository{db: database, logger: logger}
}

// questionRow mirrors the questions table. JSON columns are scanned raw and
// normalized afterwards, since drivers may hand them back either as jsonb
// bytes or as text containing JSON.
type questionRow struct {
	ID                 int64          `db:"id"`
	Question           string         `db:"question"`
	Options            []byte         `db:"options"`
	Answer             string         `db:"answer"`
	Topic              string         `db:"topic"`
	ParentSet          sql.NullString `db:"parent_set"`
	Explanation        sql.NullString `db:"explanation"`
	ExplanationSources []byte         `db:"explanation_sources"`
}

func (row *questionRow) toDomain() (*question.Question, error) {
	opts, err := decodeStringList(row.Options)
	if err != nil {
		return nil, fmt.Errorf("question %d has malformed options: %w", row.ID, err)
	}
	sources, err := decodeStringList(row.ExplanationSources)
	if err != nil {
		return nil, fmt.Errorf("question %d has malformed explanation sources: %w", row.ID, err)
	}
	return &question.Question{
		ID:                 row.ID,
		Question:           row.Question,
		Options:            opts,
		Answer:             row.Answer,
		Topic:              row.Topic,
		ParentSet:          row.ParentSet.String,
		Explanation:        row.Explanation.String,
		ExplanationSources: sources,
	}, nil
}

// decodeStringList tolerates both a JSON array and a JSON string that itself
// contains an encoded array (double encoding from older writers).
func decodeStringList(raw []byte) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return nil, fmt.Errorf("neither array nor string: %s", raw)
	}
	if err := json.Unmarshal([]byte(inner), &list); err != nil {
		return nil, fmt.Errorf("string payload is not an array: %w", err)
	}
	return list, nil
}

// List retrieves questions ordered by id ascending, optionally filtered by topic.
func (r *QuestionRepository) List(ctx context.Context, topic string) ([]*question.Question, error) {
	query := `
		SELECT id, question, options, answer, topic, parent_set, explanation, explanation_sources
		FROM questions`
	args := []any{}
	if topic != "" {
		query += ` WHERE topic = $1`
		args = append(args, topic)
	}
	query += ` ORDER BY id ASC`

	var rows []questionRow
	if err := r.db.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	questions := make([]*question.Question, 0, len(rows))
	for i := range rows {
		q, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// BulkInsert persists all drafts under topic in a single statement.
func (r *QuestionRepository) BulkInsert(ctx context.Context, topic string, drafts []question.Draft) (int, error) {
	if len(drafts) == 0 {
		return 0, question.ErrEmptyBatch
	}

	placeholders := make([]string, 0, len(drafts))
	args := make([]any, 0, len(drafts)*4)
	for i, d := range drafts {
		base := i * 4
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		opts, err := json.Marshal(d.Options)
		if err != nil {
			return 0, fmt.Errorf("failed to encode options: %w", err)
		}
		args = append(args, d.Question, opts, d.Answer, topic)
	}

	query := fmt.Sprintf(`
		INSERT INTO questions (question, options, answer, topic)
		VALUES %s`, strings.Join(placeholders, ", "))

	result, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert questions: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"topic": topic, "count": count}).Info("questions created")
	}
	return int(count), nil
}

// GetByID retrieves a single question record.
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*question.Question, error) {
	var row questionRow
	query := `
		SELECT id, question, options, answer, topic, parent_set, explanation, explanation_sources
		FROM questions
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, question.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get question by ID: %w", err)
	}
	return row.toDomain()
}

// UpdateExplanation stores a generated explanation and its source URLs.
func (r *QuestionRepository) UpdateExplanation(ctx context.Context, id int64, explanation string, sources []string) error {
	if sources == nil {
		sources = []string{}
	}
	encoded, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("failed to encode explanation sources: %w", err)
	}

	query := `
		UPDATE questions
		SET explanation = $2, explanation_sources = $3
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, explanation, encoded)
	if err != nil {
		return fmt.Errorf("failed to update explanation: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return question.ErrNotFound
	}

	if r.logger != nil {
		r.logger.WithField("question_id", id).Info("explanation updated")
	}
	return nil
}
