package question

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrEmptyBatch rejects bulk inserts carrying no drafts.
	ErrEmptyBatch = errors.New("no questions provided")
	// ErrNotFound indicates the requested question does not exist.
	ErrNotFound = errors.New("question not found")
)

// Question is a multiple-choice question as stored in the questions table.
type Question struct {
	ID                 int64    `json:"id"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	Answer             string   `json:"answer"`
	Topic              string   `json:"topic"`
	ParentSet          string   `json:"parentSet,omitempty"`
	Explanation        string   `json:"explanation,omitempty"`
	ExplanationSources []string `json:"explanationSources,omitempty"`
}

// View is the projection returned by question listings. Topic is dropped
// when a listing is already filtered by topic to keep payloads small.
type View struct {
	ID                 int64    `json:"id"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	Answer             string   `json:"answer"`
	Topic              string   `json:"topic,omitempty"`
	Explanation        *string  `json:"explanation"`
	ExplanationSources []string `json:"explanationSources"`
}

// Set is the response shape of the listing endpoint: the set name plus its
// questions ordered by id ascending.
type Set struct {
	Name      string `json:"set"`
	Questions []View `json:"questions"`
}

// Draft is a question submitted through the bulk-create endpoint.
type Draft struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Validate enforces the domain invariant that the answer is one of the
// options. Storage does not check this.
func (d *Draft) Validate() error {
	if d.Question == "" {
		return errors.New("question text is required")
	}
	if len(d.Options) < 2 {
		return errors.New("at least two options are required")
	}
	if d.Answer == "" {
		return errors.New("answer is required")
	}
	if !slices.Contains(d.Options, d.Answer) {
		return fmt.Errorf("answer %q is not among the options", d.Answer)
	}
	return nil
}

// BulkCreateRequest creates a batch of questions under one topic.
type BulkCreateRequest struct {
	Name      string  `json:"name"`
	Questions []Draft `json:"questions"`
}

// ExplainRequest asks for an explanation of why the answer is correct.
type ExplainRequest struct {
	QuestionID int64  `json:"questionId"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// Explanation is the stored or freshly generated justification for an
// answer, with supporting source URLs.
type Explanation struct {
	Text    string   `json:"explanation"`
	Sources []string `json:"sources"`
}
