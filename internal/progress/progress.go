// Package progress tracks a quiz taker's answered questions and per-set
// resume positions in local storage. All operations are best-effort: a
// broken or missing store never blocks the quiz flow.
package progress

import (
	"encoding/json"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	answersKey   = "mcqs-answered-questions"
	positionsKey = "mcqs-set-positions"
)

// SelectionUnknown marks a question known to be answered where the chosen
// option index was not recorded (entries migrated from the old list format).
const SelectionUnknown = -1

// Store persists raw progress blobs keyed by name.
type Store interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, data []byte) error
	Delete(key string) error
}

// Tracker reads and writes quiz progress through a Store.
type Tracker struct {
	store  Store
	logger *logrus.Logger
}

func NewTracker(store Store, logger *logrus.Logger) *Tracker {
	return &Tracker{store: store, logger: logger}
}

// Answers returns the answered-question map: question ID -> selected option
// index. Entries stored in the legacy format (a bare list of question IDs)
// are migrated to SelectionUnknown. Any load or decode failure yields an
// empty map.
func (t *Tracker) Answers() map[int64]int {
	raw, ok, err := t.store.Load(answersKey)
	if err != nil {
		t.logger.WithError(err).Warn("failed to load answered questions")
		return map[int64]int{}
	}
	if !ok {
		return map[int64]int{}
	}
	return decodeAnswers(raw, t.logger)
}

// RecordAnswer stores the selected option index for a question.
func (t *Tracker) RecordAnswer(questionID int64, selection int) {
	answers := t.Answers()
	answers[questionID] = selection
	t.saveAnswers(answers)
}

// IsAnswered reports whether a question has a recorded answer.
func (t *Tracker) IsAnswered(questionID int64) bool {
	_, ok := t.Answers()[questionID]
	return ok
}

// Positions returns the saved resume position per set name. Failures yield
// an empty map.
func (t *Tracker) Positions() map[string]int {
	raw, ok, err := t.store.Load(positionsKey)
	if err != nil {
		t.logger.WithError(err).Warn("failed to load set positions")
		return map[string]int{}
	}
	if !ok {
		return map[string]int{}
	}
	var positions map[string]int
	if err := json.Unmarshal(raw, &positions); err != nil {
		t.logger.WithError(err).Warn("discarding undecodable set positions")
		return map[string]int{}
	}
	if positions == nil {
		positions = map[string]int{}
	}
	return positions
}

// SavePosition records the index to resume from for a set.
func (t *Tracker) SavePosition(set string, index int) {
	positions := t.Positions()
	positions[set] = index
	data, err := json.Marshal(positions)
	if err != nil {
		return
	}
	if err := t.store.Save(positionsKey, data); err != nil {
		t.logger.WithError(err).Warn("failed to save set positions")
	}
}

// Reset clears all recorded answers. Set positions are kept so the quiz
// still resumes where the user left off.
func (t *Tracker) Reset() {
	if err := t.store.Delete(answersKey); err != nil {
		t.logger.WithError(err).Warn("failed to clear answered questions")
	}
}

func (t *Tracker) saveAnswers(answers map[int64]int) {
	encoded := make(map[string]int, len(answers))
	for id, sel := range answers {
		encoded[strconv.FormatInt(id, 10)] = sel
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		return
	}
	if err := t.store.Save(answersKey, data); err != nil {
		t.logger.WithError(err).Warn("failed to save answered questions")
	}
}

func decodeAnswers(raw []byte, logger *logrus.Logger) map[int64]int {
	var encoded map[string]int
	if err := json.Unmarshal(raw, &encoded); err == nil {
		answers := make(map[int64]int, len(encoded))
		for key, sel := range encoded {
			id, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				continue
			}
			answers[id] = sel
		}
		return answers
	}

	// Legacy format: a plain list of answered question IDs.
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		logger.Warn("discarding undecodable answered questions")
		return map[int64]int{}
	}
	answers := make(map[int64]int, len(ids))
	for _, id := range ids {
		answers[id] = SelectionUnknown
	}
	return answers
}
