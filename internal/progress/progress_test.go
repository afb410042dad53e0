package progress

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data    map[string][]byte
	loadErr error
	saveErr error
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Load(key string) ([]byte, bool, error) {
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	b, ok := m.data[key]
	return b, ok, nil
}
func (m *memStore) Save(key string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = data
	return nil
}
func (m *memStore) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func TestRecordAnswerRoundTrip(t *testing.T) {
	tr := NewTracker(newMemStore(), logrus.New())

	require.False(t, tr.IsAnswered(7))
	tr.RecordAnswer(7, 2)
	require.True(t, tr.IsAnswered(7))
	require.Equal(t, map[int64]int{7: 2}, tr.Answers())
}

func TestLegacyListFormatMigrates(t *testing.T) {
	store := newMemStore()
	store.data[answersKey] = []byte(`[3, 9]`)
	tr := NewTracker(store, logrus.New())

	answers := tr.Answers()
	require.Equal(t, map[int64]int{3: SelectionUnknown, 9: SelectionUnknown}, answers)
	require.True(t, tr.IsAnswered(3))

	// Recording a new answer rewrites everything in the current format.
	tr.RecordAnswer(5, 1)
	require.Equal(t, map[int64]int{3: SelectionUnknown, 9: SelectionUnknown, 5: 1}, tr.Answers())
}

func TestCorruptDataYieldsEmptyProgress(t *testing.T) {
	store := newMemStore()
	store.data[answersKey] = []byte(`{broken`)
	store.data[positionsKey] = []byte(`not json`)
	tr := NewTracker(store, logrus.New())

	require.Empty(t, tr.Answers())
	require.Empty(t, tr.Positions())
}

func TestStoreErrorsAreNonFatal(t *testing.T) {
	store := newMemStore()
	store.loadErr = errors.New("disk gone")
	tr := NewTracker(store, logrus.New())

	require.Empty(t, tr.Answers())
	require.Empty(t, tr.Positions())

	store.loadErr = nil
	store.saveErr = errors.New("disk gone")
	tr.RecordAnswer(1, 0)
	tr.SavePosition("all", 4)
}

func TestSavePositionPerSet(t *testing.T) {
	tr := NewTracker(newMemStore(), logrus.New())

	tr.SavePosition("all", 10)
	tr.SavePosition("go", 3)
	require.Equal(t, map[string]int{"all": 10, "go": 3}, tr.Positions())
}

func TestResetClearsAnswersButKeepsPositions(t *testing.T) {
	tr := NewTracker(newMemStore(), logrus.New())
	tr.RecordAnswer(1, 0)
	tr.SavePosition("all", 5)

	tr.Reset()

	require.Empty(t, tr.Answers())
	require.Equal(t, map[string]int{"all": 5}, tr.Positions())
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Load("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Save("k", []byte(`{"a":1}`)))
	b, ok, err := store.Load("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"a":1}`, string(b))

	require.NoError(t, store.Delete("k"))
	require.NoError(t, store.Delete("k"))
	_, ok, _ = store.Load("k")
	require.False(t, ok)
}
