package words

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jx06T/ectts3/internal/storage"
)

// Storage keys. The set index lives under one key, each set's words under a
// key derived from its id, and the tag index and view state under fixed
// keys.
const (
	setsKey   = "all-set"
	tagMapKey = "all-set-map"
	stateKey  = "ectts-state"
)

func setKey(id string) string {
	return "set-" + id
}

// AppState is the persisted view and drill state.
type AppState struct {
	ShowEnglish    bool `json:"showE"`
	ShowChinese    bool `json:"showC"`
	OnlyPlayUnDone bool `json:"onlyPlayUnDone"`
	Selection      int  `json:"selection"`
	Lock           bool `json:"lock"`
	Shuffle        bool `json:"rand"`
}

// DefaultAppState shows both languages with everything else off.
func DefaultAppState() AppState {
	return AppState{ShowEnglish: true, ShowChinese: true}
}

// Library persists the set index, each set's words, and the view state.
type Library struct {
	store *storage.Store
}

// NewLibrary creates a Library over the given store.
func NewLibrary(store *storage.Store) *Library {
	return &Library{store: store}
}

// Sets loads the set index. A fresh store is seeded with a sample set so
// the first launch has something to play.
func (l *Library) Sets() ([]Set, error) {
	var sets []Set
	found, err := l.store.Get(setsKey, &sets)
	if err != nil {
		return nil, fmt.Errorf("loading set index: %w", err)
	}
	if found {
		return sets, nil
	}

	sets = []Set{sampleSet()}
	if err := l.SaveSets(sets); err != nil {
		return nil, err
	}
	if err := l.SaveWords(sets[0].ID, sampleWords()); err != nil {
		return nil, err
	}
	log.Debug("library: seeded sample set", "id", sets[0].ID)
	return sets, nil
}

// SaveSets persists the set index and rebuilds the tag index.
func (l *Library) SaveSets(sets []Set) error {
	if err := l.store.Put(setsKey, sets); err != nil {
		return fmt.Errorf("saving set index: %w", err)
	}
	if err := l.store.Put(tagMapKey, BuildTagMap(sets)); err != nil {
		return fmt.Errorf("saving tag index: %w", err)
	}
	return nil
}

// TagMap loads the persisted tag index.
func (l *Library) TagMap() (TagMap, error) {
	m := make(TagMap)
	if _, err := l.store.Get(tagMapKey, &m); err != nil {
		return nil, fmt.Errorf("loading tag index: %w", err)
	}
	return m, nil
}

// Words loads the word list of the set with the given id. A missing record
// yields an empty list.
func (l *Library) Words(setID string) ([]Word, error) {
	var words []Word
	if _, err := l.store.Get(setKey(setID), &words); err != nil {
		return nil, fmt.Errorf("loading set %s: %w", setID, err)
	}
	return words, nil
}

// SaveWords persists the word list of the set with the given id.
func (l *Library) SaveWords(setID string, words []Word) error {
	if err := l.store.Put(setKey(setID), words); err != nil {
		return fmt.Errorf("saving set %s: %w", setID, err)
	}
	return nil
}

// WordsModTime returns when the set's word list last changed on disk, or
// the zero time for a set never saved.
func (l *Library) WordsModTime(setID string) time.Time {
	return l.store.ModTime(setKey(setID))
}

// WordsPath returns the file holding the set's word list, for handing to an
// external editor.
func (l *Library) WordsPath(setID string) string {
	return l.store.Path(setKey(setID))
}

// CreateSet adds a new empty set to the index.
func (l *Library) CreateSet(title string, tags ...string) (Set, error) {
	sets, err := l.Sets()
	if err != nil {
		return Set{}, err
	}
	s := NewSet(title, tags...)
	if err := l.SaveSets(append(sets, s)); err != nil {
		return Set{}, err
	}
	if err := l.SaveWords(s.ID, nil); err != nil {
		return Set{}, err
	}
	return s, nil
}

// RenameSet changes a set's title. Renaming an unknown id is a no-op.
func (l *Library) RenameSet(id, title string) error {
	sets, err := l.Sets()
	if err != nil {
		return err
	}
	for i := range sets {
		if sets[i].ID == id {
			sets[i].Title = title
			return l.SaveSets(sets)
		}
	}
	return nil
}

// DeleteSet removes a set and its words.
func (l *Library) DeleteSet(id string) error {
	sets, err := l.Sets()
	if err != nil {
		return err
	}
	kept := sets[:0]
	for _, s := range sets {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	if err := l.SaveSets(kept); err != nil {
		return err
	}
	if err := l.store.Delete(setKey(id)); err != nil {
		return fmt.Errorf("deleting set %s: %w", id, err)
	}
	return nil
}

// State loads the persisted view state, or the default when none exists.
func (l *Library) State() AppState {
	st := DefaultAppState()
	found, err := l.store.Get(stateKey, &st)
	if err != nil {
		log.Warn("library: unable to load view state, using defaults", "error", err)
		return DefaultAppState()
	}
	if !found {
		return DefaultAppState()
	}
	return st
}

// SaveState persists the view state. Failures are logged, not returned; view
// state is never worth interrupting the user for.
func (l *Library) SaveState(st AppState) {
	if err := l.store.Put(stateKey, st); err != nil {
		log.Warn("library: unable to persist view state", "error", err)
	}
}

func sampleSet() Set {
	return Set{ID: "test-samples", Title: "測試單字集", Tags: []string{"測試"}}
}

func sampleWords() []Word {
	return []Word{
		{ID: "dptba3zf7ukiwshp", English: "quest", Chinese: "追求", Selected: true, Done: true},
		{ID: "jal32uktdo9mhk1s", English: "carbon", Chinese: "碳", Selected: true, Done: true},
		{ID: "3x59v0u7xlwjami1", English: "corporation", Chinese: "公司", Selected: true, Done: true},
		{ID: "guzo7ft8n8bjmx4s", English: "contribute", Chinese: "做出貢獻，促成", Selected: true},
		{ID: "myfsefsfseh84shpf", English: "fundamentally", Chinese: "基本上的", Selected: true},
	}
}
