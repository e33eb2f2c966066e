package speech

import (
	"encoding/json"
	"testing"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	records map[string][]byte
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string][]byte)}
}

func (m *memStore) Get(key string, v any) (bool, error) {
	b, ok := m.records[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, v)
}

func (m *memStore) Put(key string, v any) error {
	if m.putErr != nil {
		return m.putErr
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.records[key] = b
	return nil
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.RepeatCount != 3 {
		t.Errorf("RepeatCount = %d, want 3", s.RepeatCount)
	}
	if s.Rate != 1.0 {
		t.Errorf("Rate = %v, want 1.0", s.Rate)
	}
	if !s.SpellLetters || !s.SpeakTranslation {
		t.Error("spelling and translation should default on")
	}
	if s.WordGap != 1 || s.RepeatGap != 1 || s.TermToLetterGap != 1 || s.LetterToTranslationGap != 1 {
		t.Errorf("gaps should default to 1 second: %+v", s)
	}
}

func TestSettingsClamped(t *testing.T) {
	s := Settings{
		WordGap:                -1,
		RepeatGap:              -0.5,
		TermToLetterGap:        -2,
		LetterToTranslationGap: -3,
		Rate:                   0,
		RepeatCount:            0,
	}
	c := s.Clamped()
	if c.WordGap != 0 || c.RepeatGap != 0 || c.TermToLetterGap != 0 || c.LetterToTranslationGap != 0 {
		t.Errorf("negative gaps not clamped to zero: %+v", c)
	}
	if c.Rate != 1.0 {
		t.Errorf("Rate = %v, want 1.0", c.Rate)
	}
	if c.RepeatCount != 1 {
		t.Errorf("RepeatCount = %d, want 1", c.RepeatCount)
	}
}

func TestSettingsStorePersistence(t *testing.T) {
	store := newMemStore()

	st := NewSettingsStore(store)
	s := st.Current()
	s.RepeatCount = 5
	s.SpellLetters = false
	st.Update(s)

	// A fresh store over the same records sees the update.
	st2 := NewSettingsStore(store)
	got := st2.Current()
	if got.RepeatCount != 5 || got.SpellLetters {
		t.Errorf("reloaded settings = %+v", got)
	}
}

func TestSettingsStoreClampsOnUpdate(t *testing.T) {
	st := NewSettingsStore(newMemStore())
	s := st.Current()
	s.RepeatCount = -4
	s.Rate = -1
	st.Update(s)

	got := st.Current()
	if got.RepeatCount != 1 || got.Rate != 1.0 {
		t.Errorf("update not clamped: %+v", got)
	}
}

func TestSettingsStoreNotifiesListeners(t *testing.T) {
	st := NewSettingsStore(newMemStore())

	var seen []Settings
	st.OnChange(func(s Settings) { seen = append(seen, s) })

	s := st.Current()
	s.RepeatCount = 2
	st.Update(s)

	if len(seen) != 1 || seen[0].RepeatCount != 2 {
		t.Errorf("listener saw %v", seen)
	}
}
