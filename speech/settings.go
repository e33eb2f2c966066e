package speech

import (
	"sync"

	"github.com/charmbracelet/log"
)

// settingsStorageKey is the fixed key the playback settings record is
// persisted under.
const settingsStorageKey = "ectts-settings"

// Settings is the timing/repeat/toggle configuration for playback. Gaps are
// in seconds. A Settings value is snapshotted when a playback queue is built;
// later edits apply from the next word.
type Settings struct {
	WordGap                float64 `json:"wordGapSeconds"`
	RepeatGap              float64 `json:"repeatGapSeconds"`
	TermToLetterGap        float64 `json:"termToLetterGapSeconds"`
	LetterToTranslationGap float64 `json:"letterToTranslationGapSeconds"`
	Rate                   float64 `json:"rate"`
	RepeatCount            int     `json:"repeatCount"`
	SpellLetters           bool    `json:"spellLetters"`
	SpeakTranslation       bool    `json:"speakTranslation"`
}

// DefaultSettings returns the stock drill cadence: each term three times,
// spelled out, translated, one second between phrases.
func DefaultSettings() Settings {
	return Settings{
		WordGap:                1,
		RepeatGap:              1,
		TermToLetterGap:        1,
		LetterToTranslationGap: 1,
		Rate:                   1.0,
		RepeatCount:            3,
		SpellLetters:           true,
		SpeakTranslation:       true,
	}
}

// Clamped returns a copy with all fields forced into their valid ranges:
// gaps at least zero, rate positive, repeat count at least one.
func (s Settings) Clamped() Settings {
	if s.WordGap < 0 {
		s.WordGap = 0
	}
	if s.RepeatGap < 0 {
		s.RepeatGap = 0
	}
	if s.TermToLetterGap < 0 {
		s.TermToLetterGap = 0
	}
	if s.LetterToTranslationGap < 0 {
		s.LetterToTranslationGap = 0
	}
	if s.Rate <= 0 {
		s.Rate = 1.0
	}
	if s.RepeatCount < 1 {
		s.RepeatCount = 1
	}
	return s
}

// SettingsStore holds the current playback settings, persists edits, and
// notifies listeners of changes.
type SettingsStore struct {
	store Store

	mu        sync.RWMutex
	current   Settings
	listeners []func(Settings)
}

// NewSettingsStore loads the persisted settings record, falling back to
// defaults when none exists or the record is unreadable.
func NewSettingsStore(store Store) *SettingsStore {
	st := &SettingsStore{store: store, current: DefaultSettings()}
	if store == nil {
		return st
	}

	var loaded Settings
	found, err := store.Get(settingsStorageKey, &loaded)
	switch {
	case err != nil:
		log.Warn("settings: unable to load, using defaults", "error", err)
	case found:
		st.current = loaded.Clamped()
	}
	return st
}

// Current returns the current settings snapshot.
func (st *SettingsStore) Current() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Update clamps and stores s, persists it (best effort, failures are logged)
// and notifies listeners.
func (st *SettingsStore) Update(s Settings) {
	s = s.Clamped()

	st.mu.Lock()
	st.current = s
	listeners := append([]func(Settings){}, st.listeners...)
	st.mu.Unlock()

	if st.store != nil {
		if err := st.store.Put(settingsStorageKey, s); err != nil {
			log.Warn("settings: unable to persist", "error", err)
		}
	}
	for _, fn := range listeners {
		fn(s)
	}
}

// OnChange registers fn to run after every settings update.
func (st *SettingsStore) OnChange(fn func(Settings)) {
	st.mu.Lock()
	st.listeners = append(st.listeners, fn)
	st.mu.Unlock()
}
