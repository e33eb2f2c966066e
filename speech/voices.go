package speech

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// voiceStorageKey is the fixed key the chosen-voice record is persisted
// under.
const voiceStorageKey = "ectts-voice-settings"

// voiceChoiceRecord is the persisted shape of the user's voice choices.
type voiceChoiceRecord struct {
	SourceVoice string `json:"sourceVoiceId,omitempty"`
	TargetVoice string `json:"targetVoiceId,omitempty"`
}

// DirectoryConfig describes the language tags and curated preferred voice
// names used when no persisted choice applies.
type DirectoryConfig struct {
	SourceTag       string
	TargetTag       string
	PreferredSource []string
	PreferredTarget []string
}

// DefaultDirectoryConfig returns the stock English/Mandarin drill setup.
func DefaultDirectoryConfig() DirectoryConfig {
	return DirectoryConfig{
		SourceTag: "en-US",
		TargetTag: "zh-TW",
		PreferredSource: []string{
			"Microsoft Emma Online (Natural) - English (United States)",
			"Samantha",
			"Fred",
			"en-us",
		},
		PreferredTarget: []string{
			"Microsoft Hanhan - Chinese (Traditional, Taiwan)",
			"美嘉", "美佳", "Mei-Jia",
			"zh",
		},
	}
}

// Directory tracks the available synthesis voices and the user's chosen
// voice per language, persisting choices across sessions.
type Directory struct {
	synth Synthesizer
	store Store
	cfg   DirectoryConfig

	mu        sync.RWMutex
	chosen    map[Language]string
	listeners []func()
}

// NewDirectory creates a Directory over the given synthesizer. Persisted
// choices are loaded as soon as the engine reports its voice list.
func NewDirectory(synth Synthesizer, store Store, cfg DirectoryConfig) *Directory {
	d := &Directory{
		synth:  synth,
		store:  store,
		cfg:    cfg,
		chosen: make(map[Language]string),
	}
	synth.OnVoicesChanged(d.refresh)
	d.refresh()
	return d
}

// Voices returns the currently known voices.
func (d *Directory) Voices() []Voice {
	return d.synth.Voices()
}

// OnChange registers fn to run whenever the voice list or a chosen voice
// changes.
func (d *Directory) OnChange(fn func()) {
	d.mu.Lock()
	d.listeners = append(d.listeners, fn)
	d.mu.Unlock()
}

// refresh reloads persisted choices against the current voice list and
// notifies listeners. Runs on every voice-list change; a persisted choice
// that refers to a voice no longer installed is simply left dormant and the
// fallback order takes over at read time.
func (d *Directory) refresh() {
	voices := d.synth.Voices()
	if len(voices) == 0 {
		return
	}

	var rec voiceChoiceRecord
	if d.store != nil {
		if _, err := d.store.Get(voiceStorageKey, &rec); err != nil {
			log.Warn("voices: unable to load persisted choices", "error", err)
		}
	}

	d.mu.Lock()
	if rec.SourceVoice != "" && hasVoice(voices, rec.SourceVoice) {
		d.chosen[LangSource] = rec.SourceVoice
	}
	if rec.TargetVoice != "" && hasVoice(voices, rec.TargetVoice) {
		d.chosen[LangTarget] = rec.TargetVoice
	}
	listeners := append([]func(){}, d.listeners...)
	d.mu.Unlock()

	log.Debug("voices: list refreshed", "count", len(voices))
	for _, fn := range listeners {
		fn()
	}
}

// ChosenVoice resolves the voice to use for lang: the persisted or in-memory
// choice if it still exists, then the curated preferred-name list, then the
// first voice matching the language tag, then the first voice overall.
// Returns "" when no voices are known at all.
func (d *Directory) ChosenVoice(lang Language) string {
	voices := d.synth.Voices()
	if len(voices) == 0 {
		return ""
	}

	d.mu.RLock()
	choice := d.chosen[lang]
	d.mu.RUnlock()
	if choice != "" && hasVoice(voices, choice) {
		return choice
	}

	preferred, tag := d.cfg.PreferredSource, d.cfg.SourceTag
	if lang == LangTarget {
		preferred, tag = d.cfg.PreferredTarget, d.cfg.TargetTag
	}
	for _, name := range preferred {
		if hasVoice(voices, name) {
			return name
		}
	}
	for _, v := range voices {
		if tagMatches(v.LanguageTag, tag) {
			return v.Name
		}
	}
	return voices[0].Name
}

// SetChosenVoice updates the chosen voice for lang. It rejects names not in
// the current voice list, returning false with no state change. On success
// the choice is persisted (best effort) and listeners are notified.
func (d *Directory) SetChosenVoice(lang Language, name string) bool {
	voices := d.synth.Voices()
	if !hasVoice(voices, name) {
		log.Warn("voices: rejecting unknown voice", "lang", lang, "voice", name)
		return false
	}

	d.mu.Lock()
	d.chosen[lang] = name
	rec := voiceChoiceRecord{
		SourceVoice: d.chosen[LangSource],
		TargetVoice: d.chosen[LangTarget],
	}
	listeners := append([]func(){}, d.listeners...)
	d.mu.Unlock()

	if d.store != nil {
		if err := d.store.Put(voiceStorageKey, rec); err != nil {
			log.Warn("voices: unable to persist choice", "error", err)
		}
	}

	log.Debug("voices: chosen voice updated", "lang", lang, "voice", name)
	for _, fn := range listeners {
		fn()
	}
	return true
}

func hasVoice(voices []Voice, name string) bool {
	for _, v := range voices {
		if v.Name == name {
			return true
		}
	}
	return false
}

// tagMatches treats "en" as matching "en-US" and compares full tags case
// insensitively.
func tagMatches(voiceTag, wantTag string) bool {
	voiceTag = strings.ToLower(voiceTag)
	wantTag = strings.ToLower(wantTag)
	if voiceTag == wantTag {
		return true
	}
	base := wantTag
	if i := strings.IndexByte(wantTag, '-'); i > 0 {
		base = wantTag[:i]
	}
	return voiceTag == base || strings.HasPrefix(voiceTag, base+"-")
}
