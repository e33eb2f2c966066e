package speech

import (
	"sync"
	"testing"
)

// fakeSynth is a minimal in-package Synthesizer for directory tests.
type fakeSynth struct {
	mu        sync.Mutex
	voices    []Voice
	listeners []func()
}

func (f *fakeSynth) Speak(UtteranceSpec) <-chan error {
	done := make(chan error, 1)
	done <- nil
	close(done)
	return done
}

func (f *fakeSynth) Cancel() {}

func (f *fakeSynth) Voices() []Voice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Voice(nil), f.voices...)
}

func (f *fakeSynth) OnVoicesChanged(fn func()) {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

func (f *fakeSynth) setVoices(voices []Voice) {
	f.mu.Lock()
	f.voices = voices
	listeners := append([]func(){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func testVoices() []Voice {
	return []Voice{
		{Name: "Alpha", LanguageTag: "fr-FR"},
		{Name: "Samantha", LanguageTag: "en-US"},
		{Name: "Bravo", LanguageTag: "en-GB"},
		{Name: "Mei-Jia", LanguageTag: "zh-TW"},
		{Name: "Hans", LanguageTag: "zh-CN"},
	}
}

func TestChosenVoiceFallbackChain(t *testing.T) {
	tests := []struct {
		name   string
		voices []Voice
		lang   Language
		want   string
	}{
		{
			name:   "preferred name wins",
			voices: testVoices(),
			lang:   LangSource,
			want:   "Samantha",
		},
		{
			name:   "preferred target name wins",
			voices: testVoices(),
			lang:   LangTarget,
			want:   "Mei-Jia",
		},
		{
			name: "tag match when no preferred name",
			voices: []Voice{
				{Name: "Alpha", LanguageTag: "fr-FR"},
				{Name: "Bravo", LanguageTag: "en-GB"},
				{Name: "Charlie", LanguageTag: "en-US"},
			},
			lang: LangSource,
			want: "Charlie",
		},
		{
			name: "base tag match",
			voices: []Voice{
				{Name: "Alpha", LanguageTag: "fr-FR"},
				{Name: "Hans", LanguageTag: "zh-CN"},
			},
			lang: LangTarget,
			want: "Hans",
		},
		{
			name: "first voice when nothing matches",
			voices: []Voice{
				{Name: "Alpha", LanguageTag: "fr-FR"},
				{Name: "Beta", LanguageTag: "de-DE"},
			},
			lang: LangSource,
			want: "Alpha",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := &fakeSynth{voices: tt.voices}
			d := NewDirectory(synth, newMemStore(), DefaultDirectoryConfig())
			if got := d.ChosenVoice(tt.lang); got != tt.want {
				t.Errorf("ChosenVoice(%s) = %q, want %q", tt.lang, got, tt.want)
			}
		})
	}
}

func TestChosenVoiceEmptyList(t *testing.T) {
	d := NewDirectory(&fakeSynth{}, newMemStore(), DefaultDirectoryConfig())
	if got := d.ChosenVoice(LangSource); got != "" {
		t.Errorf("ChosenVoice with no voices = %q, want empty", got)
	}
}

func TestSetChosenVoice(t *testing.T) {
	synth := &fakeSynth{voices: testVoices()}
	store := newMemStore()
	d := NewDirectory(synth, store, DefaultDirectoryConfig())

	if !d.SetChosenVoice(LangSource, "Bravo") {
		t.Fatal("SetChosenVoice rejected a known voice")
	}
	if got := d.ChosenVoice(LangSource); got != "Bravo" {
		t.Errorf("ChosenVoice = %q, want Bravo", got)
	}

	if d.SetChosenVoice(LangSource, "Nonexistent") {
		t.Error("SetChosenVoice accepted an unknown voice")
	}
	if got := d.ChosenVoice(LangSource); got != "Bravo" {
		t.Errorf("rejected set changed the choice to %q", got)
	}
}

func TestChosenVoicePersistsAcrossDirectories(t *testing.T) {
	synth := &fakeSynth{voices: testVoices()}
	store := newMemStore()

	d := NewDirectory(synth, store, DefaultDirectoryConfig())
	if !d.SetChosenVoice(LangTarget, "Hans") {
		t.Fatal("SetChosenVoice failed")
	}

	d2 := NewDirectory(&fakeSynth{voices: testVoices()}, store, DefaultDirectoryConfig())
	if got := d2.ChosenVoice(LangTarget); got != "Hans" {
		t.Errorf("persisted choice not honored, got %q", got)
	}
}

func TestStaleChoiceFallsBack(t *testing.T) {
	synth := &fakeSynth{voices: testVoices()}
	store := newMemStore()
	d := NewDirectory(synth, store, DefaultDirectoryConfig())
	if !d.SetChosenVoice(LangSource, "Bravo") {
		t.Fatal("SetChosenVoice failed")
	}

	// Bravo disappears from the platform; the fallback order takes over.
	synth.setVoices([]Voice{
		{Name: "Samantha", LanguageTag: "en-US"},
	})
	if got := d.ChosenVoice(LangSource); got != "Samantha" {
		t.Errorf("ChosenVoice after removal = %q, want Samantha", got)
	}
}

func TestDirectoryNotifiesOnVoiceChange(t *testing.T) {
	synth := &fakeSynth{voices: testVoices()}
	d := NewDirectory(synth, newMemStore(), DefaultDirectoryConfig())

	notified := 0
	d.OnChange(func() { notified++ })

	synth.setVoices(testVoices())
	if notified == 0 {
		t.Error("voice list refresh did not notify")
	}

	before := notified
	d.SetChosenVoice(LangSource, "Alpha")
	if notified == before {
		t.Error("choice change did not notify")
	}
}

func TestBuildUtterance(t *testing.T) {
	voices := testVoices()

	if u := BuildUtterance(nil, "hi", 1.0, "Samantha"); u != nil {
		t.Error("expected nil utterance with no voices")
	}

	u := BuildUtterance(voices, "hi", 1.2, "Samantha")
	if u == nil || u.Voice != "Samantha" || u.Rate != 1.2 || u.Text != "hi" {
		t.Errorf("utterance = %+v", u)
	}

	// Unknown voice falls back to the first available one.
	u = BuildUtterance(voices, "hi", 1.0, "Gone")
	if u == nil || u.Voice != "Alpha" {
		t.Errorf("fallback utterance = %+v", u)
	}
}

func TestTagMatches(t *testing.T) {
	tests := []struct {
		voiceTag string
		wantTag  string
		want     bool
	}{
		{"en-US", "en-US", true},
		{"en-us", "en-US", true},
		{"en", "en-US", true},
		{"en-GB", "en-US", true},
		{"zh-TW", "zh-TW", true},
		{"zh-CN", "zh-TW", true},
		{"fr-FR", "en-US", false},
		{"zhx", "zh-TW", false},
	}
	for _, tt := range tests {
		if got := tagMatches(tt.voiceTag, tt.wantTag); got != tt.want {
			t.Errorf("tagMatches(%q, %q) = %v, want %v", tt.voiceTag, tt.wantTag, got, tt.want)
		}
	}
}
