// Package speech contains the playback engine for ectts: voice selection,
// utterance construction, and the sequencing machinery that turns a word
// into a timed series of spoken phrases.
package speech

// Language identifies which of the two drill languages a voice serves.
type Language string

const (
	// LangSource is the language of the drilled terms.
	LangSource Language = "source"
	// LangTarget is the language of the translations.
	LangTarget Language = "target"
)

// Voice is one synthesis voice reported by the platform engine. Voices are
// identified by name; the tag is a BCP 47 style language code like "en-US".
type Voice struct {
	Name        string `json:"name"`
	LanguageTag string `json:"languageTag"`
}

// UtteranceSpec is an immutable description of a single utterance, ready to
// hand to a Synthesizer.
type UtteranceSpec struct {
	Text  string
	Voice string
	Rate  float64
}

// Synthesizer is the process-wide speech facility. Only one utterance may be
// queued or speaking at a time; callers must wait for the previous utterance
// to finish or call Cancel before speaking again.
type Synthesizer interface {
	// Speak enqueues the utterance. The returned channel receives exactly one
	// value when the utterance finishes or fails and is then closed. A
	// cancelled utterance still completes its channel.
	Speak(u UtteranceSpec) <-chan error

	// Cancel discards any queued or in-flight utterance. Idempotent and safe
	// to call when nothing is speaking.
	Cancel()

	// Voices returns the currently known voices. The list may be empty until
	// the engine has finished its (possibly asynchronous) enumeration.
	Voices() []Voice

	// OnVoicesChanged registers fn to run whenever the voice list transitions
	// from empty to populated or is refreshed.
	OnVoicesChanged(fn func())
}

// Store persists small JSON records under fixed keys. Implemented by
// internal/storage.Store.
type Store interface {
	Get(key string, v any) (bool, error)
	Put(key string, v any) error
}

// WordSource supplies the latest word snapshots and the playable subset. The
// sequencing layer always reads through this interface at queue-build time so
// edits made while paused take effect on the next play.
type WordSource interface {
	// WordAt returns the source and target text of the word at index in the
	// full collection, or ok=false if the index is out of range.
	WordAt(index int) (sourceText, targetText string, ok bool)

	// PlayableIndices returns the ordered indices of words currently eligible
	// for playback.
	PlayableIndices() []int
}
