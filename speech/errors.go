package speech

import "errors"

// Common errors for the speech subsystem.
var (
	// ErrNothingToPlay indicates the playable subset is empty.
	ErrNothingToPlay = errors.New("no playable words")

	// ErrUnknownVoice indicates a voice name not present in the current
	// voice list.
	ErrUnknownVoice = errors.New("voice not in current voice list")

	// ErrNoVoices indicates the engine has not reported any voices yet.
	ErrNoVoices = errors.New("no voices available")

	// ErrEngineUnavailable indicates the platform synthesizer could not be
	// started in this environment.
	ErrEngineUnavailable = errors.New("speech engine is not available")

	// ErrUtteranceCancelled is delivered on an utterance's completion channel
	// when the engine's queue was cancelled underneath it.
	ErrUtteranceCancelled = errors.New("utterance cancelled")
)
