// Package engines provides speech synthesizer implementations.
package engines

import (
	"github.com/charmbracelet/log"

	"github.com/jx06T/ectts3/speech"
)

// Detect returns the best synthesizer for this machine: espeak-ng (or the
// classic espeak binary) when installed, otherwise a silent engine that
// paces playback without producing audio.
func Detect() speech.Synthesizer {
	e, err := NewESpeak()
	if err != nil {
		log.Warn("engines: no speech binary found, playback will be silent", "error", err)
		return NewSilent()
	}
	log.Debug("engines: using espeak", "binary", e.binary)
	return e
}
