package engines

import (
	"sync"
	"time"

	"github.com/jx06T/ectts3/speech"
)

// Silent is the fallback synthesizer for machines without a speech binary.
// It produces no audio but holds each utterance for an estimated speaking
// duration so drills keep their cadence.
type Silent struct {
	mu        sync.Mutex
	cancel    chan struct{}
	listeners []func()
}

// NewSilent creates a silent synthesizer.
func NewSilent() *Silent {
	return &Silent{}
}

// Speak waits out the utterance's estimated duration, then reports success.
func (s *Silent) Speak(u speech.UtteranceSpec) <-chan error {
	done := make(chan error, 1)

	s.mu.Lock()
	cancel := make(chan struct{})
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer close(done)
		t := time.NewTimer(estimateDuration(u.Text, u.Rate))
		select {
		case <-t.C:
			done <- nil
		case <-cancel:
			t.Stop()
			done <- speech.ErrUtteranceCancelled
		}
	}()

	return done
}

// Cancel interrupts the in-flight utterance, if any.
func (s *Silent) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		close(s.cancel)
		s.cancel = nil
	}
}

// Voices returns one generic voice per drill language so playback can
// proceed.
func (s *Silent) Voices() []speech.Voice {
	return []speech.Voice{
		{Name: "silent-en", LanguageTag: "en-US"},
		{Name: "silent-zh", LanguageTag: "zh-TW"},
	}
}

// OnVoicesChanged records fn but never fires it; the voice list is static.
func (s *Silent) OnVoicesChanged(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// estimateDuration approximates speaking time at roughly 150 words per
// minute, scaled by rate, counting five characters per word.
func estimateDuration(text string, rate float64) time.Duration {
	words := len(text) / 5
	if words < 1 {
		words = 1
	}
	if rate <= 0 {
		rate = 1.0
	}
	seconds := float64(words) * 60.0 / (150.0 * rate)
	return time.Duration(seconds * float64(time.Second))
}
