// Package mock provides a scripted synthesizer for testing.
package mock

import (
	"sync"

	"github.com/jx06T/ectts3/speech"
)

// pending is one utterance whose completion is under test control.
type pending struct {
	u    speech.UtteranceSpec
	done chan error
}

// Engine implements speech.Synthesizer with full test control: every
// utterance is recorded, completion can be held until released, and failures
// can be injected.
type Engine struct {
	mu        sync.Mutex
	voices    []speech.Voice
	listeners []func()

	spoken  []speech.UtteranceSpec
	holding bool
	held    []pending

	failErr        error
	cancelledCount int
}

// New creates a mock engine. With no voices given it reports one stock voice
// per drill language.
func New(voices ...speech.Voice) *Engine {
	if len(voices) == 0 {
		voices = []speech.Voice{
			{Name: "Mock English", LanguageTag: "en-US"},
			{Name: "Mock Mandarin", LanguageTag: "zh-TW"},
		}
	}
	return &Engine{voices: voices}
}

// Speak records the utterance. Unless holding or failing, it completes
// immediately.
func (e *Engine) Speak(u speech.UtteranceSpec) <-chan error {
	done := make(chan error, 1)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.spoken = append(e.spoken, u)

	switch {
	case e.failErr != nil:
		done <- e.failErr
		close(done)
	case e.holding:
		e.held = append(e.held, pending{u: u, done: done})
	default:
		done <- nil
		close(done)
	}
	return done
}

// Cancel fails every held utterance with speech.ErrUtteranceCancelled.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.held {
		p.done <- speech.ErrUtteranceCancelled
		close(p.done)
		e.cancelledCount++
	}
	e.held = nil
}

// Voices returns the configured voice list.
func (e *Engine) Voices() []speech.Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]speech.Voice(nil), e.voices...)
}

// OnVoicesChanged registers fn for SetVoices notifications.
func (e *Engine) OnVoicesChanged(fn func()) {
	e.mu.Lock()
	e.listeners = append(e.listeners, fn)
	e.mu.Unlock()
}

// Test control methods

// SetVoices replaces the voice list and notifies listeners, simulating a
// platform voice refresh.
func (e *Engine) SetVoices(voices []speech.Voice) {
	e.mu.Lock()
	e.voices = append([]speech.Voice(nil), voices...)
	listeners := append([]func(){}, e.listeners...)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Hold makes subsequent utterances wait until Release or Cancel.
func (e *Engine) Hold() {
	e.mu.Lock()
	e.holding = true
	e.mu.Unlock()
}

// Release completes the oldest held utterance successfully. Returns false
// when nothing is held.
func (e *Engine) Release() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.held) == 0 {
		return false
	}
	p := e.held[0]
	e.held = e.held[1:]
	p.done <- nil
	close(p.done)
	return true
}

// ReleaseAll completes every held utterance successfully and stops holding.
func (e *Engine) ReleaseAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.held {
		p.done <- nil
		close(p.done)
	}
	e.held = nil
	e.holding = false
}

// SetFailure makes subsequent utterances fail with err.
func (e *Engine) SetFailure(err error) {
	e.mu.Lock()
	e.failErr = err
	e.mu.Unlock()
}

// ClearFailure resets the engine to normal operation.
func (e *Engine) ClearFailure() {
	e.mu.Lock()
	e.failErr = nil
	e.mu.Unlock()
}

// Spoken returns every utterance passed to Speak, in order.
func (e *Engine) Spoken() []speech.UtteranceSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]speech.UtteranceSpec(nil), e.spoken...)
}

// SpokenTexts returns just the texts of every utterance, in order.
func (e *Engine) SpokenTexts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	texts := make([]string, len(e.spoken))
	for i, u := range e.spoken {
		texts[i] = u.Text
	}
	return texts
}

// HeldCount returns the number of utterances currently held.
func (e *Engine) HeldCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.held)
}

// CancelledCount returns how many held utterances were cancelled.
func (e *Engine) CancelledCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelledCount
}

// Reset clears the recorded utterances.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.spoken = nil
	e.mu.Unlock()
}
