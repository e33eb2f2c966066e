package speech

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Sequencer executes playback queues against a Synthesizer. Each call to
// Start creates a new session identified by a generation number; starting a
// new session or calling Stop invalidates the previous one, so at most one
// session is ever live. An invalidated session stops speaking, produces no
// further effects, and never calls its completion callback.
type Sequencer struct {
	synth Synthesizer
	gen   atomic.Uint64

	mu     sync.Mutex
	cancel chan struct{}
}

// NewSequencer creates a Sequencer over synth.
func NewSequencer(synth Synthesizer) *Sequencer {
	return &Sequencer{synth: synth}
}

// Start invalidates any live session and launches a new one that executes
// steps in order. Voices are resolved through the voices func at each speak
// step, so a voice list that populates mid-session is picked up immediately.
// onFinished runs exactly once if and only if the session reaches the end of
// its queue without being invalidated.
func (s *Sequencer) Start(steps []Step, voices func() []Voice, onFinished func()) {
	s.mu.Lock()
	if s.cancel != nil {
		close(s.cancel)
	}
	cancel := make(chan struct{})
	s.cancel = cancel
	gen := s.gen.Add(1)
	s.mu.Unlock()

	s.synth.Cancel()
	go s.run(gen, cancel, steps, voices, onFinished)
}

// Stop invalidates the live session, if any, and discards whatever the
// engine is speaking. Idempotent.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		close(s.cancel)
		s.cancel = nil
	}
	s.gen.Add(1)
	s.mu.Unlock()

	s.synth.Cancel()
}

func (s *Sequencer) run(gen uint64, cancel <-chan struct{}, steps []Step, voices func() []Voice, onFinished func()) {
	log.Debug("sequencer: session started", "generation", gen, "steps", len(steps))

	for _, step := range steps {
		if s.gen.Load() != gen {
			return
		}

		switch step.Kind {
		case StepSpeak:
			u := BuildUtterance(voices(), step.Text, step.Rate, step.Voice)
			if u == nil {
				// No voices known yet. Skip the phrase but keep the
				// session's timing intact.
				log.Debug("sequencer: no voices, skipping phrase", "generation", gen)
				continue
			}
			// Issue the utterance under the lock that Start and Stop bump the
			// generation under. An utterance issued by a stale session would
			// otherwise slip past the invalidator's Cancel and keep speaking.
			s.mu.Lock()
			if s.gen.Load() != gen {
				s.mu.Unlock()
				return
			}
			done := s.synth.Speak(*u)
			s.mu.Unlock()

			select {
			case err := <-done:
				if errors.Is(err, ErrUtteranceCancelled) {
					return
				}
				if err != nil {
					log.Warn("sequencer: utterance failed", "generation", gen, "error", err)
				}
			case <-cancel:
				return
			}

		case StepDelay:
			t := time.NewTimer(step.Delay)
			select {
			case <-t.C:
			case <-cancel:
				t.Stop()
				return
			}
		}
	}

	// Natural completion invalidates this session itself. The swap fails if
	// Stop or a newer Start got there first, in which case the callback is
	// theirs to suppress.
	if s.gen.CompareAndSwap(gen, gen+1) {
		log.Debug("sequencer: session finished", "generation", gen)
		onFinished()
	}
}
