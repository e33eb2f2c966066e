package speech_test

import (
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jx06T/ectts3/speech"
	"github.com/jx06T/ectts3/speech/engines/mock"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// settled asserts cond stays true for a little while.
func settled(t *testing.T, what string, cond func() bool) {
	t.Helper()
	time.Sleep(30 * time.Millisecond)
	if !cond() {
		t.Fatalf("%s did not hold", what)
	}
}

func speakSteps(texts ...string) []speech.Step {
	steps := make([]speech.Step, len(texts))
	for i, text := range texts {
		steps[i] = speech.SpeakStep(text, "Mock English", 1.0)
	}
	return steps
}

func TestSequencerRunsAllSteps(t *testing.T) {
	eng := mock.New()
	seq := speech.NewSequencer(eng)

	var finished atomic.Int32
	seq.Start(speakSteps("one", "two", "three"), eng.Voices, func() {
		finished.Add(1)
	})

	waitFor(t, "session to finish", func() bool { return finished.Load() == 1 })
	if got := eng.SpokenTexts(); !reflect.DeepEqual(got, []string{"one", "two", "three"}) {
		t.Errorf("spoken = %v", got)
	}
	settled(t, "exactly one completion", func() bool { return finished.Load() == 1 })
}

func TestSequencerRunsDelaySteps(t *testing.T) {
	eng := mock.New()
	seq := speech.NewSequencer(eng)

	steps := []speech.Step{
		speech.SpeakStep("a", "Mock English", 1.0),
		speech.DelayStep(0.01),
		speech.SpeakStep("b", "Mock English", 1.0),
	}
	done := make(chan struct{})
	seq.Start(steps, eng.Voices, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish")
	}
	if got := eng.SpokenTexts(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("spoken = %v", got)
	}
}

func TestSequencerStopSuppressesCompletion(t *testing.T) {
	eng := mock.New()
	eng.Hold()
	seq := speech.NewSequencer(eng)

	var finished atomic.Int32
	seq.Start(speakSteps("one", "two"), eng.Voices, func() { finished.Add(1) })

	waitFor(t, "first utterance", func() bool { return eng.HeldCount() == 1 })
	seq.Stop()

	settled(t, "no completion after stop", func() bool { return finished.Load() == 0 })
	if got := len(eng.SpokenTexts()); got != 1 {
		t.Errorf("engine saw %d utterances after stop, want 1", got)
	}
}

func TestSequencerNewStartInvalidatesOldSession(t *testing.T) {
	eng := mock.New()
	eng.Hold()
	seq := speech.NewSequencer(eng)

	var firstDone, secondDone atomic.Int32
	seq.Start(speakSteps("old-1", "old-2"), eng.Voices, func() { firstDone.Add(1) })
	waitFor(t, "old session to speak", func() bool { return eng.HeldCount() == 1 })

	seq.Start(speakSteps("new-1"), eng.Voices, func() { secondDone.Add(1) })
	waitFor(t, "new session to speak", func() bool {
		texts := eng.SpokenTexts()
		return len(texts) > 0 && texts[len(texts)-1] == "new-1"
	})

	eng.ReleaseAll()
	waitFor(t, "new session to finish", func() bool { return secondDone.Load() == 1 })
	settled(t, "old session stayed dead", func() bool { return firstDone.Load() == 0 })

	// The old session never progressed past its first phrase.
	for _, text := range eng.SpokenTexts() {
		if text == "old-2" {
			t.Error("invalidated session kept speaking")
		}
	}
}

func TestSequencerCancellationIsSilent(t *testing.T) {
	eng := mock.New()
	eng.Hold()
	seq := speech.NewSequencer(eng)

	var finished atomic.Int32
	seq.Start(speakSteps("one", "two", "three"), eng.Voices, func() { finished.Add(1) })
	waitFor(t, "first utterance", func() bool { return eng.HeldCount() == 1 })

	seq.Stop()
	waitFor(t, "engine cancel", func() bool { return eng.CancelledCount() == 1 })

	settled(t, "nothing after cancellation", func() bool {
		return len(eng.SpokenTexts()) == 1 && finished.Load() == 0
	})
}

func TestSequencerSkipsSpeakWithoutVoices(t *testing.T) {
	eng := mock.New()
	seq := speech.NewSequencer(eng)

	noVoices := func() []speech.Voice { return nil }
	done := make(chan struct{})
	seq.Start(speakSteps("unheard"), noVoices, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish")
	}
	if got := len(eng.SpokenTexts()); got != 0 {
		t.Errorf("engine spoke %d phrases with no voices", got)
	}
}

func TestSequencerStopIdempotent(t *testing.T) {
	eng := mock.New()
	seq := speech.NewSequencer(eng)
	seq.Stop()
	seq.Stop()

	done := make(chan struct{})
	seq.Start(speakSteps("ok"), eng.Voices, func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sequencer unusable after redundant stops")
	}
}
