package engines

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jx06T/ectts3/speech"
)

// Words-per-minute bounds for espeak's -s flag. A rate of 1.0 maps to the
// espeak default of 175 wpm.
const (
	baseWPM = 175
	minWPM  = 80
	maxWPM  = 450
)

// ESpeak speaks through an espeak-ng (or espeak) subprocess, one utterance
// per invocation. Voice enumeration runs asynchronously at construction; the
// voice list is empty until the first `--voices` call returns.
type ESpeak struct {
	binary string

	mu        sync.Mutex
	cur       *exec.Cmd
	cancelled bool

	voicesMu  sync.RWMutex
	voices    []speech.Voice
	voiceIDs  map[string]string
	listeners []func()
}

// NewESpeak locates the espeak binary and starts voice enumeration. Returns
// speech.ErrEngineUnavailable when neither espeak-ng nor espeak is on PATH.
func NewESpeak() (*ESpeak, error) {
	path, err := exec.LookPath("espeak-ng")
	if err != nil {
		path, err = exec.LookPath("espeak")
		if err != nil {
			return nil, fmt.Errorf("%w: espeak-ng not on PATH", speech.ErrEngineUnavailable)
		}
	}

	e := &ESpeak{
		binary:   path,
		voiceIDs: make(map[string]string),
	}
	go e.enumerateVoices()
	return e, nil
}

// Speak runs one espeak invocation for the utterance. The returned channel
// receives nil on completion, speech.ErrUtteranceCancelled when Cancel killed
// the process, or the process error otherwise.
func (e *ESpeak) Speak(u speech.UtteranceSpec) <-chan error {
	done := make(chan error, 1)

	args := []string{"-s", strconv.Itoa(clampWPM(u.Rate))}
	if id := e.voiceID(u.Voice); id != "" {
		args = append(args, "-v", id)
	}
	args = append(args, "--", u.Text)

	go func() {
		defer close(done)

		cmd := exec.Command(e.binary, args...)
		e.mu.Lock()
		e.cur = cmd
		e.cancelled = false
		err := cmd.Start()
		e.mu.Unlock()
		if err != nil {
			done <- fmt.Errorf("starting espeak: %w", err)
			return
		}

		waitErr := cmd.Wait()

		e.mu.Lock()
		cancelled := e.cancelled
		if e.cur == cmd {
			e.cur = nil
		}
		e.mu.Unlock()

		switch {
		case cancelled:
			done <- speech.ErrUtteranceCancelled
		case waitErr != nil:
			done <- fmt.Errorf("espeak: %w", waitErr)
		default:
			done <- nil
		}
	}()

	return done
}

// Cancel kills the in-flight espeak process, if any. Idempotent.
func (e *ESpeak) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur != nil && e.cur.Process != nil {
		e.cancelled = true
		_ = e.cur.Process.Kill()
	}
}

// Voices returns the enumerated voices. Empty until enumeration completes.
func (e *ESpeak) Voices() []speech.Voice {
	e.voicesMu.RLock()
	defer e.voicesMu.RUnlock()
	return append([]speech.Voice(nil), e.voices...)
}

// OnVoicesChanged registers fn to run once enumeration populates the list.
func (e *ESpeak) OnVoicesChanged(fn func()) {
	e.voicesMu.Lock()
	e.listeners = append(e.listeners, fn)
	e.voicesMu.Unlock()
}

// voiceID maps a reported voice name back to the identifier espeak's -v flag
// expects. Unknown names are passed through unchanged.
func (e *ESpeak) voiceID(name string) string {
	if name == "" {
		return ""
	}
	e.voicesMu.RLock()
	defer e.voicesMu.RUnlock()
	if id, ok := e.voiceIDs[name]; ok {
		return id
	}
	return name
}

func (e *ESpeak) enumerateVoices() {
	out, err := exec.Command(e.binary, "--voices").Output()
	if err != nil {
		log.Warn("espeak: voice enumeration failed", "error", err)
		return
	}

	voices, ids := parseVoices(bytes.NewReader(out))
	if len(voices) == 0 {
		log.Warn("espeak: no voices reported")
		return
	}

	e.voicesMu.Lock()
	e.voices = voices
	e.voiceIDs = ids
	listeners := append([]func(){}, e.listeners...)
	e.voicesMu.Unlock()

	log.Debug("espeak: voices enumerated", "count", len(voices))
	for _, fn := range listeners {
		fn()
	}
}

// parseVoices reads `espeak --voices` output. Each data line looks like
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  en-us           M  english-us         other/en-US
//
// and yields a voice named by the VoiceName column tagged with the Language
// column, plus a name-to-file mapping for the -v flag.
func parseVoices(r io.Reader) ([]speech.Voice, map[string]string) {
	var voices []speech.Voice
	ids := make(map[string]string)

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			// Header row.
			first = false
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		lang, name, file := fields[1], fields[3], fields[4]
		if _, dup := ids[name]; dup {
			continue
		}
		voices = append(voices, speech.Voice{Name: name, LanguageTag: lang})
		ids[name] = file
	}
	return voices, ids
}

func clampWPM(rate float64) int {
	wpm := int(rate * baseWPM)
	if wpm < minWPM {
		return minWPM
	}
	if wpm > maxWPM {
		return maxWPM
	}
	return wpm
}
