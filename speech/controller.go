package speech

import (
	"sync"

	"github.com/charmbracelet/log"
)

// ControllerState represents the playback state of the drill.
type ControllerState int

const (
	// StateIdle indicates playback has not started or was stopped.
	StateIdle ControllerState = iota
	// StatePlaying indicates words are being spoken.
	StatePlaying
	// StatePaused indicates playback is suspended at the current word.
	StatePaused
)

// String returns the string representation of the state.
func (s ControllerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// User-facing notices emitted on playback transitions.
const (
	NoticePlaybackStarted = "Playback started"
	NoticePlaybackPaused  = "Playback paused"
	NoticeNothingToPlay   = "No words selected to play"
)

// stateMachine guards the valid playback transitions.
type stateMachine struct {
	current     ControllerState
	transitions map[ControllerState][]ControllerState
}

func newStateMachine() *stateMachine {
	return &stateMachine{
		current: StateIdle,
		transitions: map[ControllerState][]ControllerState{
			StateIdle:    {StatePlaying},
			StatePlaying: {StatePaused, StateIdle},
			StatePaused:  {StatePlaying, StateIdle},
		},
	}
}

// transition attempts to move to the specified state.
func (sm *stateMachine) transition(to ControllerState) bool {
	for _, state := range sm.transitions[sm.current] {
		if state == to {
			sm.current = to
			return true
		}
	}
	return false
}

// Controller drives word-by-word playback: it walks the playable subset of
// the word collection, hands each word's queue to the Sequencer, and advances
// when a word's session completes. Pausing or stopping invalidates the live
// session immediately; nothing queued before the pause is heard after it.
type Controller struct {
	seq      *Sequencer
	voices   *Directory
	settings *SettingsStore
	words    WordSource

	mu      sync.Mutex
	machine *stateMachine
	index   int

	onStateChange func(ControllerState)
	onWordChange  func(int)
	onNotice      func(string)
}

// NewController creates a Controller over the given components. The word
// source is consulted fresh on every transition, so edits made while paused
// are honored on resume.
func NewController(seq *Sequencer, voices *Directory, settings *SettingsStore, words WordSource) *Controller {
	return &Controller{
		seq:      seq,
		voices:   voices,
		settings: settings,
		words:    words,
		machine:  newStateMachine(),
	}
}

// OnStateChange registers a callback for playback state changes.
func (c *Controller) OnStateChange(fn func(ControllerState)) {
	c.mu.Lock()
	c.onStateChange = fn
	c.mu.Unlock()
}

// OnWordChange registers a callback invoked with the collection index of
// each word as playback reaches it.
func (c *Controller) OnWordChange(fn func(int)) {
	c.mu.Lock()
	c.onWordChange = fn
	c.mu.Unlock()
}

// OnNotice registers a callback for user-facing playback notices.
func (c *Controller) OnNotice(fn func(string)) {
	c.mu.Lock()
	c.onNotice = fn
	c.mu.Unlock()
}

// State returns the current playback state.
func (c *Controller) State() ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.current
}

// CurrentIndex returns the collection index of the word playback is at.
func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Play starts playback at the current word, or resumes it after a pause.
// When the playable subset is empty it emits a notice and reports
// ErrNothingToPlay without changing state.
func (c *Controller) Play() error {
	c.mu.Lock()

	playable := c.words.PlayableIndices()
	if len(playable) == 0 {
		notice := c.onNotice
		c.mu.Unlock()
		if notice != nil {
			notice(NoticeNothingToPlay)
		}
		return ErrNothingToPlay
	}

	if !c.machine.transition(StatePlaying) {
		c.mu.Unlock()
		return nil
	}

	// Snap to the playable subset if the current word fell out of it while
	// idle or paused.
	if !containsIndex(playable, c.index) {
		c.index = playable[0]
	}

	log.Debug("controller: playback started", "index", c.index, "playable", len(playable))
	c.startSessionLocked()
	state, word, notice := c.onStateChange, c.onWordChange, c.onNotice
	index := c.index
	c.mu.Unlock()

	if state != nil {
		state(StatePlaying)
	}
	if word != nil {
		word(index)
	}
	if notice != nil {
		notice(NoticePlaybackStarted)
	}
	return nil
}

// Pause suspends playback at the current word. Anything queued for the word
// is discarded; resuming starts the word's queue from the top.
func (c *Controller) Pause() {
	c.mu.Lock()
	if !c.machine.transition(StatePaused) {
		c.mu.Unlock()
		return
	}
	log.Debug("controller: playback paused", "index", c.index)
	state, notice := c.onStateChange, c.onNotice
	c.mu.Unlock()

	c.seq.Stop()
	if state != nil {
		state(StatePaused)
	}
	if notice != nil {
		notice(NoticePlaybackPaused)
	}
}

// Toggle pauses playback when playing and plays otherwise.
func (c *Controller) Toggle() error {
	if c.State() == StatePlaying {
		c.Pause()
		return nil
	}
	return c.Play()
}

// Stop halts playback and returns to idle. The current word index is kept,
// so a later Play picks up where the drill left off.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.machine.transition(StateIdle) {
		c.mu.Unlock()
		return
	}
	log.Debug("controller: playback stopped", "index", c.index)
	state := c.onStateChange
	c.mu.Unlock()

	c.seq.Stop()
	if state != nil {
		state(StateIdle)
	}
}

// Next advances to the next playable word, wrapping past the end. While
// playing, the current session is replaced by one for the new word.
func (c *Controller) Next() {
	c.step(1)
}

// Prev moves to the previous playable word, wrapping past the start. While
// playing, the current session is replaced by one for the new word.
func (c *Controller) Prev() {
	c.step(-1)
}

// SetIndex jumps playback to the word at index in the full collection. While
// playing, the current session is replaced by one for that word.
func (c *Controller) SetIndex(index int) {
	c.mu.Lock()
	if _, _, ok := c.words.WordAt(index); !ok {
		c.mu.Unlock()
		return
	}
	c.index = index
	playing := c.machine.current == StatePlaying
	if playing {
		c.startSessionLocked()
	}
	word := c.onWordChange
	c.mu.Unlock()

	if word != nil {
		word(index)
	}
}

// Refresh re-reads the word source and voice choices. Called after word
// edits, selection changes, or a voice switch. While playing it rebuilds the
// current word's session; if the playable subset emptied, playback returns to
// idle with a notice.
func (c *Controller) Refresh() {
	c.mu.Lock()
	if c.machine.current != StatePlaying {
		c.mu.Unlock()
		return
	}

	playable := c.words.PlayableIndices()
	if len(playable) == 0 {
		c.machine.transition(StateIdle)
		state, notice := c.onStateChange, c.onNotice
		c.mu.Unlock()

		c.seq.Stop()
		if state != nil {
			state(StateIdle)
		}
		if notice != nil {
			notice(NoticeNothingToPlay)
		}
		return
	}

	if !containsIndex(playable, c.index) {
		c.index = playable[0]
	}
	c.startSessionLocked()
	word := c.onWordChange
	index := c.index
	c.mu.Unlock()

	if word != nil {
		word(index)
	}
}

// step moves the index delta positions through the playable subset with
// wraparound.
func (c *Controller) step(delta int) {
	c.mu.Lock()
	playable := c.words.PlayableIndices()
	if len(playable) == 0 {
		c.mu.Unlock()
		return
	}

	c.index = neighborIndex(playable, c.index, delta)
	if c.machine.current == StatePlaying {
		c.startSessionLocked()
	}
	word := c.onWordChange
	index := c.index
	c.mu.Unlock()

	if word != nil {
		word(index)
	}
}

// startSessionLocked builds and starts the session for the current word.
// Callers hold c.mu.
func (c *Controller) startSessionLocked() {
	source, target, ok := c.words.WordAt(c.index)
	if !ok {
		// The word vanished under us. Run an empty session so completion
		// advances playback past the gap.
		c.seq.Start(nil, c.voices.Voices, c.wordFinished)
		return
	}
	steps := BuildQueue(
		source, target,
		c.settings.Current(),
		c.voices.ChosenVoice(LangSource),
		c.voices.ChosenVoice(LangTarget),
	)
	c.seq.Start(steps, c.voices.Voices, c.wordFinished)
}

// wordFinished advances playback after a word's queue completes naturally.
func (c *Controller) wordFinished() {
	c.mu.Lock()
	if c.machine.current != StatePlaying {
		c.mu.Unlock()
		return
	}

	playable := c.words.PlayableIndices()
	if len(playable) == 0 {
		c.machine.transition(StateIdle)
		state, notice := c.onStateChange, c.onNotice
		c.mu.Unlock()

		if state != nil {
			state(StateIdle)
		}
		if notice != nil {
			notice(NoticeNothingToPlay)
		}
		return
	}

	c.index = neighborIndex(playable, c.index, 1)
	c.startSessionLocked()
	word := c.onWordChange
	index := c.index
	c.mu.Unlock()

	if word != nil {
		word(index)
	}
}

func containsIndex(indices []int, index int) bool {
	for _, i := range indices {
		if i == index {
			return true
		}
	}
	return false
}

// neighborIndex returns the playable index delta positions away from current,
// wrapping at both ends. When current is not itself playable the nearest
// following (or preceding, for negative delta) playable index anchors the
// move.
func neighborIndex(playable []int, current, delta int) int {
	n := len(playable)
	pos := -1
	for i, idx := range playable {
		if idx == current {
			pos = i
			break
		}
	}
	if pos == -1 {
		// Anchor on the first playable index past current in the direction
		// of travel, already counting as one step.
		if delta > 0 {
			for i, idx := range playable {
				if idx > current {
					return playable[(i+(delta-1))%n]
				}
			}
			return playable[(delta-1)%n]
		}
		for i := n - 1; i >= 0; i-- {
			if playable[i] < current {
				return playable[((i+delta+1)%n+n)%n]
			}
		}
		return playable[((n+delta)%n+n)%n]
	}
	return playable[((pos+delta)%n+n)%n]
}
