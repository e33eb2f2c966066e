package words

import (
	"math/rand"
	"sync"
)

// Deck is the working word list of one set in display order. Playback and
// the list view both walk the deck by display index; shuffling reorders the
// deck itself, so a shuffled drill plays in shuffled order. Deck implements
// the word source interface the playback controller consumes.
type Deck struct {
	mu         sync.RWMutex
	words      []Word
	onlyUnDone bool
	listeners  []func()
}

// NewDeck creates a deck over the given words.
func NewDeck(words []Word) *Deck {
	return &Deck{words: append([]Word(nil), words...)}
}

// OnChange registers fn to run after every deck mutation.
func (d *Deck) OnChange(fn func()) {
	d.mu.Lock()
	d.listeners = append(d.listeners, fn)
	d.mu.Unlock()
}

func (d *Deck) notifyLocked() []func() {
	return append([]func(){}, d.listeners...)
}

// Words returns a copy of the deck in display order.
func (d *Deck) Words() []Word {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Word(nil), d.words...)
}

// Len returns the number of words in the deck.
func (d *Deck) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.words)
}

// Word returns the word at display index i.
func (d *Deck) Word(i int) (Word, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.words) {
		return Word{}, false
	}
	return d.words[i], true
}

// WordAt returns the term and translation at display index i. Part of the
// playback word source interface.
func (d *Deck) WordAt(i int) (string, string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.words) {
		return "", "", false
	}
	return d.words[i].English, d.words[i].Chinese, true
}

// PlayableIndices returns the display indices eligible for playback: the
// selected words, excluding done ones when only-undone mode is on.
func (d *Deck) PlayableIndices() []int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var indices []int
	for i, w := range d.words {
		if w.Selected && (!w.Done || !d.onlyUnDone) {
			indices = append(indices, i)
		}
	}
	return indices
}

// SetOnlyUnDone toggles whether done words are excluded from playback.
func (d *Deck) SetOnlyUnDone(on bool) {
	d.mu.Lock()
	d.onlyUnDone = on
	listeners := d.notifyLocked()
	d.mu.Unlock()
	fire(listeners)
}

// OnlyUnDone reports whether done words are excluded from playback.
func (d *Deck) OnlyUnDone() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.onlyUnDone
}

// Add appends a word to the deck.
func (d *Deck) Add(w Word) {
	d.mu.Lock()
	d.words = append(d.words, w)
	listeners := d.notifyLocked()
	d.mu.Unlock()
	fire(listeners)
}

// Update replaces the word at display index i.
func (d *Deck) Update(i int, w Word) bool {
	d.mu.Lock()
	if i < 0 || i >= len(d.words) {
		d.mu.Unlock()
		return false
	}
	d.words[i] = w
	listeners := d.notifyLocked()
	d.mu.Unlock()
	fire(listeners)
	return true
}

// Remove deletes the word at display index i.
func (d *Deck) Remove(i int) bool {
	d.mu.Lock()
	if i < 0 || i >= len(d.words) {
		d.mu.Unlock()
		return false
	}
	d.words = append(d.words[:i], d.words[i+1:]...)
	listeners := d.notifyLocked()
	d.mu.Unlock()
	fire(listeners)
	return true
}

// ToggleSelected flips the selection of the word at display index i.
func (d *Deck) ToggleSelected(i int) bool {
	return d.flip(i, func(w *Word) { w.Selected = !w.Selected })
}

// ToggleDone flips the done mark of the word at display index i.
func (d *Deck) ToggleDone(i int) bool {
	return d.flip(i, func(w *Word) { w.Done = !w.Done })
}

// SelectAll sets the selection of every word.
func (d *Deck) SelectAll(selected bool) {
	d.mu.Lock()
	for i := range d.words {
		d.words[i].Selected = selected
	}
	listeners := d.notifyLocked()
	d.mu.Unlock()
	fire(listeners)
}

// Shuffle reorders the deck with a Fisher-Yates pass.
func (d *Deck) Shuffle() {
	d.mu.Lock()
	for i := len(d.words) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		d.words[i], d.words[j] = d.words[j], d.words[i]
	}
	listeners := d.notifyLocked()
	d.mu.Unlock()
	fire(listeners)
}

// Replace swaps in a whole new word list, keeping the only-undone flag.
func (d *Deck) Replace(words []Word) {
	d.mu.Lock()
	d.words = append([]Word(nil), words...)
	listeners := d.notifyLocked()
	d.mu.Unlock()
	fire(listeners)
}

func (d *Deck) flip(i int, mutate func(*Word)) bool {
	d.mu.Lock()
	if i < 0 || i >= len(d.words) {
		d.mu.Unlock()
		return false
	}
	mutate(&d.words[i])
	listeners := d.notifyLocked()
	d.mu.Unlock()
	fire(listeners)
	return true
}

func fire(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}
