package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jx06T/ectts3/speech"
)

// cardModel is the flashcard pane: one word at a time, translation hidden
// until revealed. The card follows playback while the drill is running.
type cardModel struct {
	common   *commonModel
	cursor   int
	revealed bool
}

func newCardModel(common *commonModel) cardModel {
	return cardModel{common: common}
}

func (cm *cardModel) followPlayback(deckIndex int) {
	cm.cursor = deckIndex
	cm.revealed = false
}

func (cm *cardModel) update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	c := cm.common
	k := c.keys

	switch {
	case keyMatches(keyMsg, k.Up):
		cm.move(-1)

	case keyMatches(keyMsg, k.Down):
		cm.move(1)

	case keyMatches(keyMsg, k.PlayHere):
		cm.revealed = !cm.revealed

	case keyMatches(keyMsg, k.Done):
		if c.deck.ToggleDone(cm.cursor) {
			c.persistWords()
		}

	case keyMatches(keyMsg, k.Select):
		if c.deck.ToggleSelected(cm.cursor) {
			c.persistWords()
		}
	}
	return nil
}

// move steps the card through the deck, skipping nothing; flashcards review
// every word, not just the playable subset.
func (cm *cardModel) move(delta int) {
	n := cm.common.deck.Len()
	if n == 0 {
		return
	}
	cm.cursor = ((cm.cursor+delta)%n + n) % n
	cm.revealed = false
}

func (cm *cardModel) view() string {
	c := cm.common
	w, ok := c.deck.Word(cm.cursor)
	if !ok {
		return dimStyle.Render("\n  no words\n")
	}

	cardWidth := 40
	if c.width > 0 && c.width-10 < cardWidth {
		cardWidth = c.width - 10
	}

	front := w.English
	if !c.appState.ShowEnglish && !cm.revealed {
		front = "????"
	}
	body := titleStyle.Render(wordwrap.String(front, cardWidth-8))
	if cm.revealed || (c.appState.ShowChinese && c.playState == speech.StatePlaying) {
		body += "\n\n" + wordwrap.String(w.Chinese, cardWidth-8)
	} else {
		body += "\n\n" + dimStyle.Render("enter to reveal")
	}
	if w.Done {
		body += "\n" + doneStyle.Render("done")
	}

	card := cardStyle.Width(cardWidth).Render(body)
	footer := dimStyle.Render(fmt.Sprintf("%d / %d", cm.cursor+1, c.deck.Len()))

	height := c.height - 6
	if height < lipgloss.Height(card)+2 {
		return card + "\n" + footer
	}
	return lipgloss.Place(c.width, height, lipgloss.Center, lipgloss.Center,
		card+"\n"+footer)
}
