package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/jx06T/ectts3/speech"
	"github.com/jx06T/ectts3/words"
)

type listMode int

const (
	listBrowse listMode = iota
	listFilter
	listEdit
)

// listModel is the word list pane: browse, filter, edit, and start playback
// from any row.
type listModel struct {
	common *commonModel

	mode   listMode
	cursor int
	filter string

	filterInput  textinput.Model
	englishInput textinput.Model
	chineseInput textinput.Model
	editIndex    int // deck index being edited, -1 when adding
	focusChinese bool
}

func newListModel(common *commonModel) listModel {
	fi := textinput.New()
	fi.Prompt = "/"
	fi.Placeholder = "filter words"

	ei := textinput.New()
	ei.Prompt = "english> "
	ci := textinput.New()
	ci.Prompt = "chinese> "

	return listModel{
		common:       common,
		filterInput:  fi,
		englishInput: ei,
		chineseInput: ci,
		editIndex:    -1,
	}
}

func (l *listModel) capturingInput() bool {
	return l.mode != listBrowse
}

func (l *listModel) reset() {
	l.cursor = 0
	l.filter = ""
	l.filterInput.Reset()
	l.mode = listBrowse
}

// visibleIndices returns the deck indices matching the filter, in display
// order.
func (l *listModel) visibleIndices() []int {
	ws := l.common.deck.Words()
	if l.filter == "" {
		indices := make([]int, len(ws))
		for i := range ws {
			indices[i] = i
		}
		return indices
	}

	targets := make([]string, len(ws))
	for i, w := range ws {
		targets[i] = w.English + " " + w.Chinese
	}
	matches := fuzzy.Find(l.filter, targets)
	indices := make([]int, len(matches))
	for i, m := range matches {
		indices[i] = m.Index
	}
	return indices
}

// followPlayback moves the cursor to the row playback reached.
func (l *listModel) followPlayback(deckIndex int) {
	for pos, idx := range l.visibleIndices() {
		if idx == deckIndex {
			l.cursor = pos
			return
		}
	}
}

func (l *listModel) update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch l.mode {
	case listFilter:
		return l.updateFilter(keyMsg)
	case listEdit:
		return l.updateEdit(keyMsg)
	}
	return l.updateBrowse(keyMsg)
}

func (l *listModel) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		l.filter = ""
		l.filterInput.Reset()
		l.mode = listBrowse
		return nil
	case "enter":
		l.mode = listBrowse
		return nil
	}

	var cmd tea.Cmd
	l.filterInput, cmd = l.filterInput.Update(msg)
	l.filter = l.filterInput.Value()
	l.cursor = 0
	return cmd
}

func (l *listModel) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		l.mode = listBrowse
		return nil
	case "tab", "shift+tab":
		l.focusChinese = !l.focusChinese
		if l.focusChinese {
			l.englishInput.Blur()
			return l.chineseInput.Focus()
		}
		l.chineseInput.Blur()
		return l.englishInput.Focus()
	case "enter":
		return l.commitEdit()
	}

	var cmd tea.Cmd
	if l.focusChinese {
		l.chineseInput, cmd = l.chineseInput.Update(msg)
	} else {
		l.englishInput, cmd = l.englishInput.Update(msg)
	}
	return cmd
}

func (l *listModel) commitEdit() tea.Cmd {
	english := strings.TrimSpace(l.englishInput.Value())
	chinese := strings.TrimSpace(l.chineseInput.Value())
	if english == "" {
		return notify("The English term cannot be empty")
	}

	if l.editIndex < 0 {
		l.common.deck.Add(words.New(english, chinese))
	} else if w, ok := l.common.deck.Word(l.editIndex); ok {
		w.English = english
		w.Chinese = chinese
		l.common.deck.Update(l.editIndex, w)
	}
	l.common.persistWords()
	l.mode = listBrowse
	return nil
}

func (l *listModel) openEditor(deckIndex int) tea.Cmd {
	l.mode = listEdit
	l.editIndex = deckIndex
	l.focusChinese = false
	l.englishInput.Reset()
	l.chineseInput.Reset()
	if w, ok := l.common.deck.Word(deckIndex); ok && deckIndex >= 0 {
		l.englishInput.SetValue(w.English)
		l.chineseInput.SetValue(w.Chinese)
	}
	l.chineseInput.Blur()
	return l.englishInput.Focus()
}

func (l *listModel) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	c := l.common
	k := c.keys
	visible := l.visibleIndices()

	switch {
	case keyMatches(msg, k.Up):
		if l.cursor > 0 {
			l.cursor--
		}

	case keyMatches(msg, k.Down):
		if l.cursor < len(visible)-1 {
			l.cursor++
		}

	case keyMatches(msg, k.PlayHere):
		if idx, ok := l.cursorIndex(visible); ok {
			c.controller.SetIndex(idx)
			if c.playState != speech.StatePlaying {
				c.controller.Play() //nolint:errcheck
			}
		}

	case keyMatches(msg, k.Select):
		if idx, ok := l.cursorIndex(visible); ok {
			c.deck.ToggleSelected(idx)
			c.persistWords()
		}

	case keyMatches(msg, k.Done):
		if idx, ok := l.cursorIndex(visible); ok {
			c.deck.ToggleDone(idx)
			c.persistWords()
		}

	case keyMatches(msg, k.Add):
		return l.openEditor(-1)

	case keyMatches(msg, k.Edit):
		if idx, ok := l.cursorIndex(visible); ok {
			return l.openEditor(idx)
		}

	case keyMatches(msg, k.Delete):
		if idx, ok := l.cursorIndex(visible); ok {
			c.deck.Remove(idx)
			c.persistWords()
			if l.cursor >= len(visible)-1 && l.cursor > 0 {
				l.cursor--
			}
		}

	case keyMatches(msg, k.Filter):
		l.mode = listFilter
		return l.filterInput.Focus()

	case keyMatches(msg, k.Shuffle):
		return l.toggleShuffle()

	case keyMatches(msg, k.OnlyUnDone):
		c.appState.OnlyPlayUnDone = !c.appState.OnlyPlayUnDone
		c.deck.SetOnlyUnDone(c.appState.OnlyPlayUnDone)
		c.persistState()

	case keyMatches(msg, k.Export):
		return l.exportSelection()

	case keyMatches(msg, k.Import):
		return l.importClipboard()

	case msg.String() == "1":
		c.appState.ShowEnglish = !c.appState.ShowEnglish
		c.persistState()

	case msg.String() == "2":
		c.appState.ShowChinese = !c.appState.ShowChinese
		c.persistState()
	}
	return nil
}

func (l *listModel) cursorIndex(visible []int) (int, bool) {
	if l.cursor < 0 || l.cursor >= len(visible) {
		return 0, false
	}
	return visible[l.cursor], true
}

// toggleShuffle flips shuffle mode: on shuffles the deck, off restores the
// stored order.
func (l *listModel) toggleShuffle() tea.Cmd {
	c := l.common
	c.appState.Shuffle = !c.appState.Shuffle
	c.persistState()

	if c.appState.Shuffle {
		c.deck.Shuffle()
		return notify("Shuffled")
	}
	ws, err := c.library.Words(c.currentSet.ID)
	if err != nil {
		return notify("Unable to restore order: " + err.Error())
	}
	c.deck.Replace(ws)
	return notify("Original order restored")
}

func (l *listModel) exportSelection() tea.Cmd {
	text, count := words.Export(l.common.deck.Words())
	if count == 0 {
		return notify("Select words first to export")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return notify("Clipboard unavailable: " + err.Error())
	}
	return notify(fmt.Sprintf("%d words copied & exported", count))
}

func (l *listModel) importClipboard() tea.Cmd {
	text, err := clipboard.ReadAll()
	if err != nil {
		return notify("Clipboard unavailable: " + err.Error())
	}
	imported := words.Import(text)
	if len(imported) == 0 {
		return notify("Clipboard has no words to import")
	}
	for _, w := range imported {
		l.common.deck.Add(w)
	}
	l.common.persistWords()
	return notify("Words imported successfully!")
}

func (l *listModel) view() string {
	c := l.common
	visible := l.visibleIndices()

	rows := make([]string, 0, len(visible)+2)
	if l.mode == listFilter {
		rows = append(rows, l.filterInput.View())
	} else if l.filter != "" {
		rows = append(rows, dimStyle.Render("filter: "+l.filter))
	}

	height := c.height - 8
	if height < 4 {
		height = 4
	}
	start := 0
	if l.cursor >= height {
		start = l.cursor - height + 1
	}

	for pos := start; pos < len(visible) && pos < start+height; pos++ {
		rows = append(rows, l.renderRow(visible[pos], pos == l.cursor))
	}
	if len(visible) == 0 {
		rows = append(rows, dimStyle.Render("  no words"))
	}

	if l.mode == listEdit {
		rows = append(rows, "", l.englishInput.View(), l.chineseInput.View())
	}
	return strings.Join(rows, "\n")
}

func (l *listModel) renderRow(deckIndex int, underCursor bool) string {
	c := l.common
	w, ok := c.deck.Word(deckIndex)
	if !ok {
		return ""
	}

	prefix := "  "
	if underCursor {
		prefix = cursorStyle.Render("> ")
	}

	mark := "[ ]"
	if w.Selected {
		mark = selectedStyle.Render("[x]")
	}

	english, chinese := w.English, w.Chinese
	if !c.appState.ShowEnglish {
		english = strings.Repeat("·", runewidth.StringWidth(english))
	}
	if !c.appState.ShowChinese {
		chinese = strings.Repeat("·", runewidth.StringWidth(chinese))
	}

	colWidth := 24
	if c.width > 70 {
		colWidth = (c.width - 20) / 2
	}
	text := fmt.Sprintf("%s  %s",
		runewidth.FillRight(runewidth.Truncate(english, colWidth, "…"), colWidth),
		runewidth.Truncate(chinese, colWidth, "…"))

	switch {
	case c.playState == speech.StatePlaying && deckIndex == c.playIndex:
		text = playingRowStyle.Render(text)
	case w.Done:
		text = doneStyle.Render(text)
	}
	return prefix + mark + " " + text
}
