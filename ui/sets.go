package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/editor"
	"github.com/dustin/go-humanize"

	"github.com/jx06T/ectts3/words"
)

// setsModel is the set picker pane: choose, create, delete, and hand a set's
// JSON to an external editor.
type setsModel struct {
	common *commonModel

	sets   []words.Set
	cursor int

	adding     bool
	renameID   string
	titleInput textinput.Model
}

func newSetsModel(common *commonModel, sets []words.Set) setsModel {
	in := textinput.New()
	in.Prompt = "title> "
	in.Placeholder = "new set"
	return setsModel{common: common, sets: sets, titleInput: in}
}

func (sm *setsModel) reload() {
	sets, err := sm.common.library.Sets()
	if err != nil {
		log.Warn("unable to reload sets", "error", err)
		return
	}
	sm.sets = sets
	if sm.cursor >= len(sets) {
		sm.cursor = len(sets) - 1
	}
	if sm.cursor < 0 {
		sm.cursor = 0
	}
}

func (sm *setsModel) capturingInput() bool {
	return sm.adding || sm.renameID != ""
}

// update handles pane input. The second return value is non-nil when the
// user opened a set.
func (sm *setsModel) update(msg tea.Msg) (tea.Cmd, *words.Set) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, nil
	}

	if sm.adding || sm.renameID != "" {
		switch keyMsg.String() {
		case "esc":
			sm.adding = false
			sm.renameID = ""
			return nil, nil
		case "enter":
			if sm.adding {
				return sm.commitAdd(), nil
			}
			return sm.commitRename(), nil
		}
		var cmd tea.Cmd
		sm.titleInput, cmd = sm.titleInput.Update(keyMsg)
		return cmd, nil
	}

	k := sm.common.keys
	switch {
	case keyMatches(keyMsg, k.Up):
		if sm.cursor > 0 {
			sm.cursor--
		}

	case keyMatches(keyMsg, k.Down):
		if sm.cursor < len(sm.sets)-1 {
			sm.cursor++
		}

	case keyMatches(keyMsg, k.PlayHere):
		if sm.cursor < len(sm.sets) {
			s := sm.sets[sm.cursor]
			return nil, &s
		}

	case keyMatches(keyMsg, k.Add):
		sm.adding = true
		sm.titleInput.Reset()
		return sm.titleInput.Focus(), nil

	case keyMatches(keyMsg, k.Delete):
		return sm.deleteUnderCursor(), nil

	case keyMatches(keyMsg, k.Shuffle):
		if sm.cursor < len(sm.sets) {
			s := sm.sets[sm.cursor]
			sm.renameID = s.ID
			sm.titleInput.SetValue(s.Title)
			sm.titleInput.CursorEnd()
			return sm.titleInput.Focus(), nil
		}

	case keyMatches(keyMsg, k.Edit):
		return sm.openInEditor(), nil
	}
	return nil, nil
}

func (sm *setsModel) commitAdd() tea.Cmd {
	sm.adding = false
	title := strings.TrimSpace(sm.titleInput.Value())
	if title == "" {
		return notify("The set needs a title")
	}
	s, err := sm.common.library.CreateSet(title)
	if err != nil {
		return notify("Unable to create set: " + err.Error())
	}
	sm.reload()
	return notify("Created " + s.Title)
}

func (sm *setsModel) commitRename() tea.Cmd {
	id := sm.renameID
	sm.renameID = ""
	title := strings.TrimSpace(sm.titleInput.Value())
	if title == "" {
		return notify("The set needs a title")
	}
	if err := sm.common.library.RenameSet(id, title); err != nil {
		return notify("Unable to rename set: " + err.Error())
	}
	if id == sm.common.currentSet.ID {
		sm.common.currentSet.Title = title
	}
	sm.reload()
	return notify("Renamed to " + title)
}

func (sm *setsModel) deleteUnderCursor() tea.Cmd {
	if sm.cursor >= len(sm.sets) {
		return nil
	}
	s := sm.sets[sm.cursor]
	if s.ID == sm.common.currentSet.ID {
		return notify("Cannot delete the open set")
	}
	if err := sm.common.library.DeleteSet(s.ID); err != nil {
		return notify("Unable to delete set: " + err.Error())
	}
	sm.reload()
	return notify("Deleted " + s.Title)
}

// openInEditor hands the set's JSON file to $EDITOR; the deck reloads when
// the editor exits.
func (sm *setsModel) openInEditor() tea.Cmd {
	if sm.cursor >= len(sm.sets) {
		return nil
	}
	path := sm.common.library.WordsPath(sm.sets[sm.cursor].ID)
	cmd, err := editor.Cmd("ectts", path)
	if err != nil {
		return notify("No editor available: " + err.Error())
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (sm *setsModel) view() string {
	rows := []string{titleStyle.Render("Word sets"), ""}

	for i, s := range sm.sets {
		prefix := "  "
		if i == sm.cursor {
			prefix = cursorStyle.Render("> ")
		}

		title := s.Title
		if s.ID == sm.common.currentSet.ID {
			title = selectedStyle.Render(title + " (open)")
		}

		detail := ""
		if ws, err := sm.common.library.Words(s.ID); err == nil {
			detail = fmt.Sprintf("%d words", len(ws))
		}
		if len(s.Tags) > 0 {
			detail += "  #" + strings.Join(s.Tags, " #")
		}
		if t := sm.common.library.WordsModTime(s.ID); !t.IsZero() {
			detail += "  " + humanize.Time(t)
		}

		rows = append(rows, prefix+title+"  "+dimStyle.Render(detail))
	}
	if len(sm.sets) == 0 {
		rows = append(rows, dimStyle.Render("  no sets"))
	}

	if sm.adding || sm.renameID != "" {
		rows = append(rows, "", sm.titleInput.View())
	}
	rows = append(rows, "",
		helpStyle.Render("enter open • a add • r rename • x delete • e edit json • esc back"))
	return strings.Join(rows, "\n")
}
