package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jx06T/ectts3/speech"
)

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// playStateMsg reports a playback state transition.
type playStateMsg speech.ControllerState

// wordChangedMsg reports that playback moved to the word at this deck index.
type wordChangedMsg int

// noticeMsg shows a transient status message.
type noticeMsg string

// noticeTimeoutMsg clears the status message.
type noticeTimeoutMsg struct{}

// voicesChangedMsg reports that the engine's voice list or a chosen voice
// changed.
type voicesChangedMsg struct{}

// storageChangedMsg reports that the record under this key changed on disk
// outside the running process.
type storageChangedMsg string

// editorFinishedMsg reports that the external editor exited.
type editorFinishedMsg struct{ err error }

// notify returns a command that shows a transient status message.
func notify(text string) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(text)
	}
}
