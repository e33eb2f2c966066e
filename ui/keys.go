package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	TogglePlay key.Binding
	Next       key.Binding
	Prev       key.Binding
	PlayHere   key.Binding
	Select     key.Binding
	Done       key.Binding
	Add        key.Binding
	Delete     key.Binding
	Edit       key.Binding
	Filter     key.Binding
	Shuffle    key.Binding
	OnlyUnDone key.Binding
	Export     key.Binding
	Import     key.Binding
	Cards      key.Binding
	Settings   key.Binding
	Sets       key.Binding
	Back       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		TogglePlay: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Next:       key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next word")),
		Prev:       key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "previous word")),
		PlayHere:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play from cursor")),
		Select:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle selected")),
		Done:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "toggle done")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add word")),
		Delete:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete word")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Shuffle:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "shuffle")),
		OnlyUnDone: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "only undone")),
		Export:     key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export to clipboard")),
		Import:     key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "import from clipboard")),
		Cards:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "flashcards")),
		Settings:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "settings")),
		Sets:       key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sets")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func keyMatches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}

// helpLine renders a row of key hints.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = b.Help().Key + " " + b.Help().Desc
	}
	return strings.Join(parts, " • ")
}
