// Package ui provides the terminal interface for ectts.
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/jx06T/ectts3/internal/storage"
	"github.com/jx06T/ectts3/speech"
	"github.com/jx06T/ectts3/speech/engines"
	"github.com/jx06T/ectts3/words"
)

const noticeTimeout = 3 * time.Second

// NewProgram wires the playback engine, storage, and model together and
// returns a ready-to-run Tea program.
func NewProgram(cfg Config) (*tea.Program, error) {
	dir := cfg.DataDir
	if dir == "" {
		var err error
		dir, err = storage.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	store, err := storage.Open(dir)
	if err != nil {
		return nil, err
	}
	log.Debug("starting ectts", "data_dir", dir)

	var synth speech.Synthesizer
	if cfg.Silent {
		synth = engines.NewSilent()
	} else {
		synth = engines.Detect()
	}

	library := words.NewLibrary(store)
	deck := words.NewDeck(nil)
	voices := speech.NewDirectory(synth, store, speech.DefaultDirectoryConfig())
	settings := speech.NewSettingsStore(store)
	controller := speech.NewController(speech.NewSequencer(synth), voices, settings, deck)
	deck.OnChange(controller.Refresh)

	common := &commonModel{
		cfg:        cfg,
		store:      store,
		library:    library,
		deck:       deck,
		controller: controller,
		settings:   settings,
		voices:     voices,
		keys:       defaultKeyMap(),
	}

	m, err := newModel(common)
	if err != nil {
		return nil, err
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	// Playback events arrive from the controller's goroutines; forward them
	// into the Tea loop.
	controller.OnStateChange(func(s speech.ControllerState) { p.Send(playStateMsg(s)) })
	controller.OnWordChange(func(i int) { p.Send(wordChangedMsg(i)) })
	controller.OnNotice(func(n string) { p.Send(noticeMsg(n)) })
	voices.OnChange(func() { p.Send(voicesChangedMsg{}) })

	return p, nil
}

// Common stuff every pane needs.
type commonModel struct {
	cfg        Config
	store      *storage.Store
	library    *words.Library
	deck       *words.Deck
	controller *speech.Controller
	settings   *speech.SettingsStore
	voices     *speech.Directory
	keys       keyMap

	width  int
	height int

	appState   words.AppState
	currentSet words.Set
	playState  speech.ControllerState
	playIndex  int
}

// persistWords saves the deck back to the current set's record.
func (c *commonModel) persistWords() {
	if err := c.library.SaveWords(c.currentSet.ID, c.deck.Words()); err != nil {
		log.Error("unable to save words", "set", c.currentSet.ID, "error", err)
	}
}

// persistState saves the view state record.
func (c *commonModel) persistState() {
	c.library.SaveState(c.appState)
}

// view is the top-level pane the application is showing.
type view int

const (
	viewList view = iota
	viewCards
	viewSettings
	viewSets
)

type model struct {
	common   *commonModel
	view     view
	fatalErr error

	// Panes
	list     listModel
	cards    cardModel
	settings settingsModel
	sets     setsModel

	notice    string
	showHelp  bool
	watchStop chan struct{}
	watchCh   <-chan string
}

func newModel(common *commonModel) (*model, error) {
	sets, err := common.library.Sets()
	if err != nil {
		return nil, err
	}

	current := sets[0]
	if common.cfg.SetID != "" {
		for _, s := range sets {
			if s.ID == common.cfg.SetID {
				current = s
				break
			}
		}
	}

	ws, err := common.library.Words(current.ID)
	if err != nil {
		return nil, err
	}

	common.currentSet = current
	common.appState = common.library.State()
	common.deck.Replace(ws)
	common.deck.SetOnlyUnDone(common.appState.OnlyPlayUnDone)
	if common.appState.Shuffle {
		common.deck.Shuffle()
	}

	m := &model{
		common:   common,
		view:     viewList,
		list:     newListModel(common),
		cards:    newCardModel(common),
		settings: newSettingsModel(common),
		sets:     newSetsModel(common, sets),
	}
	return m, nil
}

func (m *model) Init() tea.Cmd {
	m.watchStop = make(chan struct{})
	ch, err := m.common.store.Watch(m.watchStop)
	if err != nil {
		log.Warn("storage watch unavailable", "error", err)
		return nil
	}
	m.watchCh = ch
	return m.waitForStorage()
}

// waitForStorage blocks on the next on-disk change.
func (m *model) waitForStorage() tea.Cmd {
	return func() tea.Msg {
		key, ok := <-m.watchCh
		if !ok {
			return nil
		}
		return storageChangedMsg(key)
	}
}

func noticeAfter() tea.Cmd {
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
		return noticeTimeoutMsg{}
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height

	case playStateMsg:
		m.common.playState = speech.ControllerState(msg)

	case wordChangedMsg:
		m.common.playIndex = int(msg)
		m.list.followPlayback(int(msg))
		m.cards.followPlayback(int(msg))

	case noticeMsg:
		m.notice = string(msg)
		cmds = append(cmds, noticeAfter())

	case noticeTimeoutMsg:
		m.notice = ""

	case voicesChangedMsg:
		m.settings.refreshVoices()

	case storageChangedMsg:
		cmds = append(cmds, m.reloadFromDisk(string(msg)), m.waitForStorage())

	case editorFinishedMsg:
		if msg.err != nil {
			m.notice = "Editor failed: " + msg.err.Error()
			cmds = append(cmds, noticeAfter())
		} else {
			cmds = append(cmds, m.reloadFromDisk("set-"+m.common.currentSet.ID))
		}

	case errMsg:
		m.fatalErr = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	// Forward everything else to the active pane.
	var cmd tea.Cmd
	switch m.view {
	case viewList:
		cmd = m.list.update(msg)
	case viewCards:
		cmd = m.cards.update(msg)
	case viewSettings:
		cmd = m.settings.update(msg)
	case viewSets:
		var opened *words.Set
		cmd, opened = m.sets.update(msg)
		if opened != nil {
			m.openSet(*opened)
			m.view = viewList
		}
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleGlobalKey handles keys that work in every pane. Returns handled=false
// while a pane is capturing text input.
func (m *model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.capturingInput() {
		return nil, false
	}
	k := m.common.keys

	switch {
	case keyMatches(msg, k.Quit):
		m.common.controller.Stop()
		m.common.persistState()
		if m.watchStop != nil {
			close(m.watchStop)
		}
		return tea.Quit, true

	case keyMatches(msg, k.TogglePlay):
		m.common.controller.Toggle() //nolint:errcheck
		return nil, true

	case keyMatches(msg, k.Next):
		if m.view == viewList || m.view == viewCards {
			m.common.controller.Next()
			return nil, true
		}

	case keyMatches(msg, k.Prev):
		if m.view == viewList || m.view == viewCards {
			m.common.controller.Prev()
			return nil, true
		}

	case keyMatches(msg, k.Cards):
		if m.view != viewCards {
			m.view = viewCards
			return nil, true
		}

	case keyMatches(msg, k.Settings):
		if m.view != viewSettings {
			m.view = viewSettings
			return nil, true
		}

	case keyMatches(msg, k.Sets):
		if m.view != viewSets {
			m.sets.reload()
			m.view = viewSets
			return nil, true
		}

	case keyMatches(msg, k.Back):
		if m.view != viewList {
			m.view = viewList
			return nil, true
		}

	case keyMatches(msg, k.Help):
		m.showHelp = !m.showHelp
		return nil, true
	}
	return nil, false
}

// capturingInput reports whether the active pane owns the keyboard.
func (m *model) capturingInput() bool {
	switch m.view {
	case viewList:
		return m.list.capturingInput()
	case viewSettings:
		return m.settings.capturingInput()
	case viewSets:
		return m.sets.capturingInput()
	}
	return false
}

// openSet switches the deck to another set.
func (m *model) openSet(s words.Set) {
	ws, err := m.common.library.Words(s.ID)
	if err != nil {
		log.Error("unable to open set", "set", s.ID, "error", err)
		return
	}
	m.common.controller.Stop()
	m.common.currentSet = s
	m.common.deck.Replace(ws)
	if m.common.appState.Shuffle {
		m.common.deck.Shuffle()
	}
	m.list.reset()
	log.Debug("opened set", "set", s.ID, "words", len(ws))
}

// reloadFromDisk refreshes in-memory state after an external change to key.
func (m *model) reloadFromDisk(key string) tea.Cmd {
	switch key {
	case "all-set":
		m.sets.reload()
	case "set-" + m.common.currentSet.ID:
		ws, err := m.common.library.Words(m.common.currentSet.ID)
		if err != nil {
			log.Warn("unable to reload set", "set", m.common.currentSet.ID, "error", err)
			return nil
		}
		m.common.deck.Replace(ws)
	}
	return nil
}

func (m *model) View() string {
	if m.fatalErr != nil {
		return fmt.Sprintf("\n  error: %v\n", m.fatalErr)
	}

	var body string
	switch m.view {
	case viewList:
		body = m.list.view()
	case viewCards:
		body = m.cards.view()
	case viewSettings:
		body = m.settings.view()
	case viewSets:
		body = m.sets.view()
	}

	sections := []string{m.statusBar(), body}
	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	if m.showHelp {
		sections = append(sections, m.helpView())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *model) statusBar() string {
	c := m.common
	playable := len(c.deck.PlayableIndices())
	icon := statusIcon(c.playState == speech.StatePlaying, c.playState == speech.StatePaused)
	counter := dimStyle.Render(fmt.Sprintf("%d/%d playable", c.playIndex+1, playable))
	title := titleStyle.Render("ectts") + " " + c.currentSet.Title
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", icon, " ", counter)
}

func (m *model) helpView() string {
	k := m.common.keys
	rows := []string{
		helpLine(k.TogglePlay, k.Next, k.Prev, k.PlayHere),
		helpLine(k.Select, k.Done, k.Add, k.Edit, k.Delete),
		helpLine(k.Filter, k.Shuffle, k.OnlyUnDone, k.Export, k.Import),
		helpLine(k.Cards, k.Settings, k.Sets, k.Back, k.Quit),
	}
	return helpStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
