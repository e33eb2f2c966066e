package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jx06T/ectts3/speech"
)

type settingsField int

const (
	fieldRate settingsField = iota
	fieldRepeat
	fieldWordGap
	fieldRepeatGap
	fieldTermToLetterGap
	fieldLetterToTranslationGap
	fieldSpellLetters
	fieldSpeakTranslation
	fieldSourceVoice
	fieldTargetVoice
	fieldCount
)

func (f settingsField) label() string {
	switch f {
	case fieldRate:
		return "Speech rate"
	case fieldRepeat:
		return "Repeats per word"
	case fieldWordGap:
		return "Gap between words (s)"
	case fieldRepeatGap:
		return "Gap between repeats (s)"
	case fieldTermToLetterGap:
		return "Gap before spelling (s)"
	case fieldLetterToTranslationGap:
		return "Gap before translation (s)"
	case fieldSpellLetters:
		return "Spell out letters"
	case fieldSpeakTranslation:
		return "Speak translation"
	case fieldSourceVoice:
		return "English voice"
	case fieldTargetVoice:
		return "Chinese voice"
	}
	return ""
}

// settingsModel is the playback settings pane.
type settingsModel struct {
	common *commonModel

	cursor  settingsField
	editing bool
	input   textinput.Model
	voices  []speech.Voice
}

func newSettingsModel(common *commonModel) settingsModel {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 8
	return settingsModel{
		common: common,
		input:  in,
		voices: common.voices.Voices(),
	}
}

func (s *settingsModel) refreshVoices() {
	s.voices = s.common.voices.Voices()
}

func (s *settingsModel) capturingInput() bool {
	return s.editing
}

func (s *settingsModel) update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if s.editing {
		switch keyMsg.String() {
		case "esc":
			s.editing = false
			return nil
		case "enter":
			return s.commit()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(keyMsg)
		return cmd
	}

	k := s.common.keys
	switch {
	case keyMatches(keyMsg, k.Up):
		if s.cursor > 0 {
			s.cursor--
		}

	case keyMatches(keyMsg, k.Down):
		if s.cursor < fieldCount-1 {
			s.cursor++
		}

	case keyMatches(keyMsg, k.PlayHere):
		return s.activate()

	case keyMsg.String() == "left":
		return s.adjust(-1)

	case keyMsg.String() == "right":
		return s.adjust(1)
	}
	return nil
}

// activate opens the field under the cursor: toggles flip, voices cycle, and
// numbers open a text editor.
func (s *settingsModel) activate() tea.Cmd {
	switch s.cursor {
	case fieldSpellLetters, fieldSpeakTranslation, fieldSourceVoice, fieldTargetVoice:
		return s.adjust(1)
	}

	s.editing = true
	s.input.SetValue(s.valueOf(s.cursor))
	s.input.CursorEnd()
	return s.input.Focus()
}

// adjust handles left/right on cycling fields.
func (s *settingsModel) adjust(delta int) tea.Cmd {
	set := s.common.settings.Current()
	switch s.cursor {
	case fieldRate:
		set.Rate += 0.1 * float64(delta)
	case fieldRepeat:
		set.RepeatCount += delta
	case fieldWordGap:
		set.WordGap += 0.5 * float64(delta)
	case fieldRepeatGap:
		set.RepeatGap += 0.5 * float64(delta)
	case fieldTermToLetterGap:
		set.TermToLetterGap += 0.5 * float64(delta)
	case fieldLetterToTranslationGap:
		set.LetterToTranslationGap += 0.5 * float64(delta)
	case fieldSpellLetters:
		set.SpellLetters = !set.SpellLetters
	case fieldSpeakTranslation:
		set.SpeakTranslation = !set.SpeakTranslation
	case fieldSourceVoice:
		return s.cycleVoice(speech.LangSource, delta)
	case fieldTargetVoice:
		return s.cycleVoice(speech.LangTarget, delta)
	}
	s.common.settings.Update(set)
	return nil
}

func (s *settingsModel) cycleVoice(lang speech.Language, delta int) tea.Cmd {
	if len(s.voices) == 0 {
		return notify("No voices available yet")
	}
	chosen := s.common.voices.ChosenVoice(lang)
	pos := 0
	for i, v := range s.voices {
		if v.Name == chosen {
			pos = i
			break
		}
	}
	n := len(s.voices)
	next := s.voices[((pos+delta)%n+n)%n].Name
	if !s.common.voices.SetChosenVoice(lang, next) {
		return notify("Voice is no longer available")
	}
	return notify("Voice set to " + next)
}

func (s *settingsModel) commit() tea.Cmd {
	s.editing = false
	raw := strings.TrimSpace(s.input.Value())
	set := s.common.settings.Current()

	if s.cursor == fieldRepeat {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return notify("Not a whole number: " + raw)
		}
		set.RepeatCount = n
		s.common.settings.Update(set)
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return notify("Not a number: " + raw)
	}
	switch s.cursor {
	case fieldRate:
		set.Rate = f
	case fieldWordGap:
		set.WordGap = f
	case fieldRepeatGap:
		set.RepeatGap = f
	case fieldTermToLetterGap:
		set.TermToLetterGap = f
	case fieldLetterToTranslationGap:
		set.LetterToTranslationGap = f
	}
	s.common.settings.Update(set)
	return nil
}

func (s *settingsModel) valueOf(f settingsField) string {
	set := s.common.settings.Current()
	switch f {
	case fieldRate:
		return trimFloat(set.Rate)
	case fieldRepeat:
		return strconv.Itoa(set.RepeatCount)
	case fieldWordGap:
		return trimFloat(set.WordGap)
	case fieldRepeatGap:
		return trimFloat(set.RepeatGap)
	case fieldTermToLetterGap:
		return trimFloat(set.TermToLetterGap)
	case fieldLetterToTranslationGap:
		return trimFloat(set.LetterToTranslationGap)
	case fieldSpellLetters:
		return onOff(set.SpellLetters)
	case fieldSpeakTranslation:
		return onOff(set.SpeakTranslation)
	case fieldSourceVoice:
		return s.common.voices.ChosenVoice(speech.LangSource)
	case fieldTargetVoice:
		return s.common.voices.ChosenVoice(speech.LangTarget)
	}
	return ""
}

func (s *settingsModel) view() string {
	rows := []string{titleStyle.Render("Playback settings"), ""}

	for f := settingsField(0); f < fieldCount; f++ {
		prefix := "  "
		if f == s.cursor {
			prefix = cursorStyle.Render("> ")
		}

		value := s.fieldValue(f)
		if f == s.cursor && s.editing {
			value = s.input.View()
		}
		rows = append(rows, fmt.Sprintf("%s%-28s %s", prefix, f.label(), value))
	}

	rows = append(rows, "",
		helpStyle.Render("enter edit/toggle • ←/→ adjust • esc back"))
	return strings.Join(rows, "\n")
}

func (s *settingsModel) fieldValue(f settingsField) string {
	v := s.valueOf(f)
	if v == "" {
		v = dimStyle.Render("(none)")
	}
	return v
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func onOff(b bool) string {
	if b {
		return selectedStyle.Render("on")
	}
	return dimStyle.Render("off")
}
