package speech

import (
	"strings"
	"time"
)

// Fixed reference rates: spelling is always read at normal speed and the
// translation slightly slowed, independent of the user's term rate.
const (
	spellRate       = 1.0
	translationRate = 0.9
)

// StepKind discriminates the playback step variants.
type StepKind int

const (
	// StepSpeak speaks a phrase through the synthesizer.
	StepSpeak StepKind = iota
	// StepDelay waits for a fixed duration.
	StepDelay
)

// Step is one entry of a playback queue: either a phrase to speak or a pause.
type Step struct {
	Kind  StepKind
	Text  string
	Voice string
	Rate  float64
	Delay time.Duration
}

// SpeakStep builds a speak step.
func SpeakStep(text, voice string, rate float64) Step {
	return Step{Kind: StepSpeak, Text: text, Voice: voice, Rate: rate}
}

// DelayStep builds a delay step from a gap in seconds.
func DelayStep(seconds float64) Step {
	return Step{Kind: StepDelay, Delay: time.Duration(seconds * float64(time.Second))}
}

// BuildQueue produces the ordered steps for one pass over a word:
//
//  1. the term, repeated RepeatCount times with RepeatGap pauses between
//     repeats (not after the last);
//  2. if SpellLetters, a TermToLetterGap pause and the term's letters
//     comma-joined, at normal rate;
//  3. if SpeakTranslation, a LetterToTranslationGap pause and the
//     translation, slightly slowed, in the target voice;
//  4. a trailing WordGap pause before the next word.
//
// Construction is deterministic: the same inputs always yield the same
// sequence.
func BuildQueue(sourceText, targetText string, s Settings, sourceVoice, targetVoice string) []Step {
	var steps []Step

	for i := 0; i < s.RepeatCount; i++ {
		steps = append(steps, SpeakStep(sourceText, sourceVoice, s.Rate))
		if i < s.RepeatCount-1 {
			steps = append(steps, DelayStep(s.RepeatGap))
		}
	}

	if s.SpellLetters {
		if letters := SpellOut(sourceText); letters != "" {
			steps = append(steps, DelayStep(s.TermToLetterGap))
			steps = append(steps, SpeakStep(letters, sourceVoice, spellRate))
		}
	}

	if s.SpeakTranslation {
		steps = append(steps, DelayStep(s.LetterToTranslationGap))
		steps = append(steps, SpeakStep(targetText, targetVoice, translationRate))
	}

	steps = append(steps, DelayStep(s.WordGap))
	return steps
}

// SpellOut strips everything but ASCII letters from text and joins the
// remaining letters with commas, preserving case: "don't" becomes "d,o,n,t".
// Returns "" when the text contains no letters to spell.
func SpellOut(text string) string {
	var letters []string
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters = append(letters, string(r))
		}
	}
	return strings.Join(letters, ",")
}
