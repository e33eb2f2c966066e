package speech

// BuildUtterance constructs the immutable utterance description for text at
// the given rate and voice. It returns nil when no voices are known yet;
// callers treat nil as "cannot speak now, skip this step" rather than an
// error. An unknown voice name falls back to the first available voice so a
// stale choice never blocks playback.
func BuildUtterance(voices []Voice, text string, rate float64, voice string) *UtteranceSpec {
	if len(voices) == 0 {
		return nil
	}
	if !hasVoice(voices, voice) {
		voice = voices[0].Name
	}
	return &UtteranceSpec{
		Text:  text,
		Voice: voice,
		Rate:  rate,
	}
}
