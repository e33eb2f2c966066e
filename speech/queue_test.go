package speech

import (
	"reflect"
	"testing"
	"time"
)

func testSettings() Settings {
	return Settings{
		WordGap:                1,
		RepeatGap:              2,
		TermToLetterGap:        3,
		LetterToTranslationGap: 4,
		Rate:                   1.5,
		RepeatCount:            3,
		SpellLetters:           true,
		SpeakTranslation:       true,
	}
}

func TestBuildQueueOrder(t *testing.T) {
	steps := BuildQueue("apple", "蘋果", testSettings(), "en-voice", "zh-voice")

	want := []Step{
		{Kind: StepSpeak, Text: "apple", Voice: "en-voice", Rate: 1.5},
		{Kind: StepDelay, Delay: 2 * time.Second},
		{Kind: StepSpeak, Text: "apple", Voice: "en-voice", Rate: 1.5},
		{Kind: StepDelay, Delay: 2 * time.Second},
		{Kind: StepSpeak, Text: "apple", Voice: "en-voice", Rate: 1.5},
		{Kind: StepDelay, Delay: 3 * time.Second},
		{Kind: StepSpeak, Text: "a,p,p,l,e", Voice: "en-voice", Rate: 1.0},
		{Kind: StepDelay, Delay: 4 * time.Second},
		{Kind: StepSpeak, Text: "蘋果", Voice: "zh-voice", Rate: 0.9},
		{Kind: StepDelay, Delay: 1 * time.Second},
	}
	if !reflect.DeepEqual(steps, want) {
		t.Errorf("queue mismatch\ngot:  %v\nwant: %v", steps, want)
	}
}

func TestBuildQueueDeterministic(t *testing.T) {
	s := testSettings()
	first := BuildQueue("word", "字", s, "a", "b")
	for i := 0; i < 10; i++ {
		if got := BuildQueue("word", "字", s, "a", "b"); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differed from first run", i)
		}
	}
}

func TestBuildQueueRepeatInvariant(t *testing.T) {
	for _, repeat := range []int{1, 2, 5} {
		s := testSettings()
		s.RepeatCount = repeat
		steps := BuildQueue("term", "譯", s, "a", "b")

		speaks, gaps := 0, 0
		for _, st := range steps {
			if st.Kind == StepSpeak && st.Text == "term" {
				speaks++
			}
			if st.Kind == StepDelay && st.Delay == 2*time.Second {
				gaps++
			}
		}
		if speaks != repeat {
			t.Errorf("repeat=%d: term spoken %d times", repeat, speaks)
		}
		if gaps != repeat-1 {
			t.Errorf("repeat=%d: %d repeat gaps, want %d", repeat, gaps, repeat-1)
		}
	}
}

func TestBuildQueueToggles(t *testing.T) {
	tests := []struct {
		name        string
		spell       bool
		translation bool
		wantTexts   []string
	}{
		{"both on", true, true, []string{"cat", "c,a,t", "貓"}},
		{"spell only", true, false, []string{"cat", "c,a,t"}},
		{"translation only", false, true, []string{"cat", "貓"}},
		{"both off", false, false, []string{"cat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings()
			s.RepeatCount = 1
			s.SpellLetters = tt.spell
			s.SpeakTranslation = tt.translation

			var texts []string
			for _, st := range BuildQueue("cat", "貓", s, "a", "b") {
				if st.Kind == StepSpeak {
					texts = append(texts, st.Text)
				}
			}
			if !reflect.DeepEqual(texts, tt.wantTexts) {
				t.Errorf("spoken texts = %v, want %v", texts, tt.wantTexts)
			}
		})
	}
}

func TestBuildQueueFixedRates(t *testing.T) {
	s := testSettings()
	s.Rate = 2.0
	for _, st := range BuildQueue("dog", "狗", s, "a", "b") {
		if st.Kind != StepSpeak {
			continue
		}
		switch st.Text {
		case "dog":
			if st.Rate != 2.0 {
				t.Errorf("term rate = %v, want user rate 2.0", st.Rate)
			}
		case "d,o,g":
			if st.Rate != 1.0 {
				t.Errorf("spell rate = %v, want 1.0", st.Rate)
			}
		case "狗":
			if st.Rate != 0.9 {
				t.Errorf("translation rate = %v, want 0.9", st.Rate)
			}
		}
	}
}

func TestBuildQueueOmitsEmptySpelling(t *testing.T) {
	s := testSettings()
	s.RepeatCount = 1
	s.SpeakTranslation = false

	// A term with no ASCII letters has nothing to spell: no spell phrase and
	// no spell gap either.
	steps := BuildQueue("中文", "chinese", s, "a", "b")
	want := []Step{
		{Kind: StepSpeak, Text: "中文", Voice: "a", Rate: 1.5},
		{Kind: StepDelay, Delay: 1 * time.Second},
	}
	if !reflect.DeepEqual(steps, want) {
		t.Errorf("queue = %v, want %v", steps, want)
	}
}

func TestBuildQueueEndsWithWordGap(t *testing.T) {
	steps := BuildQueue("x", "y", testSettings(), "a", "b")
	last := steps[len(steps)-1]
	if last.Kind != StepDelay || last.Delay != time.Second {
		t.Errorf("last step = %v, want word gap delay", last)
	}
}

func TestSpellOut(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"don't", "d,o,n,t"},
		{"apple", "a,p,p,l,e"},
		{"Mr. Smith", "M,r,S,m,i,t,h"},
		{"well-known", "w,e,l,l,k,n,o,w,n"},
		{"a", "a"},
		{"中文", ""},
		{"123", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SpellOut(tt.in); got != tt.want {
			t.Errorf("SpellOut(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
