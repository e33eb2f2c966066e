package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/jx06T/ectts3/speech"
	"github.com/jx06T/ectts3/speech/engines"
)

var (
	speakVoice string
	speakRate  float64

	speakCmd = &cobra.Command{
		Use:   "speak TEXT...",
		Short: "Speak a phrase and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			synth, err := engines.NewESpeak()
			if err != nil {
				return err
			}
			return <-synth.Speak(speech.UtteranceSpec{
				Text:  strings.Join(args, " "),
				Voice: speakVoice,
				Rate:  speakRate,
			})
		},
	}

	voicesCmd = &cobra.Command{
		Use:   "voices",
		Short: "List the synthesis voices on this machine",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			synth, err := engines.NewESpeak()
			if err != nil {
				return err
			}

			voices, err := waitForVoices(synth, 3*time.Second)
			if err != nil {
				return err
			}
			for _, v := range voices {
				fmt.Printf("%s %s\n", runewidth.FillRight(v.Name, 28), v.LanguageTag)
			}
			return nil
		},
	}
)

// waitForVoices blocks until the engine's asynchronous enumeration reports
// in, or the timeout passes.
func waitForVoices(synth speech.Synthesizer, timeout time.Duration) ([]speech.Voice, error) {
	ready := make(chan struct{}, 1)
	synth.OnVoicesChanged(func() {
		select {
		case ready <- struct{}{}:
		default:
		}
	})
	if voices := synth.Voices(); len(voices) > 0 {
		return voices, nil
	}

	select {
	case <-ready:
		return synth.Voices(), nil
	case <-time.After(timeout):
		return nil, errors.New("timed out waiting for voice enumeration")
	}
}

func init() {
	speakCmd.Flags().StringVarP(&speakVoice, "voice", "v", "", "voice name (see \"ectts voices\")")
	speakCmd.Flags().Float64VarP(&speakRate, "rate", "r", 1.0, "speech rate multiplier")
}
