package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cwbudde/algo-keysynth/keyboard"
	"github.com/cwbudde/algo-keysynth/preset"
	"github.com/cwbudde/algo-keysynth/synth"
)

const ctrlC = 0x03

func main() {
	presetPath := flag.String("preset", "", "Preset file (.json, .yaml or .yml); defaults when empty")
	waveform := flag.String("waveform", "", "Oscillator: saw-bl, saw or wavetable (default from preset)")
	octave := flag.Int("octave", -99, "Starting octave (default from preset)")
	bufferSize := flag.Duration("buffer", 20*time.Millisecond, "Audio device buffer length")
	autoRelease := flag.Duration("auto-release", 0, "Send Up this long after the last note key (0 disables)")
	backlogWarn := flag.Int("backlog-warn", 32, "Warn when this many note events are waiting for the audio thread")
	verbose := flag.Bool("v", false, "Log every note event")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(crlfWriter{w: os.Stderr}, &slog.HandlerOptions{Level: level}))

	params := synth.NewDefaultParams()
	if *presetPath != "" {
		p, err := preset.Load(*presetPath)
		if err != nil {
			logger.Error("failed to load preset", slog.String("path", *presetPath), slog.String("error", err.Error()))
			os.Exit(1)
		}
		params = p
	}
	if *waveform != "" {
		params.Waveform = synth.Waveform(*waveform)
	}
	if *octave != -99 {
		params.Octave = *octave
	}

	if err := run(params, *bufferSize, *autoRelease, *backlogWarn, logger); err != nil {
		logger.Error("keysynth exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(params *synth.Params, bufferSize, autoRelease time.Duration, backlogWarn int, logger *slog.Logger) error {
	p, err := synth.NewPipeline(params)
	if err != nil {
		return err
	}
	defer p.Close()

	sink, err := newAudioSink(p.Output(), bufferSize)
	if err != nil {
		return err
	}
	defer sink.Close()
	sink.Start()

	tty, err := openRawTerminal()
	if err != nil {
		return err
	}
	defer tty.Restore()

	kb := keyboard.New(params.Octave)
	logger.Info("keysynth ready",
		slog.Int("sample_rate", params.SampleRate),
		slog.String("waveform", string(params.Waveform)),
		slog.Int("octave", kb.Octave()))
	fmt.Fprint(crlfWriter{w: os.Stdout}, "keys: a w s e d f t g y h u j k | space: release | 8/9: octave | q: quit\n")

	var releaseTimer *time.Timer
	var releaseC <-chan time.Time
	send := func(ev synth.NoteEvent) {
		if err := p.Sender.Send(ev); err != nil {
			logger.Warn("note dropped", slog.String("event", ev.String()), slog.String("error", err.Error()))
			return
		}
		logger.Debug("note", slog.String("event", ev.String()), slog.Int("pending", p.Sender.Len()))
		if backlogWarn > 0 && p.Sender.Len() >= backlogWarn {
			logger.Warn("note backlog growing", slog.Int("pending", p.Sender.Len()))
		}
	}

	for {
		select {
		case key, ok := <-tty.Keys():
			if !ok {
				return nil
			}
			if key == ctrlC {
				return nil
			}
			action, ev := kb.Handle(key)
			switch action {
			case keyboard.ActionQuit:
				return nil
			case keyboard.ActionOctave:
				logger.Info("octave", slog.Int("octave", kb.Octave()))
			case keyboard.ActionRelease:
				send(ev)
			case keyboard.ActionNote:
				send(ev)
				if autoRelease > 0 {
					if releaseTimer == nil {
						releaseTimer = time.NewTimer(autoRelease)
						releaseC = releaseTimer.C
					} else {
						releaseTimer.Reset(autoRelease)
					}
				}
			}
		case <-releaseC:
			send(synth.Up())
		}
	}
}
