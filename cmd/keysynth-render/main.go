package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-keysynth/analysis"
	"github.com/cwbudde/algo-keysynth/internal/wavio"
	"github.com/cwbudde/algo-keysynth/keyboard"
	"github.com/cwbudde/algo-keysynth/preset"
	"github.com/cwbudde/algo-keysynth/synth"
)

func main() {
	// Command-line flags
	presetPath := flag.String("preset", "", "Preset file (.json, .yaml or .yml); defaults when empty")
	key := flag.String("key", "", "Keyboard key to play (a w s e d f t g y h u j k); overrides -freq")
	octave := flag.Int("octave", -99, "Keyboard octave for -key (default from preset)")
	freq := flag.Float64("freq", 440, "Note frequency in Hz")
	hold := flag.Float64("hold", 1.5, "Seconds between Press and Up")
	duration := flag.Float64("duration", 3.0, "Total render length in seconds")
	sampleRate := flag.Int("sample-rate", 0, "Render sample rate in Hz (default from preset)")
	waveform := flag.String("waveform", "", "Oscillator: saw-bl, saw or wavetable (default from preset)")
	outRate := flag.Int("out-rate", 0, "Resample the WAV to this rate (0 keeps the render rate)")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	params := synth.NewDefaultParams()
	if *presetPath != "" {
		p, err := preset.Load(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
		params = p
	}
	if *sampleRate > 0 {
		params.SampleRate = *sampleRate
	}
	if *waveform != "" {
		params.Waveform = synth.Waveform(*waveform)
	}
	if *octave != -99 {
		params.Octave = *octave
	}

	noteFreq := float32(*freq)
	if *key != "" {
		kb := keyboard.New(params.Octave)
		f, ok := kb.Frequency([]rune(*key)[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: key %q is not mapped to a note\n", *key)
			os.Exit(1)
		}
		noteFreq = f
	}

	p, err := synth.NewPipeline(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sr := params.SampleRate
	totalFrames := int(float64(sr) * (*duration))
	if totalFrames < 1 {
		totalFrames = 1
	}
	releaseAt := int(float64(sr) * (*hold))
	if releaseAt < 0 {
		releaseAt = 0
	}

	fmt.Printf("Rendering %.2f Hz (%s) for %.2f seconds at %d Hz, release after %.2fs...\n",
		noteFreq, params.Waveform, *duration, sr, *hold)

	if err := p.Sender.Send(synth.Press(noteFreq)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	blockSize := 128 // process in blocks
	samples := make([]float32, totalFrames)
	released := false
	for pos := 0; pos < totalFrames; pos += blockSize {
		end := pos + blockSize
		if end > totalFrames {
			end = totalFrames
		}
		if !released && pos+blockSize > releaseAt {
			// Split the block so Up lands on the exact frame.
			split := releaseAt
			if split < pos {
				split = pos
			}
			if split > end {
				split = end
			}
			p.Fill(samples[pos:split])
			if err := p.Sender.Send(synth.Up()); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			released = true
			p.Fill(samples[split:end])
			continue
		}
		p.Fill(samples[pos:end])
	}

	summary := analysis.Summarize(samples, sr, 4096)
	fmt.Printf("Peak %.4f, RMS %.4f, dominant %.1f Hz, energy above %.0f Hz %.2e, decay %.1f dB/s\n",
		summary.Peak, summary.RMS, summary.PeakHz,
		analysis.HighBandCutoff*float64(sr), summary.HighBandRatio, summary.DecayDBPerS)

	writeRate := sr
	if *outRate > 0 && *outRate != sr {
		samples, err = wavio.ResampleIfNeeded(samples, sr, *outRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resampling to %d Hz: %v\n", *outRate, err)
			os.Exit(1)
		}
		writeRate = *outRate
	}

	if err := wavio.WriteMono(*output, samples, writeRate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully wrote %s (%d frames at %d Hz)\n", *output, len(samples), writeRate)
}
