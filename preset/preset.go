package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-keysynth/synth"
)

// File is the on-disk schema for synth presets. Nil fields keep the default.
type File struct {
	SampleRate     *int     `json:"sample_rate" yaml:"sample_rate"`
	Waveform       string   `json:"waveform" yaml:"waveform"`
	AttackSeconds  *float32 `json:"attack_seconds" yaml:"attack_seconds"`
	ReleaseSeconds *float32 `json:"release_seconds" yaml:"release_seconds"`
	DecayStep      *float32 `json:"decay_step" yaml:"decay_step"`
	WavetableSize  *int     `json:"wavetable_size" yaml:"wavetable_size"`
	LowpassHz      *float32 `json:"lowpass_hz" yaml:"lowpass_hz"`
	LowpassQ       *float32 `json:"lowpass_q" yaml:"lowpass_q"`
	OutputGain     *float32 `json:"output_gain" yaml:"output_gain"`
	Octave         *int     `json:"octave" yaml:"octave"`
}

// Load reads a preset file, choosing the decoder by extension (.json,
// .yaml or .yml), and applies it on top of default params.
func Load(path string) (*synth.Params, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".json":
		return LoadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported preset extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// LoadJSON loads a preset JSON file and applies it on top of default params.
func LoadJSON(path string) (*synth.Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fromFile(&f)
}

// LoadYAML loads a preset YAML file and applies it on top of default params.
func LoadYAML(path string) (*synth.Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fromFile(&f)
}

func fromFile(f *File) (*synth.Params, error) {
	p := synth.NewDefaultParams()
	if err := ApplyFile(p, f); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing params object.
func ApplyFile(dst *synth.Params, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.SampleRate != nil {
		if *f.SampleRate <= 0 {
			return fmt.Errorf("sample_rate must be > 0")
		}
		dst.SampleRate = *f.SampleRate
	}
	if w := strings.TrimSpace(f.Waveform); w != "" {
		switch synth.Waveform(w) {
		case synth.WaveformBandLimitedSaw, synth.WaveformNaiveSaw, synth.WaveformWavetable:
			dst.Waveform = synth.Waveform(w)
		default:
			return fmt.Errorf("unknown waveform %q", w)
		}
	}
	if f.AttackSeconds != nil {
		if *f.AttackSeconds < 0 {
			return fmt.Errorf("attack_seconds must be >= 0")
		}
		dst.AttackSeconds = *f.AttackSeconds
	}
	if f.ReleaseSeconds != nil {
		if *f.ReleaseSeconds < 0 {
			return fmt.Errorf("release_seconds must be >= 0")
		}
		dst.ReleaseSeconds = *f.ReleaseSeconds
	}
	if f.DecayStep != nil {
		if *f.DecayStep < 0 || *f.DecayStep > 1 {
			return fmt.Errorf("decay_step must be in [0,1]")
		}
		dst.DecayStep = *f.DecayStep
	}
	if f.WavetableSize != nil {
		if *f.WavetableSize < 2 {
			return fmt.Errorf("wavetable_size must be >= 2")
		}
		dst.WavetableSize = *f.WavetableSize
	}
	if f.LowpassHz != nil {
		if *f.LowpassHz < 0 {
			return fmt.Errorf("lowpass_hz must be >= 0")
		}
		dst.LowpassHz = *f.LowpassHz
	}
	if f.LowpassQ != nil {
		if *f.LowpassQ <= 0 {
			return fmt.Errorf("lowpass_q must be > 0")
		}
		dst.LowpassQ = *f.LowpassQ
	}
	if f.OutputGain != nil {
		if *f.OutputGain <= 0 {
			return fmt.Errorf("output_gain must be > 0")
		}
		dst.OutputGain = *f.OutputGain
	}
	if f.Octave != nil {
		dst.Octave = *f.Octave
	}
	return dst.Validate()
}
