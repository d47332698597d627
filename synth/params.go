package synth

import "fmt"

// Waveform selects the oscillator at the head of the pipeline.
type Waveform string

const (
	WaveformBandLimitedSaw Waveform = "saw-bl"
	WaveformNaiveSaw       Waveform = "saw"
	WaveformWavetable      Waveform = "wavetable"
)

// Params holds all pipeline parameters.
type Params struct {
	SampleRate int
	Waveform   Waveform

	AttackSeconds  float32
	ReleaseSeconds float32

	// Passive per-sample fade applied by the oscillator under the envelope.
	DecayStep float32

	WavetableSize int

	// Optional tone stages; zero LowpassHz disables the filter and unity
	// OutputGain omits the gain stage.
	LowpassHz  float32
	LowpassQ   float32
	OutputGain float32

	// Starting octave for the keyboard layout.
	Octave int
}

// NewDefaultParams creates default parameters.
func NewDefaultParams() *Params {
	return &Params{
		SampleRate:     44100,
		Waveform:       WaveformBandLimitedSaw,
		AttackSeconds:  1.0,
		ReleaseSeconds: 1.0,
		DecayStep:      DefaultDecayStep,
		WavetableSize:  64,
		LowpassHz:      0,
		LowpassQ:       0.707,
		OutputGain:     1.0,
		Octave:         1,
	}
}

// Validate reports the first invalid field.
func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("nil params")
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be > 0, got %d", p.SampleRate)
	}
	switch p.Waveform {
	case WaveformBandLimitedSaw, WaveformNaiveSaw, WaveformWavetable:
	default:
		return fmt.Errorf("unknown waveform %q (want %s, %s or %s)", p.Waveform,
			WaveformBandLimitedSaw, WaveformNaiveSaw, WaveformWavetable)
	}
	if p.AttackSeconds < 0 {
		return fmt.Errorf("attack_seconds must be >= 0")
	}
	if p.ReleaseSeconds < 0 {
		return fmt.Errorf("release_seconds must be >= 0")
	}
	if p.DecayStep < 0 || p.DecayStep > 1 {
		return fmt.Errorf("decay_step must be in [0,1]")
	}
	if p.Waveform == WaveformWavetable && p.WavetableSize < 2 {
		return fmt.Errorf("wavetable_size must be >= 2")
	}
	if p.LowpassHz < 0 {
		return fmt.Errorf("lowpass_hz must be >= 0")
	}
	if p.LowpassHz > 0 && p.LowpassQ <= 0 {
		return fmt.Errorf("lowpass_q must be > 0")
	}
	if p.OutputGain <= 0 {
		return fmt.Errorf("output_gain must be > 0")
	}
	return nil
}
