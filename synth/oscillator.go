package synth

import "math"

const (
	twoPi = float32(2 * math.Pi)

	// DefaultDecayStep is the passive per-sample amplitude fade applied by
	// every oscillator underneath the envelope.
	DefaultDecayStep = float32(1e-5)
)

// noteInput is the event-draining and passive-decay state shared by the
// oscillators. Any drained event restores full amplitude; only Press moves
// the frequency.
type noteInput struct {
	rx        *NoteReceiver
	frequency float32
	decay     float32
	decayStep float32
}

func newNoteInput(rx *NoteReceiver) noteInput {
	return noteInput{rx: rx, decayStep: DefaultDecayStep}
}

// poll drains at most one event and returns it as this tick's tag.
func (n *noteInput) poll() NoteEvent {
	if n.rx == nil {
		return NoteEvent{}
	}
	ev, ok := n.rx.TryReceive()
	if !ok {
		return NoteEvent{}
	}
	n.decay = 1
	if ev.Kind == EventPress && ev.Frequency != n.frequency {
		n.frequency = ev.Frequency
	}
	return ev
}

func (n *noteInput) fade() {
	n.decay = clampf(n.decay-n.decayStep, 0, 1)
}

// SetDecayStep changes the passive fade per sample. Negative values are
// treated as zero.
func (n *noteInput) SetDecayStep(step float32) {
	n.decayStep = maxf(step, 0)
}

// Frequency returns the current oscillator frequency in Hz.
func (n *noteInput) Frequency() float32 { return n.frequency }

// DecayAmplitude returns the current passive fade level in [0,1].
func (n *noteInput) DecayAmplitude() float32 { return n.decay }

// BandLimitedSaw synthesizes a sawtooth from a sum of sine harmonics kept
// below Nyquist.
type BandLimitedSaw struct {
	monoStream
	noteInput
	phase float32
}

// NewBandLimitedSaw creates an oscillator that owns rx. It starts silent at
// 0 Hz until the first Press.
func NewBandLimitedSaw(sampleRate int, rx *NoteReceiver) *BandLimitedSaw {
	return &BandLimitedSaw{
		monoStream: monoStream{sampleRate: sampleRate},
		noteInput:  newNoteInput(rx),
	}
}

// Phase returns the oscillator phase in radians, in [0, 2π).
func (o *BandLimitedSaw) Phase() float32 { return o.phase }

// Next renders one sample. It never ends the stream.
func (o *BandLimitedSaw) Next() (TaggedSample, bool) {
	tag := o.poll()

	o.phase = wrapPhase(o.phase + twoPi*o.frequency/float32(o.sampleRate))

	// Harmonics 1..H-1; the H-th is not summed.
	harmonics := HarmonicCount(o.frequency, o.sampleRate)
	var sum float32
	for h := 1; h < harmonics; h++ {
		fh := float32(h)
		sum += float32(math.Sin(float64(o.phase*fh))) / fh
	}
	raw := sum * 2 / float32(math.Pi)

	o.fade()
	return TaggedSample{Event: tag, Amplitude: raw * o.decay}, true
}

// HarmonicCount counts how many times frequency can be doubled while staying
// below Nyquist (sampleRate/2). Non-positive or non-finite frequencies yield 0.
func HarmonicCount(frequency float32, sampleRate int) int {
	if !(frequency > 0) || !isFinite(frequency) {
		return 0
	}
	nyquist := float32(sampleRate) * 0.5
	count := 0
	for f := frequency; f < nyquist; f *= 2 {
		count++
	}
	return count
}

// wrapPhase folds p into [0, 2π), including multi-turn overshoot.
func wrapPhase(p float32) float32 {
	if !isFinite(p) {
		return 0
	}
	// Past this, float32 subtraction of 2π stops making progress.
	if p >= 1024*twoPi || p <= -1024*twoPi {
		p = float32(math.Mod(float64(p), 2*math.Pi))
	}
	for p >= twoPi {
		p -= twoPi
	}
	for p < 0 {
		p += twoPi
	}
	if p >= twoPi {
		p = 0
	}
	return p
}
