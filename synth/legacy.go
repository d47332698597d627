package synth

import "math"

// NaiveSaw is a trivial (aliasing) sawtooth: a ramp from -1 to 1 per period.
// It reacts to note events exactly like BandLimitedSaw.
type NaiveSaw struct {
	monoStream
	noteInput
	phase float32
}

// NewNaiveSaw creates a naive sawtooth oscillator that owns rx.
func NewNaiveSaw(sampleRate int, rx *NoteReceiver) *NaiveSaw {
	return &NaiveSaw{
		monoStream: monoStream{sampleRate: sampleRate},
		noteInput:  newNoteInput(rx),
	}
}

// Next renders one sample.
func (o *NaiveSaw) Next() (TaggedSample, bool) {
	tag := o.poll()

	o.phase += o.frequency / float32(o.sampleRate)
	if !isFinite(o.phase) {
		o.phase = 0
	}
	if o.phase > 1024 || o.phase < -1024 {
		o.phase = float32(math.Mod(float64(o.phase), 1))
	}
	for o.phase > 1 {
		o.phase--
	}
	for o.phase < 0 {
		o.phase++
	}

	o.fade()
	return TaggedSample{Event: tag, Amplitude: (o.phase*2 - 1) * o.decay}, true
}

// Wavetable plays a single-cycle table with linear interpolation.
type Wavetable struct {
	monoStream
	noteInput
	table     []float32
	index     float32
	increment float32
}

// NewWavetable creates a table oscillator that owns rx. The table is used as
// given and must not be modified afterwards; an empty table is replaced by a
// single zero sample.
func NewWavetable(sampleRate int, table []float32, rx *NoteReceiver) *Wavetable {
	if len(table) == 0 {
		table = []float32{0}
	}
	return &Wavetable{
		monoStream: monoStream{sampleRate: sampleRate},
		noteInput:  newNoteInput(rx),
		table:      table,
	}
}

// SquareTable builds an n-entry square wave: +1 for the first half, -1 for
// the second.
func SquareTable(n int) []float32 {
	table := make([]float32, n)
	for i := range table {
		v := 2*(2*math.Floor(float64(i)/float64(n))-math.Floor(2*float64(i)/float64(n))) + 1
		table[i] = float32(v)
	}
	return table
}

// Next renders one sample. The passive fade is applied after the lookup.
func (o *Wavetable) Next() (TaggedSample, bool) {
	tag := o.poll()
	if tag.Kind == EventPress {
		o.increment = o.frequency * float32(len(o.table)) / float32(o.sampleRate)
	}

	sample := o.lerp() * o.decay

	size := float32(len(o.table))
	o.index = float32(math.Mod(float64(o.index+o.increment), float64(size)))
	if o.index < 0 {
		o.index += size
	}
	if !isFinite(o.index) || o.index >= size {
		o.index = 0
	}

	o.fade()
	return TaggedSample{Event: tag, Amplitude: sample}, true
}

func (o *Wavetable) lerp() float32 {
	i0 := int(o.index)
	i1 := (i0 + 1) % len(o.table)
	frac := o.index - float32(i0)
	return (1-frac)*o.table[i0] + frac*o.table[i1]
}
