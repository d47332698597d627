// Package keyboard maps a computer keyboard onto one musical octave, in the
// usual "musical typing" layout, and tracks octave shifts.
package keyboard

import (
	"github.com/cwbudde/algo-approx"

	"github.com/cwbudde/algo-keysynth/synth"
)

const (
	KeyQuit       = 'q'
	KeyOctaveDown = '8'
	KeyOctaveUp   = '9'
	KeyRelease    = ' '

	MinOctave = -1
	MaxOctave = 8
)

// Semitone offsets from A within an octave.
const (
	NoteA = iota
	NoteASharp
	NoteB
	NoteC
	NoteCSharp
	NoteD
	NoteDSharp
	NoteE
	NoteF
	NoteFSharp
	NoteG
	NoteGSharp
)

type binding struct {
	note        int
	octaveShift int
}

// C to C across the home row, black keys on the row above.
var layout = map[rune]binding{
	'a': {NoteC, 0},
	'w': {NoteCSharp, 0},
	's': {NoteD, 0},
	'e': {NoteDSharp, 0},
	'd': {NoteE, 0},
	'f': {NoteF, 0},
	't': {NoteFSharp, 0},
	'g': {NoteG, 0},
	'y': {NoteGSharp, 0},
	'h': {NoteA, 1},
	'u': {NoteASharp, 1},
	'j': {NoteB, 1},
	'k': {NoteC, 1},
}

// NoteFrequency returns 440·2^(((octave-4)·12 + note)/12) in Hz, where note
// counts semitones up from A.
func NoteFrequency(octave int, note int) float32 {
	const a4Freq = 440.0
	exponent := float32((octave-4)*12+note) / 12.0
	return a4Freq * pow2Approx(exponent)
}

func pow2Approx(x float32) float32 {
	const ln2 = 0.69314718055994530942
	return approx.FastExp(x * ln2)
}

// Action is what a key press asks the caller to do.
type Action int

const (
	ActionNone Action = iota
	ActionNote
	ActionRelease
	ActionOctave
	ActionQuit
)

// Keyboard turns key presses into note events.
type Keyboard struct {
	octave int
}

// New returns a keyboard starting at octave, clamped to [MinOctave, MaxOctave].
func New(octave int) *Keyboard {
	return &Keyboard{octave: clampOctave(octave)}
}

// Octave returns the current base octave.
func (k *Keyboard) Octave() int { return k.octave }

// Frequency returns the frequency bound to key at the current octave.
func (k *Keyboard) Frequency(key rune) (float32, bool) {
	b, ok := layout[key]
	if !ok {
		return 0, false
	}
	return NoteFrequency(k.octave+b.octaveShift, b.note), true
}

// Handle interprets one key. For ActionNote and ActionRelease the returned
// event should be sent to the pipeline.
func (k *Keyboard) Handle(key rune) (Action, synth.NoteEvent) {
	switch key {
	case KeyQuit:
		return ActionQuit, synth.NoteEvent{}
	case KeyOctaveUp:
		k.octave = clampOctave(k.octave + 1)
		return ActionOctave, synth.NoteEvent{}
	case KeyOctaveDown:
		k.octave = clampOctave(k.octave - 1)
		return ActionOctave, synth.NoteEvent{}
	case KeyRelease:
		return ActionRelease, synth.Up()
	}
	if f, ok := k.Frequency(key); ok {
		return ActionNote, synth.Press(f)
	}
	return ActionNone, synth.NoteEvent{}
}

func clampOctave(o int) int {
	if o < MinOctave {
		return MinOctave
	}
	if o > MaxOctave {
		return MaxOctave
	}
	return o
}
