package dsp

import (
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// Biquad implements a second-order IIR filter (no heap allocations in Process)
type Biquad struct {
	// Coefficients
	b0, b1, b2 float32
	a1, a2     float32

	// State (previous samples)
	x1, x2 float32 // input history
	y1, y2 float32 // output history
}

// NewBiquad creates a new biquad filter with the given coefficients
func NewBiquad(b0, b1, b2, a1, a2 float32) *Biquad {
	return &Biquad{
		b0: b0,
		b1: b1,
		b2: b2,
		a1: a1,
		a2: a2,
	}
}

// Process filters one sample. Denormal outputs are flushed to zero before
// they enter the feedback path.
func (b *Biquad) Process(input float32) float32 {
	// Direct Form I
	output := b.b0*input + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	output = float32(dspcore.FlushDenormals(float64(output)))

	b.x2 = b.x1
	b.x1 = input
	b.y2 = b.y1
	b.y1 = output

	return output
}

// Reset clears the filter state
func (b *Biquad) Reset() {
	b.x1, b.x2 = 0, 0
	b.y1, b.y2 = 0, 0
}

// NewLowpass creates an RBJ lowpass biquad. The cutoff is clamped just below
// Nyquist.
func NewLowpass(cutoff, sampleRate, q float32) *Biquad {
	if q <= 0 {
		q = math.Sqrt2 / 2
	}
	if limit := 0.49 * sampleRate; cutoff > limit {
		cutoff = limit
	}
	w0 := 2.0 * math.Pi * float64(cutoff) / float64(sampleRate)
	alpha := math.Sin(w0) / (2.0 * float64(q))
	cosw0 := math.Cos(w0)

	b0 := (1.0 - cosw0) / 2.0
	b1 := 1.0 - cosw0
	b2 := (1.0 - cosw0) / 2.0
	a0 := 1.0 + alpha
	a1 := -2.0 * cosw0
	a2 := 1.0 - alpha

	// Normalize by a0
	return NewBiquad(
		float32(b0/a0),
		float32(b1/a0),
		float32(b2/a0),
		float32(a1/a0),
		float32(a2/a0),
	)
}

// MagnitudeAt returns the filter's linear gain at freq Hz.
func (b *Biquad) MagnitudeAt(freq, sampleRate float32) float64 {
	w := 2 * math.Pi * float64(freq) / float64(sampleRate)
	z1 := complex(math.Cos(-w), math.Sin(-w))
	z2 := z1 * z1
	num := complex(float64(b.b0), 0) + complex(float64(b.b1), 0)*z1 + complex(float64(b.b2), 0)*z2
	den := 1 + complex(float64(b.a1), 0)*z1 + complex(float64(b.a2), 0)*z2
	return cmplxAbs(num) / cmplxAbs(den)
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
