package synth

import (
	"time"

	"github.com/cwbudde/algo-keysynth/dsp"
)

// Lowpass smooths an upstream tagged stream with a biquad lowpass. Tags
// pass through.
type Lowpass struct {
	upstream Source
	filter   *dsp.Biquad
}

// NewLowpass wraps upstream with a lowpass at cutoff Hz and resonance q.
func NewLowpass(upstream Source, cutoff, q float32) *Lowpass {
	return &Lowpass{
		upstream: upstream,
		filter:   dsp.NewLowpass(cutoff, float32(upstream.SampleRate()), q),
	}
}

func (l *Lowpass) Next() (TaggedSample, bool) {
	s, ok := l.upstream.Next()
	if !ok {
		return s, false
	}
	s.Amplitude = l.filter.Process(s.Amplitude)
	return s, true
}

func (l *Lowpass) Channels() int { return l.upstream.Channels() }

func (l *Lowpass) SampleRate() int { return l.upstream.SampleRate() }

func (l *Lowpass) CurrentFrameLen() (int, bool) { return l.upstream.CurrentFrameLen() }

func (l *Lowpass) TotalDuration() (time.Duration, bool) { return l.upstream.TotalDuration() }

// Gain scales an upstream tagged stream by a constant factor.
type Gain struct {
	upstream Source
	gain     float32
}

// NewGain wraps upstream with a fixed linear gain.
func NewGain(upstream Source, gain float32) *Gain {
	return &Gain{upstream: upstream, gain: gain}
}

func (g *Gain) Next() (TaggedSample, bool) {
	s, ok := g.upstream.Next()
	if !ok {
		return s, false
	}
	s.Amplitude *= g.gain
	return s, true
}

func (g *Gain) Channels() int { return g.upstream.Channels() }

func (g *Gain) SampleRate() int { return g.upstream.SampleRate() }

func (g *Gain) CurrentFrameLen() (int, bool) { return g.upstream.CurrentFrameLen() }

func (g *Gain) TotalDuration() (time.Duration, bool) { return g.upstream.TotalDuration() }
