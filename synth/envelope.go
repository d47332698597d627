package synth

import "time"

// EnvelopeState is the phase of the attack/hold/release gain.
type EnvelopeState uint8

const (
	EnvelopeFlat EnvelopeState = iota
	EnvelopeAttack
	EnvelopeHold
	EnvelopeRelease
)

func (s EnvelopeState) String() string {
	switch s {
	case EnvelopeFlat:
		return "flat"
	case EnvelopeAttack:
		return "attack"
	case EnvelopeHold:
		return "hold"
	case EnvelopeRelease:
		return "release"
	default:
		return "unknown"
	}
}

// Envelope shapes the amplitude of an upstream tagged stream with a linear
// attack/hold/release gain driven by the sample tags.
//
// Press restarts the attack from zero, Up enters release from any state.
// The multiplier is 0 in Flat and 1 in Hold.
type Envelope struct {
	upstream    Source
	multiplier  float32
	state       EnvelopeState
	attackRate  float32
	releaseRate float32
}

// NewEnvelope wraps upstream with a one second attack and one second release.
func NewEnvelope(upstream Source) *Envelope {
	return NewEnvelopeWithTimes(upstream, 1, 1)
}

// NewEnvelopeWithTimes wraps upstream with ramps lasting the given number of
// seconds at the upstream sample rate. Non-positive times give an instant
// ramp.
func NewEnvelopeWithTimes(upstream Source, attackSeconds, releaseSeconds float32) *Envelope {
	sr := float32(upstream.SampleRate())
	return &Envelope{
		upstream:    upstream,
		state:       EnvelopeFlat,
		attackRate:  rampRate(attackSeconds, sr),
		releaseRate: -rampRate(releaseSeconds, sr),
	}
}

func rampRate(seconds, sampleRate float32) float32 {
	if seconds <= 0 || sampleRate <= 0 {
		return 1
	}
	return 1 / (seconds * sampleRate)
}

// State returns the current envelope phase.
func (e *Envelope) State() EnvelopeState { return e.state }

// Multiplier returns the current gain in [0,1].
func (e *Envelope) Multiplier() float32 { return e.multiplier }

// Next pulls one upstream sample and applies the gain. The tag is passed
// through unchanged.
func (e *Envelope) Next() (TaggedSample, bool) {
	s, ok := e.upstream.Next()
	if !ok {
		return s, false
	}

	switch s.Event.Kind {
	case EventPress:
		e.multiplier = 0
		e.state = EnvelopeAttack
	case EventUp:
		e.state = EnvelopeRelease
	}

	switch e.state {
	case EnvelopeFlat:
		s.Amplitude = 0
	case EnvelopeAttack:
		e.multiplier += e.attackRate
		if e.multiplier >= 1 {
			e.multiplier = 1
			e.state = EnvelopeHold
		}
		s.Amplitude *= e.multiplier
	case EnvelopeHold:
		// unity gain
	case EnvelopeRelease:
		e.multiplier += e.releaseRate
		if e.multiplier <= 0 {
			e.multiplier = 0
			e.state = EnvelopeFlat
		}
		s.Amplitude *= e.multiplier
	}
	return s, true
}

func (e *Envelope) Channels() int { return e.upstream.Channels() }

func (e *Envelope) SampleRate() int { return e.upstream.SampleRate() }

func (e *Envelope) CurrentFrameLen() (int, bool) { return e.upstream.CurrentFrameLen() }

func (e *Envelope) TotalDuration() (time.Duration, bool) { return e.upstream.TotalDuration() }
