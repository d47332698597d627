package synth

import "time"

// StreamInfo describes a sample stream. Generators in this package are
// infinite, so frame length and total duration are always unknown.
type StreamInfo interface {
	Channels() int
	SampleRate() int
	// CurrentFrameLen returns the samples left before the stream format may
	// change, or ok=false for an open-ended stream.
	CurrentFrameLen() (n int, ok bool)
	// TotalDuration returns the stream length, or ok=false when unknown.
	TotalDuration() (d time.Duration, ok bool)
}

// Source produces tagged samples one at a time. ok=false signals the end of
// the stream, which the generators here never do.
type Source interface {
	StreamInfo
	Next() (s TaggedSample, ok bool)
}

// SampleSource produces plain mono samples for an audio sink.
type SampleSource interface {
	StreamInfo
	Next() (sample float32, ok bool)
}

// monoStream is the fixed metadata shared by all generators.
type monoStream struct {
	sampleRate int
}

func (m monoStream) Channels() int { return 1 }

func (m monoStream) SampleRate() int { return m.sampleRate }

func (m monoStream) CurrentFrameLen() (int, bool) { return 0, false }

func (m monoStream) TotalDuration() (time.Duration, bool) { return 0, false }
