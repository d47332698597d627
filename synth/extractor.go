package synth

import "time"

// Extractor strips the event tag from an upstream stream, yielding the plain
// samples an audio sink consumes.
type Extractor struct {
	upstream Source
}

// NewExtractor wraps upstream.
func NewExtractor(upstream Source) *Extractor {
	return &Extractor{upstream: upstream}
}

// Next returns the next amplitude, or ok=false if upstream ended.
func (x *Extractor) Next() (float32, bool) {
	s, ok := x.upstream.Next()
	if !ok {
		return 0, false
	}
	return s.Amplitude, true
}

// Fill writes consecutive samples into buf and returns how many were
// written. It only returns less than len(buf) if upstream ended.
func (x *Extractor) Fill(buf []float32) int {
	for i := range buf {
		s, ok := x.upstream.Next()
		if !ok {
			return i
		}
		buf[i] = s.Amplitude
	}
	return len(buf)
}

func (x *Extractor) Channels() int { return x.upstream.Channels() }

func (x *Extractor) SampleRate() int { return x.upstream.SampleRate() }

func (x *Extractor) CurrentFrameLen() (int, bool) { return x.upstream.CurrentFrameLen() }

func (x *Extractor) TotalDuration() (time.Duration, bool) { return x.upstream.TotalDuration() }
