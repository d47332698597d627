package synth

import (
	"math"
	"testing"
)

// scriptedSource emits a constant amplitude and the tag scheduled for each
// tick, if any.
type scriptedSource struct {
	monoStream
	amplitude float32
	tags      map[int]NoteEvent
	tick      int
}

func newScriptedSource(sampleRate int, amplitude float32) *scriptedSource {
	return &scriptedSource{
		monoStream: monoStream{sampleRate: sampleRate},
		amplitude:  amplitude,
		tags:       make(map[int]NoteEvent),
	}
}

func (s *scriptedSource) at(tick int, ev NoteEvent) *scriptedSource {
	s.tags[tick] = ev
	return s
}

func (s *scriptedSource) Next() (TaggedSample, bool) {
	out := TaggedSample{Event: s.tags[s.tick], Amplitude: s.amplitude}
	s.tick++
	return out, true
}

// finiteSource ends after n samples.
type finiteSource struct {
	monoStream
	left int
}

func (f *finiteSource) Next() (TaggedSample, bool) {
	if f.left <= 0 {
		return TaggedSample{}, false
	}
	f.left--
	return TaggedSample{Amplitude: 0.5}, true
}

func pull(t *testing.T, src Source, n int) []TaggedSample {
	t.Helper()
	out := make([]TaggedSample, n)
	for i := range out {
		s, ok := src.Next()
		if !ok {
			t.Fatalf("stream ended at sample %d", i)
		}
		out[i] = s
	}
	return out
}

// referenceSaw is the float64 form of one band-limited saw sample using
// harmonics 1..maxHarmonic inclusive.
func referenceSaw(phase float64, maxHarmonic int) float64 {
	var sum float64
	for h := 1; h <= maxHarmonic; h++ {
		sum += math.Sin(phase*float64(h)) / float64(h)
	}
	return sum * 2 / math.Pi
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func assertMono(t *testing.T, info StreamInfo, sampleRate int) {
	t.Helper()
	if info.Channels() != 1 {
		t.Fatalf("channels mismatch: got=%d want=1", info.Channels())
	}
	if info.SampleRate() != sampleRate {
		t.Fatalf("sample rate mismatch: got=%d want=%d", info.SampleRate(), sampleRate)
	}
	if _, ok := info.CurrentFrameLen(); ok {
		t.Fatalf("expected unknown frame length")
	}
	if _, ok := info.TotalDuration(); ok {
		t.Fatalf("expected unknown total duration")
	}
}
