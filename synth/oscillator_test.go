package synth

import (
	"math"
	"testing"
)

func TestHarmonicCount(t *testing.T) {
	cases := []struct {
		name string
		freq float32
		sr   int
		want int
	}{
		{"a4 at 44.1k", 440, 44100, 6},
		{"zero", 0, 44100, 0},
		{"negative", -440, 44100, 0},
		{"nan", float32(math.NaN()), 44100, 0},
		{"at nyquist", 22050, 44100, 0},
		{"just below nyquist", 22049, 44100, 1},
		{"low bass", 20, 44100, 11},
		{"a4 at 48k", 440, 48000, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HarmonicCount(tc.freq, tc.sr); got != tc.want {
				t.Fatalf("HarmonicCount(%v, %d) = %d, want %d", tc.freq, tc.sr, got, tc.want)
			}
		})
	}
}

func TestBandLimitedSawFirstSample(t *testing.T) {
	tx, rx := NewNoteChannel()
	osc := NewBandLimitedSaw(44100, rx)
	_ = tx.Send(Press(440))

	s, ok := osc.Next()
	if !ok {
		t.Fatalf("oscillator ended")
	}
	if s.Event != Press(440) {
		t.Fatalf("tag mismatch: got=%v want=%v", s.Event, Press(440))
	}
	if !approxEqual(float64(osc.Phase()), 0.0626894, 1e-5) {
		t.Fatalf("phase mismatch: %f", osc.Phase())
	}
	if !approxEqual(float64(osc.DecayAmplitude()), 0.99999, 1e-6) {
		t.Fatalf("decay mismatch: %f", osc.DecayAmplitude())
	}
	if !approxEqual(float64(s.Amplitude), 0.198112, 1e-4) {
		t.Fatalf("first sample mismatch: got=%f want≈0.198112", s.Amplitude)
	}
}

func TestBandLimitedSawExcludesTopHarmonic(t *testing.T) {
	tx, rx := NewNoteChannel()
	osc := NewBandLimitedSaw(44100, rx)
	osc.SetDecayStep(0)
	_ = tx.Send(Press(440))

	step := 2 * math.Pi * 440.0 / 44100.0
	for i := 1; i <= 200; i++ {
		s, _ := osc.Next()
		phase := math.Mod(float64(i)*step, 2*math.Pi)
		want := referenceSaw(phase, 5)
		if !approxEqual(float64(s.Amplitude), want, 2e-3) {
			t.Fatalf("sample %d mismatch: got=%f want=%f (with 6th harmonic: %f)",
				i, s.Amplitude, want, referenceSaw(phase, 6))
		}
	}
}

func TestBandLimitedSawTagsOnlyDrainTick(t *testing.T) {
	tx, rx := NewNoteChannel()
	osc := NewBandLimitedSaw(44100, rx)
	_ = tx.Send(Press(440))
	_ = tx.Send(Up())

	samples := pull(t, osc, 4)
	want := []NoteEvent{Press(440), Up(), {}, {}}
	for i, s := range samples {
		if s.Event != want[i] {
			t.Fatalf("tag %d mismatch: got=%v want=%v", i, s.Event, want[i])
		}
	}
}

func TestBandLimitedSawFrequencySticky(t *testing.T) {
	tx, rx := NewNoteChannel()
	osc := NewBandLimitedSaw(44100, rx)
	_ = tx.Send(Press(330))
	pull(t, osc, 1)

	for _, ev := range []NoteEvent{Hold(), Up(), Hold()} {
		_ = tx.Send(ev)
		pull(t, osc, 10)
		if osc.Frequency() != 330 {
			t.Fatalf("frequency changed after %v: %f", ev, osc.Frequency())
		}
	}

	_ = tx.Send(Press(660))
	pull(t, osc, 1)
	if osc.Frequency() != 660 {
		t.Fatalf("press did not update frequency: %f", osc.Frequency())
	}
}

func TestBandLimitedSawAnyEventRestoresDecay(t *testing.T) {
	tx, rx := NewNoteChannel()
	osc := NewBandLimitedSaw(44100, rx)
	_ = tx.Send(Press(440))
	pull(t, osc, 5000)
	if osc.DecayAmplitude() > 0.96 {
		t.Fatalf("decay did not progress: %f", osc.DecayAmplitude())
	}

	_ = tx.Send(Hold())
	pull(t, osc, 1)
	if !approxEqual(float64(osc.DecayAmplitude()), 1-1e-5, 1e-6) {
		t.Fatalf("hold did not restore decay: %f", osc.DecayAmplitude())
	}
}

func TestBandLimitedSawDecaysToSilence(t *testing.T) {
	tx, rx := NewNoteChannel()
	osc := NewBandLimitedSaw(44100, rx)
	_ = tx.Send(Press(440))

	prev := float32(1)
	for i := 0; i < 110000; i++ {
		osc.Next()
		if d := osc.DecayAmplitude(); d > prev {
			t.Fatalf("decay increased at sample %d: %f > %f", i, d, prev)
		}
		prev = osc.DecayAmplitude()
	}
	if osc.DecayAmplitude() != 0 {
		t.Fatalf("expected full decay, got %f", osc.DecayAmplitude())
	}
	s, _ := osc.Next()
	if s.Amplitude != 0 {
		t.Fatalf("expected silence after decay, got %f", s.Amplitude)
	}
}

func TestBandLimitedSawSilentBeforePress(t *testing.T) {
	_, rx := NewNoteChannel()
	osc := NewBandLimitedSaw(44100, rx)
	for i, s := range pull(t, osc, 100) {
		if s.Amplitude != 0 || s.Event.IsSet() {
			t.Fatalf("sample %d not silent: %+v", i, s)
		}
	}
}

func TestBandLimitedSawPhaseWrapsLargeSteps(t *testing.T) {
	tx, rx := NewNoteChannel()
	osc := NewBandLimitedSaw(8000, rx)
	// 5.3 turns per sample.
	_ = tx.Send(Press(42400))
	for i := 0; i < 1000; i++ {
		osc.Next()
		p := osc.Phase()
		if p < 0 || p >= twoPi {
			t.Fatalf("phase out of range at sample %d: %f", i, p)
		}
	}

	_ = tx.Send(Press(-300))
	for i := 0; i < 1000; i++ {
		osc.Next()
		p := osc.Phase()
		if p < 0 || p >= twoPi {
			t.Fatalf("phase out of range for negative frequency at sample %d: %f", i, p)
		}
	}
}

func TestBandLimitedSawToleratesNonFiniteFrequency(t *testing.T) {
	tx, rx := NewNoteChannel()
	osc := NewBandLimitedSaw(44100, rx)
	_ = tx.Send(Press(float32(math.Inf(1))))
	for i, s := range pull(t, osc, 10) {
		if math.IsNaN(float64(s.Amplitude)) || math.IsInf(float64(s.Amplitude), 0) {
			t.Fatalf("non-finite sample %d: %f", i, s.Amplitude)
		}
	}
}

func TestBandLimitedSawStreamInfo(t *testing.T) {
	_, rx := NewNoteChannel()
	assertMono(t, NewBandLimitedSaw(48000, rx), 48000)
}

func TestBandLimitedSawNextDoesNotAllocate(t *testing.T) {
	tx, rx := NewNoteChannel()
	osc := NewBandLimitedSaw(44100, rx)
	_ = tx.Send(Press(110))
	allocs := testing.AllocsPerRun(1000, func() {
		osc.Next()
	})
	if allocs != 0 {
		t.Fatalf("Next allocated %.1f times per call", allocs)
	}
}

func BenchmarkBandLimitedSawNext(b *testing.B) {
	tx, rx := NewNoteChannel()
	osc := NewBandLimitedSaw(44100, rx)
	_ = tx.Send(Press(55))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		osc.Next()
	}
}
