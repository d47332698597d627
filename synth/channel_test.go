package synth

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func drain(rx *NoteReceiver) []NoteEvent {
	var out []NoteEvent
	for {
		ev, ok := rx.TryReceive()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func TestNoteChannelIsFIFO(t *testing.T) {
	tx, rx := NewNoteChannel()
	want := []NoteEvent{Press(261.63), Hold(), Up(), Press(440), Up()}
	for _, ev := range want {
		if err := tx.Send(ev); err != nil {
			t.Fatalf("Send(%v): %v", ev, err)
		}
	}
	if tx.Len() != len(want) {
		t.Fatalf("Len mismatch: got=%d want=%d", tx.Len(), len(want))
	}

	if diff := cmp.Diff(want, drain(rx)); diff != "" {
		t.Fatalf("received events mismatch (-want +got):\n%s", diff)
	}
	if rx.Len() != 0 {
		t.Fatalf("expected empty queue, Len=%d", rx.Len())
	}
}

func TestNoteChannelEmptyReceive(t *testing.T) {
	_, rx := NewNoteChannel()
	if ev, ok := rx.TryReceive(); ok {
		t.Fatalf("expected no event, got %v", ev)
	}
}

func TestNoteChannelReceivesOneAtATime(t *testing.T) {
	tx, rx := NewNoteChannel()
	_ = tx.Send(Press(100))
	_ = tx.Send(Press(200))

	ev, ok := rx.TryReceive()
	if !ok || ev != Press(100) {
		t.Fatalf("first receive mismatch: got=%v ok=%v", ev, ok)
	}
	if rx.Len() != 1 {
		t.Fatalf("expected one pending event, got %d", rx.Len())
	}
}

func TestNoteChannelKeepsOrderAcrossCompaction(t *testing.T) {
	tx, rx := NewNoteChannel()
	var want []NoteEvent
	var got []NoteEvent
	for round := 0; round < 50; round++ {
		for i := 0; i < 7; i++ {
			ev := Press(float32(round*7 + i))
			want = append(want, ev)
			_ = tx.Send(ev)
		}
		for i := 0; i < 5; i++ {
			ev, ok := rx.TryReceive()
			if !ok {
				t.Fatalf("unexpected empty queue in round %d", round)
			}
			got = append(got, ev)
		}
	}
	got = append(got, drain(rx)...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestNoteChannelClose(t *testing.T) {
	tx, rx := NewNoteChannel()
	_ = tx.Send(Press(440))
	rx.Close()

	if err := tx.Send(Up()); !errors.Is(err, ErrChannelClosed) {
		t.Fatalf("expected ErrChannelClosed, got %v", err)
	}
	if ev, ok := rx.TryReceive(); ok {
		t.Fatalf("closed channel delivered %v", ev)
	}
}

func TestNoteChannelConcurrentProducer(t *testing.T) {
	const n = 20000
	tx, rx := NewNoteChannel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			if err := tx.Send(Press(float32(i))); err != nil {
				t.Errorf("Send: %v", err)
				return
			}
		}
	}()

	next := 0
	for next < n {
		ev, ok := rx.TryReceive()
		if !ok {
			continue
		}
		if ev.Frequency != float32(next) {
			t.Fatalf("out of order: got=%v want=%d", ev.Frequency, next)
		}
		next++
	}
	<-done
}

func TestNoteChannelReceiveDoesNotAllocate(t *testing.T) {
	tx, rx := NewNoteChannel()
	for i := 0; i < 1000; i++ {
		_ = tx.Send(Hold())
	}
	allocs := testing.AllocsPerRun(500, func() {
		rx.TryReceive()
	})
	if allocs != 0 {
		t.Fatalf("TryReceive allocated %.1f times per call", allocs)
	}
}
