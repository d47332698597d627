package synth

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrChannelClosed is returned by NoteSender.Send once the receiving side
// has been closed.
var ErrChannelClosed = errors.New("synth: note channel closed")

// noteQueue is an unbounded FIFO shared by one sender and one receiver.
// The producer may allocate while growing the buffer; the consumer never
// allocates and never waits on the lock.
type noteQueue struct {
	mu      sync.Mutex
	buf     []NoteEvent
	head    int
	pending atomic.Int64
	closed  atomic.Bool
}

// NoteSender is the producing end of a note channel, owned by the input
// context.
type NoteSender struct {
	q *noteQueue
}

// NoteReceiver is the consuming end of a note channel, owned by the audio
// context.
type NoteReceiver struct {
	q *noteQueue
}

// NewNoteChannel creates a connected sender/receiver pair.
func NewNoteChannel() (*NoteSender, *NoteReceiver) {
	q := &noteQueue{buf: make([]NoteEvent, 0, 64)}
	return &NoteSender{q: q}, &NoteReceiver{q: q}
}

// Send enqueues ev. It never blocks on the consumer and only fails after the
// receiver was closed.
func (s *NoteSender) Send(ev NoteEvent) error {
	q := s.q
	if q.closed.Load() {
		return ErrChannelClosed
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	// Reclaim the consumed prefix before growing.
	if q.head > 0 && q.head >= len(q.buf)/2 {
		n := copy(q.buf, q.buf[q.head:])
		q.buf = q.buf[:n]
		q.head = 0
	}
	q.buf = append(q.buf, ev)
	q.pending.Add(1)
	return nil
}

// Len reports the number of events waiting to be drained.
func (s *NoteSender) Len() int {
	return int(s.q.pending.Load())
}

// TryReceive returns the oldest pending event, or ok=false when nothing can
// be taken right now. An empty queue, a closed channel and a lock currently
// held by the producer all report ok=false; the event stays queued for the
// next call in the latter case.
func (r *NoteReceiver) TryReceive() (ev NoteEvent, ok bool) {
	q := r.q
	if q.closed.Load() || q.pending.Load() == 0 {
		return NoteEvent{}, false
	}
	if !q.mu.TryLock() {
		return NoteEvent{}, false
	}
	if q.head < len(q.buf) {
		ev = q.buf[q.head]
		q.head++
		if q.head == len(q.buf) {
			q.buf = q.buf[:0]
			q.head = 0
		}
		q.pending.Add(-1)
		ok = true
	}
	q.mu.Unlock()
	return ev, ok
}

// Len reports the number of events waiting to be drained.
func (r *NoteReceiver) Len() int {
	return int(r.q.pending.Load())
}

// Close disconnects the channel. Further sends fail with ErrChannelClosed
// and TryReceive reports no events.
func (r *NoteReceiver) Close() {
	r.q.closed.Store(true)
}
