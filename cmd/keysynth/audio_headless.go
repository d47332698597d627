//go:build headless

package main

import (
	"sync"
	"time"

	"github.com/cwbudde/algo-keysynth/synth"
)

// audioSink drives the pipeline in real time without an audio device, for
// machines with no sound stack.
type audioSink struct {
	src      *synth.Extractor
	interval time.Duration
	buf      []float32
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
	started  bool
}

func newAudioSink(src *synth.Extractor, bufferSize time.Duration) (*audioSink, error) {
	if bufferSize <= 0 {
		bufferSize = 10 * time.Millisecond
	}
	frames := int(bufferSize.Seconds() * float64(src.SampleRate()))
	if frames < 1 {
		frames = 1
	}
	return &audioSink{
		src:      src,
		interval: bufferSize,
		buf:      make([]float32, frames),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

func (s *audioSink) Start() {
	if s.started {
		return
	}
	s.started = true
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.src.Fill(s.buf)
			}
		}
	}()
}

func (s *audioSink) Close() error {
	s.once.Do(func() { close(s.stop) })
	if s.started {
		<-s.done
	}
	return nil
}
