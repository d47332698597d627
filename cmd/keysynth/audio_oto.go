//go:build !headless

package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-keysynth/synth"
)

// audioSink pulls the pipeline output from oto's playback goroutine.
type audioSink struct {
	ctx       *oto.Context
	player    *oto.Player
	src       *synth.Extractor
	sampleBuf []float32 // pre-allocated; grown only if oto asks for more
	started   bool
	mutex     sync.Mutex // setup/control only, never taken in Read
}

func newAudioSink(src *synth.Extractor, bufferSize time.Duration) (*audioSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   src.SampleRate(),
		ChannelCount: src.Channels(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	s := &audioSink{
		ctx:       ctx,
		src:       src,
		sampleBuf: make([]float32, 4096),
	}
	s.player = ctx.NewPlayer(s)
	return s, nil
}

// Read renders len(p)/4 float32 samples. Output is clipped to [-1,1]
// because the saw's Gibbs overshoot can slightly exceed full scale.
func (s *audioSink) Read(p []byte) (int, error) {
	numSamples := len(p) / 4
	if len(s.sampleBuf) < numSamples {
		s.sampleBuf = make([]float32, numSamples)
	}
	samples := s.sampleBuf[:numSamples]
	s.src.Fill(samples)

	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return numSamples * 4, nil
}

func (s *audioSink) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.started && s.player != nil {
		s.player.Play()
		s.started = true
	}
}

func (s *audioSink) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	s.started = false
	return err
}
