package synth

import "fmt"

// oscillator is the head of a pipeline.
type oscillator interface {
	Source
	SetDecayStep(step float32)
	Frequency() float32
	DecayAmplitude() float32
}

// Pipeline is an assembled single-voice chain:
// channel -> oscillator -> envelope -> [lowpass] -> [gain] -> extractor.
//
// Sender belongs to the input context. Everything else belongs to the audio
// context and must only be pulled from one goroutine.
type Pipeline struct {
	Sender *NoteSender

	params   Params
	receiver *NoteReceiver
	osc      oscillator
	envelope *Envelope
	output   *Extractor
}

// NewPipeline builds a pipeline from params.
func NewPipeline(params *Params) (*Pipeline, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	tx, rx := NewNoteChannel()

	var osc oscillator
	switch params.Waveform {
	case WaveformNaiveSaw:
		osc = NewNaiveSaw(params.SampleRate, rx)
	case WaveformWavetable:
		osc = NewWavetable(params.SampleRate, SquareTable(params.WavetableSize), rx)
	default:
		osc = NewBandLimitedSaw(params.SampleRate, rx)
	}
	osc.SetDecayStep(params.DecayStep)

	env := NewEnvelopeWithTimes(osc, params.AttackSeconds, params.ReleaseSeconds)
	var tail Source = env
	if params.LowpassHz > 0 {
		tail = NewLowpass(tail, params.LowpassHz, params.LowpassQ)
	}
	if params.OutputGain != 1 {
		tail = NewGain(tail, params.OutputGain)
	}

	return &Pipeline{
		Sender:   tx,
		params:   *params,
		receiver: rx,
		osc:      osc,
		envelope: env,
		output:   NewExtractor(tail),
	}, nil
}

// Params returns a copy of the parameters the pipeline was built with.
func (p *Pipeline) Params() Params { return p.params }

// Output returns the sample stream to hand to an audio sink.
func (p *Pipeline) Output() *Extractor { return p.output }

// Fill renders len(buf) samples into buf without allocating.
func (p *Pipeline) Fill(buf []float32) int { return p.output.Fill(buf) }

// Process renders one block of samples.
func (p *Pipeline) Process(numFrames int) []float32 {
	out := make([]float32, numFrames)
	p.output.Fill(out)
	return out
}

// EnvelopeState returns the current envelope phase.
func (p *Pipeline) EnvelopeState() EnvelopeState { return p.envelope.State() }

// Frequency returns the oscillator's current frequency.
func (p *Pipeline) Frequency() float32 { return p.osc.Frequency() }

// Pending returns how many note events are queued but not yet applied.
func (p *Pipeline) Pending() int { return p.receiver.Len() }

// Close disconnects the note channel; later sends fail and the pipeline
// keeps rendering from its last state.
func (p *Pipeline) Close() { p.receiver.Close() }
