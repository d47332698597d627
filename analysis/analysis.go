package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// Summary describes a rendered mono signal.
type Summary struct {
	SampleRate int `json:"sample_rate"`
	Frames     int `json:"frames"`

	Peak float64 `json:"peak"`
	RMS  float64 `json:"rms"`

	PeakHz        float64 `json:"peak_hz"`
	HighBandRatio float64 `json:"high_band_ratio"`
	DecayDBPerS   float64 `json:"decay_db_per_s"`
}

// HighBandCutoff is the fraction of the sample rate above which spectral
// energy is counted in Summary.HighBandRatio.
const HighBandCutoff = 0.4

// Summarize measures level, dominant frequency, high-band energy and decay
// slope of x. The spectral fields stay zero if x is shorter than fftSize.
func Summarize(x []float32, sampleRate int, fftSize int) Summary {
	s := Summary{
		SampleRate: sampleRate,
		Frames:     len(x),
		Peak:       Peak(x),
		RMS:        RMS(x),
	}
	if sampleRate <= 0 {
		return s
	}

	start := loudestWindow(x, fftSize)
	if start >= 0 {
		if mags, err := Spectrum(x[start:start+fftSize], fftSize); err == nil {
			s.PeakHz = peakHz(mags, sampleRate, fftSize)
			s.HighBandRatio = energyAbove(mags, HighBandCutoff*float64(sampleRate), sampleRate, fftSize)
		}
	}

	const frame, hop = 256, 128
	env := RMSEnvelope(x, frame, hop)
	s.DecayDBPerS = DecaySlopeDBPerS(env, float64(hop)/float64(sampleRate))
	if !isFinite(s.DecayDBPerS) {
		s.DecayDBPerS = 0
	}
	return s
}

// Spectrum returns the magnitude of the Hann-windowed real FFT of the first
// fftSize samples of x, bins 0..fftSize/2.
func Spectrum(x []float32, fftSize int) ([]float64, error) {
	if fftSize < 2 || len(x) < fftSize {
		return nil, fmt.Errorf("need %d samples, have %d", fftSize, len(x))
	}
	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("fft plan: %w", err)
	}
	buf := make([]float64, fftSize)
	for i := range buf {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
		buf[i] = float64(x[i]) * w
	}
	spec := make([]complex128, fftSize/2+1)
	plan.Forward(spec, buf)

	mags := make([]float64, len(spec))
	for k, c := range spec {
		mags[k] = cmplx.Abs(c)
	}
	return mags, nil
}

// PeakFrequency returns the frequency of the strongest non-DC bin of the
// first fftSize samples of x.
func PeakFrequency(x []float32, sampleRate int, fftSize int) (float64, error) {
	mags, err := Spectrum(x, fftSize)
	if err != nil {
		return 0, err
	}
	return peakHz(mags, sampleRate, fftSize), nil
}

// EnergyAbove returns the share of spectral energy above cutoffHz in the
// first fftSize samples of x.
func EnergyAbove(x []float32, cutoffHz float64, sampleRate int, fftSize int) (float64, error) {
	mags, err := Spectrum(x, fftSize)
	if err != nil {
		return 0, err
	}
	return energyAbove(mags, cutoffHz, sampleRate, fftSize), nil
}

func peakHz(mags []float64, sampleRate int, fftSize int) float64 {
	best := 0
	bestMag := 0.0
	for k := 1; k < len(mags); k++ {
		if mags[k] > bestMag {
			bestMag = mags[k]
			best = k
		}
	}
	return float64(best) * float64(sampleRate) / float64(fftSize)
}

func energyAbove(mags []float64, cutoffHz float64, sampleRate int, fftSize int) float64 {
	binHz := float64(sampleRate) / float64(fftSize)
	var total, high float64
	for k := 1; k < len(mags); k++ {
		e := mags[k] * mags[k]
		total += e
		if float64(k)*binHz > cutoffHz {
			high += e
		}
	}
	if total <= 0 {
		return 0
	}
	return high / total
}

// loudestWindow returns the start of the fftSize window with the most
// energy, scanning at half-window hops, or -1 if x is too short.
func loudestWindow(x []float32, fftSize int) int {
	if fftSize < 2 || len(x) < fftSize {
		return -1
	}
	best, bestE := 0, -1.0
	for start := 0; start+fftSize <= len(x); start += fftSize / 2 {
		var e float64
		for _, v := range x[start : start+fftSize] {
			e += float64(v) * float64(v)
		}
		if e > bestE {
			best, bestE = start, e
		}
	}
	return best
}

// RMS returns the root mean square of x.
func RMS(x []float32) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, s := range x {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// Peak returns the largest absolute sample.
func Peak(x []float32) float64 {
	var p float64
	for _, s := range x {
		if a := math.Abs(float64(s)); a > p {
			p = a
		}
	}
	return p
}

// RMSEnvelope returns frame-RMS values at the given hop.
func RMSEnvelope(x []float32, frame int, hop int) []float64 {
	if frame <= 0 || hop <= 0 || len(x) < frame {
		return nil
	}
	n := 1 + (len(x)-frame)/hop
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * hop
		out[i] = RMS(x[start : start+frame])
	}
	return out
}

// DecaySlopeDBPerS fits a line to the envelope in dB from its peak down to
// 60 dB below it. NaN means there was not enough decay to fit.
func DecaySlopeDBPerS(env []float64, hopSec float64) float64 {
	if len(env) < 8 || hopSec <= 0 {
		return math.NaN()
	}
	peak := -math.MaxFloat64
	peakIdx := 0
	for i, v := range env {
		db := linToDB(v)
		if db > peak {
			peak = db
			peakIdx = i
		}
	}
	start := peakIdx + 1
	if start >= len(env)-4 {
		return math.NaN()
	}

	threshold := peak - 60.0
	end := len(env)
	for i := start; i < len(env); i++ {
		if linToDB(env[i]) < threshold {
			end = i
			break
		}
	}
	if end-start < 6 {
		return math.NaN()
	}

	var sx, sy, sxx, sxy float64
	n := float64(end - start)
	for i := start; i < end; i++ {
		x := float64(i-start) * hopSec
		y := linToDB(env[i])
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	den := n*sxx - sx*sx
	if math.Abs(den) < 1e-12 {
		return math.NaN()
	}
	return (n*sxy - sx*sy) / den
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
