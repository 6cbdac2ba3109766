// Package audio turns the running model into sound. An output-only
// portaudio stream plays a soft five-voice chord; the viewer feeds in
// energy and state samples, and a spectrum of the recent samples
// decides how the voices are weighted. Losing the audio device is
// never fatal to the viewer.
package audio

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/fft"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/simscope/internal/dynamo"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	// analysisLen state samples feed the FFT, roughly four seconds of
	// motion at 60 fps.
	analysisLen = 256
)

// chord is Gm7 add9: G2, Bb2, D3, F3, A3. Low voices follow the slow
// spectral content of the model, the top voice its fast content.
var chord = [5]float64{98.00, 116.54, 146.83, 174.61, 220.00}

// minGain keeps every voice faintly present so the pad never cuts out.
const minGain = 0.3

type Synth struct {
	log *logrus.Logger

	stream      *portaudio.Stream
	initialized bool
	active      bool

	mu     sync.Mutex
	energy float64
	gains  [len(chord)]float64

	samples []float64
	head    int
	count   int
	scratch []complex128

	// Synthesis state, audio callback only.
	time      float64
	energyEMA float64
	filter    [2]float64
	delay     [2][]float64
	delayHead int
}

func New(log *logrus.Logger) *Synth {
	delayLen := int(float64(SampleRate) * 0.6)
	s := &Synth{
		log:     log,
		samples: make([]float64, analysisLen),
		scratch: make([]complex128, analysisLen),
		delay:   [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
	for i := range s.gains {
		s.gains[i] = 1
	}
	return s
}

// Start opens the default output device. On failure the synth stays
// inactive and the viewer runs silent.
func (s *Synth) Start() error {
	if s.active {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: initialize: %w", err)
	}
	s.initialized = true

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, s.render)
	if err != nil {
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("audio: start stream: %w", err)
	}

	s.stream = stream
	s.active = true
	s.log.WithFields(logrus.Fields{"rate": SampleRate, "buffer": BufferSize}).Info("sonification started")
	return nil
}

// Stop tears the stream down. Safe to call on a synth that never
// started.
func (s *Synth) Stop() {
	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
		s.stream = nil
	}
	if s.initialized {
		portaudio.Terminate()
		s.initialized = false
	}
	s.active = false
}

func (s *Synth) Active() bool { return s.active }

// Feed hands the synth one frame of physics: the current energy and
// state. Once enough samples are buffered, each call refreshes the
// voice gains from the spectrum of the recent motion.
func (s *Synth) Feed(energy float64, x dynamo.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.energy = energy
	if len(x) == 0 {
		return
	}
	s.samples[s.head] = x[0]
	s.head = (s.head + 1) % len(s.samples)
	if s.count < len(s.samples) {
		s.count++
		return
	}
	s.refreshGains()
}

// refreshGains buckets the state spectrum into slow, medium and fast
// bands and spreads them over the chord, low voices first. Caller
// holds mu.
func (s *Synth) refreshGains() {
	n := len(s.samples)
	for i := 0; i < n; i++ {
		v := s.samples[(s.head+i)%n]
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		s.scratch[i] = complex(v*window, 0)
	}
	spectrum := fft.FFT(s.scratch)

	var slow, mid, fast float64
	for i := 1; i < n/2; i++ {
		mag := cmplx.Abs(spectrum[i])
		switch {
		case i < 5:
			slow += mag
		case i < 21:
			mid += mag
		default:
			fast += mag
		}
	}
	total := slow + mid + fast
	if total <= 0 {
		return
	}

	bands := [3]float64{slow / total, mid / total, fast / total}
	voiceBand := [len(chord)]int{0, 0, 1, 1, 2}
	for i, b := range voiceBand {
		s.gains[i] = minGain + (1-minGain)*math.Min(bands[b]*3, 1)
	}
}

// triangle is a smooth flute-like oscillator.
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one-pole low pass.
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

// render is the portaudio callback: the chord through a filter whose
// cutoff follows the model's energy, into a ping-pong delay.
func (s *Synth) render(out [][]float32) {
	s.mu.Lock()
	energy := s.energy
	gains := s.gains
	s.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	const vol = 0.25

	for i := 0; i < len(out[0]); i++ {
		s.energyEMA = s.energyEMA*0.995 + energy*0.005
		cutoff := 300.0 + 900.0*math.Min(s.energyEMA/25.0, 1.0)

		var sampleL, sampleR float64
		for j, f := range chord {
			oscL := triangle(s.time * (f * 0.999))
			oscR := triangle(s.time * (f * 1.001))

			g := gains[j] / float64(len(chord))
			lfo := math.Sin(s.time*0.2 + float64(j))

			sampleL += oscL * g * (0.7 + 0.3*lfo)
			sampleR += oscR * g * (0.7 + 0.3*lfo)
		}

		var outL, outR float64
		outL, s.filter[0] = lpf(sampleL, cutoff, dt, s.filter[0])
		outR, s.filter[1] = lpf(sampleR, cutoff, dt, s.filter[1])

		delayL := s.delay[0][s.delayHead]
		delayR := s.delay[1][s.delayHead]

		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1

		s.delay[0][s.delayHead] = mixL * 0.7
		s.delay[1][s.delayHead] = mixR * 0.7
		s.delayHead = (s.delayHead + 1) % len(s.delay[0])

		out[0][i] = float32(mixL * vol)
		out[1][i] = float32(mixR * vol)

		s.time += dt
	}
}
