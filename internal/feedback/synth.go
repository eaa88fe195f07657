package feedback

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the PCM rate fed to the playback backend.
const SampleRate = beep.SampleRate(44100)

// bytesPerFrame is one stereo s16le frame.
const bytesPerFrame = 4

type voice struct {
	freq    float64
	length  time.Duration
	attack  time.Duration
	release time.Duration
}

var voices = map[Style]voice{
	StyleHeavy: {freq: 90, length: 120 * time.Millisecond, attack: 5 * time.Millisecond, release: 80 * time.Millisecond},
	StyleLight: {freq: 220, length: 60 * time.Millisecond, attack: 3 * time.Millisecond, release: 40 * time.Millisecond},
}

// sine generates a fixed-length sine wave
type sine struct {
	freq     float64
	phase    float64
	position int
	length   int
}

func newSine(freq float64, d time.Duration) *sine {
	return &sine{freq: freq, length: SampleRate.N(d)}
}

func (o *sine) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}
		val := math.Sin(2 * math.Pi * o.phase)
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(SampleRate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *sine) Err() error { return nil }

// envelope applies a linear attack and release to a stream
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, length, attack, release time.Duration) *envelope {
	return &envelope{
		streamer: s,
		attack:   SampleRate.N(attack),
		release:  SampleRate.N(release),
		total:    SampleRate.N(length),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	releaseStart := e.total - e.release

	for i := range n {
		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= releaseStart && e.release > 0 {
			vol = max(float64(e.total-e.position)/float64(e.release), 0)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly; zero volume is silent since log2(0) is -Inf.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Synth builds the thump for an impact: a sine at the style's pitch with a
// short envelope, scaled by intensity.
func Synth(imp Impact) beep.Streamer {
	v := voices[imp.Style]
	osc := newSine(v.freq, v.length)
	shaped := newEnvelope(osc, v.length, v.attack, v.release)
	return newVolume(shaped, imp.Intensity)
}

// Duration returns the length of the thump for a style.
func Duration(s Style) time.Duration {
	return voices[s].length
}

// Render drains a streamer into mono samples.
func Render(s beep.Streamer) []float64 {
	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := range n {
			out = append(out, buf[i][0])
		}
		if !ok || n == 0 {
			return out
		}
	}
}

// EncodePCM converts mono samples to interleaved stereo s16le, clipping to [-1, 1].
func EncodePCM(in []float64) []byte {
	out := make([]byte, len(in)*bytesPerFrame)
	for i, v := range in {
		v = max(-1, min(v, 1))
		s := uint16(int16(v * 32767))
		binary.LittleEndian.PutUint16(out[i*bytesPerFrame:], s)
		binary.LittleEndian.PutUint16(out[i*bytesPerFrame+2:], s)
	}
	return out
}
