package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/hailam/chessplay/internal/session"
)

const sampleRate = 44100

// envelope shapes a sound over its normalised progress p in [0, 1).
type envelope func(t, p float64) float64

func decay(rate float64) envelope {
	return func(t, _ float64) float64 { return math.Exp(-t * rate) }
}

func linearFade(_, p float64) float64 { return 1 - p }

func swell(_, p float64) float64 {
	switch {
	case p < 0.1:
		return p / 0.1
	case p > 0.7:
		return (1 - p) / 0.3
	default:
		return 1
	}
}

// synth renders duration seconds of 16-bit stereo PCM. wave returns a
// sample in [-1, 1] for time t.
func synth(duration, amplitude float64, env envelope, wave func(i int, t float64) float64) []byte {
	samples := int(sampleRate * duration)
	data := make([]byte, samples*4)

	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		v := int16(wave(i, t) * env(t, t/duration) * amplitude * 32767)
		data[i*4] = byte(v)
		data[i*4+1] = byte(v >> 8)
		data[i*4+2] = byte(v)
		data[i*4+3] = byte(v >> 8)
	}
	return data
}

func click(freq, duration, amplitude float64) []byte {
	return synth(duration, amplitude, decay(30), func(i int, t float64) float64 {
		noise := (math.Sin(float64(i)*0.3) + math.Sin(float64(i)*0.7)) * 0.3
		return math.Sin(2*math.Pi*freq*t) + noise
	})
}

// AudioManager plays a procedural sound for each session event.
type AudioManager struct {
	context *audio.Context
	sounds  map[session.Event][]byte
	enabled bool
	volume  float64
}

// NewAudioManager creates a new audio manager.
func NewAudioManager(enabled bool) *AudioManager {
	am := &AudioManager{
		context: audio.NewContext(sampleRate),
		enabled: enabled,
		volume:  0.5,
	}

	gap := make([]byte, int(sampleRate*0.05)*4)
	castle := append(click(400, 0.06, 0.3), gap...)
	castle = append(castle, click(440, 0.06, 0.24)...)

	am.sounds = map[session.Event][]byte{
		session.EventMove:    click(440, 0.08, 0.3),
		session.EventCapture: click(330, 0.12, 0.5),
		session.EventCastle:  castle,
		session.EventInvalid: synth(0.1, 0.15, linearFade, func(_ int, t float64) float64 {
			return math.Sin(2*math.Pi*150*t) + 0.3*math.Sin(4*math.Pi*150*t)
		}),
		session.EventGameOver: synth(0.4, 0.5, swell, func(_ int, t float64) float64 {
			// C major triad
			return (math.Sin(2*math.Pi*261.63*t) + math.Sin(2*math.Pi*329.63*t) + math.Sin(2*math.Pi*392.00*t)) / 3
		}),
	}
	return am
}

// Play plays the sound for e.
func (am *AudioManager) Play(e session.Event) {
	if !am.enabled {
		return
	}
	data, ok := am.sounds[e]
	if !ok {
		return
	}
	// A fresh player per sound lets sounds overlap.
	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(am.volume)
	player.Play()
}

// SetEnabled enables or disables audio.
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}
