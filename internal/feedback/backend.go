package feedback

import (
	"errors"
	"os/exec"
)

// ErrNoBackend is returned when no supported playback command is installed.
var ErrNoBackend = errors.New("feedback: no audio backend found")

// Backend is an external command that reads raw s16le stereo PCM on stdin.
type Backend struct {
	Name string
	Path string
	Args []string
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// candidates in priority order: PulseAudio, PipeWire, ALSA, SoX
var candidates = []Backend{
	{
		Name: "pacat",
		Args: []string{"--raw", "--format=s16le", "--rate=44100", "--channels=2", "--latency-msec=50", "--playback"},
	},
	{
		Name: "pw-cat",
		Args: []string{"--playback", "--format=s16", "--rate=44100", "--channels=2", "--latency=50ms", "-"},
	},
	{
		Name: "aplay",
		Args: []string{"-t", "raw", "-f", "S16_LE", "-r", "44100", "-c", "2", "-q"},
	},
	{
		Name: "play",
		Args: []string{"-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", "44100", "-", "-d", "-q"},
	},
}

// DetectBackend returns the first installed playback command.
func DetectBackend() (Backend, error) {
	for _, c := range candidates {
		if path, err := lookPath(c.Name); err == nil {
			c.Path = path
			return c, nil
		}
	}
	return Backend{}, ErrNoBackend
}
