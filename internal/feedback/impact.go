// Package feedback turns ripple impacts into short audible thumps, the
// terminal stand-in for a phone's haptic engine. Feedback is advisory:
// nothing in the game depends on it succeeding.
package feedback

import "github.com/vovakirdan/duck-chase/internal/core"

// Style selects the character of an impact.
type Style int

const (
	StyleLight Style = iota
	StyleHeavy
)

func (s Style) String() string {
	if s == StyleHeavy {
		return "heavy"
	}
	return "light"
}

// heavyThreshold is the intensity above which an impact feels heavy.
const heavyThreshold = 0.5

// StyleFor maps an intensity in [0, 1] to an impact style.
func StyleFor(intensity float64) Style {
	if intensity > heavyThreshold {
		return StyleHeavy
	}
	return StyleLight
}

// Impact is one feedback request.
type Impact struct {
	Style     Style
	Intensity float64
}

// NewImpact builds an impact for the given intensity, clamped to [0, 1].
func NewImpact(intensity float64) Impact {
	intensity = core.ClampF(intensity, 0, 1)
	return Impact{Style: StyleFor(intensity), Intensity: intensity}
}
