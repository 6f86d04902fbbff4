package gesture

import (
	"fmt"

	"github.com/ayusman/handrps/internal/detector"
)

// Gesture is a classified hand pose.
type Gesture string

const (
	Rock     Gesture = "rock"
	Paper    Gesture = "paper"
	Scissors Gesture = "scissors"
	Invalid  Gesture = "invalid"
)

// Playable returns the gestures an opponent may throw.
func Playable() []Gesture {
	return []Gesture{Rock, Paper, Scissors}
}

// Valid reports whether g is one of the four known labels.
func (g Gesture) Valid() bool {
	switch g {
	case Rock, Paper, Scissors, Invalid:
		return true
	}
	return false
}

// ParseGesture converts a label back into a Gesture.
func ParseGesture(s string) (Gesture, error) {
	g := Gesture(s)
	if !g.Valid() {
		return Invalid, fmt.Errorf("unknown gesture %q", s)
	}
	return g, nil
}

// ThumbAngleMax is the thumb average angle below which the thumb counts as
// tucked for rock and scissors. At or above it the hand reads as splayed.
const ThumbAngleMax = 170.0

// Pattern bits, thumb most significant. A set bit means extended.
const (
	bitThumb  uint8 = 1 << 4
	bitIndex  uint8 = 1 << 3
	bitMiddle uint8 = 1 << 2
	bitRing   uint8 = 1 << 1
	bitPinky  uint8 = 1 << 0

	patternAll       = bitThumb | bitIndex | bitMiddle | bitRing | bitPinky
	patternNonThumb  = bitIndex | bitMiddle | bitRing | bitPinky
	patternTwoFinger = bitIndex | bitMiddle
)

// Reading is the full classifier output for one hand.
type Reading struct {
	Fingers    [numFingers]FingerReading `json:"fingers"`
	Pattern    uint8                     `json:"pattern"`
	ThumbAngle float64                   `json:"thumb_angle"`
	Gesture    Gesture                   `json:"gesture"`
}

// Extended reports whether finger f was classified as extended.
func (r Reading) Extended(f Finger) bool {
	return r.Fingers[f].State == Extended
}

// Classifier turns hand landmarks into a gesture.
// The zero value is ready to use.
type Classifier struct{}

// NewClassifier creates a new Classifier instance.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the gesture for hand. It never fails: a nil or malformed
// hand, and any pose that matches no rule, is Invalid.
func (c *Classifier) Classify(hand *detector.HandLandmarks) Gesture {
	return c.Analyze(hand).Gesture
}

// Analyze classifies every finger and applies the decision table.
func (c *Classifier) Analyze(hand *detector.HandLandmarks) Reading {
	if !hand.Valid() {
		return Reading{Gesture: Invalid}
	}

	var r Reading
	for _, f := range Fingers {
		indices := f.Chain()
		chain := make([]Point, len(indices))
		for i, idx := range indices {
			chain[i] = PointFrom(hand.Points[idx])
		}

		r.Fingers[f] = ClassifyFinger(chain, f.Thresholds())
		if r.Fingers[f].State == Extended {
			r.Pattern |= bitThumb >> uint(f)
		}
	}
	r.ThumbAngle = r.Fingers[Thumb].AverageAngle
	r.Gesture = decide(r.Pattern, r.ThumbAngle)

	return r
}

// decide applies the rules in priority order; the first match wins.
func decide(pattern uint8, thumbAngle float64) Gesture {
	switch {
	case pattern == patternAll:
		return Paper
	case pattern&patternNonThumb == patternTwoFinger && thumbAngle < ThumbAngleMax:
		return Scissors
	case pattern&patternNonThumb == 0 && thumbAngle < ThumbAngleMax:
		return Rock
	default:
		return Invalid
	}
}
