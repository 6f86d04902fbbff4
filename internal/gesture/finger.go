package gesture

import "github.com/ayusman/handrps/internal/detector"

// Finger names one of the five digits.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	numFingers
)

// Fingers lists the digits in classification order.
var Fingers = [numFingers]Finger{Thumb, Index, Middle, Ring, Pinky}

func (f Finger) String() string {
	switch f {
	case Thumb:
		return "thumb"
	case Index:
		return "index"
	case Middle:
		return "middle"
	case Ring:
		return "ring"
	case Pinky:
		return "pinky"
	default:
		return "unknown"
	}
}

// Chain returns the landmark indices traced from base to tip for the finger.
// The thumb chain starts at its MCP, so it yields a single joint.
func (f Finger) Chain() []int {
	switch f {
	case Thumb:
		return []int{detector.ThumbMCP, detector.ThumbIP, detector.ThumbTip}
	case Index:
		return []int{detector.IndexMCP, detector.IndexPIP, detector.IndexDIP, detector.IndexTip}
	case Middle:
		return []int{detector.MiddleMCP, detector.MiddlePIP, detector.MiddleDIP, detector.MiddleTip}
	case Ring:
		return []int{detector.RingMCP, detector.RingPIP, detector.RingDIP, detector.RingTip}
	case Pinky:
		return []int{detector.PinkyMCP, detector.PinkyPIP, detector.PinkyDIP, detector.PinkyTip}
	default:
		return nil
	}
}

// Thresholds bound the joint angles, in degrees, for one finger group.
// Angles between BentMax and StraightMin are neutral.
type Thresholds struct {
	StraightMin float64
	BentMax     float64
}

// Midpoint is the average angle above which a tied finger counts as extended.
func (t Thresholds) Midpoint() float64 {
	return (t.StraightMin + t.BentMax) / 2
}

// Per-group thresholds. Index, middle and ring share one group.
var (
	ThumbThresholds  = Thresholds{StraightMin: 120, BentMax: 90}
	FingerThresholds = Thresholds{StraightMin: 160, BentMax: 140}
	PinkyThresholds  = Thresholds{StraightMin: 150, BentMax: 130}
)

// Thresholds returns the angle thresholds for the finger's group.
func (f Finger) Thresholds() Thresholds {
	switch f {
	case Thumb:
		return ThumbThresholds
	case Pinky:
		return PinkyThresholds
	default:
		return FingerThresholds
	}
}

// FingerState is the binary extension state of a finger.
type FingerState int

const (
	Flexed FingerState = iota
	Extended
)

func (s FingerState) String() string {
	if s == Extended {
		return "extended"
	}
	return "flexed"
}

// MarshalText encodes the state by name.
func (s FingerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// JointState is the reading of a single joint against its thresholds.
type JointState int

const (
	Neutral JointState = iota
	Straight
	Bent
)

func (s JointState) String() string {
	switch s {
	case Straight:
		return "straight"
	case Bent:
		return "bent"
	default:
		return "neutral"
	}
}

// MarshalText encodes the state by name.
func (s JointState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// JointReading is one measured joint.
type JointReading struct {
	Angle float64    `json:"angle"`
	State JointState `json:"state"`
}

// FingerReading is the outcome of classifying one finger.
type FingerReading struct {
	State        FingerState    `json:"state"`
	AverageAngle float64        `json:"average_angle"`
	Joints       []JointReading `json:"joints,omitempty"`
}

func classifyJoint(angle float64, th Thresholds) JointState {
	switch {
	case angle > th.StraightMin:
		return Straight
	case angle < th.BentMax:
		return Bent
	default:
		return Neutral
	}
}

// ClassifyFinger measures every consecutive triple along chain and decides
// whether the finger is extended.
//
// The majority of straight versus bent joints wins. A tie, including a finger
// with only neutral joints, is settled by comparing the average angle to the
// threshold midpoint. A chain shorter than three points has no joints and is
// reported as flexed with an average of 0.
func ClassifyFinger(chain []Point, th Thresholds) FingerReading {
	if len(chain) < 3 {
		return FingerReading{State: Flexed}
	}

	joints := make([]JointReading, 0, len(chain)-2)
	var sum float64
	var straight, bent int
	for i := 0; i+2 < len(chain); i++ {
		angle := Angle(chain[i], chain[i+1], chain[i+2])
		state := classifyJoint(angle, th)
		switch state {
		case Straight:
			straight++
		case Bent:
			bent++
		}
		sum += angle
		joints = append(joints, JointReading{Angle: angle, State: state})
	}

	average := sum / float64(len(joints))
	return FingerReading{
		State:        voteFinger(straight, bent, average, th),
		AverageAngle: average,
		Joints:       joints,
	}
}

// voteFinger settles a finger from its joint counts. A tie is extended only
// when the average is strictly above the midpoint.
func voteFinger(straight, bent int, average float64, th Thresholds) FingerState {
	switch {
	case straight > bent:
		return Extended
	case bent > straight:
		return Flexed
	case average > th.Midpoint():
		return Extended
	default:
		return Flexed
	}
}
