package detector

import (
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Synthetic hand geometry. Fingers hang from MCP knuckles on a common row and
// point up the image (decreasing Y). An extended finger is a straight line;
// a flexed finger turns 90 degrees at both PIP and DIP.
const (
	knuckleY    = 0.70
	segmentLen  = 0.06
	thumbSegLen = 0.07
)

var knuckleX = [4]float64{0.56, 0.50, 0.44, 0.38} // index, middle, ring, pinky

// SyntheticHand returns a right hand whose thumb bends by exactly thumbAngle
// degrees at the IP joint and whose index, middle, ring and pinky fingers are
// straight or curled according to extended.
func SyntheticHand(thumbAngle float64, extended [4]bool) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.47, Y: 0.90}

	// Thumb: CMC and MCP lean out to the right, then the IP joint turns
	// the tip by (180 - thumbAngle) degrees.
	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.86}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.80}
	dx, dy := 0.6, -0.8
	ip := Point3D{X: h.Points[ThumbMCP].X + dx*thumbSegLen, Y: h.Points[ThumbMCP].Y + dy*thumbSegLen}
	h.Points[ThumbIP] = ip
	turn := (180 - thumbAngle) * math.Pi / 180
	tx := dx*math.Cos(turn) - dy*math.Sin(turn)
	ty := dx*math.Sin(turn) + dy*math.Cos(turn)
	h.Points[ThumbTip] = Point3D{X: ip.X + tx*thumbSegLen, Y: ip.Y + ty*thumbSegLen}

	for f, base := range [4]int{IndexMCP, MiddleMCP, RingMCP, PinkyMCP} {
		x := knuckleX[f]
		h.Points[base] = Point3D{X: x, Y: knuckleY}
		if extended[f] {
			h.Points[base+1] = Point3D{X: x, Y: knuckleY - segmentLen}
			h.Points[base+2] = Point3D{X: x, Y: knuckleY - 2*segmentLen}
			h.Points[base+3] = Point3D{X: x, Y: knuckleY - 3*segmentLen}
			continue
		}
		// Up, across toward the thumb, then back down: two right angles.
		h.Points[base+1] = Point3D{X: x, Y: knuckleY - segmentLen, Z: -0.03}
		h.Points[base+2] = Point3D{X: x + segmentLen/2, Y: knuckleY - segmentLen, Z: -0.04}
		h.Points[base+3] = Point3D{X: x + segmentLen/2, Y: knuckleY - segmentLen/2, Z: -0.02}
	}

	return h
}

// PaperLandmarks returns an open hand: every finger and the thumb straight.
func PaperLandmarks() HandLandmarks {
	return SyntheticHand(180, [4]bool{true, true, true, true})
}

// ScissorsLandmarks returns index and middle extended, ring and pinky curled,
// with the thumb bent to 150 degrees.
func ScissorsLandmarks() HandLandmarks {
	return SyntheticHand(150, [4]bool{true, true, false, false})
}

// RockLandmarks returns a closed fist with the thumb bent to 100 degrees.
func RockLandmarks() HandLandmarks {
	return SyntheticHand(100, [4]bool{false, false, false, false})
}

// PointingLandmarks returns only the index finger extended, which is not a
// playable gesture.
func PointingLandmarks() HandLandmarks {
	return SyntheticHand(100, [4]bool{true, false, false, false})
}
