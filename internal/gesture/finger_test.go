package gesture

import (
	"math"
	"testing"
)

// chainWithAngles builds a chain whose successive joints measure the given angles.
func chainWithAngles(angles ...float64) []Point {
	chain := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	heading := 0.0
	for _, a := range angles {
		heading += (180 - a) * math.Pi / 180
		prev := chain[len(chain)-1]
		chain = append(chain, Point{X: prev.X + math.Cos(heading), Y: prev.Y + math.Sin(heading)})
	}
	return chain
}

func TestClassifyFinger_ShortChain(t *testing.T) {
	for n := 0; n < 3; n++ {
		chain := chainWithAngles()[:n]
		got := ClassifyFinger(chain, FingerThresholds)
		if got.State != Flexed {
			t.Errorf("%d points: expected flexed, got %s", n, got.State)
		}
		if got.AverageAngle != 0 {
			t.Errorf("%d points: expected average 0, got %f", n, got.AverageAngle)
		}
		if len(got.Joints) != 0 {
			t.Errorf("%d points: expected no joints, got %d", n, len(got.Joints))
		}
	}
}

func TestClassifyFinger(t *testing.T) {
	tests := []struct {
		name   string
		angles []float64
		th     Thresholds
		want   FingerState
	}{
		{"all straight", []float64{175, 172}, FingerThresholds, Extended},
		{"all bent", []float64{90, 95}, FingerThresholds, Flexed},
		{"straight majority", []float64{170, 170, 150}, FingerThresholds, Extended},
		{"bent majority", []float64{100, 120, 165}, FingerThresholds, Flexed},
		// One straight, one bent: average 135 sits below the 150 midpoint.
		{"tie broken low", []float64{170, 100}, FingerThresholds, Flexed},
		// One straight, one bent: average 155 sits above the 150 midpoint.
		{"tie broken high", []float64{178, 132}, FingerThresholds, Extended},
		// Neutral joints only: 0 straight, 0 bent, average 155 > 150.
		{"neutral above midpoint", []float64{155, 155}, FingerThresholds, Extended},
		{"neutral below midpoint", []float64{145, 145}, FingerThresholds, Flexed},
		{"thumb single straight joint", []float64{150}, ThumbThresholds, Extended},
		{"thumb neutral below midpoint", []float64{100}, ThumbThresholds, Flexed},
		{"thumb neutral above midpoint", []float64{110}, ThumbThresholds, Extended},
		{"pinky straight", []float64{155, 152}, PinkyThresholds, Extended},
		{"pinky neutral low", []float64{135, 138}, PinkyThresholds, Flexed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyFinger(chainWithAngles(tt.angles...), tt.th)
			if got.State != tt.want {
				t.Errorf("state = %s, want %s (joints %+v)", got.State, tt.want, got.Joints)
			}

			var sum float64
			for _, a := range tt.angles {
				sum += a
			}
			if want := sum / float64(len(tt.angles)); math.Abs(got.AverageAngle-want) > 1e-6 {
				t.Errorf("average = %f, want %f", got.AverageAngle, want)
			}
			if len(got.Joints) != len(tt.angles) {
				t.Errorf("joints = %d, want %d", len(got.Joints), len(tt.angles))
			}
		})
	}
}

func TestClassifyJoint_Boundaries(t *testing.T) {
	th := FingerThresholds
	if got := classifyJoint(160, th); got != Neutral {
		t.Errorf("angle == StraightMin: expected neutral, got %s", got)
	}
	if got := classifyJoint(140, th); got != Neutral {
		t.Errorf("angle == BentMax: expected neutral, got %s", got)
	}
	if got := classifyJoint(160.0001, th); got != Straight {
		t.Errorf("just above StraightMin: expected straight, got %s", got)
	}
	if got := classifyJoint(139.9999, th); got != Bent {
		t.Errorf("just below BentMax: expected bent, got %s", got)
	}
}

func TestFinger_Thresholds(t *testing.T) {
	for _, f := range Fingers {
		th := f.Thresholds()
		if th.BentMax >= th.StraightMin {
			t.Errorf("%s: BentMax %f must be below StraightMin %f", f, th.BentMax, th.StraightMin)
		}
	}
	if Thumb.Thresholds() != (Thresholds{StraightMin: 120, BentMax: 90}) {
		t.Errorf("unexpected thumb thresholds %+v", Thumb.Thresholds())
	}
	if Ring.Thresholds() != (Thresholds{StraightMin: 160, BentMax: 140}) {
		t.Errorf("unexpected ring thresholds %+v", Ring.Thresholds())
	}
	if Pinky.Thresholds() != (Thresholds{StraightMin: 150, BentMax: 130}) {
		t.Errorf("unexpected pinky thresholds %+v", Pinky.Thresholds())
	}
}

func TestFinger_Chain(t *testing.T) {
	if got := len(Thumb.Chain()); got != 3 {
		t.Errorf("thumb chain length = %d, want 3", got)
	}
	for _, f := range []Finger{Index, Middle, Ring, Pinky} {
		if got := len(f.Chain()); got != 4 {
			t.Errorf("%s chain length = %d, want 4", f, got)
		}
	}
}

func TestThresholds_Midpoint(t *testing.T) {
	tests := []struct {
		name string
		th   Thresholds
		want float64
	}{
		{"thumb", ThumbThresholds, 105},
		{"finger", FingerThresholds, 150},
		{"pinky", PinkyThresholds, 140},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.th.Midpoint(); got != tt.want {
				t.Errorf("Midpoint() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestVoteFinger(t *testing.T) {
	tests := []struct {
		name     string
		straight int
		bent     int
		average  float64
		th       Thresholds
		want     FingerState
	}{
		{"straight majority below midpoint", 2, 1, 100, FingerThresholds, Extended},
		{"bent majority above midpoint", 1, 2, 170, FingerThresholds, Flexed},
		{"neutral at midpoint", 0, 0, 150, FingerThresholds, Flexed},
		{"tied at midpoint", 1, 1, 150, FingerThresholds, Flexed},
		{"neutral just above midpoint", 0, 0, math.Nextafter(150, 180), FingerThresholds, Extended},
		{"thumb at midpoint", 0, 0, 105, ThumbThresholds, Flexed},
		{"thumb just above midpoint", 0, 0, math.Nextafter(105, 180), ThumbThresholds, Extended},
		{"pinky at midpoint", 0, 0, 140, PinkyThresholds, Flexed},
		{"pinky tied at midpoint", 1, 1, 140, PinkyThresholds, Flexed},
		{"pinky just above midpoint", 0, 0, math.Nextafter(140, 180), PinkyThresholds, Extended},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := voteFinger(tt.straight, tt.bent, tt.average, tt.th); got != tt.want {
				t.Errorf("voteFinger(%d, %d, %v) = %s, want %s", tt.straight, tt.bent, tt.average, got, tt.want)
			}
		})
	}
}
