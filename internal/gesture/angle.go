// Package gesture classifies a hand pose into a rock, paper or scissors gesture
// from joint angles measured on 2D hand landmarks.
package gesture

import (
	"math"

	"github.com/ayusman/handrps/internal/detector"
)

// Point is a landmark projected onto the image plane.
type Point struct {
	X float64
	Y float64
}

// PointFrom drops the depth component of a tracker landmark.
func PointFrom(p detector.Point3D) Point {
	return Point{X: p.X, Y: p.Y}
}

// Angle returns the interior angle at vertex p2 formed by p1 and p3, in degrees.
// The result is in [0, 180]. A zero-length arm yields 0.
func Angle(p1, p2, p3 Point) float64 {
	v1x, v1y := p1.X-p2.X, p1.Y-p2.Y
	v2x, v2y := p3.X-p2.X, p3.Y-p2.Y

	n1 := math.Hypot(v1x, v1y)
	n2 := math.Hypot(v2x, v2y)
	if n1 == 0 || n2 == 0 {
		return 0
	}

	cos := (v1x*v2x + v1y*v2y) / (n1 * n2)
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}
