package capture

import "gocv.io/x/gocv"

// mirrored flips every frame around the vertical axis so the picture
// behaves like a mirror: raising the right hand moves the right side.
type mirrored struct {
	Camera
}

// Mirrored wraps cam so that ReadFrame returns horizontally flipped frames.
func Mirrored(cam Camera) Camera {
	return mirrored{Camera: cam}
}

func (m mirrored) ReadFrame() (*gocv.Mat, error) {
	frame, err := m.Camera.ReadFrame()
	if err != nil {
		return nil, err
	}

	flipped := gocv.NewMat()
	gocv.Flip(*frame, &flipped, 1)
	frame.Close()

	return &flipped, nil
}
