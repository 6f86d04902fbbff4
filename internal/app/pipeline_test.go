package app

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/handrps/internal/capture"
	"github.com/ayusman/handrps/internal/detector"
)

// newTestCamera returns an open mock camera looping over one blank frame.
func newTestCamera(t *testing.T) *capture.MockCamera {
	t.Helper()

	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })

	cam := capture.NewMockCamera([]*gocv.Mat{&frame}, true)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return cam
}

func newTestSource(t *testing.T, cam capture.Camera, det detector.Detector) *CameraSource {
	t.Helper()

	src := NewCameraSource(cam, det, 500)
	src.SetLogger(log.New(io.Discard, "", 0))
	t.Cleanup(src.Close)
	return src
}

func TestCameraSource_Poll(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the first detected hand", func(t *testing.T) {
		det := detector.NewMockDetector()
		det.SetHands([]detector.HandLandmarks{detector.RockLandmarks(), detector.PaperLandmarks()})
		src := newTestSource(t, newTestCamera(t), det)

		frame, err := src.Poll(ctx)
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
		if !frame.Available {
			t.Fatal("frame should be available")
		}
		if frame.Hand == nil || *frame.Hand != detector.RockLandmarks() {
			t.Errorf("expected the first hand, got %+v", frame.Hand)
		}
	})

	t.Run("no hand in view", func(t *testing.T) {
		src := newTestSource(t, newTestCamera(t), detector.NewMockDetector())

		frame, err := src.Poll(ctx)
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
		if !frame.Available || frame.Hand != nil {
			t.Errorf("expected available frame with no hand, got %+v", frame)
		}
	})

	t.Run("detector failure yields an unavailable frame", func(t *testing.T) {
		det := detector.NewMockDetector()
		det.SetError(errors.New("tracker crashed"))
		src := newTestSource(t, newTestCamera(t), det)

		frame, err := src.Poll(ctx)
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
		if frame.Available {
			t.Error("frame should be unavailable")
		}
	})

	t.Run("exhausted camera yields an unavailable frame", func(t *testing.T) {
		cam := capture.NewMockCamera(nil, false)
		cam.Open()
		src := newTestSource(t, cam, detector.NewMockDetector())

		frame, err := src.Poll(ctx)
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
		if frame.Available {
			t.Error("frame should be unavailable")
		}
	})

	t.Run("closed camera is an error", func(t *testing.T) {
		cam := newTestCamera(t)
		cam.Close()
		src := newTestSource(t, cam, detector.NewMockDetector())

		if _, err := src.Poll(ctx); !errors.Is(err, capture.ErrCameraNotOpen) {
			t.Errorf("expected ErrCameraNotOpen, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		src := newTestSource(t, newTestCamera(t), detector.NewMockDetector())

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := src.Poll(cctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestCameraSource_UpdatesPreview(t *testing.T) {
	preview := capture.NewPreview()
	src := newTestSource(t, newTestCamera(t), detector.NewMockDetector())
	src.SetPreview(preview)

	for i := 0; i < 3; i++ {
		if _, err := src.Poll(context.Background()); err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
	}

	data, seq := preview.Latest()
	if seq != 3 {
		t.Errorf("preview seq = %d, want 3", seq)
	}
	if len(data) == 0 {
		t.Error("preview should hold a JPEG")
	}
}
