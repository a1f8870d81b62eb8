package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/flock/components"
)

func newTestCamera() *Camera {
	return New(800, 600, components.DefaultWorld())
}

func TestNewFitsWorld(t *testing.T) {
	cam := newTestCamera()

	// min(800/200, 600/200)
	if cam.Zoom != 3 {
		t.Errorf("expected fit zoom 3, got %f", cam.Zoom)
	}
	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at world centre (0, 0), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := newTestCamera()
	cam.OffsetX = 10

	sx, sy := cam.WorldToScreen(0, 0)
	if math.Abs(float64(sx-410)) > 0.01 || math.Abs(float64(sy-300)) > 0.01 {
		t.Errorf("expected screen centre (410, 300), got (%f, %f)", sx, sy)
	}

	// World corner lands on the edge of the fitted square
	_, sy = cam.WorldToScreen(0, -100)
	if math.Abs(float64(sy)) > 0.01 {
		t.Errorf("expected top edge at y=0, got %f", sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	for _, wrapMode := range []bool{true, false} {
		cam := newTestCamera()
		cam.Wrap = wrapMode
		cam.SetZoom(6)

		testCases := []struct{ sx, sy float32 }{
			{400, 300},
			{100, 100},
			{700, 550},
		}

		for _, tc := range testCases {
			wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
			sx, sy := cam.WorldToScreen(wx, wy)
			if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
				t.Errorf("wrap=%v roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
					wrapMode, tc.sx, tc.sy, wx, wy, sx, sy)
			}
		}
	}
}

func TestToroidalProjection(t *testing.T) {
	cam := newTestCamera()
	cam.X = -90

	// Agent near the right edge is closer across the seam
	sx, _ := cam.WorldToScreen(90, 0)
	if sx >= 400 {
		t.Errorf("expected agent left of centre in wrap mode, got x=%f", sx)
	}

	cam.Wrap = false
	sx, _ = cam.WorldToScreen(90, 0)
	if sx <= 400 {
		t.Errorf("expected agent right of centre in bounce mode, got x=%f", sx)
	}
}

func TestPan(t *testing.T) {
	cam := newTestCamera()
	cam.X = -95

	// 30 px at zoom 3 is 10 world units
	cam.Pan(-30, 0)
	if math.Abs(cam.X-95) > 1e-6 {
		t.Errorf("expected X to wrap to 95, got %f", cam.X)
	}

	cam.Wrap = false
	cam.X = -95
	cam.Pan(-30, 0)
	if cam.X != -100 {
		t.Errorf("expected X clamped to -100, got %f", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := newTestCamera()

	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.ZoomBy(100)
	if cam.Zoom != 24 {
		t.Errorf("expected zoom clamped to 24, got %f", cam.Zoom)
	}
}

func TestResize(t *testing.T) {
	cam := newTestCamera()
	cam.Resize(1000, 1000)

	if cam.MinZoom != 5 {
		t.Errorf("expected MinZoom 5, got %f", cam.MinZoom)
	}
	if cam.Zoom != 5 {
		t.Errorf("expected zoom raised to new minimum, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(12)

	// Visible half extents are 400/12 by 300/12 world units
	if !cam.IsVisible(0, 0, 1) {
		t.Error("centre should be visible")
	}
	if cam.IsVisible(60, 60, 1) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(35, 0, 3) {
		t.Error("edge point with radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := newTestCamera()
	cam.X, cam.Y = 50, -20
	cam.SetZoom(10)

	cam.Reset()

	if cam.X != 0 || cam.Y != 0 || cam.Zoom != 3 {
		t.Errorf("expected (0, 0) at zoom 3, got (%f, %f) at %f", cam.X, cam.Y, cam.Zoom)
	}
}
