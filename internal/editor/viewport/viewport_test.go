package viewport

import (
	"testing"

	"floorplan/internal/editor/models"

	"github.com/stretchr/testify/assert"
)

func TestToSurface(t *testing.T) {
	v := New(800, 600)
	v.Scale = 50
	v.OffsetX, v.OffsetY = 10, -20

	px, py := v.ToSurface(2, 1)
	assert.Equal(t, 400+100+10.0, px)
	assert.Equal(t, 300-50-20.0, py)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		ox    float64
		oy    float64
	}{
		{"default", DefaultScale, 0, 0},
		{"zoomed in with pan", 287.3, 133.5, -97.25},
		{"zoomed out", 5, -1000, 420},
	}

	points := []models.Point{{X: 0, Y: 0}, {X: 3, Y: -2}, {X: -12.345, Y: 7.89}, {X: 0.001, Y: 1e3}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(1200, 800)
			v.Scale, v.OffsetX, v.OffsetY = tt.scale, tt.ox, tt.oy
			for _, p := range points {
				got := v.WorldPoint(v.SurfacePoint(p))
				assert.InDelta(t, p.X, got.X, 1e-9)
				assert.InDelta(t, p.Y, got.Y, 1e-9)
			}
		})
	}
}

func TestSetScaleClamps(t *testing.T) {
	v := New(800, 600)

	v.SetScale(1000)
	assert.Equal(t, DefaultMaxScale, v.Scale)

	v.SetScale(1)
	assert.Equal(t, DefaultMinScale, v.Scale)

	v.SetScale(42)
	assert.Equal(t, 42.0, v.Scale)
}

func TestZoom(t *testing.T) {
	v := New(800, 600)

	v.ZoomIn()
	assert.InDelta(t, 60, v.Scale, 1e-9)

	v.ZoomOut()
	assert.InDelta(t, 48, v.Scale, 1e-9)

	v.Wheel(1)
	assert.InDelta(t, 43.2, v.Scale, 1e-9)

	v.Wheel(-1)
	assert.InDelta(t, 47.52, v.Scale, 1e-9)

	v.Wheel(0)
	assert.InDelta(t, 47.52, v.Scale, 1e-9)

	for i := 0; i < 50; i++ {
		v.ZoomIn()
	}
	assert.Equal(t, DefaultMaxScale, v.Scale)
}

func TestPan(t *testing.T) {
	v := New(800, 600)
	v.Pan(15, -5)
	v.Pan(5, 5)
	assert.Equal(t, 20.0, v.OffsetX)
	assert.Equal(t, 0.0, v.OffsetY)
}

func TestFitToScreen(t *testing.T) {
	t.Run("large room", func(t *testing.T) {
		v := New(1200, 800)
		v.Pan(30, 30)
		v.FitToScreen(20, 10, DefaultPadding, DefaultFitCap)

		// min((1200-150)/20, (800-150)/10) = min(52.5, 65)
		assert.InDelta(t, 52.5, v.Scale, 1e-9)
		assert.Zero(t, v.OffsetX)
		assert.Zero(t, v.OffsetY)
	})

	t.Run("tiny room is capped", func(t *testing.T) {
		v := New(1200, 800)
		v.FitToScreen(1, 1, DefaultPadding, DefaultFitCap)
		assert.Equal(t, DefaultFitCap, v.Scale)
	})

	t.Run("empty room is ignored", func(t *testing.T) {
		v := New(1200, 800)
		v.FitToScreen(0, 4, DefaultPadding, DefaultFitCap)
		assert.Equal(t, DefaultScale, v.Scale)
	})
}

func TestFitBoundsCentersRoom(t *testing.T) {
	v := New(1200, 800)
	v.FitBounds(2, 1, 12, 6, DefaultPadding, DefaultFitCap)

	// min((1200-150)/10, (800-150)/5) = min(105, 130), capped at 70.
	assert.Equal(t, DefaultFitCap, v.Scale)

	px, py := v.ToSurface(7, 3.5)
	assert.InDelta(t, 600, px, 1e-9)
	assert.InDelta(t, 400, py, 1e-9)
}
