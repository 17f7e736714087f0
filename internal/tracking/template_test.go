package tracking

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
)

// patternedFrame draws a bright textured square on a dark background so the
// template has enough variance to correlate against.
func patternedFrame(w, h int, square image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.Gray{Y: 20})
		}
	}
	for y := square.Min.Y; y < square.Max.Y; y++ {
		for x := square.Min.X; x < square.Max.X; x++ {
			// Diagonal gradient keyed to square-local coordinates so the
			// texture moves with the square.
			v := uint8(80 + 10*((x-square.Min.X)+(y-square.Min.Y))%160)
			img.Set(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestTemplateTracker_InitRejectsTinyBox(t *testing.T) {
	frame := patternedFrame(100, 100, image.Rect(10, 10, 40, 40))
	tr := &TemplateTracker{}

	assert.False(t, tr.Init(frame, domain.BoundingBox{X: 10, Y: 10, Width: 1, Height: 1}))
	assert.False(t, tr.Init(frame, domain.BoundingBox{X: 200, Y: 200, Width: 30, Height: 30}))
}

func TestTemplateTracker_FollowsSmallMotion(t *testing.T) {
	box := domain.BoundingBox{X: 30, Y: 30, Width: 20, Height: 20}
	frame1 := patternedFrame(120, 120, box.Rect())
	tr := &TemplateTracker{}
	require.True(t, tr.Init(frame1, box))

	// Move the square 4px right and 3px down, well inside the search window.
	frame2 := patternedFrame(120, 120, image.Rect(34, 33, 54, 53))
	ok, got := tr.Update(frame2)

	require.True(t, ok)
	assert.Equal(t, 34, got.X)
	assert.Equal(t, 33, got.Y)
	assert.Equal(t, 20, got.Width)
	assert.Equal(t, 20, got.Height)
}

func TestTemplateTracker_FailsWhenTargetGone(t *testing.T) {
	box := domain.BoundingBox{X: 30, Y: 30, Width: 20, Height: 20}
	frame1 := patternedFrame(120, 120, box.Rect())
	tr := &TemplateTracker{}
	require.True(t, tr.Init(frame1, box))

	// Uniform frame: no correlation anywhere in the window.
	flat := image.NewRGBA(image.Rect(0, 0, 120, 120))
	ok, _ := tr.Update(flat)

	assert.False(t, ok)
}

func TestTemplateTracker_UpdateBeforeInit(t *testing.T) {
	tr := &TemplateTracker{}
	ok, _ := tr.Update(image.NewRGBA(image.Rect(0, 0, 50, 50)))
	assert.False(t, ok)
}
