package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectContainsIncludesEdges(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}

	assert.True(t, r.Contains(Point{X: 10, Y: 20}))
	assert.True(t, r.Contains(Point{X: 110, Y: 70}))
	assert.False(t, r.Contains(Point{X: 111, Y: 70}))
	assert.False(t, r.Contains(Point{X: 50, Y: 19}))
}

func TestRectCenterAndOrigin(t *testing.T) {
	r := Rect{X: 100, Y: 40, Width: 800, Height: 600}

	assert.Equal(t, Point{X: 500, Y: 340}, r.Center())
	assert.Equal(t, Point{X: 100, Y: 40}, r.Origin())
}

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 350, Y: 420}
	origin := Point{X: 100, Y: 50}

	rel := p.Sub(origin)
	assert.Equal(t, Point{X: 250, Y: 370}, rel)
	assert.Equal(t, p, origin.Add(rel))
}

func TestMouseButtonString(t *testing.T) {
	assert.Equal(t, "x1", ButtonX1.String())
	assert.Equal(t, "right", ButtonRight.String())
	assert.Equal(t, "button12", MouseButton(12).String())
}
