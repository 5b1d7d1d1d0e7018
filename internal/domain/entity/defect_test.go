package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundingBoxCenter(t *testing.T) {
	b := BoundingBox{X: 10, Y: 20, Width: 8, Height: 6}
	x, y := b.Center()
	require.Equal(t, 14.0, x)
	require.Equal(t, 23.0, y)
}

func TestBoundingBoxPixels(t *testing.T) {
	b := BoundingBox{X: 10, Y: 50, Width: 20, Height: 10}
	require.Equal(t, image.Rect(60, 200, 180, 240), b.Pixels(600, 400))
}

func TestBoundingBoxPixels_ClippedToImage(t *testing.T) {
	b := BoundingBox{X: 94.3, Y: 68, Width: 10, Height: 40}
	r := b.Pixels(100, 100)
	require.Equal(t, 100, r.Max.X)
	require.Equal(t, 100, r.Max.Y)
}

func TestSeverityIsAlerting(t *testing.T) {
	require.True(t, SeverityCritical.IsAlerting())
	require.True(t, SeverityHigh.IsAlerting())
	require.False(t, SeverityMedium.IsAlerting())
	require.False(t, SeverityLow.IsAlerting())
	require.False(t, Severity("bogus").Valid())
}
