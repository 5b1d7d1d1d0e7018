//go:build !gocv
// +build !gocv

package vision

import (
	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
)

// GoCVHighlighter заглушка для сборки без OpenCV.
type GoCVHighlighter struct {
	MinImageSide          int
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
	MaxGlareRatio         float64
	Thickness             int
}

// NewGoCVHighlighter создаёт заглушку (без OpenCV).
func NewGoCVHighlighter(c *catalog.Catalog) *GoCVHighlighter {
	_ = c
	return &GoCVHighlighter{}
}

// HighlightDefects возвращает ErrGoCVDisabled, если сборка без тега gocv.
func (h *GoCVHighlighter) HighlightDefects(imageData []byte, defects []entity.Defect) ([]byte, error) {
	_ = imageData
	_ = defects
	return nil, ErrGoCVDisabled
}
