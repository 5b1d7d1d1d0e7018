//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/jpeg"

	"gocv.io/x/gocv"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
)

// GoCVHighlighter рисует рамки дефектов цветами справочника.
// Перед отрисовкой снимок проходит проверку качества.
type GoCVHighlighter struct {
	MinImageSide          int
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
	MaxGlareRatio         float64
	Thickness             int

	catalog *catalog.Catalog
}

// NewGoCVHighlighter создаёт подсветку с порогами по умолчанию.
func NewGoCVHighlighter(c *catalog.Catalog) *GoCVHighlighter {
	if c == nil {
		c = catalog.Default()
	}
	return &GoCVHighlighter{
		MinImageSide:          200,
		MinSharpnessEdgeRatio: 0.008,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.45,
		MaxGlareRatio:         0.08,
		Thickness:             2,
		catalog:               c,
	}
}

// HighlightDefects рисует прямоугольники вокруг дефектов и возвращает JPEG.
func (h *GoCVHighlighter) HighlightDefects(imageData []byte, defects []entity.Defect) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if err := h.checkImageQuality(mat); err != nil {
		return nil, err
	}

	for _, d := range defects {
		c, err := parseHexColor(h.catalog.Color(d.TypeKey))
		if err != nil {
			c = color.RGBA{G: 255, A: 255}
		}
		rect := d.Location.Pixels(mat.Cols(), mat.Rows())
		if rect.Empty() {
			continue
		}
		gocv.Rectangle(&mat, rect, c, h.Thickness)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

func (h *GoCVHighlighter) checkImageQuality(mat gocv.Mat) error {
	if mat.Cols() < h.MinImageSide || mat.Rows() < h.MinImageSide {
		return fmt.Errorf("quality gate failed: image is too small (%dx%d)", mat.Cols(), mat.Rows())
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)
	if r := ratioOfMask(edges); r < h.MinSharpnessEdgeRatio {
		return fmt.Errorf("quality gate failed: image is blurry (edge_ratio=%.4f)", r)
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)
	if r := ratioOfMask(bright); r > h.MaxOverexposedRatio {
		return fmt.Errorf("quality gate failed: overexposed image (ratio=%.4f)", r)
	}

	// EL-снимки по природе тёмные, поэтому порог недоэкспозиции мягкий.
	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)
	if r := ratioOfMask(dark); r > h.MaxUnderexposedRatio {
		return fmt.Errorf("quality gate failed: underexposed image (ratio=%.4f)", r)
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)
	channels := gocv.Split(hsv)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) < 3 {
		return errors.New("quality gate failed: invalid hsv channels")
	}

	lowSat := gocv.NewMat()
	defer lowSat.Close()
	gocv.Threshold(channels[1], &lowSat, 40, 255, gocv.ThresholdBinaryInv)

	highVal := gocv.NewMat()
	defer highVal.Close()
	gocv.Threshold(channels[2], &highVal, 245, 255, gocv.ThresholdBinary)

	glare := gocv.NewMat()
	defer glare.Close()
	gocv.BitwiseAnd(lowSat, highVal, &glare)
	if r := ratioOfMask(glare); r > h.MaxGlareRatio {
		return fmt.Errorf("quality gate failed: too much glare (ratio=%.4f)", r)
	}

	return nil
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}
