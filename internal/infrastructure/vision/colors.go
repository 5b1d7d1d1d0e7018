package vision

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrGoCVDisabled сборка без тега gocv: подсветка недоступна.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

// parseHexColor разбирает "#rrggbb" из справочника.
func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
