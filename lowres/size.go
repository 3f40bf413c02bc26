package lowres

import (
	"math"

	"github.com/pkg/errors"
)

// ResolveSize picks the output dimensions for the resize path. Both given
// means both are used verbatim in either mode. A single given dimension
// derives the other from the original aspect ratio, rounded and floored at 1.
// Neither given falls back to 64x64.
func ResolveSize(origW, origH int, width, height *int, mode ResizeMode) (int, int, error) {
	if origW <= 0 || origH <= 0 {
		return 0, 0, errors.Errorf("image has invalid dimensions %dx%d", origW, origH)
	}

	switch {
	case width != nil && height != nil:
		return *width, *height, nil
	case width != nil:
		h := int(math.Round(float64(origH) * float64(*width) / float64(origW)))
		if h < 1 {
			h = 1
		}
		return *width, h, nil
	case height != nil:
		w := int(math.Round(float64(origW) * float64(*height) / float64(origH)))
		if w < 1 {
			w = 1
		}
		return w, *height, nil
	}
	return 64, 64, nil
}
