package lowres

import (
	"image"

	"github.com/disintegration/imaging"
)

var kernels = map[Resample]imaging.ResampleFilter{
	Nearest:    imaging.NearestNeighbor,
	Triangle:   imaging.Linear,
	CatmullRom: imaging.CatmullRom,
	Gaussian:   imaging.Gaussian,
	Lanczos3:   imaging.Lanczos,
}

// Resize scales img to exactly w x h using the named kernel. Dimension policy
// lives in ResolveSize; by the time we get here both sides are decided.
func Resize(img image.Image, w, h int, filter Resample) *image.NRGBA {
	kernel, ok := kernels[filter]
	if !ok {
		kernel = imaging.NearestNeighbor
	}
	return imaging.Resize(img, w, h, kernel)
}
