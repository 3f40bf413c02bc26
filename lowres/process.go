package lowres

import (
	"fmt"
	"image"

	"github.com/pkg/errors"
)

// Result describes a finished conversion for reporting.
type Result struct {
	Output          string
	Width           int
	Height          int
	OrigWidth       int
	OrigHeight      int
	DPI             int
	Mode            ResizeMode
	Block           *int
	Filter          Resample
	PixelDownFilter Resample
}

// Summary renders the one-line report printed after a successful conversion.
func (r Result) Summary() string {
	block := "-"
	if r.Block != nil {
		block = fmt.Sprintf("%d", *r.Block)
	}
	return fmt.Sprintf(
		"Wrote %q at %dx%d pixels with %d DPI metadata (mode=%s, block=%s, filters: resize=%s, pixel_down=%s). Original: %dx%d.",
		r.Output, r.Width, r.Height, r.DPI, r.Mode, block, r.Filter, r.PixelDownFilter,
		r.OrigWidth, r.OrigHeight)
}

// Process transforms img according to opts. A set Block selects the
// pixelation path, which keeps the original dimensions; otherwise the image
// is resized to the resolved target size.
func Process(img *image.NRGBA, opts Options) (*image.NRGBA, Result, error) {
	opts = opts.normalized()
	if err := opts.validate(); err != nil {
		return nil, Result{}, err
	}

	origW := img.Rect.Dx()
	origH := img.Rect.Dy()
	if origW <= 0 || origH <= 0 {
		return nil, Result{}, errors.Errorf("image has invalid dimensions %dx%d", origW, origH)
	}

	res := Result{
		OrigWidth:       origW,
		OrigHeight:      origH,
		DPI:             opts.DPI,
		Mode:            opts.Mode,
		Block:           opts.Block,
		Filter:          opts.Filter,
		PixelDownFilter: opts.PixelDownFilter,
	}

	var out *image.NRGBA
	if opts.Block != nil {
		out = Pixelate(img, *opts.Block)
	} else {
		w, h, err := ResolveSize(origW, origH, opts.Width, opts.Height, opts.Mode)
		if err != nil {
			return nil, Result{}, err
		}
		out = Resize(img, w, h, opts.Filter)
	}

	res.Width = out.Rect.Dx()
	res.Height = out.Rect.Dy()
	return out, res, nil
}

// ProcessFile runs a whole conversion: load input, transform, write the PNG
// to output. Failures abort the conversion and come back wrapped with the
// offending path.
func ProcessFile(src ImageSource, input, output string, opts Options) (Result, error) {
	img, err := LoadImage(src, input)
	if err != nil {
		return Result{}, err
	}
	out, res, err := Process(img, opts)
	if err != nil {
		return Result{}, err
	}
	if err := WritePNGFile(output, out, res.DPI); err != nil {
		return Result{}, err
	}
	res.Output = output
	return res, nil
}
