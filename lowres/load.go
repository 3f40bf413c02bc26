package lowres

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// DecodeImage decodes raw image bytes into an NRGBA buffer. The EXIF
// orientation tag, when present and readable, is applied before the image is
// returned (flips and quarter rotations for tags 2 through 8); otherwise the
// decoded pixels pass through unchanged.
func DecodeImage(data []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}
	return imaging.Clone(img), nil
}

// LoadImage fetches path through src and decodes it.
func LoadImage(src ImageSource, path string) (*image.NRGBA, error) {
	data, err := src.GetImage(path)
	if err != nil {
		return nil, err
	}
	img, err := DecodeImage(data)
	if err != nil {
		return nil, errors.Wrapf(err, "while decoding %v", path)
	}
	return img, nil
}
