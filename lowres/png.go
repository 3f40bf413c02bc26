package lowres

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

const metersPerInch = 0.0254

// dpiToPPM converts dots-per-inch to the pixels-per-meter figure a PNG pHYs
// chunk carries.
func dpiToPPM(dpi int) uint32 {
	return uint32(math.Round(float64(dpi) / metersPerInch))
}

// WritePNG encodes img and writes it to w with a pHYs chunk recording dpi in
// both directions. The encoding is deterministic: the same pixels and DPI
// always produce the same bytes.
func WritePNG(w io.Writer, img *image.NRGBA, dpi int) error {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return errors.Wrap(err, "PNG encode error")
	}
	out, err := insertPhys(buf.Bytes(), dpiToPPM(dpi))
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return errors.Wrap(err, "PNG write error")
	}
	return nil
}

// WritePNGFile writes img to path, creating or truncating the file. The
// encoded bytes are assembled in memory first, so the file is only created
// once a complete valid image exists; a failing disk write can still leave a
// truncated file behind.
func WritePNGFile(path string, img *image.NRGBA, dpi int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %v", path)
	}
	if err := WritePNG(f, img, dpi); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "failed to close %v", path)
}

// insertPhys splices a pHYs chunk (ppm in both axes, unit meter) into an
// encoded PNG, immediately before the first IDAT chunk.
func insertPhys(data []byte, ppm uint32) ([]byte, error) {
	// 8-byte signature, then chunks of length(4) type(4) data crc(4).
	offset := 8
	for offset+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[offset:]))
		chunkType := string(data[offset+4 : offset+8])
		if chunkType == "IDAT" {
			phys := physChunk(ppm)
			out := make([]byte, 0, len(data)+len(phys))
			out = append(out, data[:offset]...)
			out = append(out, phys...)
			out = append(out, data[offset:]...)
			return out, nil
		}
		offset += 12 + length
	}
	return nil, errors.New("PNG header error: no IDAT chunk found")
}

func physChunk(ppm uint32) []byte {
	chunk := make([]byte, 21)
	binary.BigEndian.PutUint32(chunk[0:], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:], ppm)
	binary.BigEndian.PutUint32(chunk[12:], ppm)
	chunk[16] = 1 // unit: meter
	binary.BigEndian.PutUint32(chunk[17:], crc32.ChecksumIEEE(chunk[4:17]))
	return chunk
}
