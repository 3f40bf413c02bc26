package lowres

import (
	"image"
	"image/color"
	"runtime"
	"sync"
)

// Pixelate collapses img into a mosaic of block x block squares at the
// original dimensions. Each square takes the unweighted mean of the source
// pixels it covers. Block sizes below 1 are clamped to 1.
func Pixelate(img *image.NRGBA, block int) *image.NRGBA {
	if block < 1 {
		block = 1
	}
	w := img.Rect.Dx()
	h := img.Rect.Dy()

	colors, blocksX, _ := averageBlocks(img, block)
	return reconstruct(colors, blocksX, w, h, block)
}

// averageBlocks partitions img into a ceil(w/b) x ceil(h/b) grid and returns
// one averaged color per block in row-major order. Blocks are independent, so
// the table is filled by a fixed pool of workers over contiguous index
// ranges; each worker writes only its own slots and the result is identical
// regardless of scheduling.
func averageBlocks(img *image.NRGBA, block int) ([]color.NRGBA, int, int) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	blocksX := (w + block - 1) / block
	blocksY := (h + block - 1) / block
	total := blocksX * blocksY

	colors := make([]color.NRGBA, total)

	workers := runtime.NumCPU()
	if workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	chunk := (total + workers - 1) / workers
	for start := 0; start < total; start += chunk {
		end := start + chunk
		if end > total {
			end = total
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for idx := start; idx < end; idx++ {
				colors[idx] = blockAverage(img, idx, blocksX, block, w, h)
			}
		}(start, end)
	}
	wg.Wait()

	return colors, blocksX, blocksY
}

// blockAverage computes the mean color of block idx, clamping its extent to
// the image at the right and bottom edges. A block covering no pixels yields
// opaque black.
func blockAverage(img *image.NRGBA, idx, blocksX, block, w, h int) color.NRGBA {
	blockY := idx / blocksX
	blockX := idx % blocksX

	xStart := blockX * block
	yStart := blockY * block
	xEnd := xStart + block
	if xEnd > w {
		xEnd = w
	}
	yEnd := yStart + block
	if yEnd > h {
		yEnd = h
	}

	var rSum, gSum, bSum, aSum, count uint32
	for y := yStart; y < yEnd; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := xStart; x < xEnd; x++ {
			i := x * 4
			rSum += uint32(row[i])
			gSum += uint32(row[i+1])
			bSum += uint32(row[i+2])
			aSum += uint32(row[i+3])
			count++
		}
	}

	if count == 0 {
		return color.NRGBA{0, 0, 0, 255}
	}
	return color.NRGBA{
		R: uint8(rSum / count),
		G: uint8(gSum / count),
		B: uint8(bSum / count),
		A: uint8(aSum / count),
	}
}

// reconstruct expands the block color table back into a full w x h buffer.
// Rows map to disjoint slices of the pixel buffer, so workers take contiguous
// row ranges and write without coordination. Every pixel is written exactly
// once.
func reconstruct(colors []color.NRGBA, blocksX, w, h, block int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	workers := runtime.NumCPU()
	if workers > h {
		workers = h
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	chunk := (h + workers - 1) / workers
	for start := 0; start < h; start += chunk {
		end := start + chunk
		if end > h {
			end = h
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for y := start; y < end; y++ {
				row := out.Pix[y*out.Stride : y*out.Stride+w*4]
				rowBlockStart := (y / block) * blocksX
				for x := 0; x < w; x++ {
					c := colors[rowBlockStart+x/block]
					i := x * 4
					row[i] = c.R
					row[i+1] = c.G
					row[i+2] = c.B
					row[i+3] = c.A
				}
			}
		}(start, end)
	}
	wg.Wait()

	return out
}
