// Package imaging holds the asset cleanup pass: forcing near-white
// PNG backgrounds to full transparency.
package imaging

import (
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/pkg/errors"
)

// DefaultThreshold is the channel value from which a pixel counts as
// background white.
const DefaultThreshold = 240

// StripWhiteBackground returns a copy of src where every pixel whose
// R, G and B channels all reach the threshold has its alpha cleared.
// Color channels are left untouched. The second result is the number
// of pixels cleared.
func StripWhiteBackground(src image.Image, threshold uint8) (*image.NRGBA, int) {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	cleared := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := dst.PixOffset(bounds.Min.X, y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r := dst.Pix[row]
			g := dst.Pix[row+1]
			b := dst.Pix[row+2]
			if r >= threshold && g >= threshold && b >= threshold {
				if dst.Pix[row+3] != 0 {
					cleared++
				}
				dst.Pix[row+3] = 0
			}
			row += 4
		}
	}
	return dst, cleared
}

// StripWhiteBackgroundFile reads a PNG, strips its white background
// and writes the result to outputPath. Input and output may be the
// same path; the output is written only after the input decoded.
func StripWhiteBackgroundFile(inputPath, outputPath string, threshold uint8) (int, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return 0, errors.Wrap(err, "open image")
	}
	src, err := png.Decode(in)
	closeErr := in.Close()
	if err != nil {
		return 0, errors.Wrapf(err, "decode %s", inputPath)
	}
	if closeErr != nil {
		return 0, closeErr
	}

	dst, cleared := StripWhiteBackground(src, threshold)

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, errors.Wrap(err, "create image")
	}
	if err := png.Encode(out, dst); err != nil {
		_ = out.Close()
		return 0, errors.Wrapf(err, "encode %s", outputPath)
	}
	return cleared, out.Close()
}
