package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255}) // pure white
	img.SetNRGBA(1, 0, color.NRGBA{R: 240, G: 240, B: 240, A: 255}) // at the threshold
	img.SetNRGBA(0, 1, color.NRGBA{R: 239, G: 255, B: 255, A: 255}) // one channel below
	img.SetNRGBA(1, 1, color.NRGBA{R: 30, G: 120, B: 200, A: 255})  // foreground
	return img
}

func TestStripWhiteBackground(t *testing.T) {
	dst, cleared := StripWhiteBackground(testImage(), DefaultThreshold)

	assert.Equal(t, 2, cleared)
	assert.Equal(t, uint8(0), dst.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), dst.NRGBAAt(1, 0).A)
	assert.Equal(t, uint8(255), dst.NRGBAAt(0, 1).A)
	assert.Equal(t, uint8(255), dst.NRGBAAt(1, 1).A)

	// color channels stay untouched, even on cleared pixels
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 0}, dst.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 30, G: 120, B: 200, A: 255}, dst.NRGBAAt(1, 1))
}

func TestStripWhiteBackgroundThreshold(t *testing.T) {
	// at 255 only the pure white pixel goes
	dst, cleared := StripWhiteBackground(testImage(), 255)
	assert.Equal(t, 1, cleared)
	assert.Equal(t, uint8(0), dst.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(255), dst.NRGBAAt(1, 0).A)

	// at 0 every pixel counts as background
	_, cleared = StripWhiteBackground(testImage(), 0)
	assert.Equal(t, 4, cleared)
}

func TestStripWhiteBackgroundCountsOnlyVisiblePixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0}) // already transparent

	_, cleared := StripWhiteBackground(img, DefaultThreshold)
	assert.Equal(t, 0, cleared)
}

func TestStripWhiteBackgroundLeavesSourceAlone(t *testing.T) {
	src := testImage()
	_, _ = StripWhiteBackground(src, DefaultThreshold)
	assert.Equal(t, uint8(255), src.NRGBAAt(0, 0).A)
}

func TestStripWhiteBackgroundFileInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.png")
	out, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(out, testImage()))
	require.NoError(t, out.Close())

	cleared, err := StripWhiteBackgroundFile(path, path, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()
	decoded, err := png.Decode(in)
	require.NoError(t, err)

	white := color.NRGBAModel.Convert(decoded.At(0, 0)).(color.NRGBA)
	assert.Equal(t, uint8(0), white.A)
	fg := color.NRGBAModel.Convert(decoded.At(1, 1)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 30, G: 120, B: 200, A: 255}, fg)
}

func TestStripWhiteBackgroundFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := StripWhiteBackgroundFile(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png"), DefaultThreshold)
	assert.Error(t, err)

	notPNG := filepath.Join(dir, "not.png")
	require.NoError(t, os.WriteFile(notPNG, []byte("plain text"), 0o644))
	_, err = StripWhiteBackgroundFile(notPNG, filepath.Join(dir, "out.png"), DefaultThreshold)
	assert.Error(t, err)
}
