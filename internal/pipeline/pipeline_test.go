package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"povthread/internal/logger"
	"povthread/internal/models"
)

func newTestLoader(maxDim int) *imageLoader {
	return &imageLoader{logger: logger.Nop(), timer: NewStageTimer(), maxDim: maxDim}
}

func newTestSaver() *imageSaver {
	return &imageSaver{logger: logger.Nop(), timer: NewStageTimer()}
}

func encodePNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestLoaderPNG(t *testing.T) {
	im := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	im.SetNRGBA(2, 1, color.NRGBA{R: 200, G: 10, B: 10, A: 255})

	d, err := newTestLoader(0).LoadFromReader(encodePNG(t, im), ".png")
	require.NoError(t, err)

	assert.Equal(t, 4, d.Width)
	assert.Equal(t, 3, d.Height)
	assert.Equal(t, 4, d.Channels)
	assert.Equal(t, 255, d.MaxColors)
	assert.Equal(t, "png", d.Format)
	assert.Equal(t, []int32{200, 10, 10, 255}, d.At(1, 2))
}

func TestLoaderPNG16Bit(t *testing.T) {
	im := image.NewGray16(image.Rect(0, 0, 2, 2))
	im.SetGray16(0, 0, color.Gray16{Y: 40000})

	d, err := newTestLoader(0).LoadFromReader(encodePNG(t, im), ".png")
	require.NoError(t, err)

	assert.Equal(t, 1, d.Channels)
	assert.Equal(t, 65535, d.MaxColors)
	assert.Equal(t, int32(40000), d.At(0, 0)[0])
}

func TestLoaderUnsupportedFormat(t *testing.T) {
	_, err := newTestLoader(0).LoadFromReader(bytes.NewReader(nil), ".tiff")
	assert.Error(t, err)
}

func TestLoaderDownscalesOversizedSources(t *testing.T) {
	im := image.NewNRGBA(image.Rect(0, 0, 100, 50))

	d, err := newTestLoader(10).LoadFromReader(encodePNG(t, im), ".png")
	require.NoError(t, err)

	assert.Equal(t, 10, d.Width)
	assert.Equal(t, 5, d.Height)
}

func TestSaverPNGRoundTrip(t *testing.T) {
	d, err := models.NewImageData(3, 2, 1, 255)
	require.NoError(t, err)
	for i := range d.Pix {
		d.Pix[i] = int32(i * 30)
	}

	var buf bytes.Buffer
	require.NoError(t, newTestSaver().SaveToWriter(&buf, d, ".png"))

	back, err := newTestLoader(0).LoadFromReader(&buf, ".png")
	require.NoError(t, err)
	assert.Equal(t, d.Pix, back.Pix)
	assert.Equal(t, 1, back.Channels)
}

func TestSaverPPMRoundTrip(t *testing.T) {
	d, err := models.NewImageData(2, 2, 3, 255)
	require.NoError(t, err)
	copy(d.Pix, []int32{
		10, 20, 30, 40, 50, 60,
		70, 80, 90, 100, 110, 120,
	})

	var buf bytes.Buffer
	require.NoError(t, newTestSaver().SaveToWriter(&buf, d, ".ppm"))

	back, err := newTestLoader(0).LoadFromReader(&buf, ".ppm")
	require.NoError(t, err)
	assert.Equal(t, 3, back.Channels)
	assert.Equal(t, 255, back.MaxColors)
	assert.Equal(t, d.Pix, back.Pix)
}

func TestSaverRejectsNil(t *testing.T) {
	assert.Error(t, newTestSaver().SaveToWriter(&bytes.Buffer{}, nil, ".png"))
}

func TestRescaleThresholds(t *testing.T) {
	params := map[string]interface{}{
		"threshold_x": 16,
		"threshold_y": 8,
		"wrap_around": true,
	}

	// 8-bit sources pass through untouched.
	assert.Equal(t, params, rescaleThresholds(params, 255))

	scaled := rescaleThresholds(params, 65535)
	assert.Equal(t, 65535*16/255, scaled["threshold_x"])
	assert.Equal(t, 65535*8/255, scaled["threshold_y"])
	assert.Equal(t, true, scaled["wrap_around"])
}

func TestCoordinatorFlow(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.png")
	outPath := filepath.Join(dir, "out.png")

	im := image.NewNRGBA(image.Rect(0, 0, 5, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			im.SetNRGBA(x, y, color.NRGBA{R: uint8(10 * x), G: 100, B: 50, A: 255})
		}
	}
	f, err := os.Create(srcPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, im))
	require.NoError(t, f.Close())

	coord := NewCoordinator(Options{})

	_, err = coord.ProcessImage("Adaptive Row Averaging", nil)
	assert.Error(t, err, "processing before loading must fail")

	loaded, err := coord.LoadImage(srcPath)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Width)
	assert.Same(t, loaded, coord.GetOriginalImage())
	assert.Same(t, loaded, coord.CurrentImage())

	processed, err := coord.ProcessImage("Adaptive Row Averaging", map[string]interface{}{
		"threshold_x": 16,
		"threshold_y": 8,
	})
	require.NoError(t, err)
	assert.Same(t, processed, coord.GetProcessedImage())
	assert.Same(t, processed, coord.CurrentImage())
	assert.True(t, loaded.SameShape(processed))

	require.NoError(t, coord.SaveImage(outPath, processed))

	reloaded, err := coord.LoadImage(outPath)
	require.NoError(t, err)
	assert.True(t, processed.SameShape(reloaded))

	durations := coord.StageDurations()
	assert.Contains(t, durations, "load")
	assert.Contains(t, durations, "filter")
	assert.Contains(t, durations, "save")
}

func TestCoordinatorUnknownFilter(t *testing.T) {
	coord := NewCoordinator(Options{})
	coord.originalImage, _ = models.NewImageData(2, 2, 1, 255)

	_, err := coord.ProcessImage("No Such Filter", nil)
	assert.Error(t, err)
}
