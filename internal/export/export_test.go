package export

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"povthread/internal/logger"
	"povthread/internal/models"
)

func fixedExporter() *Exporter {
	return &Exporter{
		logger: logger.Nop(),
		now:    func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		rand:   rand.New(rand.NewSource(1)),
	}
}

func rgbImage(t *testing.T, width, height int) *models.ImageData {
	t.Helper()
	d, err := models.NewImageData(width, height, 3, 255)
	require.NoError(t, err)
	for i := range d.Pix {
		d.Pix[i] = int32((i * 37) % 256)
	}
	return d
}

func TestLinenSceneStructure(t *testing.T) {
	img := rgbImage(t, 3, 2)

	var buf bytes.Buffer
	require.NoError(t, fixedExporter().Linen(&buf, img))
	scene := buf.String()

	assert.Contains(t, scene, "#version 3.7;")
	assert.Contains(t, scene, "#declare X = 3;")
	assert.Contains(t, scene, "#declare Y = 2;")
	assert.Contains(t, scene, "#declare thingie = torus")
	assert.Contains(t, scene, "#include \"functions.inc\"")
	assert.Contains(t, scene, "happy rendering")

	// Two threads per pixel, each clipped to a half torus.
	assert.Equal(t, 2*3*2, strings.Count(scene, "object {thingie\n"))
	assert.Equal(t, 3*2, strings.Count(scene, "clipped_by{plane{z,0}}"))
	assert.Equal(t, 3*2, strings.Count(scene, "clipped_by{plane{-z,0}}"))
}

func TestLinenDeterministicWithFixedClock(t *testing.T) {
	img := rgbImage(t, 2, 2)

	var a, b bytes.Buffer
	require.NoError(t, fixedExporter().Linen(&a, img))
	require.NoError(t, fixedExporter().Linen(&b, img))
	assert.Equal(t, a.String(), b.String())
}

func TestLinenGrayscaleReplicatesChannel(t *testing.T) {
	d, err := models.NewImageData(1, 1, 1, 255)
	require.NoError(t, err)
	d.Pix[0] = 51 // 0.2 normalized

	var buf bytes.Buffer
	require.NoError(t, fixedExporter().Linen(&buf, d))
	assert.Contains(t, buf.String(), "rgb<cm(0.2), cm(0.2), cm(0.2)>")
}

func TestStitchSceneStructure(t *testing.T) {
	img := rgbImage(t, 3, 2)

	var buf bytes.Buffer
	require.NoError(t, fixedExporter().Stitch(&buf, img))
	scene := buf.String()

	assert.Contains(t, scene, "#version 3.7;")
	assert.Contains(t, scene, "#include \"metals.inc\"")
	assert.Contains(t, scene, "rotate(<0, 0, 45.0>")
	assert.Contains(t, scene, "rotate(<0, 0, -45.0>")

	// Opaque input keeps every stitch: one union of two crossed threads
	// per pixel.
	assert.Equal(t, 3*2, strings.Count(scene, "    union{\n"))
	assert.Equal(t, 2*3*2, strings.Count(scene, "object {thingie\n"))
}

func TestStitchDropsTransparentPixels(t *testing.T) {
	d, err := models.NewImageData(4, 4, 4, 255)
	require.NoError(t, err)
	for i := 0; i < len(d.Pix); i += 4 {
		d.Pix[i] = 100
		d.Pix[i+1] = 100
		d.Pix[i+2] = 100
		d.Pix[i+3] = 0 // fully transparent
	}

	var buf bytes.Buffer
	require.NoError(t, fixedExporter().Stitch(&buf, d))
	assert.Zero(t, strings.Count(buf.String(), "    union{\n"))
}

func TestStitchKeepsOpaqueAlphaPixels(t *testing.T) {
	d, err := models.NewImageData(4, 4, 4, 255)
	require.NoError(t, err)
	for i := 0; i < len(d.Pix); i += 4 {
		d.Pix[i] = 100
		d.Pix[i+1] = 100
		d.Pix[i+2] = 100
		d.Pix[i+3] = 255
	}

	var buf bytes.Buffer
	require.NoError(t, fixedExporter().Stitch(&buf, d))
	assert.Equal(t, 4*4, strings.Count(buf.String(), "    union{\n"))
}

func TestExportRejectsNilImage(t *testing.T) {
	e := fixedExporter()
	assert.Error(t, e.Linen(&bytes.Buffer{}, nil))
	assert.Error(t, e.Stitch(&bytes.Buffer{}, nil))
}

func TestViewClampAccessor(t *testing.T) {
	d, err := models.NewImageData(2, 2, 1, 255)
	require.NoError(t, err)
	copy(d.Pix, []int32{1, 2, 3, 4})

	v := view{d: d}
	assert.Equal(t, int32(1), v.src(-5, -5, 0))
	assert.Equal(t, int32(4), v.src(10, 10, 0))
	assert.Equal(t, int32(2), v.src(1, 0, 0))
}
