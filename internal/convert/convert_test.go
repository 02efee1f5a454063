package convert

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"povthread/internal/models"
)

func TestFromImageGray(t *testing.T) {
	im := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range im.Pix {
		im.Pix[i] = uint8(i * 40)
	}

	d, err := FromImage(im)
	require.NoError(t, err)

	assert.Equal(t, 3, d.Width)
	assert.Equal(t, 2, d.Height)
	assert.Equal(t, 1, d.Channels)
	assert.Equal(t, 255, d.MaxColors)
	assert.Equal(t, int32(40), d.At(0, 1)[0])
	assert.Equal(t, int32(200), d.At(1, 2)[0])
}

func TestFromImageGray16(t *testing.T) {
	im := image.NewGray16(image.Rect(0, 0, 2, 1))
	im.SetGray16(0, 0, color.Gray16{Y: 0})
	im.SetGray16(1, 0, color.Gray16{Y: 40000})

	d, err := FromImage(im)
	require.NoError(t, err)

	assert.Equal(t, 1, d.Channels)
	assert.Equal(t, 65535, d.MaxColors)
	assert.Equal(t, int32(40000), d.At(0, 1)[0])
}

func TestFromImageNRGBA(t *testing.T) {
	im := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	im.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	im.SetNRGBA(1, 1, color.NRGBA{R: 250, G: 0, B: 5, A: 255})

	d, err := FromImage(im)
	require.NoError(t, err)

	assert.Equal(t, 4, d.Channels)
	assert.Equal(t, 255, d.MaxColors)
	assert.Equal(t, []int32{10, 20, 30, 128}, d.At(0, 0))
	assert.Equal(t, []int32{250, 0, 5, 255}, d.At(1, 1))
}

func TestFromImageNil(t *testing.T) {
	_, err := FromImage(nil)
	assert.Error(t, err)
}

func TestToImageGray(t *testing.T) {
	d, err := models.NewImageData(2, 1, 1, 255)
	require.NoError(t, err)
	d.Pix[0] = 0
	d.Pix[1] = 201

	img, err := ToImage(d)
	require.NoError(t, err)

	gray, ok := img.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, uint8(201), gray.GrayAt(1, 0).Y)
}

func TestToImageRGBAlphaOpaque(t *testing.T) {
	d, err := models.NewImageData(1, 1, 3, 255)
	require.NoError(t, err)
	copy(d.Pix, []int32{12, 34, 56})

	img, err := ToImage(d)
	require.NoError(t, err)

	nrgba, ok := img.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 12, G: 34, B: 56, A: 255}, nrgba.NRGBAAt(0, 0))
}

func TestToImage16Bit(t *testing.T) {
	d, err := models.NewImageData(1, 1, 4, 65535)
	require.NoError(t, err)
	copy(d.Pix, []int32{1000, 2000, 3000, 60000})

	img, err := ToImage(d)
	require.NoError(t, err)

	nrgba64, ok := img.(*image.NRGBA64)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA64{R: 1000, G: 2000, B: 3000, A: 60000}, nrgba64.NRGBA64At(0, 0))
}

func TestToImageLuminanceAlpha(t *testing.T) {
	d, err := models.NewImageData(1, 1, 2, 255)
	require.NoError(t, err)
	copy(d.Pix, []int32{100, 50})

	img, err := ToImage(d)
	require.NoError(t, err)

	nrgba, ok := img.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 100, G: 100, B: 100, A: 50}, nrgba.NRGBAAt(0, 0))
}

func TestToImageRejectsInvalid(t *testing.T) {
	d := &models.ImageData{Width: 0, Height: 1, Channels: 1, MaxColors: 255}
	_, err := ToImage(d)
	assert.Error(t, err)
}

// Round trip through the 16-bit sampling path must be lossless for 8-bit
// sources.
func TestRescaleRoundTrip(t *testing.T) {
	for v := 0; v <= 255; v += 17 {
		wide := uint16(v * 257)
		assert.Equal(t, int32(v), rescale(wide, 255), "value %d", v)
	}
}
