// Package convert bridges the flat integer buffers the filters operate on
// and the image.Image values the codecs produce and consume.
package convert

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"github.com/spakin/netpbm"

	"povthread/internal/models"
)

// FromImage converts a decoded image into an ImageData buffer, deriving the
// channel count and maxcolors bound from the concrete image type. Netpbm
// images keep their declared maxval; everything else maps to 255 or 65535.
func FromImage(img image.Image) (*models.ImageData, error) {
	if img == nil {
		return nil, errors.Wrap(models.ErrInvalidDimensions, "nil image")
	}

	if pm, ok := img.(netpbm.Image); ok {
		return fromNetpbm(pm)
	}

	switch im := img.(type) {
	case *image.Gray:
		return fromGray(im)
	case *image.Gray16:
		return fromGray16(im)
	case *image.NRGBA64, *image.RGBA64:
		return sample(im, 4, 65535)
	default:
		return sample(im, 4, 255)
	}
}

func fromNetpbm(pm netpbm.Image) (*models.ImageData, error) {
	channels := 3
	switch pm.Format() {
	case netpbm.PBM, netpbm.PGM:
		channels = 1
	case netpbm.PPM:
		channels = 3
	case netpbm.PAM:
		channels = 4
	}
	return sample(pm, channels, int(pm.MaxValue()))
}

func fromGray(im *image.Gray) (*models.ImageData, error) {
	b := im.Bounds()
	d, err := models.NewImageData(b.Dx(), b.Dy(), 1, 255)
	if err != nil {
		return nil, err
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d.Pix[i] = int32(im.GrayAt(x, y).Y)
			i++
		}
	}
	return d, nil
}

func fromGray16(im *image.Gray16) (*models.ImageData, error) {
	b := im.Bounds()
	d, err := models.NewImageData(b.Dx(), b.Dy(), 1, 65535)
	if err != nil {
		return nil, err
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d.Pix[i] = int32(im.Gray16At(x, y).Y)
			i++
		}
	}
	return d, nil
}

// sample reads any image through the non-premultiplied 16-bit color model
// and rescales each channel to the target maxcolors bound. The 16-bit
// intermediate round-trips 8-bit and netpbm sources without loss.
func sample(img image.Image, channels, maxColors int) (*models.ImageData, error) {
	b := img.Bounds()
	d, err := models.NewImageData(b.Dx(), b.Dy(), channels, maxColors)
	if err != nil {
		return nil, err
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			samples := [4]uint16{c.R, c.G, c.B, c.A}
			switch channels {
			case 1:
				d.Pix[i] = rescale(samples[0], maxColors)
			case 2:
				d.Pix[i] = rescale(samples[0], maxColors)
				d.Pix[i+1] = rescale(samples[3], maxColors)
			case 3:
				d.Pix[i] = rescale(samples[0], maxColors)
				d.Pix[i+1] = rescale(samples[1], maxColors)
				d.Pix[i+2] = rescale(samples[2], maxColors)
			default:
				d.Pix[i] = rescale(samples[0], maxColors)
				d.Pix[i+1] = rescale(samples[1], maxColors)
				d.Pix[i+2] = rescale(samples[2], maxColors)
				d.Pix[i+3] = rescale(samples[3], maxColors)
			}
			i += channels
		}
	}
	return d, nil
}

// rescale maps a 16-bit sample onto [0, maxColors], rounding to nearest.
func rescale(v uint16, maxColors int) int32 {
	return int32((int64(v)*int64(maxColors) + 32767) / 65535)
}

// ToImage converts an ImageData buffer back into an image.Image suitable for
// encoding: Gray/Gray16 for single-channel data, NRGBA/NRGBA64 otherwise,
// picking bit depth from the maxcolors bound.
func ToImage(d *models.ImageData) (image.Image, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.MaxColors > 255 {
		return toImage16(d), nil
	}
	return toImage8(d), nil
}

func toImage8(d *models.ImageData) image.Image {
	if d.Channels == 1 {
		im := image.NewGray(image.Rect(0, 0, d.Width, d.Height))
		for i, v := range d.Pix {
			im.Pix[i] = uint8(expand(v, d.MaxColors, 255))
		}
		return im
	}

	im := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			px := d.At(y, x)
			var c color.NRGBA
			switch d.Channels {
			case 2:
				l := uint8(expand(px[0], d.MaxColors, 255))
				c = color.NRGBA{R: l, G: l, B: l, A: uint8(expand(px[1], d.MaxColors, 255))}
			case 3:
				c = color.NRGBA{
					R: uint8(expand(px[0], d.MaxColors, 255)),
					G: uint8(expand(px[1], d.MaxColors, 255)),
					B: uint8(expand(px[2], d.MaxColors, 255)),
					A: 255,
				}
			default:
				c = color.NRGBA{
					R: uint8(expand(px[0], d.MaxColors, 255)),
					G: uint8(expand(px[1], d.MaxColors, 255)),
					B: uint8(expand(px[2], d.MaxColors, 255)),
					A: uint8(expand(px[3], d.MaxColors, 255)),
				}
			}
			im.SetNRGBA(x, y, c)
		}
	}
	return im
}

func toImage16(d *models.ImageData) image.Image {
	if d.Channels == 1 {
		im := image.NewGray16(image.Rect(0, 0, d.Width, d.Height))
		for y := 0; y < d.Height; y++ {
			for x := 0; x < d.Width; x++ {
				im.SetGray16(x, y, color.Gray16{Y: uint16(expand(d.At(y, x)[0], d.MaxColors, 65535))})
			}
		}
		return im
	}

	im := image.NewNRGBA64(image.Rect(0, 0, d.Width, d.Height))
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			px := d.At(y, x)
			var c color.NRGBA64
			switch d.Channels {
			case 2:
				l := uint16(expand(px[0], d.MaxColors, 65535))
				c = color.NRGBA64{R: l, G: l, B: l, A: uint16(expand(px[1], d.MaxColors, 65535))}
			case 3:
				c = color.NRGBA64{
					R: uint16(expand(px[0], d.MaxColors, 65535)),
					G: uint16(expand(px[1], d.MaxColors, 65535)),
					B: uint16(expand(px[2], d.MaxColors, 65535)),
					A: 65535,
				}
			default:
				c = color.NRGBA64{
					R: uint16(expand(px[0], d.MaxColors, 65535)),
					G: uint16(expand(px[1], d.MaxColors, 65535)),
					B: uint16(expand(px[2], d.MaxColors, 65535)),
					A: uint16(expand(px[3], d.MaxColors, 65535)),
				}
			}
			im.SetNRGBA64(x, y, c)
		}
	}
	return im
}

// expand maps a sample from [0, maxColors] onto [0, full], rounding to
// nearest. Identity when the bounds already match.
func expand(v int32, maxColors, full int) int64 {
	if maxColors == full {
		return int64(v)
	}
	return (int64(v)*int64(full) + int64(maxColors)/2) / int64(maxColors)
}
