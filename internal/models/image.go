package models

import (
	"github.com/pkg/errors"
)

// Errors returned for malformed buffers. Detected at entry to any operation
// that consumes an ImageData; no partial results are produced after a failure.
var (
	ErrInvalidDimensions   = errors.New("image has invalid dimensions")
	ErrUnsupportedChannels = errors.New("unsupported channel count")
	ErrShapeMismatch       = errors.New("image shapes do not match")
)

// ImageData holds a decoded raster as a flat H*W*Z grid of integer channel
// samples, plus the metadata needed to encode it back. Channel values are
// bounded by MaxColors (255 or 65535) by convention; the bound is carried for
// encoders and threshold rescaling, not enforced here.
type ImageData struct {
	Width     int
	Height    int
	Channels  int
	MaxColors int
	Pix       []int32
	Format    string
}

// NewImageData allocates a zero-filled buffer of the given shape.
func NewImageData(width, height, channels, maxColors int) (*ImageData, error) {
	d := &ImageData{
		Width:     width,
		Height:    height,
		Channels:  channels,
		MaxColors: maxColors,
		Pix:       make([]int32, width*height*channels),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewLike allocates a zero-filled buffer with the same shape and metadata
// as the template.
func NewLike(template *ImageData) *ImageData {
	return &ImageData{
		Width:     template.Width,
		Height:    template.Height,
		Channels:  template.Channels,
		MaxColors: template.MaxColors,
		Pix:       make([]int32, len(template.Pix)),
		Format:    template.Format,
	}
}

// Validate checks the buffer shape against the supported domain: positive
// dimensions, 1, 2, 3 or 4 channels, and a backing slice of exactly
// Width*Height*Channels samples.
func (d *ImageData) Validate() error {
	if d == nil {
		return errors.Wrap(ErrInvalidDimensions, "nil image")
	}
	if d.Width <= 0 || d.Height <= 0 {
		return errors.Wrapf(ErrInvalidDimensions, "%dx%d", d.Width, d.Height)
	}
	if d.Channels < 1 || d.Channels > 4 {
		return errors.Wrapf(ErrUnsupportedChannels, "got %d", d.Channels)
	}
	if len(d.Pix) != d.Width*d.Height*d.Channels {
		return errors.Wrapf(ErrInvalidDimensions,
			"pixel buffer holds %d samples, shape %dx%dx%d requires %d",
			len(d.Pix), d.Height, d.Width, d.Channels, d.Width*d.Height*d.Channels)
	}
	return nil
}

// HasAlpha reports whether the last channel is an alpha channel.
func (d *ImageData) HasAlpha() bool {
	return d.Channels == 2 || d.Channels == 4
}

// ColorChannels returns the number of channels participating in color
// comparisons: all of them for L and RGB, all but the trailing alpha for
// LA and RGBA.
func (d *ImageData) ColorChannels() int {
	if d.HasAlpha() {
		n := d.Channels - 1
		if n > 3 {
			n = 3
		}
		return n
	}
	return d.Channels
}

// At returns the channel samples of pixel (y, x) as a view into the backing
// slice. Mutating the returned slice mutates the image.
func (d *ImageData) At(y, x int) []int32 {
	i := (y*d.Width + x) * d.Channels
	return d.Pix[i : i+d.Channels]
}

// SetPixel copies the given channel samples into pixel (y, x).
func (d *ImageData) SetPixel(y, x int, px []int32) {
	copy(d.At(y, x), px)
}

// Clone returns a deep copy.
func (d *ImageData) Clone() *ImageData {
	c := NewLike(d)
	copy(c.Pix, d.Pix)
	return c
}

// SameShape reports whether two images have identical dimensions and
// channel counts.
func (d *ImageData) SameShape(other *ImageData) bool {
	return other != nil &&
		d.Width == other.Width &&
		d.Height == other.Height &&
		d.Channels == other.Channels
}
