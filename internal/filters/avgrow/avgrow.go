// Package avgrow implements adaptive run-length color averaging.
//
// Pixels along each row are accumulated into a running average until one of
// them deviates from that average by more than a threshold; the finished run
// collapses to its average color while the deviating pixel survives intact
// and starts the next run. A second, identical pass repeats the process
// column-wise over the row-pass output. Smooth areas flatten to solid color,
// high-contrast edges stay put.
package avgrow

import (
	"povthread/internal/models"

	"github.com/pkg/errors"
)

// Params are the scalar knobs of one filter invocation. Thresholds are in
// the same integer units as channel values and are used as given; rescaling
// for 16-bit sources is the caller's job.
type Params struct {
	ThresholdX int
	ThresholdY int
	WrapAround bool
	KeepAlpha  bool
}

// Apply filters the source and returns a newly allocated result of identical
// shape. The source is never mutated. Empty or malformed buffers fail with
// models.ErrInvalidDimensions or models.ErrUnsupportedChannels before any
// pixel is touched.
func Apply(src *models.ImageData, p Params) (*models.ImageData, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	edge := EdgeClamp
	if p.WrapAround {
		edge = EdgeWrap
	}
	colorChannels := src.ColorChannels()

	intermediate := models.NewLike(src)
	result := models.NewLike(src)

	// Horizontal pass: one line per row, positions run along x.
	scanAxis(
		func(y, x int) []int32 { return src.At(y, x) },
		func(y, x int, px []int32) { intermediate.SetPixel(y, x, px) },
		src.Height, src.Width, src.Channels, colorChannels, p.ThresholdX, edge)

	// Vertical pass: one line per column, positions run along y. It consumes
	// the fully written intermediate buffer, so it must not start earlier.
	scanAxis(
		func(x, y int) []int32 { return intermediate.At(y, x) },
		func(x, y int, px []int32) { result.SetPixel(y, x, px) },
		src.Width, src.Height, src.Channels, colorChannels, p.ThresholdY, edge)

	if p.KeepAlpha && src.HasAlpha() {
		if err := restoreAlpha(result, src); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// restoreAlpha overwrites the result's alpha plane with the source's,
// bypassing both averaging passes for that channel.
func restoreAlpha(result, src *models.ImageData) error {
	if !result.SameShape(src) {
		return errors.Wrapf(models.ErrShapeMismatch,
			"result %dx%dx%d, source %dx%dx%d",
			result.Height, result.Width, result.Channels,
			src.Height, src.Width, src.Channels)
	}
	alpha := src.ColorChannels()
	for i := alpha; i < len(src.Pix); i += src.Channels {
		result.Pix[i] = src.Pix[i]
	}
	return nil
}
