package pipeline

import (
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"github.com/spakin/netpbm"

	"povthread/internal/convert"
	"povthread/internal/logger"
	"povthread/internal/models"
)

type imageLoader struct {
	logger logger.Logger
	timer  TimingTracker
	// maxDim > 0 caps the longer source side before conversion. Scene
	// exports place one object per pixel, so oversized sources are
	// usually downscaled first.
	maxDim int
}

func (l *imageLoader) LoadFromFile(path string) (*models.ImageData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	defer f.Close()

	data, err := l.LoadFromReader(f, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return data, nil
}

func (l *imageLoader) LoadFromReader(reader io.Reader, format string) (*models.ImageData, error) {
	stop := l.timer.StartTiming("load")
	defer stop()

	format = strings.ToLower(format)
	l.logger.Debug("ImageLoader", "loading image", map[string]interface{}{
		"format": format,
	})

	var (
		img image.Image
		err error
	)
	switch format {
	case ".png":
		img, err = png.Decode(reader)
	case ".ppm", ".pgm", ".pbm", ".pnm":
		img, err = netpbm.Decode(reader, &netpbm.DecodeOptions{
			Target: netpbm.PNM,
			Exact:  false,
		})
	default:
		return nil, errors.Errorf("unsupported image format: %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	if l.maxDim > 0 {
		img = l.fitToMaxDim(img)
	}

	imageData, err := convert.FromImage(img)
	if err != nil {
		return nil, err
	}
	imageData.Format = strings.TrimPrefix(format, ".")

	l.logger.Info("ImageLoader", "image loaded successfully", map[string]interface{}{
		"width":     imageData.Width,
		"height":    imageData.Height,
		"channels":  imageData.Channels,
		"maxcolors": imageData.MaxColors,
		"format":    imageData.Format,
	})

	return imageData, nil
}

func (l *imageLoader) fitToMaxDim(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= l.maxDim && b.Dy() <= l.maxDim {
		return img
	}

	scaled := resize.Thumbnail(uint(l.maxDim), uint(l.maxDim), img, resize.Lanczos3)
	l.logger.Info("ImageLoader", "image downscaled", map[string]interface{}{
		"from": b.Max.Sub(b.Min).String(),
		"to":   scaled.Bounds().Max.String(),
	})
	return scaled
}
