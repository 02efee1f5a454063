package pipeline

import (
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spakin/netpbm"

	"povthread/internal/convert"
	"povthread/internal/logger"
	"povthread/internal/models"
)

type imageSaver struct {
	logger logger.Logger
	timer  TimingTracker
}

func (s *imageSaver) SaveToFile(path string, imageData *models.ImageData) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	defer f.Close()

	if err := s.SaveToWriter(f, imageData, filepath.Ext(path)); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return f.Close()
}

func (s *imageSaver) SaveToWriter(writer io.Writer, imageData *models.ImageData, format string) error {
	if imageData == nil {
		return errors.New("no image data to save")
	}
	stop := s.timer.StartTiming("save")
	defer stop()

	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		format = imageData.Format
	}
	if format == "" {
		format = "png"
	}

	s.logger.Debug("ImageSaver", "saving image", map[string]interface{}{
		"format": format,
		"width":  imageData.Width,
		"height": imageData.Height,
	})

	img, err := convert.ToImage(imageData)
	if err != nil {
		return err
	}

	switch format {
	case "png":
		err = png.Encode(writer, img)
	case "ppm", "pgm", "pbm", "pnm":
		err = netpbm.Encode(writer, img, &netpbm.EncodeOptions{
			Format:   netpbmFormat(format, imageData.Channels),
			MaxValue: netpbmMaxValue(format, imageData.MaxColors),
			Plain:    false,
		})
	default:
		s.logger.Warning("ImageSaver", "format not supported, using PNG", map[string]interface{}{
			"requested_format": strings.ToUpper(format),
		})
		err = png.Encode(writer, img)
	}

	if err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"format": format,
		})
		return errors.Wrap(err, "failed to encode image")
	}
	return nil
}

// netpbmFormat picks the concrete PNM flavor: explicit extensions win, a
// bare .pnm follows the channel count.
func netpbmFormat(format string, channels int) netpbm.Format {
	switch format {
	case "pbm":
		return netpbm.PBM
	case "pgm":
		return netpbm.PGM
	case "ppm":
		return netpbm.PPM
	default:
		if channels == 1 {
			return netpbm.PGM
		}
		return netpbm.PPM
	}
}

func netpbmMaxValue(format string, maxColors int) uint16 {
	if format == "pbm" {
		return 1
	}
	if maxColors < 1 || maxColors > 65535 {
		return 255
	}
	return uint16(maxColors)
}
