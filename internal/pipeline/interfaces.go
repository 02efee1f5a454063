package pipeline

import (
	"io"

	"povthread/internal/models"
)

// ImageLoader handles decoding images from various sources.
type ImageLoader interface {
	LoadFromFile(path string) (*models.ImageData, error)
	LoadFromReader(reader io.Reader, format string) (*models.ImageData, error)
}

// ImageSaver handles encoding images to various formats.
type ImageSaver interface {
	SaveToFile(path string, imageData *models.ImageData) error
	SaveToWriter(writer io.Writer, imageData *models.ImageData, format string) error
}

// ImageProcessor runs a registered filter over a decoded image.
type ImageProcessor interface {
	ProcessImage(input *models.ImageData, filterName string, params map[string]interface{}) (*models.ImageData, error)
}

// TimingTracker records per-stage wall-clock durations.
type TimingTracker interface {
	StartTiming(operation string) func()
	Durations() map[string]int64
}
