package pipeline

import (
	"io"
	"sync"

	"github.com/pkg/errors"

	"povthread/internal/filters"
	"povthread/internal/logger"
	"povthread/internal/models"
)

// Coordinator wires the load, filter and save stages together and keeps the
// original and most recent processed image.
type Coordinator struct {
	mu             sync.RWMutex
	originalImage  *models.ImageData
	processedImage *models.ImageData

	logger        logger.Logger
	timer         *StageTimer
	filterManager *filters.Manager
	loader        ImageLoader
	processor     ImageProcessor
	saver         ImageSaver
}

// Options tune coordinator construction. The zero value is usable.
type Options struct {
	Logger logger.Logger
	// MaxDim caps the longer source side at load time; 0 disables scaling.
	MaxDim int
}

func NewCoordinator(opts Options) *Coordinator {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	timer := NewStageTimer()
	filterMgr := filters.NewManager()

	return &Coordinator{
		logger:        log,
		timer:         timer,
		filterManager: filterMgr,
		loader:        &imageLoader{logger: log, timer: timer, maxDim: opts.MaxDim},
		processor:     &imageProcessor{logger: log, timer: timer, filterManager: filterMgr},
		saver:         &imageSaver{logger: log, timer: timer},
	}
}

func (c *Coordinator) LoadImage(path string) (*models.ImageData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	imageData, err := c.loader.LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	c.originalImage = imageData
	c.processedImage = nil
	return imageData, nil
}

func (c *Coordinator) ProcessImage(filterName string, params map[string]interface{}) (*models.ImageData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.originalImage == nil {
		return nil, errors.New("no image loaded")
	}

	processedData, err := c.processor.ProcessImage(c.originalImage, filterName, params)
	if err != nil {
		return nil, err
	}

	c.processedImage = processedData
	return processedData, nil
}

func (c *Coordinator) SaveImage(path string, imageData *models.ImageData) error {
	return c.saver.SaveToFile(path, imageData)
}

func (c *Coordinator) SaveImageToWriter(w io.Writer, imageData *models.ImageData, format string) error {
	return c.saver.SaveToWriter(w, imageData, format)
}

func (c *Coordinator) GetOriginalImage() *models.ImageData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.originalImage
}

func (c *Coordinator) GetProcessedImage() *models.ImageData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.processedImage
}

// CurrentImage returns the processed image when present, the original
// otherwise. Exporters consume whichever is current.
func (c *Coordinator) CurrentImage() *models.ImageData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.processedImage != nil {
		return c.processedImage
	}
	return c.originalImage
}

func (c *Coordinator) FilterManager() *filters.Manager {
	return c.filterManager
}

// StageDurations reports accumulated per-stage milliseconds.
func (c *Coordinator) StageDurations() map[string]int64 {
	return c.timer.Durations()
}
