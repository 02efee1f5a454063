package pipeline

import (
	"github.com/pkg/errors"

	"povthread/internal/filters"
	"povthread/internal/logger"
	"povthread/internal/models"
)

type imageProcessor struct {
	logger        logger.Logger
	timer         TimingTracker
	filterManager *filters.Manager
}

// ProcessImage validates the input, rescales the filter thresholds to the
// source's maxcolors domain and runs the named filter.
func (p *imageProcessor) ProcessImage(input *models.ImageData, filterName string, params map[string]interface{}) (*models.ImageData, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.Wrap(err, "input validation failed")
	}

	filter, err := p.filterManager.GetFilter(filterName)
	if err != nil {
		return nil, err
	}

	params = rescaleThresholds(params, input.MaxColors)

	p.logger.Debug("ImageProcessor", "processing started", map[string]interface{}{
		"filter":   filter.GetName(),
		"width":    input.Width,
		"height":   input.Height,
		"channels": input.Channels,
		"params":   params,
	})

	stop := p.timer.StartTiming("filter")
	result, err := filter.Process(input, params)
	stop()
	if err != nil {
		return nil, errors.Wrap(err, "filter processing failed")
	}

	p.logger.Info("ImageProcessor", "processing completed", map[string]interface{}{
		"filter": filter.GetName(),
	})

	return result, nil
}

// rescaleThresholds converts threshold parameters given in 8-bit units into
// the source's channel value domain: maxcolors * t / 255. Identity for 8-bit
// sources. The filters themselves never rescale.
func rescaleThresholds(params map[string]interface{}, maxColors int) map[string]interface{} {
	if maxColors == 255 {
		return params
	}
	scaled := make(map[string]interface{}, len(params))
	for k, v := range params {
		switch k {
		case "threshold_x", "threshold_y":
			if t, ok := v.(int); ok {
				scaled[k] = maxColors * t / 255
				continue
			}
		}
		scaled[k] = v
	}
	return scaled
}
