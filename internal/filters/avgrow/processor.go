package avgrow

import (
	"fmt"

	"povthread/internal/models"
)

const filterName = "Adaptive Row Averaging"

// Processor adapts the avgrow filter to the filters registry contract.
type Processor struct {
	name string
}

func NewProcessor() *Processor {
	return &Processor{name: filterName}
}

func (p *Processor) GetName() string {
	return p.name
}

func (p *Processor) GetDefaultParameters() map[string]interface{} {
	return map[string]interface{}{
		"threshold_x": 16,
		"threshold_y": 8,
		"wrap_around": false,
		"keep_alpha":  false,
	}
}

func (p *Processor) ValidateParameters(params map[string]interface{}) error {
	if t, ok := params["threshold_x"].(int); ok {
		if t < 0 {
			return fmt.Errorf("threshold_x must be non-negative, got: %d", t)
		}
	}
	if t, ok := params["threshold_y"].(int); ok {
		if t < 0 {
			return fmt.Errorf("threshold_y must be non-negative, got: %d", t)
		}
	}
	return nil
}

func (p *Processor) Process(input *models.ImageData, params map[string]interface{}) (*models.ImageData, error) {
	if err := p.ValidateParameters(params); err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}

	prm := Params{}
	defaults := p.GetDefaultParameters()
	prm.ThresholdX = intParam(params, defaults, "threshold_x")
	prm.ThresholdY = intParam(params, defaults, "threshold_y")
	prm.WrapAround = boolParam(params, defaults, "wrap_around")
	prm.KeepAlpha = boolParam(params, defaults, "keep_alpha")

	return Apply(input, prm)
}

func intParam(params, defaults map[string]interface{}, key string) int {
	if v, ok := params[key].(int); ok {
		return v
	}
	return defaults[key].(int)
}

func boolParam(params, defaults map[string]interface{}, key string) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return defaults[key].(bool)
}
