package filters

import (
	"povthread/internal/models"
)

// Filter is the contract every registered image filter satisfies. Parameters
// travel as a loose map so callers can forward user input without knowing a
// filter's exact knob set; implementations validate and fill defaults.
type Filter interface {
	Process(input *models.ImageData, params map[string]interface{}) (*models.ImageData, error)
	ValidateParameters(params map[string]interface{}) error
	GetDefaultParameters() map[string]interface{}
	GetName() string
}
