package logger

// Logger is the structured logging contract shared by the pipeline, the
// filters and the exporters. Every event is tagged with the emitting
// component so log streams from concurrent stages stay attributable.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Nop returns a Logger that discards everything. Used by tests and as the
// default when a component is constructed without an explicit logger.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{})  {}
func (nopLogger) Info(string, string, map[string]interface{})   {}
func (nopLogger) Warning(string, string, map[string]interface{}) {}
func (nopLogger) Error(string, error, map[string]interface{})   {}
