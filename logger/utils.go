package logger

import (
	"time"
)

// LogAndMeasureExecutionTime logs the start of the named function at the
// debug level and returns a closure that, when deferred, logs its completion
// together with the elapsed time.
func LogAndMeasureExecutionTime(log *Logger, functionName string) (onEnd func()) {
	start := time.Now()
	log.Debugf("%s started", functionName)
	return func() {
		log.Debugf("%s finished in %s", functionName, time.Since(start))
	}
}
