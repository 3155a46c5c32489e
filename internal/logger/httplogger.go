package logger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// HTTPLogger adapts the global zerolog logger to retryablehttp.LeveledLogger.
// Every message is logged one level below the one it was sent at.
type HTTPLogger struct{}

func (HTTPLogger) Error(msg string, keysAndValues ...interface{}) {
	emit(log.Warn(), msg, keysAndValues)
}

func (HTTPLogger) Warn(msg string, keysAndValues ...interface{}) {
	emit(log.Debug(), msg, keysAndValues)
}

func (HTTPLogger) Info(msg string, keysAndValues ...interface{}) {
	emit(log.Debug(), msg, keysAndValues)
}

func (HTTPLogger) Debug(msg string, keysAndValues ...interface{}) {
	emit(log.Trace(), msg, keysAndValues)
}

func emit(ev *zerolog.Event, msg string, kv []interface{}) {
	if ev == nil {
		return
	}
	ev.Fields(pairs(kv)).Msg(msg)
}

// pairs turns a flat key/value list into a map; a dangling key gets a nil value.
func pairs(kv []interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		if i+1 < len(kv) {
			m[key] = kv[i+1]
		} else {
			m[key] = nil
		}
	}
	return m
}
