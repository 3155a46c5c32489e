package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogLevel overrides the level chosen by flags.
const EnvLogLevel = "CARGO_FRESHEN_LOG_LEVEL"

func init() {
	Set("info")
	CliLogger(os.Stderr, true)
}

// CliLogger writes human readable log lines to out.
func CliLogger(out io.Writer, noColor bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:             out,
		NoColor:         noColor,
		FormatTimestamp: func(i interface{}) string { return "" },
	})
}

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// UseJsonLogging writes one JSON object per log line to out.
func UseJsonLogging(out io.Writer) {
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// Setup picks the log format for out. Anything but json gets the console
// writer.
func Setup(out io.Writer, format string, noColor bool) {
	if strings.EqualFold(format, FormatJSON) {
		UseJsonLogging(out)
		return
	}
	CliLogger(out, noColor)
}

// Set parses level and applies it globally. Unknown levels fall back to info.
func Set(level string) {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)
}

// GetEnvLogLevel returns the level from the environment, if any.
func GetEnvLogLevel() (string, bool) {
	l, ok := os.LookupEnv(EnvLogLevel)
	if !ok || l == "" {
		return "", false
	}
	return l, true
}
