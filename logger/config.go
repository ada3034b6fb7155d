package logger

import (
	"os"
	"time"
)

const defaultTimestampFormat = time.RFC3339

// Config describes configuration for the logger.
type Config struct {
	Level      string
	Formatter  string
	OutputFile string
	TextFormat *TextFormatConfig
	JSONFormat *JSONFormatConfig
}

// TextFormatConfig describes the configuration of the text formatter.
type TextFormatConfig struct {
	ForceColors      bool
	DisableColors    bool
	DisableTimestamp bool
	FullTimestamp    bool
	TimestampFormat  string
	Indent           string
}

// JSONFormatConfig describes the configuration of the JSON formatter.
type JSONFormatConfig struct {
	DisableTimestamp bool
	TimestampFormat  string
}

// DefaultConfig returns a Config instance with default values.
func DefaultConfig() *Config {
	return &Config{
		Level:     "info",
		Formatter: "text",
		TextFormat: &TextFormatConfig{
			FullTimestamp:   true,
			TimestampFormat: defaultTimestampFormat,
		},
		JSONFormat: &JSONFormatConfig{
			TimestampFormat: defaultTimestampFormat,
		},
	}
}

// Configure configures the logging level, formatter, and output path.
func (l *Logger) Configure(conf *Config) {
	if conf == nil {
		conf = DefaultConfig()
	}
	l.SetLevel(conf.Level)

	switch conf.Formatter {
	case "json":
		l.SetFormatter(&jsonFormatter{conf: conf.JSONFormat})

	// Default to text
	default:
		tf := conf.TextFormat
		if tf == nil {
			tf = DefaultConfig().TextFormat
		}
		l.SetFormatter(&textFormatter{
			TextFormatConfig: *tf,
			json:             jsonFormatter{conf: conf.JSONFormat},
		})
	}

	if conf.OutputFile != "" {
		logFile, err := os.OpenFile(
			conf.OutputFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666,
		)
		if err != nil {
			l.Error("Can't open log output", "output", conf.OutputFile)
		} else {
			l.SetOutput(logFile)
		}
	}
}
