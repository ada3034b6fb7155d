package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger handles structured logging of messages from mcscript code.
// Log calls take a message followed by key-value pairs:
//
//	log.Info("submitting job", "run", run, "queue", queue)
type Logger struct {
	logrus *logrus.Logger
	ns     string
	fields logrus.Fields
}

// NewLogger returns a new Logger instance configured from the given config.
func NewLogger(ns string, conf *Config) *Logger {
	log := &Logger{
		logrus: logrus.New(),
		ns:     ns,
		fields: logrus.Fields{},
	}
	log.Configure(conf)
	return log
}

// Sub returns a child logger with the given namespace and fields added
// to all messages.
func (l *Logger) Sub(ns string, args ...interface{}) *Logger {
	f := logrus.Fields{}
	for k, v := range l.fields {
		f[k] = v
	}
	for k, v := range fields(args...) {
		f[k] = v
	}
	return &Logger{logrus: l.logrus, ns: ns, fields: f}
}

// WithFields returns a child logger with the given fields added to all
// messages.
func (l *Logger) WithFields(args ...interface{}) *Logger {
	return l.Sub(l.ns, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry(args...).Debug(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry(args...).Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry(args...).Warn(msg)
}

// Error logs an error message.
//
// Error has a two-argument shortcut for wrapping an error value:
//
//	log.Error("submission failed", err)
func (l *Logger) Error(msg string, args ...interface{}) {
	defer recoverLogErr()
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			args = []interface{}{"error", err.Error()}
		}
	}
	l.entry(args...).Error(msg)
}

// SetLevel sets the level of logging.
func (l *Logger) SetLevel(lvl string) {
	level, err := logrus.ParseLevel(lvl)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logrus.SetLevel(level)
}

// SetFormatter sets the formatter of the underlying logrus logger.
func (l *Logger) SetFormatter(f logrus.Formatter) {
	l.logrus.SetFormatter(f)
}

// SetOutput sets the output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.logrus.SetOutput(w)
}

// Discard configures the logger to discard all logs.
func (l *Logger) Discard() {
	l.SetOutput(io.Discard)
}

func (l *Logger) entry(args ...interface{}) *logrus.Entry {
	f := logrus.Fields{"ns": l.ns}
	for k, v := range l.fields {
		f[k] = v
	}
	for k, v := range fields(args...) {
		f[k] = v
	}
	return l.logrus.WithFields(f)
}

// PrintSimpleError prints out an error message with a red "ERROR:" prefix.
func PrintSimpleError(err error) {
	fmt.Fprintf(os.Stderr, "\x1b[31mERROR:\x1b[0m %s\n", err.Error())
}

// recoverLogErr recovers from any panic during logging. Logging should
// never crash a program, so this failsafe swallows those panics.
func recoverLogErr() {
	if r := recover(); r != nil {
		fmt.Println("Recovered from logging panic", r)
	}
}

func fields(args ...interface{}) map[string]interface{} {
	f := make(map[string]interface{}, len(args)/2)
	if len(args) == 1 {
		f["unknown"] = args[0]
		return f
	}
	for i := 0; i+1 < len(args); i += 2 {
		k, ok := args[i].(string)
		if !ok {
			k = fmt.Sprintf("%v", args[i])
		}
		f[k] = args[i+1]
	}
	if len(args)%2 != 0 && len(args) > 1 {
		f["unknown"] = args[len(args)-1]
	}
	return f
}
