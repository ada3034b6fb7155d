package logger

import (
	"github.com/sirupsen/logrus"
)

// jsonFormatter renders entries as JSON lines, mainly for log files
// consumed by external tooling. The underlying logrus formatter is
// built lazily so a zero-value jsonFormatter is usable as the text
// formatter's fallback.
type jsonFormatter struct {
	conf *JSONFormatConfig
	fmt  *logrus.JSONFormatter
}

func (f *jsonFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if f.fmt == nil {
		conf := f.conf
		if conf == nil {
			conf = &JSONFormatConfig{}
		}
		f.fmt = &logrus.JSONFormatter{
			DisableHTMLEscape: true,
			DisableTimestamp:  conf.DisableTimestamp,
			TimestampFormat:   conf.TimestampFormat,
		}
	}
	return f.fmt.Format(entry)
}
