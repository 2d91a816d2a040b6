// Package logsink implements the standard.LogSink collaborator on top
// of logrus, optionally mirroring entries into a rotating audit file.
package logsink

import (
	"io"

	"github.com/cloudgovern/steward/standard"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Sink struct {
	logger *logrus.Logger
}

// New builds a sink writing through the shared logrus logger.
func New() *Sink {
	return &Sink{logger: logrus.StandardLogger()}
}

// NewWithAuditFile builds a sink that writes both through the shared
// logrus logger and into a rotating audit file, so check outcomes
// survive log level changes and process restarts.
func NewWithAuditFile(filename string, formatter logrus.Formatter) *Sink {

	auditLogger := &lumberjack.Logger{
		Filename:  filename,
		MaxSize:   3,  // MB
		MaxAge:    10, // Days
		LocalTime: true,
	}

	logger := logrus.New()
	logger.SetFormatter(formatter)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetOutput(io.MultiWriter(logrus.StandardLogger().Out, auditLogger))

	return &Sink{logger: logger}
}

func (s *Sink) Log(surface string, tenant standard.Tenant, message string, severity standard.Severity) {

	entry := s.logger.WithFields(logrus.Fields{
		"surface": surface,
		"tenant":  string(tenant),
	})

	switch severity {
	case standard.SeverityError:
		entry.Error(message)
	default:
		entry.Info(message)
	}
}
