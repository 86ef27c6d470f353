// Package enginelog provides the logging facade shared by every core
// component. It exists so that the audio thread never has to import
// logrus directly and so that tests can run with a silent logger.
package enginelog

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Logger is the logging interface used across the engine. It is
// satisfied by *logrus.Logger and *logrus.Entry, and by Silent.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
	Warn(...interface{})
	Error(...interface{})
}

var debug bool

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv("NOISECORE_DEBUG"))
	if err != nil {
		debug = false
	}
}

// New returns a new logrus-backed logger. Level is controlled by the
// NOISECORE_DEBUG environment variable.
func New() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// Silent discards everything. It is the default logger for components
// that are not given one explicitly, so the core never requires a
// logger to be wired.
type Silent struct{}

func (Silent) Debug(...interface{}) {}
func (Silent) Info(...interface{})  {}
func (Silent) Warn(...interface{})  {}
func (Silent) Error(...interface{}) {}
