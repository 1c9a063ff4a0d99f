package log

import (
	"io"
	"os"
	"sync"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// The logger format
var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	backendMutex   sync.Mutex
	leveledBackend logging.LeveledBackend
	activeLevel    = Notice
)

// The logger interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Create a new logger for the given module name.
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// Route all log output to sink. The active verbosity level is preserved.
func SetSink(sink io.Writer) {
	backendMutex.Lock()
	defer backendMutex.Unlock()

	backend := logging.NewLogBackend(sink, "", 0)
	leveledBackend = logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	leveledBackend.SetLevel(toBackendLevel(activeLevel), "")
	logging.SetBackend(leveledBackend)
}

// Set logger verbosity for all modules.
func SetLevel(level Level) {
	backendMutex.Lock()
	defer backendMutex.Unlock()

	activeLevel = level
	leveledBackend.SetLevel(toBackendLevel(level), "")
}

// Get the active logger verbosity.
func GetLevel() Level {
	backendMutex.Lock()
	defer backendMutex.Unlock()
	return activeLevel
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Notice:
		return "notice"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

func toBackendLevel(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	}
	return logging.NOTICE
}

func init() {
	SetSink(os.Stdout)
}
