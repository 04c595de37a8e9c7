package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

var (
	timestampColor = color.New(color.FgHiBlack)
	tagColor       = color.New(color.FgCyan)
	levelColors    = map[LogLevel]*color.Color{
		DEBUG: color.New(color.FgHiBlack),
		INFO:  color.New(color.FgBlue),
		WARN:  color.New(color.FgYellow),
		ERROR: color.New(color.FgRed),
		FATAL: color.New(color.FgMagenta, color.Bold),
	}
)

type leveledLogger struct {
	verbose bool
	mu      sync.RWMutex
	writers map[LogLevel]io.Writer
	loggers map[LogLevel]*log.Logger
	exit    func(code int)
}

var globalLogger *leveledLogger

func init() {
	globalLogger = &leveledLogger{
		writers: make(map[LogLevel]io.Writer),
		loggers: make(map[LogLevel]*log.Logger),
		exit:    os.Exit,
	}

	for level := DEBUG; level <= FATAL; level++ {
		globalLogger.setWriter(level, os.Stdout)
	}
}

func (ll *leveledLogger) setWriter(level LogLevel, writer io.Writer) {
	ll.writers[level] = writer
	ll.loggers[level] = log.New(writer, "", 0)
}

func SetVerbose(verbose bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.verbose = verbose
}

func IsVerbose() bool {
	globalLogger.mu.RLock()
	defer globalLogger.mu.RUnlock()
	return globalLogger.verbose
}

// SetNoColor disables escape sequences, e.g. when logs go to a file.
func SetNoColor(noColor bool) {
	color.NoColor = noColor
}

func SetWriter(level LogLevel, writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.setWriter(level, writer)
}

func SetWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	for level := DEBUG; level <= FATAL; level++ {
		globalLogger.setWriter(level, writer)
	}
}

// AddWriterForAll fans every level out to writer in addition to the current one.
func AddWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	for level := DEBUG; level <= FATAL; level++ {
		globalLogger.setWriter(level, io.MultiWriter(globalLogger.writers[level], writer))
	}
}

func SetErrorWriter() {
	SetWriter(ERROR, os.Stderr)
	SetWriter(FATAL, os.Stderr)
}

func formatMessage(level LogLevel, tag, message string) string {
	timestamp := time.Now().Format("06-01-02 15:04:05")
	levelColor, ok := levelColors[level]
	if !ok {
		levelColor = color.New(color.FgWhite)
	}

	prefix := fmt.Sprintf("%s %s",
		timestampColor.Sprintf("[%s]", timestamp),
		levelColor.Sprintf("%-5s", level.String()),
	)
	if tag != "" {
		prefix += " " + tagColor.Sprintf("'%s'", tag)
	}
	return prefix + " " + message
}

func (ll *leveledLogger) log(level LogLevel, tag, format string, args ...interface{}) {
	ll.mu.RLock()
	if level == DEBUG && !ll.verbose {
		ll.mu.RUnlock()
		return
	}
	logger := ll.loggers[level]
	exit := ll.exit
	ll.mu.RUnlock()

	logger.Println(formatMessage(level, tag, fmt.Sprintf(format, args...)))

	if level == FATAL {
		exit(1)
	}
}

func Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, "", format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.log(INFO, "", format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, "", format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, "", format, args...)
}

func Fatal(format string, args ...interface{}) {
	globalLogger.log(FATAL, "", format, args...)
}

func GetLogFromLevel(level LogLevel) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		globalLogger.log(level, "", format, args...)
	}
}

// Tagged prefixes every line with the name of the task or plugin emitting it.
type Tagged struct {
	tag string
}

func Tag(tag string) *Tagged {
	return &Tagged{tag: tag}
}

func (t *Tagged) Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, t.tag, format, args...)
}

func (t *Tagged) Info(format string, args ...interface{}) {
	globalLogger.log(INFO, t.tag, format, args...)
}

func (t *Tagged) Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, t.tag, format, args...)
}

func (t *Tagged) Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, t.tag, format, args...)
}
