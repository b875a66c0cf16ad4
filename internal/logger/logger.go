package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logger.go builds the prefixed zerolog loggers shared by the CLI and the client.

const logFileName = "qbitctl.log"

var (
	logPath   string
	logLevel  = "info"
	fileLog   = true
	loggerMap = make(map[string]zerolog.Logger)
	mu        sync.RWMutex
)

// SetLogPath sets the directory the logs/ folder is created in
func SetLogPath(path string) {
	mu.Lock()
	logPath = path
	mu.Unlock()
}

// SetLogLevel sets the global log level and drops cached loggers
func SetLogLevel(level string) {
	mu.Lock()
	logLevel = strings.ToLower(level)
	loggerMap = make(map[string]zerolog.Logger)
	mu.Unlock()
}

// DisableFileLogging keeps output on the console only
func DisableFileLogging() {
	mu.Lock()
	fileLog = false
	loggerMap = make(map[string]zerolog.Logger)
	mu.Unlock()
}

// GetLogPath returns the full path to the log file
func GetLogPath() string {
	mu.RLock()
	dir := logPath
	mu.RUnlock()

	if dir == "" {
		dir = "."
	}
	logsDir := filepath.Join(dir, "logs")

	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logs directory: %v\n", err)
			return filepath.Join(os.TempDir(), logFileName)
		}
	}

	return filepath.Join(logsDir, logFileName)
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func consoleLevel(i interface{}) string {
	level := strings.ToUpper(fmt.Sprintf("%s", i))
	switch level {
	case "TRACE":
		return "[TRC]"
	case "DEBUG":
		return "[DBG]"
	case "INFO":
		return "[INF]"
	case "WARN":
		return "[WRN]"
	case "ERROR":
		return "[ERR]"
	case "FATAL":
		return "[FTL]"
	}
	if len(level) > 3 {
		level = level[:3]
	}
	return fmt.Sprintf("[%s]", level)
}

// New creates a logger for the given component, reusing a cached one when possible.
// Console output goes to stderr so command output on stdout stays clean.
func New(prefix string) zerolog.Logger {
	mu.RLock()
	if existing, ok := loggerMap[prefix]; ok {
		mu.RUnlock()
		return existing
	}
	withFile := fileLog
	level := logLevel
	mu.RUnlock()

	var writers []io.Writer
	writers = append(writers, zerolog.ConsoleWriter{
		Out:           os.Stderr,
		TimeFormat:    "15:04:05",
		FormatLevel:   consoleLevel,
		FormatMessage: func(i interface{}) string { return fmt.Sprintf("%v", i) },
	})

	if withFile {
		writers = append(writers, zerolog.ConsoleWriter{
			Out: &lumberjack.Logger{
				Filename: GetLogPath(),
				MaxSize:  10,
				MaxAge:   15,
				Compress: true,
			},
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    true,
			FormatLevel: func(i interface{}) string {
				return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
			},
			FormatMessage: func(i interface{}) string { return fmt.Sprintf("%v", i) },
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("component", prefix).
		Logger().
		Level(ParseLevel(level))

	mu.Lock()
	loggerMap[prefix] = logger
	mu.Unlock()

	return logger
}

// Default returns the default logger
func Default() zerolog.Logger {
	return New("qbitctl")
}
