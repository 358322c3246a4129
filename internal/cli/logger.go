package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation settings.
const (
	logsDir        = "logs"
	cliLogFileName = "lattice.log"
	logMaxSizeMB   = 10
	logMaxBackups  = 3
	logMaxAgeDays  = 30
)

// logFileWriter holds the log file writer for cleanup purposes.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup

// InitLogger creates and configures a zerolog.Logger based on verbosity
// flags.
//
// Log levels are set as follows:
//   - verbose=true: Debug level (most detailed)
//   - quiet=true: Warn level (errors and warnings only)
//   - default: Info level (normal operation)
//
// Output format is determined by the terminal: console writer for a TTY
// with colors enabled, JSON to stderr otherwise. The logger also writes
// to ~/.lattice/logs/lattice.log with rotation enabled; if the log file
// cannot be created, console-only logging continues.
func InitLogger(verbose, quiet bool) zerolog.Logger {
	console := selectOutput()

	var writer io.Writer = console
	if fileWriter, err := createLogFileWriter(); err == nil {
		logFileWriter = fileWriter
		writer = zerolog.MultiLevelWriter(console, fileWriter)
	}

	logger := zerolog.New(writer).Level(selectLevel(verbose, quiet)).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// InitLoggerWithWriter creates a zerolog.Logger with a custom writer.
// This is primarily intended for testing purposes.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).Level(selectLevel(verbose, quiet)).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// CloseLogFile closes the global log file writer if it was opened.
// This should be called during application shutdown.
func CloseLogFile() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// selectLevel determines the appropriate log level based on flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput determines the appropriate output writer based on
// terminal capabilities and environment settings.
func selectOutput() io.Writer {
	// Use console writer for TTY without NO_COLOR
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}

	// Default to JSON output for non-TTY or when NO_COLOR is set
	return os.Stderr
}

// createLogFileWriter creates a rotating file writer for the global CLI
// log under the lattice home directory.
func createLogFileWriter() (io.WriteCloser, error) {
	home, err := latticeHome()
	if err != nil {
		return nil, err
	}

	logDir := filepath.Join(home, logsDir)
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, cliLogFileName),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}, nil
}

// latticeHome returns the lattice home directory path. If the
// LATTICE_HOME environment variable is set, it is used; otherwise the
// default is ~/.lattice.
func latticeHome() (string, error) {
	if home := os.Getenv("LATTICE_HOME"); home != "" {
		return home, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".lattice"), nil
}
