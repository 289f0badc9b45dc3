package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// rotation settings for the application log
const (
	maxSizeMB  = 10
	maxBackups = 30
	maxAgeDays = 90
)

func logFilePath(logDir, prefix string) string {
	currentDate := time.Now().Format("2006-01-02")
	return filepath.Join(logDir, fmt.Sprintf("%s-%s.log", prefix, currentDate))
}

func rotatingWriter(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
}

// Setup points the standard logger at both stdout and a rotating log file
// under logDir. Everything in the codebase logs through the stdlib logger.
func Setup(logDir string) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	path := logFilePath(logDir, "threadline")
	log.SetOutput(io.MultiWriter(os.Stdout, rotatingWriter(path)))
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Printf("Logging initialized: writing to %s", path)
	return nil
}
