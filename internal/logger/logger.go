package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwiersema/streakd/internal/config"
)

type LogLevel int

const (
	INFO LogLevel = iota
	WARN
	ERROR
	DEBUG
)

// LevelEnvVar switches on step-level debug logging when set to "debug".
const LevelEnvVar = "STREAKD_LOG_LEVEL"

type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	level       LogLevel
	file        *os.File
}

// New creates a logger writing to stdout and the configured log file.
func New(cfg config.ConfigProvider) (*Logger, error) {
	logDir := filepath.Dir(cfg.GetLogPath())
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	file, err := os.OpenFile(cfg.GetLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	multiWriter := io.MultiWriter(file, os.Stdout)

	return &Logger{
		infoLogger:  log.New(multiWriter, "INFO:  ", log.Ldate|log.Ltime),
		warnLogger:  log.New(multiWriter, "WARN:  ", log.Ldate|log.Ltime),
		errorLogger: log.New(multiWriter, "ERROR: ", log.Ldate|log.Ltime),
		debugLogger: log.New(multiWriter, "DEBUG: ", log.Ldate|log.Ltime),
		level:       levelFromEnv(),
		file:        file,
	}, nil
}

func levelFromEnv() LogLevel {
	if strings.EqualFold(os.Getenv(LevelEnvVar), "debug") {
		return DEBUG
	}
	return INFO
}

func (l *Logger) Info(v ...any) {
	l.infoLogger.Println(v...)
}

func (l *Logger) Infof(format string, v ...any) {
	l.infoLogger.Printf(format, v...)
}

func (l *Logger) Warn(v ...any) {
	l.warnLogger.Println(v...)
}

func (l *Logger) Warnf(format string, v ...any) {
	l.warnLogger.Printf(format, v...)
}

func (l *Logger) Error(v ...any) {
	l.errorLogger.Println(v...)
}

func (l *Logger) Errorf(format string, v ...any) {
	l.errorLogger.Printf(format, v...)
}

func (l *Logger) Debug(v ...any) {
	if l.level >= DEBUG {
		l.debugLogger.Println(v...)
	}
}

func (l *Logger) Debugf(format string, v ...any) {
	if l.level >= DEBUG {
		l.debugLogger.Printf(format, v...)
	}
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
