package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	time.Sleep(10 * time.Millisecond)

	prog.done("test completed")

	if !bytes.Contains(buf.Bytes(), []byte("test completed")) {
		t.Error("progress.done() output should contain message")
	}
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	logger := log.Default()

	retrieved := loggerFromContext(withLogger(ctx, logger))
	if retrieved != logger {
		t.Error("loggerFromContext should return the same logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should return default logger when none set")
	}
}
