package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kobzarvs/pagedit/internal/config"
)

var (
	L       = zap.NewNop()
	S       = L.Sugar()
	logFile *os.File
)

// Init points the global logger at path, or at pagedit.log in the config
// directory when path is empty. With stderr set, entries are also
// written to the terminal.
func Init(path string, debug, stderr bool) error {
	if path == "" {
		p, err := getLogPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	logFile = f

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	sink := zapcore.AddSync(logFile)
	if stderr {
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.Lock(os.Stderr))
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, level)

	L = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	S = L.Sugar()

	S.Infow("logger initialized", "path", path, "debug", debug)
	return nil
}

// Close flushes and closes the logger.
func Close() {
	_ = L.Sync()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func getLogPath() (string, error) {
	if v := os.Getenv("PAGEDIT_LOG_FILE"); v != "" {
		return v, nil
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pagedit.log"), nil
}

func Debug(msg string, keysAndValues ...interface{}) {
	S.Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	S.Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	S.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	S.Errorw(msg, keysAndValues...)
}
