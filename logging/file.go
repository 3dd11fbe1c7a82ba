package logging

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig describes a rotated log file.
type FileConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
	Compress   bool   `json:"compress,omitempty"`
}

// NewFileLogger returns a logger that writes JSON lines to a size-rotated file in addition to the
// console output of NewLogger. The returned func closes the file; logging after it reopens the file.
func NewFileLogger(name string, debug bool, fileCfg FileConfig) (Logger, func() error, error) {
	if fileCfg.Path == "" {
		return nil, nil, errors.New("log file path must be set")
	}
	maxSize := fileCfg.MaxSizeMB
	if maxSize == 0 {
		maxSize = 64
	}
	rotator := &lumberjack.Logger{
		Filename:   fileCfg.Path,
		MaxSize:    maxSize,
		MaxBackups: fileCfg.MaxBackups,
		Compress:   fileCfg.Compress,
	}

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		level.SetLevel(zap.DebugLevel)
	}
	consoleCfg := NewLoggerConfig()
	consoleCfg.Level = level
	console, err := consoleCfg.Build()
	if err != nil {
		return nil, nil, err
	}

	encoderCfg := consoleCfg.EncoderConfig
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), level)

	logger := console.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	}))
	return logger.Sugar().Named(name), rotator.Close, nil
}
