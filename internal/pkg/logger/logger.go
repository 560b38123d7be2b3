// Package logger implements ports.Logger on top of zap.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap routes log records to the log file and, in verbose mode, to a console writer.
type Zap struct {
	log  *zap.Logger
	file *os.File
}

// New opens (appending) the log file at path. With verbose set, records are
// also written to console in a human-readable encoding.
func New(path string, verbose bool, console io.Writer) (*Zap, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), zap.DebugLevel),
	}
	if verbose && console != nil {
		consoleConfig := zap.NewDevelopmentEncoderConfig()
		consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.AddSync(console), zap.DebugLevel))
	}

	return &Zap{
		log:  zap.New(zapcore.NewTee(cores...)).Named("wtf"),
		file: file,
	}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Zap {
	return &Zap{log: zap.NewNop()}
}

func (l *Zap) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug(msg, toFields(fields)...)
}

func (l *Zap) Info(msg string, fields map[string]interface{}) {
	l.log.Info(msg, toFields(fields)...)
}

func (l *Zap) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn(msg, toFields(fields)...)
}

func (l *Zap) Error(msg string, err error, fields map[string]interface{}) {
	l.log.Error(msg, append(toFields(fields), zap.Error(err))...)
}

// Close flushes buffered records and closes the log file.
func (l *Zap) Close() error {
	_ = l.log.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func toFields(fields map[string]interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for key, value := range fields {
		out = append(out, zap.Any(key, value))
	}
	return out
}
