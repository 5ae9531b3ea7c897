// Package obslog builds the process logger.
package obslog

import (
    "io"
    "os"
    "strings"

    "github.com/jaminalder/codex-othello/internal/config"
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// New builds a logger writing to stderr.
func New(cfg config.LogConfig) (*zap.Logger, error) {
    return NewWriter(cfg, os.Stderr)
}

// NewWriter builds a logger writing to w. Format is "json" or "console";
// anything else falls back to console.
func NewWriter(cfg config.LogConfig, w io.Writer) (*zap.Logger, error) {
    level, err := parseLevel(cfg.Level)
    if err != nil {
        return nil, err
    }
    var enc zapcore.Encoder
    switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
    case "json":
        enc = zapcore.NewJSONEncoder(jsonEncoderConfig())
    default:
        enc = zapcore.NewConsoleEncoder(consoleEncoderConfig())
    }
    core := zapcore.NewCore(enc, zapcore.AddSync(w), level)

    opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
    if cfg.Caller {
        opts = append(opts, zap.AddCaller())
    }
    return zap.New(core, opts...), nil
}

func parseLevel(s string) (zapcore.Level, error) {
    s = strings.ToLower(strings.TrimSpace(s))
    if s == "" {
        return zapcore.InfoLevel, nil
    }
    if s == "warning" {
        s = "warn"
    }
    return zapcore.ParseLevel(s)
}

func consoleEncoderConfig() zapcore.EncoderConfig {
    cfg := zap.NewProductionEncoderConfig()
    cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
    cfg.EncodeLevel = zapcore.CapitalLevelEncoder
    cfg.ConsoleSeparator = " | "
    return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
    cfg := zap.NewProductionEncoderConfig()
    cfg.EncodeTime = zapcore.ISO8601TimeEncoder
    cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
    return cfg
}
