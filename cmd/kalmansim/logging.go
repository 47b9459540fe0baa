package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig configures the simulator log.
type LogConfig struct {
	File       string `name:"log-file" help:"log file path, logs go to stderr if empty"`
	Level      string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"log level"`
	MaxSize    int    `name:"log-max-size" default:"10" help:"log file size in megabytes before it is rotated"`
	MaxBackups int    `name:"log-max-backups" default:"3" help:"number of rotated log files to keep"`
}

// newLogger returns a logger writing to the configured destination and a closer for it.
func newLogger(cfg LogConfig) (*slog.Logger, io.Closer) {
	var w io.Writer = os.Stderr
	var c io.Closer = nopCloser{}

	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
		}
		w, c = lj, lj
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
	return slog.New(h), c
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
