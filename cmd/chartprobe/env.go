package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/PetLahev/chartprobe/pkg/chartprobe"
)

const (
	envPassword = "CHARTPROBE_PASSWORD"
	envMatch    = "CHARTPROBE_MATCH"
)

func resolvePassword(root *rootOptions) string {
	if root.password != "" {
		return root.password
	}
	return os.Getenv(envPassword)
}

// resolveMatch prefers the flag, then the environment, then auto.
func resolveMatch(flag string) (chartprobe.MatchMode, error) {
	if strings.TrimSpace(flag) != "" {
		return chartprobe.ParseMatchMode(flag)
	}
	return chartprobe.ParseMatchMode(os.Getenv(envMatch))
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
