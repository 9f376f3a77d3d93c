// AngelaMos | 2026
// logger.go

package core

import (
	"io"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/templates/catalog-backend/internal/config"
)

// NewLogger builds the process logger. Unknown levels fall back to info
// and any format other than json is written as text.
func NewLogger(cfg config.LogConfig, out io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}
