// AngelaMos | 2026
// logger_test.go

package core

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/templates/catalog-backend/internal/config"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	logger.Warn("disk low", "free", 3)
	assert.Contains(t, buf.String(), `"msg":"disk low"`)

	buf.Reset()
	logger = NewLogger(config.LogConfig{Level: "loud", Format: "text"}, &buf)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	logger.Info("ready")
	assert.Contains(t, buf.String(), "msg=ready")
}
