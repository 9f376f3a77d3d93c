// AngelaMos | 2026
// manager.go

package asset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

// Sentinel is the image value for products without an uploaded file.
const Sentinel = "noimg.jpg"

func IsSentinel(name string) bool {
	return name == "" || name == Sentinel
}

type Manager struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString()[:8] },
	}
}

// Save writes the upload under a fresh name and returns that name.
func (m *Manager) Save(ctx context.Context, up *Upload) (string, error) {
	name := m.generateName(up.Ext())

	ctx, span := core.StartSpan(ctx, "asset.save", attribute.String("asset.name", name))
	defer span.End()

	n, err := m.store.Write(ctx, name, up.Content)
	if err != nil {
		core.SetSpanError(ctx, err)
		return "", fmt.Errorf("save image: %w", err)
	}

	core.AddSpanEvent(ctx, "asset.saved",
		attribute.String("asset.name", name),
		attribute.Int64("asset.bytes", n),
	)

	return name, nil
}

// Remove deletes a stored image. Failures are logged and swallowed; the
// sentinel never reaches the store.
func (m *Manager) Remove(ctx context.Context, name string) {
	if IsSentinel(name) {
		return
	}

	err := m.store.Delete(ctx, name)
	switch {
	case err == nil:
		core.AddSpanEvent(ctx, "asset.removed", attribute.String("asset.name", name))
	case errors.Is(err, fs.ErrNotExist):
		m.logger.Debug("image already absent", "name", name)
	default:
		m.logger.Warn("failed to remove image", "name", name, "error", err)
	}
}

func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

func (m *Manager) generateName(ext string) string {
	return fmt.Sprintf("%d_%s%s", m.now().Unix(), m.newID(), strings.ToLower(ext))
}
