// AngelaMos | 2026
// migrate.go

package core

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/001_catalog.up.sql
var catalogSchemaSQL string

var requiredTables = []string{
	"users",
	"categories",
	"products",
	"personal_access_tokens",
}

// EnsureSchema applies the embedded schema. Every statement is IF NOT EXISTS
// so running it against a provisioned database changes nothing.
func (d *Database) EnsureSchema(ctx context.Context) error {
	if d == nil || d.DB == nil {
		return fmt.Errorf("database is not initialized")
	}

	if _, err := d.DB.ExecContext(ctx, catalogSchemaSQL); err != nil {
		return fmt.Errorf("apply catalog schema: %w", err)
	}

	missing, err := d.missingTables(ctx)
	if err != nil {
		return fmt.Errorf("check tables: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema incomplete, missing tables: %v", missing)
	}

	slog.Info("database schema ensured", "tables", len(requiredTables))
	return nil
}

func (d *Database) missingTables(ctx context.Context) ([]string, error) {
	var present []string
	err := d.DB.SelectContext(ctx, &present, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema()`)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(present))
	for _, name := range present {
		seen[name] = struct{}{}
	}

	var missing []string
	for _, name := range requiredTables {
		if _, ok := seen[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
