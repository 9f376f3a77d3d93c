// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/carterperez-dev/templates/catalog-backend/internal/asset"
	"github.com/carterperez-dev/templates/catalog-backend/internal/category"
	"github.com/carterperez-dev/templates/catalog-backend/internal/config"
	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
	"github.com/carterperez-dev/templates/catalog-backend/internal/product"
	"github.com/carterperez-dev/templates/catalog-backend/internal/seed"
	"github.com/carterperez-dev/templates/catalog-backend/internal/user"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	password := flag.String("password", "12345678", "password for the demo accounts")
	products := flag.Int("products", seed.DefaultProducts, "demo products for an empty catalog")
	flag.Parse()

	if err := run(*configPath, *password, *products); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, password string, products int) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := core.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	db, err := core.Setup(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	categories := category.NewService(category.NewRepository(db.DB))
	assets := asset.NewManager(asset.NewDirStore(cfg.Storage.UploadDir), logger)

	_, err = seed.New(
		user.NewService(user.NewRepository(db.DB)),
		categories,
		product.NewService(product.NewRepository(db.DB), categories, assets, logger),
		password,
	).WithProducts(products).Run(ctx)
	return err
}
