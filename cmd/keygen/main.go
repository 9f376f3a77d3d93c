// AngelaMos | 2026
// main.go

package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/carterperez-dev/templates/catalog-backend/internal/auth"
)

func main() {
	privatePath := flag.String("private", "keys/private.pem", "where to write the signing key")
	publicPath := flag.String("public", "keys/public.pem", "where to write the public key")
	flag.Parse()

	if err := auth.GenerateKeyPair(*privatePath, *publicPath); err != nil {
		slog.Error("generate key pair", "error", err)
		os.Exit(1)
	}

	slog.Info("key pair written", "private", *privatePath, "public", *publicPath)
}
