package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/hotelops/hotel-admin-backend/internal/config"
	"github.com/hotelops/hotel-admin-backend/internal/database"
	"github.com/hotelops/hotel-admin-backend/internal/storage"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var hotelKeys = []string{
	storage.KeyReservations,
	storage.KeyRequests,
	storage.KeyRooms,
	storage.KeyClients,
}

var authKeys = []string{
	storage.KeyAuth,
	storage.KeySessions,
	storage.KeyAdmins,
	storage.KeyLoginAttempt,
}

func main() {
	var (
		driverFlag  string
		keysFlag    string
		includeAuth bool
	)
	flag.StringVar(&driverFlag, "driver", "", "storage driver (overrides STORAGE_DRIVER)")
	flag.StringVar(&keysFlag, "keys", "", "comma separated keys to delete (default: every hotel collection)")
	flag.BoolVar(&includeAuth, "include-auth", false, "also delete admin accounts and sessions")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	// This avoids having to pass secrets on the command line.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	if driverFlag != "" {
		cfg.Storage.Driver = strings.ToLower(driverFlag)
	}
	if cfg.Storage.Driver == config.StorageMemory {
		log.Fatal("memory storage holds nothing between runs; pick file, redis or postgres")
	}

	keys := hotelKeys
	if keysFlag != "" {
		keys = nil
		for _, k := range strings.Split(keysFlag, ",") {
			if trimmed := strings.TrimSpace(k); trimmed != "" {
				keys = append(keys, trimmed)
			}
		}
	}
	if includeAuth {
		keys = append(keys, authKeys...)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctx := context.Background()
	store, err := database.OpenStore(ctx, cfg, "maintenance", logger)
	if err != nil {
		log.Fatalf("failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer store.Close()

	fmt.Printf("Connected to %s storage. Deleting %d keys...\n", cfg.Storage.Driver, len(keys))

	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil {
			log.Fatalf("failed to delete %s: %v", key, err)
		}
	}

	fmt.Println("Selected data cleared. Services reseed rooms and clients on next start.")

	// Verify by reading each key back
	fmt.Println("Post-clear state:")
	for _, key := range keys {
		_, err := store.Get(ctx, key)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			fmt.Printf("  %s: absent\n", key)
		case err != nil:
			fmt.Printf("  %s: error: %v\n", key, err)
		default:
			fmt.Printf("  %s: still present\n", key)
		}
	}
}
