package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stemsi/contact-backend/internal/config"
	"github.com/stemsi/contact-backend/internal/database"
)

func main() {
	var steps int
	flag.IntVar(&steps, "steps", 0, "Number of migrations to apply (up) or revert (down); 0 means all")
	flag.Parse()

	// Load config
	cfg := config.Load()
	if cfg.StoreDriver != config.StoreDriverPostgres {
		log.Fatalf("migrations only apply to STORE_DRIVER=%s (got %q)", config.StoreDriverPostgres, cfg.StoreDriver)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return
	}

	m, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Migration failed to initialize: %v", err)
	}
	defer m.Close()

	switch command := args[0]; command {
	case "up":
		if err := run(m.Up, m, steps); err != nil {
			log.Fatalf("Up failed: %v", err)
		}
		fmt.Println("Migrated up successfully")
	case "down":
		if err := run(m.Down, m, -steps); err != nil {
			log.Fatalf("Down failed: %v", err)
		}
		fmt.Println("Migrated down successfully")
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("Version failed: %v", err)
		}
		fmt.Printf("Version: %d, Dirty: %t\n", version, dirty)
	case "force":
		if len(args) < 2 {
			log.Fatal("force requires version argument")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("Invalid version: %v", err)
		}
		if err := m.Force(v); err != nil {
			log.Fatalf("Force failed: %v", err)
		}
		fmt.Printf("Forced version to %d\n", v)
	default:
		printUsage()
	}
}

// run applies all migrations via all, or n steps when n is non-zero.
func run(all func() error, m *migrate.Migrate, n int) error {
	var err error
	if n == 0 {
		err = all()
	} else {
		err = m.Steps(n)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up, down, version, force <version>")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
