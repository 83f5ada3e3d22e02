package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/stemsi/contact-backend/internal/config"
	"github.com/stemsi/contact-backend/internal/logger"
	"github.com/stemsi/contact-backend/internal/service"
	"github.com/stemsi/contact-backend/internal/store"
	"github.com/stemsi/contact-backend/internal/validator"
	"golang.org/x/term"
)

const minPasswordLength = 6

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Admin creation failed")
	}
}

// run is the interactive flow. The store is closed before it returns.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// ─── Connect to Store ──────────────────────────────────────────────
	stores, err := store.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer stores.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	adminService := service.NewAdminService(stores.Admins, authService, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	count, err := adminService.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		fmt.Printf("%d admin user(s) already exist.\n", count)
		fmt.Print("Do you want to create another admin? (yes/no): ")
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "yes" && answer != "y" {
			fmt.Println("Admin creation cancelled.")
			return nil
		}
	}

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if err := validator.Var(name, "required,min=2,max=50"); err != nil {
		fmt.Println("Error: Name must be between 2 and 50 characters")
		return nil
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if err := validator.Var(email, "required,email"); err != nil {
		fmt.Println("Error: Please enter a valid email address")
		return nil
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println()
		return fmt.Errorf("read password: %w", err)
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < minPasswordLength {
		fmt.Printf("Error: Password must be at least %d characters\n", minPasswordLength)
		return nil
	}
	if !validator.ValidPasswordLength(password) {
		fmt.Printf("Error: Password must be at most %d bytes\n", validator.MaxPasswordBytes)
		return nil
	}

	fmt.Print("Confirm Password: ")
	byteConfirm, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println()
		return fmt.Errorf("read password: %w", err)
	}
	fmt.Println()
	if string(byteConfirm) != password {
		fmt.Println("Error: Passwords do not match")
		return nil
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	admin, err := adminService.Provision(ctx, name, email, password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			fmt.Println("Error: An admin with this email already exists")
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %s\n", admin.Name, admin.Email, admin.ID)
	return nil
}
