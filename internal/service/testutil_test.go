package service

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/contact-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  7 * 24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

var nopLog = zerolog.Nop()
