package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/tunehub/tunehub/config"
	"github.com/tunehub/tunehub/internal/domain/entity"
	"github.com/tunehub/tunehub/internal/domain/valueobject"
	pginfra "github.com/tunehub/tunehub/internal/infrastructure/postgres"
	"github.com/tunehub/tunehub/pkg/helpers"
)

// Seeds the first super-admin moderator. Every later moderator is
// created through the console by someone holding the moderator
// management permission, so this is the only account made by hand.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	email := os.Getenv("SEED_MODERATOR_EMAIL")
	password := os.Getenv("SEED_MODERATOR_PASSWORD")
	name := os.Getenv("SEED_MODERATOR_NAME")
	if email == "" || password == "" {
		log.Fatal("SEED_MODERATOR_EMAIL and SEED_MODERATOR_PASSWORD are required")
	}
	if name == "" {
		name = "Super Admin"
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := pginfra.NewModeratorRepository(pool)

	if existing, err := repo.GetByEmail(ctx, email); err != nil {
		log.Fatalf("lookup failed: %v", err)
	} else if existing != nil {
		fmt.Printf("moderator already exists: id=%s email=%s\n", existing.ID(), email)
		return
	}

	addr, err := valueobject.NewEmail(email)
	if err != nil {
		log.Fatalf("invalid email: %v", err)
	}
	hashed, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	hash, err := valueobject.NewPasswordHash(hashed)
	if err != nil {
		log.Fatalf("invalid password hash: %v", err)
	}

	m := entity.NewModerator(addr, hash, name, valueobject.SuperAdminPermissions())
	if err := repo.Add(ctx, m); err != nil {
		log.Fatalf("failed to seed moderator: %v", err)
	}
	fmt.Printf("seeded super-admin moderator: id=%s email=%s\n", m.ID(), email)
}
