//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/chatlift/chatlift/internal/auth"
	"github.com/chatlift/chatlift/internal/chat"
	"github.com/chatlift/chatlift/internal/database"
	"github.com/chatlift/chatlift/pkg/config"
	"github.com/chatlift/chatlift/pkg/crypto"
	"github.com/chatlift/chatlift/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Create the demo owner and tenant
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService, cfg.Trial.Length())

	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	name := os.Getenv("SEED_NAME")

	if email == "" {
		email = "owner@example.com"
	}
	if password == "" {
		password = "chatlift123!"
	}
	if name == "" {
		name = "Demo Owner"
	}

	user, err := authService.Signup(context.Background(), auth.SignupInput{
		Email:       email,
		Password:    password,
		Name:        name,
		CompanyName: "Demo Company",
	})
	if err != nil {
		if err == auth.ErrUserExists {
			fmt.Printf("Seed user already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create seed user: %v", err)
	}

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		log.Fatalf("failed to initialize encryptor: %v", err)
	}

	widgetService := chat.NewWidgetService(db, encryptor)
	widget, err := widgetService.Create(context.Background(), user.TenantID, chat.WidgetInput{
		Name:     "Demo Widget",
		Greeting: "Hi! How can we help?",
	})
	if err != nil {
		log.Fatalf("failed to create demo widget: %v", err)
	}

	fmt.Printf("Seed data created successfully!\n")
	fmt.Printf("Email:      %s\n", user.Email)
	fmt.Printf("Password:   %s\n", password)
	fmt.Printf("Widget key: %s\n", widget.PublicKey)
}
