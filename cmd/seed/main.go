// Seed creates the initial admin account from SEED_ADMIN_* env vars.
// Safe to re-run: it refuses to touch an existing account.
package main

import (
	"log"
	"os"

	"lexfirm-backend/internal/config"
	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	name := os.Getenv("SEED_ADMIN_NAME")
	if name == "" {
		name = "Administrator"
	}
	if email == "" || len(password) < 8 {
		log.Fatal("SEED_ADMIN_EMAIL and a SEED_ADMIN_PASSWORD of at least 8 characters are required")
	}

	var exist models.User
	if err := database.DB.Where("email = ?", email).First(&exist).Error; err == nil {
		log.Fatalf("a user with email %s already exists (id=%d)", email, exist.ID)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("could not hash password: %v", err)
	}

	admin := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatalf("could not create admin: %v", err)
	}

	log.Printf("admin account created: %s (id=%d)", admin.Email, admin.ID)
}
