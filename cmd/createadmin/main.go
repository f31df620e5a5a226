// Command createadmin seeds an administrator account. It prompts for the
// password on the terminal so it never lands in shell history.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/dmitrijs2005/contacthub/internal/server/auth"
	"github.com/dmitrijs2005/contacthub/internal/server/config"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
	"github.com/dmitrijs2005/contacthub/internal/server/repositories/repomanager"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	email, password, err := promptCredentials()
	if err != nil {
		log.Fatalf("%v", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("password hash error: %v", err)
	}

	repo := rm.Users(db)
	user, err := repo.Create(ctx, &models.User{Email: email, HashedPassword: hashed}, models.RoleAdmin)
	if err != nil {
		log.Fatalf("user create error: %v", err)
	}
	// admins do not go through the email verification flow
	if err := repo.Activate(ctx, user.ID); err != nil {
		log.Fatalf("user activate error: %v", err)
	}

	fmt.Printf("admin %s created (id %s)\n", user.Email, user.ID)
}

func promptCredentials() (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("reading email: %w", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "", fmt.Errorf("email must not be empty")
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Print("Repeat password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("reading password: %w", err)
	}

	if string(password) != string(confirm) {
		return "", "", fmt.Errorf("passwords do not match")
	}
	if len(password) < 8 {
		return "", "", fmt.Errorf("password must be at least 8 characters")
	}

	return email, string(password), nil
}
