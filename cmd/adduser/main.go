// Command adduser creates a user account from the terminal, prompting for the
// password so it never lands in shell history.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/storage"
)

func main() {
	username := flag.String("username", "", "display name for the new user")
	email := flag.String("email", "", "email address (login identity)")
	flag.Parse()

	if *username == "" || *email == "" {
		fmt.Fprintln(os.Stderr, "usage: adduser -username NAME -email ADDRESS")
		os.Exit(2)
	}

	config.Load(".env")
	cfg := config.FromEnv()

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	if len(password) < 6 {
		log.Fatal("Password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := storage.NewUserRepository(db).Create(ctx, *username, *email, hash)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created user %s <%s>\n", user.Username, user.Email)
}
