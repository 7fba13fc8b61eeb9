package main

// Small CLI for managing an admin session against a running backend:
// log in, check the session, poke the verify endpoint, log out.

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/velorashop/velora/pkg/session"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "base URL of the backend")
	sessionFile := flag.String("session-file", defaultSessionFile(), "path of the session file")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := session.NewClient(*serverURL)
	store := session.NewFileStore(*sessionFile)

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "login":
		err = login(ctx, client, store)
	case "verify":
		err = verify(ctx, client, store)
	case "status":
		err = status(store)
	case "logout":
		err = store.Clear()
		if err == nil {
			fmt.Println("logged out")
		}
	default:
		fmt.Printf("unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: adminctl [-server URL] [-session-file PATH] <login|verify|status|logout>")
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".velora-session.json"
	}
	return filepath.Join(home, ".velora", "session.json")
}

func login(ctx context.Context, client *session.Client, store *session.FileStore) error {
	var email string
	fmt.Print("email: ")
	if _, err := fmt.Scanln(&email); err != nil {
		return fmt.Errorf("read email: %w", err)
	}

	fmt.Print("password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	token, err := client.Login(ctx, email, string(passwordBytes))
	if err != nil {
		if errors.Is(err, session.ErrUnauthorized) {
			return errors.New("invalid credentials")
		}
		return err
	}

	if err := store.Save(&session.StoredSession{
		Token:     token,
		Email:     email,
		LastLogin: time.Now(),
	}); err != nil {
		return err
	}

	fmt.Printf("logged in as %s\n", email)
	return nil
}

func verify(ctx context.Context, client *session.Client, store *session.FileStore) error {
	stored, err := store.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoStoredSession) {
			return errors.New("not logged in")
		}
		return err
	}

	email, err := client.Verify(ctx, stored.Token)
	if err != nil {
		if errors.Is(err, session.ErrUnauthorized) {
			// the server said no - the stored token is worthless now
			_ = store.Clear()
			return errors.New("session expired or invalid, please log in again")
		}
		return err
	}

	fmt.Printf("session valid, admin: %s\n", email)
	return nil
}

func status(store *session.FileStore) error {
	stored, err := store.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoStoredSession) {
			fmt.Println("not logged in")
			return nil
		}
		return err
	}

	fmt.Printf("logged in as:  %s\n", stored.Email)
	fmt.Printf("last login:    %s\n", stored.LastLogin.Format(time.RFC1123))
	fmt.Printf("remember me:   %t\n", stored.RememberMe)
	return nil
}
