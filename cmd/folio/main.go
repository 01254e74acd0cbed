package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/eringen/folio"
	"github.com/eringen/folio/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "hash":
		if err := runHash(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("folio %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	cfg := folio.ConfigFromEnv()
	app := folio.New(cfg, views.Default(cfg.Name))
	defer app.Close()
	return app.Start()
}

// runHash prompts for the admin password and prints its bcrypt hash
// for use as ADMIN_PASSWORD_HASH.
func runHash() error {
	fmt.Fprint(os.Stderr, "Password: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	if len(pass) == 0 {
		return fmt.Errorf("empty password")
	}
	hash, err := bcrypt.GenerateFromPassword(pass, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Println(string(hash))
	return nil
}

func printUsage() {
	fmt.Println(`folio - a personal portfolio and blog engine

Usage:
  folio <command>

Commands:
  serve         Start the site (default; configured via environment/.env)
  hash          Print a bcrypt hash for ADMIN_PASSWORD_HASH
  version       Print the folio version
  help          Show this help message

Environment:
  SITE_NAME, SITE_URL, SITE_DESCRIPTION, SITE_AUTHOR, ADDR,
  DATABASE_PATH, ADMIN_EMAIL, ADMIN_PASSWORD_HASH, SESSION_SECRET,
  COOKIE_SECURE`)
}
