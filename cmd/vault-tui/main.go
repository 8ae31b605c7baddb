package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"mindvault/internal/client"
	"mindvault/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var server, login string
	flag.StringVar(&server, "server", "http://localhost:3000", "Vault server base URL")
	flag.StringVar(&login, "login", "", "Email or username (defaults to MINDVAULT_LOGIN)")
	flag.Parse()

	if login == "" {
		login = os.Getenv("MINDVAULT_LOGIN")
	}

	c := client.New(server, os.Getenv("MINDVAULT_TOKEN"))
	if os.Getenv("MINDVAULT_TOKEN") == "" {
		if login == "" {
			fmt.Println("Usage: vault-tui [--server=URL] --login=<email or username>")
			fmt.Println("Set MINDVAULT_TOKEN to skip the password prompt.")
			os.Exit(1)
		}
		fmt.Printf("Password for %s: ", login)
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			log.Fatalf("failed to read password: %v", err)
		}
		if err := c.SignIn(context.Background(), login, string(password)); err != nil {
			log.Fatalf("sign in failed: %v", err)
		}
	}

	m := tui.New(c)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
