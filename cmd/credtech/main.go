package main

import (
	"os"

	"github.com/poxaedu/credtech/cmd/credtech/commands"
)

// main is the entry point for the CredTech CLI
// ⭐ Ponto de entrada único: go run ./cmd/credtech [comando]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
