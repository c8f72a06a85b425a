package main

import (
	"os"

	"PriceSentinel/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
