package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"adaptive/internal/errors"
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	for _, fix := range errors.GetSuggestedFixes(errors.CodeOf(err)) {
		switch fix.Type {
		case errors.RunCommand:
			fmt.Fprintf(os.Stderr, "  Try: %s  (%s)\n", fix.Command, fix.Description)
		case errors.EditFile:
			fmt.Fprintf(os.Stderr, "  Edit: %s  (%s)\n", fix.Path, fix.Description)
		}
	}
}
