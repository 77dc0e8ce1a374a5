package main

import (
	"os"

	"github.com/wonny/oiwatch/cmd/oiwatch/commands"
)

// main is the entry point for the oiwatch CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/oiwatch [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
