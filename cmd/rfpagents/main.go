package main

import (
	"os"

	"github.com/moolen/rfpagents/cmd/rfpagents/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
