package main

import (
	"os"

	"github.com/ttkit-ml/ttkit/cmd/ttkit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
