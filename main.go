package main

import (
	"os"

	"github.com/Starmania/scrambling/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
