package main

import (
	"os"

	"github.com/citadelmro/capplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
