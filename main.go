package main

import (
	"os"

	"github.com/cwarden/theine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
