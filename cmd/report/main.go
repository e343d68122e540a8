package main

import (
	"os"

	"github.com/you/myapp/busdelays/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
