package main

import (
	"os"

	"github.com/sirsjg/traction/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
