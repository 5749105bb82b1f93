package main

import (
	"os"

	"github.com/conneroisu/vuelens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
