package main

import (
	"os"

	"github.com/govflowai/govchat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
