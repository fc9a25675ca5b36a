package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/broforce-mods/broforce-tools/cmd"
	"github.com/broforce-mods/broforce-tools/domain"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
