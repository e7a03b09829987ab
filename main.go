package main

import (
	"os"

	"github.com/spigell/lp-recommender/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
