package main

import (
	"os"

	"github.com/fmuoria/resume-ranker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
