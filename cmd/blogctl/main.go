package main

import (
	"os"

	"Yatube/internal/pkg/logger"
)

func main() {
	logger.Init(os.Stderr)
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
