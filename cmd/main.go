package main

import (
	"os"

	"supportbot/core/log"
)

func main() {
	if err := Execute(); err != nil {
		log.Error("❌ Fatal error", "error", err)
		os.Exit(1)
	}
}
