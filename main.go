package main

import (
	"os"

	"meetly/core/logger"
	"meetly/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
		os.Exit(1)
	}
}
