package main

import (
	"os"

	"github.com/joho/godotenv"

	"fiesta-cli/internal/logger"
)

var log = logger.Named("cli")

func main() {
	logger.Configure()
	if logFile, _, err := logger.SetupFile(logger.DefaultLogPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
	}
	// .env 仅作开发便利，缺失时无声跳过
	_ = godotenv.Load()

	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("parse args: %v", err)
	}
	if len(rest) > 0 {
		switch rest[0] {
		case "ping":
			pingMain(root, rest[1:])
			return
		case "saved":
			savedMain(root, rest[1:])
			return
		case "checklist":
			checklistMain(root, rest[1:])
			return
		}
	}
	chatMain(root, rest)
}
