package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"expensebot/cmd/detect"
	"expensebot/cmd/export"
	"expensebot/cmd/refresh"
	"expensebot/cmd/remind"
	"expensebot/cmd/root"
	"expensebot/cmd/serve"
)

func init() {
	// Load environment variables silently before any logging happens.
	loadEnvSilently()

	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(detect.Cmd)
	root.Cmd.AddCommand(refresh.Cmd)
	root.Cmd.AddCommand(remind.Cmd)
	root.Cmd.AddCommand(export.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
