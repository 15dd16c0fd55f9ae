package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/Fepozopo/pixlab/pkg/backend"
	"github.com/Fepozopo/pixlab/pkg/cli"
)

func main() {
	// Optional .env for PIXLAB_* knobs; absence is not an error.
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	proc, shutdown := backend.Select(log)
	defer shutdown()

	cli.Run(proc)
}
