// Command gyrfalcon-uci runs the engine behind a UCI-like command loop
// read from stdin.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gyrfalcon/engine/internal/config"
	"github.com/gyrfalcon/engine/internal/engine"
	"github.com/gyrfalcon/engine/internal/uci"
)

var (
	configPath = flag.String("config", "", "path to a YAML config file")
	debug      = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	eng := engine.NewEngine(cfg.HashMB, cfg.Threads)

	protocol := uci.New(eng, cfg)
	protocol.Run()
}
