package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"goose-search/config"
	"goose-search/movegen"
	"goose-search/uci"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	cfg.Logs.SetupGlobalLogger()
	movegen.Init()

	e := uci.NewEngine(os.Stdout, uci.Options{
		Backend:      cfg.Engine.Backend,
		DefaultDepth: cfg.Engine.DefaultDepth,
	})
	if err := e.Loop(context.Background(), os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("uci")
	}
}
