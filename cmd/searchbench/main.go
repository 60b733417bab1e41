package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"goose-search/engine"
	"goose-search/movegen"
)

func main() {
	// --- Flags ---
	depthFlag := flag.Int("depth", 5, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	backendFlag := flag.String("backend", string(movegen.DefaultBackend), "move generator backend")
	verbose := flag.Bool("v", false, "print UCI info lines for every iteration")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel).With().Timestamp().Logger()

	if *depthFlag <= 0 {
		log.Fatal().Msgf("depth must be positive, got %d", *depthFlag)
	}
	backend, err := movegen.ParseBackend(*backendFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("backend")
	}

	// --- Optional CPU profiling setup ---
	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fen := movegen.Startpos
	if *fenFlag != "" {
		fen = *fenFlag
	}
	pos, err := movegen.FromFEN(backend, fen)
	if err != nil {
		log.Fatal().Err(err).Msg("parse FEN")
	}

	fmt.Printf("searchbench: fen=%q backend=%s depth=%d repeat=%d\n", fen, backend, *depthFlag, *repeatFlag)

	var totalNodes uint64
	startAll := time.Now()
	for i := 0; i < *repeatFlag; i++ {
		s := engine.NewSearch(pos, engine.Limits{Depth: *depthFlag}, nil, *verbose)

		iterStart := time.Now()
		if err := s.Run(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("search")
		}
		iterElapsed := time.Since(iterStart)
		totalNodes += s.Nodes()

		fmt.Printf("iteration %d: bestmove %s score %d nodes %d time=%v\n",
			i+1, s.BestMove(), s.BestScore(), s.Nodes(), iterElapsed)
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v  nodes: %d  nps: %.0f\n", totalElapsed, totalNodes, float64(totalNodes)/totalElapsed.Seconds())

	// --- Optional heap profile at the end ---
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create memory profile")
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not write memory profile")
		}
	}
}
