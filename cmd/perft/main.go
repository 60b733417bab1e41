package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"goose-search/movegen"
)

func main() {
	fen := flag.String("fen", movegen.Startpos, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	backendName := flag.String("backend", string(movegen.DefaultBackend), "Move generator: dragontooth, goosemg or notnil")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	memProf := flag.String("memprofile", "", "Write heap profile to file after run")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *depth <= 0 {
		log.Fatal().Int("depth", *depth).Msg("-depth must be > 0")
	}

	backend, err := movegen.ParseBackend(*backendName)
	if err != nil {
		log.Fatal().Err(err).Msg("backend")
	}
	pos, err := movegen.FromFEN(backend, *fen)
	if err != nil {
		log.Fatal().Err(err).Msg("parse FEN")
	}

	if *divide {
		div := movegen.Divide(pos, *depth)
		moves := lo.Keys(div)
		sort.Strings(moves)
		var sum uint64
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
			sum += div[m]
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			log.Fatal().Err(err).Msg("creating cpuprofile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("start cpu profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += movegen.Perft(pos, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Label Depth Nodes Time NPS
	fmt.Printf("%s \t%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, backend, *depth, totalNodes, elapsed, nps)

	if *memProf != "" {
		f, err := os.Create(*memProf)
		if err != nil {
			log.Fatal().Err(err).Msg("creating memprofile")
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("write heap profile")
		}
		_ = f.Close()
	}
}
