package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"goose-search/movegen"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

// run executes a command and prints its combined output. Returns exit code.
func run(name string, args ...string) int {
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	fmt.Print(out.String())
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "error running %s: %v\n", name, err)
	return 1
}

func main() {
	// Usage: go run ./cmd/benchrun [-perft 4] [-search 5]
	perftDepth := flag.Int("perft", 4, "deepest start position perft per backend")
	searchDepth := flag.Int("search", 5, "searchbench depth")
	flag.Parse()

	fmt.Println("Columns: BENCHMARK  N  ns/op  B/op  allocs/op")
	code := run("go", "test", "./movegen", "./engine", "-run", "^$", "-bench", ".", "-benchmem", "-benchtime=1s")
	if code != 0 {
		os.Exit(code)
	}

	fmt.Println("\nPerft Performance:")
	fmt.Println("TEST \tBackend \tDepth \t\tNodes \t\tTime \tNPS")
	for _, backend := range movegen.Backends {
		for depth := 3; depth <= *perftDepth; depth++ {
			run("go", "run", "./cmd/perft", "-backend", string(backend), "-depth", strconv.Itoa(depth), "-label", "Initial")
		}
		_ = run("go", "run", "./cmd/perft", "-backend", string(backend), "-fen", kiwipete, "-depth", "3", "-label", "Kiwipete")
	}

	fmt.Println("\nSearch Performance:")
	for _, backend := range movegen.Backends {
		_ = run("go", "run", "./cmd/searchbench", "-backend", string(backend), "-depth", strconv.Itoa(*searchDepth))
	}
	os.Exit(0)
}
