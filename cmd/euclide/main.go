// Command euclide solves retrograde chess problems: given a starting
// position, a target diagram and a half-move budget, it deduces, for every
// piece, the squares it may have ended on and the moves it must have
// played.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/euclide-go/euclide/config"
	"github.com/euclide-go/euclide/driver"
	"github.com/euclide-go/euclide/problem"
	"github.com/euclide-go/euclide/shell"
)

var (
	profilePath = flag.String("profilepath", "", "path for CPU profile")
	verbose     = flag.Bool("verbose", false, "enable debug logging")
	oneShot     = flag.String("problem", "", "solve one problem non-interactively: \"initial diagram halfmoves castling variant\"")
)

const gracefulShutdownTimeout = 5 * time.Second

func main() {
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *profilePath != "" {
		f, err := os.Create(*profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("")
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	cfg := config.Load(config.New())

	if *oneShot != "" {
		runOneShot(*oneShot, cfg)
		return
	}

	runInteractive(cfg)
}

func runOneShot(forsythe string, cfg config.Config) {
	p, err := problem.Parse(forsythe)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse problem")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := driver.New(p, cfg)
	pieces, err := d.Solve(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("solve failed")
	}

	for _, pc := range pieces {
		final, ok := pc.FinalSquare()
		if !ok {
			continue
		}
		fmt.Printf("%s: %s -> %s (%d moves)\n", pc.Glyph(), pc.InitialSquare(), final, pc.RequiredMoves())
	}
}

func runInteractive(cfg config.Config) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("euclide - retrograde analysis shell")
	fmt.Println(`commands: load <forsythe> | run | piece <sq> | show | quit`)

	c := shell.New(cfg)

	done := make(chan struct{})
	go func() {
		c.Loop(sig)
		close(done)
	}()

	select {
	case <-done:
	case <-sig:
		log.Info().Msg("got quit signal, shutting down")
		select {
		case <-done:
		case <-time.After(gracefulShutdownTimeout):
		}
	}
}
