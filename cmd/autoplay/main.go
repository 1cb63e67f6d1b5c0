// Command autoplay plays self-play games without a display and prints a
// summary. An optional argument names a seed file, one seed per line, to
// replay a previous batch.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisai/automatic"
	"github.com/domino14/tetrisai/config"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "could not load config:", err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()

	if err := run(cfg); err != nil {
		log.Err(err).Msg("autoplay-failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if p := cfg.GetString(config.ConfigCPUProfile); p != "" {
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var seeds []uint64
	var err error
	if args := cfg.Args(); len(args) > 0 {
		seeds, err = automatic.LoadSeeds(args[0])
	} else {
		seeds, err = automatic.GameSeeds(cfg.GetUint64(config.ConfigSeed), cfg.GetInt(config.ConfigGames))
	}
	if err != nil {
		return err
	}

	var logWriter io.Writer
	if p := cfg.GetString(config.ConfigLogFile); p != "" {
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("could not create log file: %w", err)
		}
		defer f.Close()
		logWriter = f
		// keep the seeds next to the log so the batch can be replayed
		if err := automatic.SaveSeeds(seeds, p+".seeds"); err != nil {
			return err
		}
	}

	summary, err := automatic.PlaySeededGames(ctx, cfg, seeds, cfg.GetInt(config.ConfigThreads), logWriter)
	if err != nil {
		return err
	}
	out, err := summary.YAML(cfg.GetBool(config.ConfigDebug))
	if err != nil {
		return err
	}
	os.Stdout.Write(out)
	return summary.WriteHistogram(os.Stdout)
}
