package automatic

import (
	"context"
	"errors"
	"expvar"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/tetrisai/config"
)

var (
	GamesPlayed *expvar.Int
	IsPlaying   *expvar.Int
)

func init() {
	GamesPlayed = expvar.NewInt("gamesPlayed")
	IsPlaying = expvar.NewInt("isPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

type job struct {
	gameID int
	seed   uint64
}

// PlayGames plays numGames games on threads workers. Per-piece log lines
// are written to logWriter if it is not nil. Cancelling ctx stops the
// games after their current piece; the summary then covers the games that
// finished.
func PlayGames(ctx context.Context, cfg *config.Config, numGames, threads int,
	logWriter io.Writer) (*Summary, error) {

	seeds, err := GameSeeds(cfg.GetUint64(config.ConfigSeed), numGames)
	if err != nil {
		return nil, err
	}
	return PlaySeededGames(ctx, cfg, seeds, threads, logWriter)
}

// PlaySeededGames plays one game per seed.
func PlaySeededGames(ctx context.Context, cfg *config.Config, seeds []uint64, threads int,
	logWriter io.Writer) (*Summary, error) {

	if threads < 1 {
		return nil, errors.New("need at least one thread")
	}
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	log.Info().Int("games", len(seeds)).Int("threads", threads).Msg("starting-games")
	tstart := time.Now()

	var logChan chan string
	if logWriter != nil {
		logChan = make(chan string, 100)
	}
	runners := make([]*GameRunner, threads)
	for t := range runners {
		r, err := NewGameRunner(logChan, cfg)
		if err != nil {
			return nil, err
		}
		runners[t] = r
	}

	writer := errgroup.Group{}
	if logWriter != nil {
		writer.Go(func() error {
			defer log.Debug().Msg("log writer exiting")
			if _, err := io.WriteString(logWriter, LogHeader); err != nil {
				// keep draining so the players never block
				for range logChan {
				}
				return err
			}
			var werr error
			for msg := range logChan {
				if werr != nil {
					continue
				}
				_, werr = io.WriteString(logWriter, msg)
			}
			return werr
		})
	}

	jobs := make(chan job)
	results := make(chan Result, threads)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i, seed := range seeds {
			select {
			case jobs <- job{gameID: i + 1, seed: seed}:
			case <-gctx.Done():
				log.Info().Msg("got stop signal, no more games will be queued")
				return nil
			}
		}
		return nil
	})

	for _, r := range runners {
		g.Go(func() error {
			for j := range jobs {
				res, err := r.PlayGame(gctx, j.gameID, j.seed)
				if err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
						return nil
					}
					return err
				}
				GamesPlayed.Add(1)
				results <- res
			}
			return nil
		})
	}

	collected := make(chan []Result)
	go func() {
		var all []Result
		for res := range results {
			all = append(all, res)
			if len(all)%100 == 0 {
				log.Info().Int("finished", len(all)).Msg("games-progress")
			}
		}
		collected <- all
	}()

	err := g.Wait()
	close(results)
	all := <-collected
	if logChan != nil {
		close(logChan)
	}
	if werr := writer.Wait(); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool { return all[i].GameID < all[j].GameID })
	summary := Summarize(all)
	summary.Threads = threads
	summary.Requested = len(seeds)
	summary.Elapsed = time.Since(tstart)
	summary.Canceled = ctx.Err() != nil
	log.Info().Int("games", summary.Games).Float64("mean-lines", summary.MeanLines).
		Dur("elapsed", summary.Elapsed).Msg("all-games-finished")
	return summary, nil
}
