// Command multitable drives several independent tables concurrently,
// demonstrating that distinct CommandService sessions are safe to run on
// distinct goroutines (spec §5). Concurrency is bounded by
// golang.org/x/sync/semaphore and each table's goroutine is supervised by a
// golang.org/x/sync/errgroup.Group so the first table error cancels the
// tables still waiting for a semaphore slot; tables already running play on
// to completion. There is no teacher file to ground this on directly (the teacher
// only ever runs one table per process); the errgroup/semaphore pairing
// itself is the standard way that package pairs with "N independent workers,
// bounded fan-out" in the wider Go ecosystem.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lox/holdem-engine/config"
	"github.com/lox/holdem-engine/internal/ai"
	"github.com/lox/holdem-engine/internal/engine"
	"github.com/lox/holdem-engine/internal/enginelog"
	"github.com/lox/holdem-engine/internal/event"
	"github.com/lox/holdem-engine/internal/randutil"
)

type CLI struct {
	Tables      int   `short:"t" help:"Number of independent tables to run" default:"4"`
	Concurrency int64 `short:"c" help:"Maximum tables running at once" default:"2"`
	HandsEach   int   `help:"Hands to play per table" default:"3"`
	Seed        int64 `help:"Base seed; table i uses Seed+i" default:"1"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli)

	if err := run(cli); err != nil {
		fmt.Fprintln(os.Stderr, "multitable:", err)
		kctx.Exit(1)
	}
}

func run(cli CLI) error {
	cfg := config.DefaultTableConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("default config invalid: %w", err)
	}

	sem := semaphore.NewWeighted(cli.Concurrency)
	group, ctx := errgroup.WithContext(context.Background())

	for i := 0; i < cli.Tables; i++ {
		i := i
		group.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			return playTable(cfg, i, cli.Seed+int64(i), cli.HandsEach)
		})
	}

	return group.Wait()
}

func playTable(cfg *config.TableConfig, index int, seed int64, hands int) error {
	bus := event.NewWithHistoryLimit(cfg.History.EventDepth)
	cs := engine.NewCommandServiceWithLogger(bus, quartz.NewReal(), enginelog.Discard())
	qs := engine.NewQueryService(cs, bus)

	gameID := fmt.Sprintf("table-%d", index)
	playerIDs := []string{
		fmt.Sprintf("t%d-seat-1", index),
		fmt.Sprintf("t%d-seat-2", index),
		fmt.Sprintf("t%d-seat-3", index),
	}

	if res := cs.CreateGame(gameID, playerIDs, cfg.Table.InitialChips, cfg.Table.SmallBlind, cfg.Table.BigBlind); !res.Success {
		return fmt.Errorf("table %d: create_game: %s", index, res.Message)
	}
	for _, id := range playerIDs {
		if res := cs.RegisterStrategy(gameID, id, ai.CallStation); !res.Success {
			return fmt.Errorf("table %d: register_strategy(%s): %s", index, id, res.Message)
		}
	}

	rng := randutil.New(seed)
	for h := 0; h < hands; h++ {
		if res := cs.StartNewHand(gameID, rng); !res.Success {
			return fmt.Errorf("table %d hand %d: start_new_hand: %s", index, h, res.Message)
		}
		over, _, err := qs.IsGameOver(gameID)
		if err != nil {
			return fmt.Errorf("table %d: is_game_over: %w", index, err)
		}
		if over {
			break
		}
	}
	return nil
}
