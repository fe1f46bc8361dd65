// Command holdem-engine is a sample driver for the core engine: it seats N
// AI players at one table and plays hands to completion, printing a styled
// snapshot after each hand. It exists to exercise the Command/Query Service
// surface end to end, grounded on the teacher's cmd/holdem/main.go (kong CLI
// struct, createLogger, a seeded RNG) but replacing the teacher's TUI/human
// player loop with a headless spectator loop, since the core here has no
// transport or presentation layer of its own (spec §1/§6).
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-engine/config"
	"github.com/lox/holdem-engine/internal/ai"
	"github.com/lox/holdem-engine/internal/engine"
	"github.com/lox/holdem-engine/internal/enginelog"
	"github.com/lox/holdem-engine/internal/event"
	"github.com/lox/holdem-engine/internal/randutil"
)

// CLI mirrors the teacher's flag shape (Players/LogLevel/LogFile/Seed) and
// adds Hands and ConfigPath for this engine's table/hand-count knobs.
type CLI struct {
	ConfigPath string `help:"HCL table config file (uses built-in defaults if absent)" default:"holdem-engine.hcl"`
	Players    int    `short:"p" help:"Number of seats at the table" default:"6"`
	Hands      int    `help:"Number of hands to play before exiting" default:"1"`
	LogLevel   string `help:"Set the log level" enum:"debug,info,warn,error" default:"warn"`
	LogFile    string `help:"The logfile to write engine diagnostics to" default:"holdem-engine.log"`
	Seed       *int64 `help:"Seed for the deterministic RNG"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli)

	cfg, err := config.LoadTableConfig(cli.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading config:", err)
		kctx.Exit(1)
	}
	if cli.Players > 0 {
		cfg.Table.Seats = cli.Players
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		kctx.Exit(1)
	}

	logFile, err := os.OpenFile(cli.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
	if err != nil {
		fmt.Fprintln(os.Stderr, "opening log file:", err)
		kctx.Exit(1)
	}
	defer logFile.Close()

	logger, err := enginelog.New(logFile, cli.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parsing log level:", err)
		kctx.Exit(1)
	}

	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}

	if err := run(cfg, logger, seed, cli.Hands); err != nil {
		log.Error("run failed", "error", err)
		kctx.Exit(1)
	}
}

func run(cfg *config.TableConfig, logger *log.Logger, seed int64, hands int) error {
	bus := event.NewWithHistoryLimit(cfg.History.EventDepth)
	cs := engine.NewCommandServiceWithLogger(bus, quartz.NewReal(), logger)
	qs := engine.NewQueryService(cs, bus)

	playerIDs := make([]string, cfg.Table.Seats)
	for i := range playerIDs {
		playerIDs[i] = fmt.Sprintf("seat-%d", i+1)
	}

	result := cs.CreateGame("table-1", playerIDs, cfg.Table.InitialChips, cfg.Table.SmallBlind, cfg.Table.BigBlind)
	if !result.Success {
		return fmt.Errorf("create_game: %s", result.Message)
	}

	for i, id := range playerIDs {
		strategy := ai.Strategy(ai.CallStation)
		if i%3 == 0 {
			strategy = ai.AlwaysFold
		}
		if res := cs.RegisterStrategy("table-1", id, strategy); !res.Success {
			return fmt.Errorf("register_strategy(%s): %s", id, res.Message)
		}
	}

	rng := randutil.New(seed)
	for h := 0; h < hands; h++ {
		result = cs.StartNewHand("table-1", rng)
		if !result.Success {
			return fmt.Errorf("start_new_hand: %s", result.Message)
		}

		snap, err := qs.GetSnapshot("table-1")
		if err != nil {
			return fmt.Errorf("get_snapshot: %w", err)
		}
		fmt.Println(renderSnapshot(snap))

		over, reason, err := qs.IsGameOver("table-1")
		if err != nil {
			return fmt.Errorf("is_game_over: %w", err)
		}
		if over {
			fmt.Println(tableStyle.Render(fmt.Sprintf("table ended: %s", reason)))
			break
		}
	}
	return nil
}
