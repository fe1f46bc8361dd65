// Package config loads table configuration from HCL files, grounded on the
// teacher's internal/server/config.go and internal/client/config.go
// (gohcl struct tags, a DefaultXConfig fallback, LoadXConfig reading from
// disk and falling back to defaults when the file is absent). It holds the
// table and ambient knobs a host reads when constructing a session; nothing
// here is read by internal/engine directly.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// TableConfig is the full set of knobs a host needs to stand up one
// CommandService session plus its ambient history bounds.
type TableConfig struct {
	Table   TableSettings   `hcl:"table,block"`
	History HistorySettings `hcl:"history,block"`
	Logging LoggingSettings `hcl:"logging,block"`
}

// TableSettings mirrors spec.md's CreateGame command inputs (§6): seats,
// blinds, and starting stack.
type TableSettings struct {
	Seats        int `hcl:"seats,optional"`
	InitialChips int `hcl:"initial_chips,optional"`
	SmallBlind   int `hcl:"small_blind,optional"`
	BigBlind     int `hcl:"big_blind,optional"`
}

// HistorySettings holds the bounded retention windows from spec §4.11
// (snapshot history) and §4.12 (event bus history). The sample drivers pass
// EventDepth to the event bus; SnapshotDepth is loaded and defaulted but not
// passed on, so a CommandService always keeps the snapshot manager's default
// bound.
type HistorySettings struct {
	SnapshotDepth int `hcl:"snapshot_depth,optional"`
	EventDepth    int `hcl:"event_depth,optional"`
}

// LoggingSettings describes the diagnostic logger for
// engine.NewCommandServiceWithLogger, matching the teacher's
// UISettings.LogLevel/LogFile split. It is loaded and defaulted only:
// cmd/holdem-engine builds its logger from its own --log-level and
// --log-file flags instead.
type LoggingSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// DefaultTableConfig returns a 6-seat table at 1/2 blinds with 200 big
// blinds starting stack, same shape as the teacher's DefaultServerConfig.
func DefaultTableConfig() *TableConfig {
	return &TableConfig{
		Table: TableSettings{
			Seats:        6,
			InitialChips: 400,
			SmallBlind:   1,
			BigBlind:     2,
		},
		History: HistorySettings{
			SnapshotDepth: 100,
			EventDepth:    1000,
		},
		Logging: LoggingSettings{
			Level: "info",
			File:  "holdem-engine.log",
		},
	}
}

// LoadTableConfig loads configuration from an HCL file at path, returning
// DefaultTableConfig if path does not exist, per the teacher's
// LoadServerConfig fallback behavior.
func LoadTableConfig(path string) (*TableConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultTableConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", path, diags.Error())
	}

	cfg := DefaultTableConfig()
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", path, diags.Error())
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *TableConfig) {
	defaults := DefaultTableConfig()
	if cfg.Table.Seats == 0 {
		cfg.Table.Seats = defaults.Table.Seats
	}
	if cfg.Table.InitialChips == 0 {
		cfg.Table.InitialChips = defaults.Table.InitialChips
	}
	if cfg.Table.SmallBlind == 0 {
		cfg.Table.SmallBlind = defaults.Table.SmallBlind
	}
	if cfg.Table.BigBlind == 0 {
		cfg.Table.BigBlind = defaults.Table.BigBlind
	}
	if cfg.History.SnapshotDepth == 0 {
		cfg.History.SnapshotDepth = defaults.History.SnapshotDepth
	}
	if cfg.History.EventDepth == 0 {
		cfg.History.EventDepth = defaults.History.EventDepth
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = defaults.Logging.File
	}
}

// Validate checks the config is internally sane: positive seats/chips/
// blinds with BigBlind strictly greater than SmallBlind.
func (c *TableConfig) Validate() error {
	if c.Table.Seats < 2 {
		return fmt.Errorf("config: seats must be >= 2, got %d", c.Table.Seats)
	}
	if c.Table.InitialChips <= 0 {
		return fmt.Errorf("config: initial_chips must be positive, got %d", c.Table.InitialChips)
	}
	if c.Table.SmallBlind <= 0 || c.Table.BigBlind <= 0 {
		return fmt.Errorf("config: blinds must be positive")
	}
	if c.Table.BigBlind <= c.Table.SmallBlind {
		return fmt.Errorf("config: big_blind (%d) must exceed small_blind (%d)", c.Table.BigBlind, c.Table.SmallBlind)
	}
	return nil
}
