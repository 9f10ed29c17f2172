// Package dice parses dice command flags and prints roll results.
package dice

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/dicenotation/internal/platform/cmd"
	"github.com/louisbranch/dicenotation/internal/platform/config"
	"github.com/louisbranch/dicenotation/internal/random"
	"github.com/louisbranch/dicenotation/internal/services/roller/app"
	"github.com/louisbranch/dicenotation/internal/services/roller/storage"
	"github.com/louisbranch/dicenotation/internal/services/roller/storage/sqlite"
)

// version is reported by -version.
const version = "1.0.0"

// Config holds dice command configuration.
type Config struct {
	Notation    string `env:"DICE_NOTATION"`
	Sum         bool   `env:"DICE_SUM"`
	Seed        string `env:"DICE_SEED"`
	MaxDice     int    `env:"DICE_MAX_DICE"     envDefault:"1000"`
	HistoryPath string `env:"DICE_HISTORY_PATH"`
	Locale      string `env:"DICE_LOCALE"       envDefault:"en-US"`

	Verbose     bool
	HistoryList int
	Version     bool
}

// ParseConfig parses environment and flags into a Config. A single
// positional argument is read as the notation when -d is not set.
func ParseConfig(fs *flag.FlagSet, args []string, environ []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args, environ, bindFlags); err != nil {
		return Config{}, err
	}
	if cfg.Notation == "" && fs.NArg() > 0 {
		cfg.Notation = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args()[1:], " "))
	}
	if cfg.HistoryList < 0 {
		return Config{}, errors.New("history-list must not be negative")
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Notation, "d", cfg.Notation, "the dice to be rolled, such as '4d6'")
	fs.BoolVar(&cfg.Sum, "s", cfg.Sum, "sum final result")
	fs.StringVar(&cfg.Seed, "seed", cfg.Seed, "replay a roll from this seed")
	fs.IntVar(&cfg.MaxDice, "max-dice", cfg.MaxDice, "maximum number of dice per roll")
	fs.StringVar(&cfg.HistoryPath, "history", cfg.HistoryPath, "SQLite file recording roll history (empty disables history)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for error messages (en-US or pt-BR)")
	fs.BoolVar(&cfg.Verbose, "v", false, "print status messages to stderr")
	fs.IntVar(&cfg.HistoryList, "history-list", 0, "print the last N recorded rolls and exit")
	fs.BoolVar(&cfg.Version, "version", false, "print the version and exit")
}

// Run executes the dice command. The roll result goes to out; verbose
// status messages go to errOut.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	if cfg.Version {
		fmt.Fprintf(out, "dice version %s\n", version)
		return nil
	}

	var store storage.HistoryStore
	if cfg.HistoryPath != "" {
		sqliteStore, err := sqlite.Open(ctx, cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}
	service := app.NewService(app.Config{MaxDice: cfg.MaxDice, Store: store})

	if cfg.HistoryList > 0 {
		return printHistory(ctx, service, cfg.HistoryList, out)
	}

	if strings.TrimSpace(cfg.Notation) == "" {
		return errors.New("notation is required, for example -d 4d6")
	}

	req := app.RollRequest{Notation: cfg.Notation, ForceSum: cfg.Sum}
	if cfg.Seed != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(cfg.Seed), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", cfg.Seed, err)
		}
		req.Rng = &random.RngRequest{Seed: &seed, RollMode: random.RollModeReplay}
	}

	resp, err := service.Roll(ctx, req)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		config.Fprintf(errOut, "notation: %s", resp.Spec.String())
		config.Fprintf(errOut, "rolls: %v", resp.Result.Rolls)
		config.Fprintf(errOut, "kept: %v", resp.Result.Kept)
		config.Fprintf(errOut, "dropped: %v", resp.Result.Dropped)
		config.Fprintf(errOut, "seed: %d (%s, %s)", resp.Seed, resp.SeedSource, resp.RollMode)
		if store != nil {
			config.Fprintf(errOut, "roll id: %s", resp.ID)
		}
	}
	fmt.Fprintln(out, resp.Result.String())
	return nil
}

func printHistory(ctx context.Context, service *app.Service, limit int, out io.Writer) error {
	records, err := service.History(ctx, limit)
	if err != nil {
		return err
	}
	for _, record := range records {
		value := strconv.Itoa(record.Total)
		if !record.Summed {
			value = fmt.Sprint(record.Kept)
		}
		fmt.Fprintf(out, "%s  %s  %-16s %s  seed=%d\n",
			record.CreatedAt.Format(time.RFC3339),
			record.ID,
			record.Notation,
			value,
			record.Seed,
		)
	}
	return nil
}
