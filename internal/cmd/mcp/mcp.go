// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"io"

	entrypoint "github.com/louisbranch/dicenotation/internal/platform/cmd"
	"github.com/louisbranch/dicenotation/internal/services/mcp/service"
	"github.com/louisbranch/dicenotation/internal/services/roller/app"
	"github.com/louisbranch/dicenotation/internal/services/roller/storage"
	"github.com/louisbranch/dicenotation/internal/services/roller/storage/sqlite"
)

// Config holds MCP command configuration.
type Config struct {
	HTTPAddr    string `env:"DICE_MCP_HTTP_ADDR" envDefault:"localhost:8081"`
	Transport   string `env:"DICE_MCP_TRANSPORT" envDefault:"stdio"`
	MaxDice     int    `env:"DICE_MAX_DICE"      envDefault:"1000"`
	HistoryPath string `env:"DICE_HISTORY_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, environ []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args, environ, bindFlags); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.IntVar(&cfg.MaxDice, "max-dice", cfg.MaxDice, "maximum number of dice per roll")
	fs.StringVar(&cfg.HistoryPath, "history", cfg.HistoryPath, "SQLite file recording roll history (empty disables history)")
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	var (
		store  storage.HistoryStore
		closer io.Closer
	)
	if cfg.HistoryPath != "" {
		sqliteStore, err := sqlite.Open(ctx, cfg.HistoryPath)
		if err != nil {
			return err
		}
		store = sqliteStore
		closer = sqliteStore
	}

	return service.Run(ctx, service.Config{
		Transport: service.TransportKind(cfg.Transport),
		HTTPAddr:  cfg.HTTPAddr,
		Roller:    app.NewService(app.Config{MaxDice: cfg.MaxDice, Store: store}),
		Closer:    closer,
	})
}
