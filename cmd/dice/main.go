// Package main rolls dice notation from the command line.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	dicecmd "github.com/louisbranch/dicenotation/internal/cmd/dice"
	entrypoint "github.com/louisbranch/dicenotation/internal/platform/cmd"
	"github.com/louisbranch/dicenotation/internal/platform/config"
	apperrors "github.com/louisbranch/dicenotation/internal/platform/errors"
)

// main rolls the notation given by -d and prints the result.
func main() {
	cfg, err := dicecmd.ParseConfig(flag.CommandLine, os.Args[1:], nil)
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[DICE] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDice, func(ctx context.Context) error {
		return dicecmd.Run(ctx, cfg, os.Stdout, os.Stderr)
	})
	if err != nil {
		stop()
		config.Exitf("%s", apperrors.LocalizedMessage(err, cfg.Locale))
	}
}
