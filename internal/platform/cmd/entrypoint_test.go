package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
	"time"
)

type testConfig struct {
	Notation string `env:"CMD_TEST_NOTATION" envDefault:"1d20"`
	MaxDice  int    `env:"CMD_TEST_MAX_DICE" envDefault:"1000"`
}

func bindTestFlags(fs *flag.FlagSet, cfg *testConfig) {
	fs.StringVar(&cfg.Notation, "d", cfg.Notation, "notation")
	fs.IntVar(&cfg.MaxDice, "max-dice", cfg.MaxDice, "max dice")
}

func TestParseConfigReadsProcessEnv(t *testing.T) {
	t.Setenv("CMD_TEST_NOTATION", "3d6")
	t.Setenv("CMD_TEST_MAX_DICE", "")

	cfg := testConfig{}
	if err := ParseConfig(&cfg, nil); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	if cfg.Notation != "3d6" {
		t.Fatalf("expected env notation, got %q", cfg.Notation)
	}
	if cfg.MaxDice != 1000 {
		t.Fatalf("expected default max dice, got %d", cfg.MaxDice)
	}
}

func TestParseConfigReadsExplicitEnviron(t *testing.T) {
	t.Setenv("CMD_TEST_NOTATION", "3d6")

	cfg := testConfig{}
	if err := ParseConfig(&cfg, []string{"CMD_TEST_MAX_DICE=12"}); err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Notation != "1d20" {
		t.Fatalf("explicit environ must not read the process env, got %q", cfg.Notation)
	}
	if cfg.MaxDice != 12 {
		t.Fatalf("expected max dice 12, got %d", cfg.MaxDice)
	}
}

func TestParseConfigFromArgsPrefersFlags(t *testing.T) {
	cfg := testConfig{}
	fs := flag.NewFlagSet("configargs", flag.ContinueOnError)
	environ := []string{"CMD_TEST_NOTATION=2d8", "CMD_TEST_MAX_DICE=50"}
	if err := ParseConfigFromArgs(&cfg, fs, []string{"-d", "4dF"}, environ, bindTestFlags); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfg.Notation != "4dF" {
		t.Fatalf("expected flag notation, got %q", cfg.Notation)
	}
	if cfg.MaxDice != 50 {
		t.Fatalf("expected env max dice, got %d", cfg.MaxDice)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[testConfig](nil, nil); err == nil {
		t.Fatal("expected nil target error")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceDice, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("DICE_OTEL_ENDPOINT", "")
	boom := errors.New("boom")
	err := RunWithTelemetryAndOptions(context.Background(), ServiceDice, RunOptions{ShutdownTimeout: time.Second}, func(context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected run error, got %v", err)
	}
}
