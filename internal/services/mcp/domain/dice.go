package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/dicenotation/internal/dice"
	apperrors "github.com/louisbranch/dicenotation/internal/platform/errors"
	"github.com/louisbranch/dicenotation/internal/random"
	"github.com/louisbranch/dicenotation/internal/services/roller/app"
	"github.com/louisbranch/dicenotation/internal/services/roller/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Roller is the roll service the tools call.
type Roller interface {
	Roll(ctx context.Context, req app.RollRequest) (app.RollResponse, error)
	Parse(ctx context.Context, notation string) (dice.Spec, error)
	History(ctx context.Context, limit int) ([]storage.RollRecord, error)
	Replay(ctx context.Context, rollID string) (app.RollResponse, error)
}

// RngRequest represents optional RNG controls for a roll.
type RngRequest struct {
	Seed     *uint64 `json:"seed,omitempty" jsonschema:"optional seed for deterministic rolls"`
	RollMode string  `json:"roll_mode,omitempty" jsonschema:"roll mode (LIVE or REPLAY)"`
}

// RngResult represents RNG details used for a roll.
type RngResult struct {
	SeedUsed   uint64 `json:"seed_used" jsonschema:"seed value used by the server"`
	RngAlgo    string `json:"rng_algo" jsonschema:"rng algorithm identifier"`
	SeedSource string `json:"seed_source" jsonschema:"seed source (client or server)"`
	RollMode   string `json:"roll_mode" jsonschema:"roll mode applied"`
}

// RollDiceInput represents the MCP tool input for rolling dice.
type RollDiceInput struct {
	Notation string      `json:"notation" jsonschema:"dice notation such as 3d6, 4dF or 7(d20+1)-L-2H"`
	Sum      bool        `json:"sum,omitempty" jsonschema:"return a single total even without a global modifier"`
	Locale   string      `json:"locale,omitempty" jsonschema:"locale for error messages (en-US or pt-BR)"`
	Rng      *RngRequest `json:"rng,omitempty" jsonschema:"optional rng configuration"`
}

// RollDiceResult represents the MCP tool output for rolling dice.
type RollDiceResult struct {
	ID        string    `json:"id" jsonschema:"roll identifier, usable with roll_replay"`
	Notation  string    `json:"notation" jsonschema:"canonical notation that was rolled"`
	Rolls     []int     `json:"rolls" jsonschema:"every die after its local modifier, in roll order"`
	Kept      []int     `json:"kept" jsonschema:"dice kept after drops, sorted ascending"`
	Dropped   []int     `json:"dropped" jsonschema:"dice discarded by drop modifiers"`
	Summed    bool      `json:"summed" jsonschema:"whether the result is a single total"`
	Total     int       `json:"total" jsonschema:"sum of kept dice plus the global modifier"`
	Result    string    `json:"result" jsonschema:"the total when summed, otherwise the kept dice"`
	Rng       RngResult `json:"rng" jsonschema:"rng details"`
	CreatedAt string    `json:"created_at" jsonschema:"RFC 3339 timestamp of the roll"`
}

// ParseDiceInput represents the MCP tool input for checking notation.
type ParseDiceInput struct {
	Notation string `json:"notation" jsonschema:"dice notation to check"`
	Locale   string `json:"locale,omitempty" jsonschema:"locale for error messages (en-US or pt-BR)"`
}

// ParseDiceResult represents the parsed roll specification.
type ParseDiceResult struct {
	Notation  string `json:"notation" jsonschema:"canonical notation"`
	Number    int    `json:"number" jsonschema:"number of dice"`
	Kind      string `json:"kind" jsonschema:"numeric or fate"`
	Size      int    `json:"size" jsonschema:"die size, zero for fate dice"`
	LocalMod  int    `json:"local_mod" jsonschema:"modifier applied to each die"`
	GlobalMod int    `json:"global_mod" jsonschema:"modifier applied to the total"`
	DropLow   int    `json:"drop_low" jsonschema:"lowest dice dropped"`
	DropHigh  int    `json:"drop_high" jsonschema:"highest dice dropped"`
	Sum       bool   `json:"sum" jsonschema:"whether rolls always return a total"`
	Min       int    `json:"min" jsonschema:"smallest possible total"`
	Max       int    `json:"max" jsonschema:"largest possible total"`
}

// RollHistoryInput represents the MCP tool input for listing past rolls.
type RollHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of rolls to return (default 20)"`
}

// RollHistoryEntry is one recorded roll.
type RollHistoryEntry struct {
	ID        string `json:"id" jsonschema:"roll identifier"`
	Notation  string `json:"notation" jsonschema:"notation as supplied"`
	Kept      []int  `json:"kept" jsonschema:"dice kept after drops"`
	Summed    bool   `json:"summed" jsonschema:"whether the roll was summed"`
	Total     int    `json:"total" jsonschema:"sum of kept dice plus the global modifier"`
	Seed      int64  `json:"seed" jsonschema:"seed the roll was drawn from"`
	RollMode  string `json:"roll_mode" jsonschema:"LIVE or REPLAY"`
	CreatedAt string `json:"created_at" jsonschema:"RFC 3339 timestamp of the roll"`
}

// RollHistoryResult represents the MCP tool output for roll history.
type RollHistoryResult struct {
	Rolls []RollHistoryEntry `json:"rolls" jsonschema:"recorded rolls, newest first"`
}

// RollReplayInput represents the MCP tool input for replaying a roll.
type RollReplayInput struct {
	ID     string `json:"id" jsonschema:"identifier of a recorded roll"`
	Locale string `json:"locale,omitempty" jsonschema:"locale for error messages (en-US or pt-BR)"`
}

// RollDiceTool defines the MCP tool schema for rolling dice.
func RollDiceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_dice",
		Description: "Rolls dice from a notation such as 3d6, 4dF or 7(d20+1)-L-2H",
	}
}

// ParseDiceTool defines the MCP tool schema for checking notation.
func ParseDiceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "parse_dice",
		Description: "Validates dice notation and describes it without rolling",
	}
}

// RollHistoryTool defines the MCP tool schema for roll history.
func RollHistoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_history",
		Description: "Lists recorded rolls, newest first",
	}
}

// RollReplayTool defines the MCP tool schema for replaying a roll.
func RollReplayTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_replay",
		Description: "Rolls a recorded roll again with its original seed",
	}
}

// RollDiceHandler executes a dice roll.
func RollDiceHandler(roller Roller) mcp.ToolHandlerFor[RollDiceInput, RollDiceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollDiceInput) (*mcp.CallToolResult, RollDiceResult, error) {
		notation := strings.TrimSpace(input.Notation)
		if notation == "" {
			return nil, RollDiceResult{}, errors.New("notation is required")
		}

		var rngRequest *random.RngRequest
		if input.Rng != nil {
			rngRequest = &random.RngRequest{
				Seed:     input.Rng.Seed,
				RollMode: rollModeFromLabel(input.Rng.RollMode),
			}
		}

		response, err := roller.Roll(ctx, app.RollRequest{
			Notation: notation,
			ForceSum: input.Sum,
			Rng:      rngRequest,
		})
		if err != nil {
			return nil, RollDiceResult{}, toolError(err, input.Locale)
		}
		return nil, rollDiceResult(response), nil
	}
}

// ParseDiceHandler validates notation without rolling.
func ParseDiceHandler(roller Roller) mcp.ToolHandlerFor[ParseDiceInput, ParseDiceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ParseDiceInput) (*mcp.CallToolResult, ParseDiceResult, error) {
		notation := strings.TrimSpace(input.Notation)
		if notation == "" {
			return nil, ParseDiceResult{}, errors.New("notation is required")
		}
		spec, err := roller.Parse(ctx, notation)
		if err != nil {
			return nil, ParseDiceResult{}, toolError(err, input.Locale)
		}
		return nil, ParseDiceResult{
			Notation:  spec.String(),
			Number:    spec.Number,
			Kind:      spec.Kind.String(),
			Size:      spec.Size,
			LocalMod:  spec.LocalMod,
			GlobalMod: spec.GlobalMod,
			DropLow:   spec.DropLow,
			DropHigh:  spec.DropHigh,
			Sum:       spec.Sum,
			Min:       spec.Min(),
			Max:       spec.Max(),
		}, nil
	}
}

// RollHistoryHandler lists recorded rolls.
func RollHistoryHandler(roller Roller) mcp.ToolHandlerFor[RollHistoryInput, RollHistoryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollHistoryInput) (*mcp.CallToolResult, RollHistoryResult, error) {
		if input.Limit < 0 {
			return nil, RollHistoryResult{}, errors.New("limit must not be negative")
		}
		records, err := roller.History(ctx, input.Limit)
		if err != nil {
			return nil, RollHistoryResult{}, fmt.Errorf("roll history failed: %w", err)
		}
		entries := make([]RollHistoryEntry, 0, len(records))
		for _, record := range records {
			entries = append(entries, RollHistoryEntry{
				ID:        record.ID,
				Notation:  record.Notation,
				Kept:      nonNil(record.Kept),
				Summed:    record.Summed,
				Total:     record.Total,
				Seed:      record.Seed,
				RollMode:  record.RollMode,
				CreatedAt: record.CreatedAt.Format(time.RFC3339),
			})
		}
		return nil, RollHistoryResult{Rolls: entries}, nil
	}
}

// RollReplayHandler re-rolls a recorded roll.
func RollReplayHandler(roller Roller) mcp.ToolHandlerFor[RollReplayInput, RollDiceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollReplayInput) (*mcp.CallToolResult, RollDiceResult, error) {
		rollID := strings.TrimSpace(input.ID)
		if rollID == "" {
			return nil, RollDiceResult{}, errors.New("id is required")
		}
		response, err := roller.Replay(ctx, rollID)
		if err != nil {
			return nil, RollDiceResult{}, toolError(err, input.Locale)
		}
		return nil, rollDiceResult(response), nil
	}
}

func rollDiceResult(response app.RollResponse) RollDiceResult {
	return RollDiceResult{
		ID:       response.ID,
		Notation: response.Spec.String(),
		Rolls:    nonNil(response.Result.Rolls),
		Kept:     nonNil(response.Result.Kept),
		Dropped:  nonNil(response.Result.Dropped),
		Summed:   response.Result.Summed,
		Total:    response.Result.Total,
		Result:   response.Result.String(),
		Rng: RngResult{
			SeedUsed:   uint64(response.Seed),
			RngAlgo:    response.RngAlgo,
			SeedSource: response.SeedSource,
			RollMode:   string(response.RollMode),
		},
		CreatedAt: response.CreatedAt.Format(time.RFC3339),
	}
}

// rollModeFromLabel maps a roll mode label to a RollMode; unknown labels roll live.
func rollModeFromLabel(value string) random.RollMode {
	if strings.EqualFold(strings.TrimSpace(value), string(random.RollModeReplay)) {
		return random.RollModeReplay
	}
	return random.RollModeLive
}

// toolError replaces domain errors with their localized message.
func toolError(err error, locale string) error {
	if apperrors.GetCode(err) == apperrors.CodeUnknown {
		return err
	}
	return errors.New(apperrors.LocalizedMessage(err, locale))
}

func nonNil(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
