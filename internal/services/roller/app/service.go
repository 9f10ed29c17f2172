// Package app runs dice rolls for the binaries: it parses notation, enforces
// the dice limit, resolves the seed, rolls, traces and records history.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/louisbranch/dicenotation/internal/dice"
	apperrors "github.com/louisbranch/dicenotation/internal/platform/errors"
	"github.com/louisbranch/dicenotation/internal/platform/id"
	"github.com/louisbranch/dicenotation/internal/random"
	"github.com/louisbranch/dicenotation/internal/services/roller/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/louisbranch/dicenotation/internal/services/roller/app"

	// DefaultMaxDice caps the dice in a single roll when Config leaves it unset.
	DefaultMaxDice = 1000
	// DefaultHistoryLimit is used when History is asked for zero rows.
	DefaultHistoryLimit = 20
)

// ErrHistoryDisabled is returned by History and Replay without a store.
var ErrHistoryDisabled = errors.New("roll history is not configured")

// Config controls a Service.
type Config struct {
	// MaxDice caps Spec.Number; zero means DefaultMaxDice.
	MaxDice int
	// Store records every roll when set.
	Store storage.HistoryStore
}

// Service rolls dice notation. It is safe for concurrent use: every roll
// draws from its own seeded generator.
type Service struct {
	maxDice  int
	store    storage.HistoryStore
	tracer   trace.Tracer
	seedFunc func() (int64, error)
	newID    func() (string, error)
	now      func() time.Time
}

// NewService builds a Service from cfg.
func NewService(cfg Config) *Service {
	maxDice := cfg.MaxDice
	if maxDice <= 0 {
		maxDice = DefaultMaxDice
	}
	return &Service{
		maxDice:  maxDice,
		store:    cfg.Store,
		tracer:   otel.Tracer(tracerName),
		seedFunc: random.NewSeed,
		newID:    id.NewID,
		now:      time.Now,
	}
}

// RollRequest asks for one roll.
type RollRequest struct {
	Notation string
	ForceSum bool
	// Rng selects a replay seed; nil rolls live.
	Rng *random.RngRequest
}

// RollResponse is one evaluated roll.
type RollResponse struct {
	ID         string
	Spec       dice.Spec
	Result     dice.Result
	Seed       int64
	SeedSource string
	RollMode   random.RollMode
	RngAlgo    string
	CreatedAt  time.Time
}

// Record converts the response into its history row.
func (r RollResponse) Record() storage.RollRecord {
	return storage.RollRecord{
		ID:         r.ID,
		Notation:   r.Spec.Notation,
		Canonical:  r.Spec.String(),
		ForceSum:   r.Result.Summed && !r.Spec.Sum,
		Seed:       r.Seed,
		SeedSource: r.SeedSource,
		RollMode:   string(r.RollMode),
		Rolls:      r.Result.Rolls,
		Kept:       r.Result.Kept,
		Dropped:    r.Result.Dropped,
		Summed:     r.Result.Summed,
		Total:      r.Result.Total,
		CreatedAt:  r.CreatedAt,
	}
}

// Parse validates notation and applies the dice limit without rolling.
func (s *Service) Parse(ctx context.Context, notation string) (dice.Spec, error) {
	_, span := s.tracer.Start(ctx, "dice.parse", trace.WithAttributes(
		attribute.String("dice.notation", notation),
	))
	defer span.End()

	spec, err := s.parse(notation)
	if err != nil {
		recordError(span, err)
		return dice.Spec{}, err
	}
	return spec, nil
}

func (s *Service) parse(notation string) (dice.Spec, error) {
	spec, err := dice.Parse(notation)
	if err != nil {
		return dice.Spec{}, err
	}
	if spec.Number > s.maxDice {
		return dice.Spec{}, apperrors.WithMetadata(
			apperrors.CodeDiceLimitExceeded,
			fmt.Sprintf("cannot roll %d dice, the limit is %d", spec.Number, s.maxDice),
			map[string]string{
				"Number": strconv.Itoa(spec.Number),
				"Limit":  strconv.Itoa(s.maxDice),
			},
		)
	}
	return spec, nil
}

// Roll parses and rolls req.Notation.
//
// A caller seed is honored only in replay mode; live rolls always use a
// fresh server seed. A history write failure is logged and does not fail
// the roll.
func (s *Service) Roll(ctx context.Context, req RollRequest) (RollResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dice.roll", trace.WithAttributes(
		attribute.String("dice.notation", req.Notation),
		attribute.Bool("dice.force_sum", req.ForceSum),
	))
	defer span.End()

	spec, err := s.parse(req.Notation)
	if err != nil {
		recordError(span, err)
		return RollResponse{}, err
	}

	seed, source, mode, err := random.ResolveSeed(req.Rng, s.seedFunc, random.AllowReplay)
	if err != nil {
		recordError(span, err)
		return RollResponse{}, err
	}

	rollID, err := s.newID()
	if err != nil {
		recordError(span, err)
		return RollResponse{}, fmt.Errorf("generate roll id: %w", err)
	}

	resp := RollResponse{
		ID:         rollID,
		Spec:       spec,
		Result:     spec.RollSeed(seed, req.ForceSum),
		Seed:       seed,
		SeedSource: source,
		RollMode:   mode,
		RngAlgo:    random.RngAlgoMathRandV1,
		CreatedAt:  s.now().UTC(),
	}
	span.SetAttributes(
		attribute.String("dice.roll_id", resp.ID),
		attribute.Int64("dice.seed", seed),
		attribute.String("dice.seed_source", source),
		attribute.String("dice.roll_mode", string(mode)),
		attribute.Int("dice.total", resp.Result.Total),
	)

	if s.store != nil {
		if err := s.store.AppendRoll(ctx, resp.Record()); err != nil {
			span.RecordError(err)
			log.Printf("record roll %s: %v", resp.ID, err)
		}
	}
	return resp, nil
}

// History lists recorded rolls, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]storage.RollRecord, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	ctx, span := s.tracer.Start(ctx, "dice.history", trace.WithAttributes(
		attribute.Int("dice.limit", limit),
	))
	defer span.End()

	records, err := s.store.ListRolls(ctx, limit)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return records, nil
}

// Replay rolls a recorded roll again with its stored seed. The dice match
// the original roll exactly; the replay is recorded as a new roll.
func (s *Service) Replay(ctx context.Context, rollID string) (RollResponse, error) {
	if s.store == nil {
		return RollResponse{}, ErrHistoryDisabled
	}
	record, err := s.store.GetRoll(ctx, rollID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return RollResponse{}, apperrors.WrapWithMetadata(
				apperrors.CodeNotFound,
				fmt.Sprintf("roll %s not found", rollID),
				map[string]string{"ID": rollID},
				err,
			)
		}
		return RollResponse{}, err
	}
	seed := uint64(record.Seed)
	return s.Roll(ctx, RollRequest{
		Notation: record.Notation,
		ForceSum: record.ForceSum,
		Rng:      &random.RngRequest{Seed: &seed, RollMode: random.RollModeReplay},
	})
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(apperrors.GetCode(err)))
}
