package app

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/dicenotation/internal/dice"
	"github.com/louisbranch/dicenotation/internal/dice/notation"
	apperrors "github.com/louisbranch/dicenotation/internal/platform/errors"
	"github.com/louisbranch/dicenotation/internal/random"
	"github.com/louisbranch/dicenotation/internal/services/roller/storage"
	"github.com/louisbranch/dicenotation/internal/services/roller/storage/sqlite"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type fakeHistoryStore struct {
	mu        sync.Mutex
	records   []storage.RollRecord
	appendErr error
}

func (f *fakeHistoryStore) AppendRoll(_ context.Context, record storage.RollRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeHistoryStore) GetRoll(_ context.Context, id string) (storage.RollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records {
		if record.ID == id {
			return record, nil
		}
	}
	return storage.RollRecord{}, storage.ErrNotFound
}

func (f *fakeHistoryStore) ListRolls(_ context.Context, limit int) ([]storage.RollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []storage.RollRecord
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

func newTestService(t *testing.T, cfg Config) (*Service, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	svc := NewService(cfg)
	svc.tracer = provider.Tracer(tracerName)
	svc.seedFunc = func() (int64, error) { return 42, nil }
	next := 0
	svc.newID = func() (string, error) {
		next++
		return "roll-" + string(rune('a'+next-1)), nil
	}
	svc.now = func() time.Time { return time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC) }
	return svc, recorder
}

func TestRollUsesServerSeed(t *testing.T) {
	svc, recorder := newTestService(t, Config{})

	resp, err := svc.Roll(context.Background(), RollRequest{Notation: "4d6-L"})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if resp.ID != "roll-a" {
		t.Fatalf("id = %q, want roll-a", resp.ID)
	}
	if resp.Seed != 42 || resp.SeedSource != random.SeedSourceServer || resp.RollMode != random.RollModeLive {
		t.Fatalf("rng = %d/%s/%s", resp.Seed, resp.SeedSource, resp.RollMode)
	}
	if resp.RngAlgo != random.RngAlgoMathRandV1 {
		t.Fatalf("rng algo = %q", resp.RngAlgo)
	}
	want := dice.MustParse("4d6-L").RollSeed(42, false)
	if !slices.Equal(resp.Result.Rolls, want.Rolls) || !slices.Equal(resp.Result.Kept, want.Kept) {
		t.Fatalf("result = %+v, want %+v", resp.Result, want)
	}

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != "dice.roll" {
		t.Fatalf("spans = %v, want one dice.roll span", spans)
	}
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs["dice.notation"] != "4d6-L" || attrs["dice.seed"] != "42" || attrs["dice.roll_id"] != "roll-a" {
		t.Fatalf("span attributes = %v", attrs)
	}
}

func TestRollHonorsReplaySeed(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	seed := uint64(7)

	resp, err := svc.Roll(context.Background(), RollRequest{
		Notation: "3d20",
		Rng:      &random.RngRequest{Seed: &seed, RollMode: random.RollModeReplay},
	})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if resp.Seed != 7 || resp.SeedSource != random.SeedSourceClient || resp.RollMode != random.RollModeReplay {
		t.Fatalf("rng = %d/%s/%s", resp.Seed, resp.SeedSource, resp.RollMode)
	}
	want := dice.MustParse("3d20").RollSeed(7, false)
	if !slices.Equal(resp.Result.Rolls, want.Rolls) {
		t.Fatalf("rolls = %v, want %v", resp.Result.Rolls, want.Rolls)
	}
}

func TestRollIgnoresSeedOnLiveRoll(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	seed := uint64(7)

	resp, err := svc.Roll(context.Background(), RollRequest{
		Notation: "3d20",
		Rng:      &random.RngRequest{Seed: &seed, RollMode: random.RollModeLive},
	})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if resp.Seed != 42 || resp.SeedSource != random.SeedSourceServer {
		t.Fatalf("live roll used seed %d from %s", resp.Seed, resp.SeedSource)
	}
}

func TestRollRejectsInvalidNotation(t *testing.T) {
	svc, recorder := newTestService(t, Config{})

	tcs := []struct {
		notation string
		wantErr  error
	}{
		{notation: "3$5", wantErr: notation.ErrIllegalCharacter},
		{notation: "3d", wantErr: notation.ErrGrammar},
		{notation: "1d6-L", wantErr: dice.ErrTooManyDropped},
		{notation: "1(d6-7)", wantErr: dice.ErrLocalModCancelsDie},
	}
	for _, tc := range tcs {
		if _, err := svc.Roll(context.Background(), RollRequest{Notation: tc.notation}); !errors.Is(err, tc.wantErr) {
			t.Fatalf("Roll(%q) error = %v, want %v", tc.notation, err, tc.wantErr)
		}
	}
	for _, span := range recorder.Ended() {
		if span.Status().Code != codes.Error {
			t.Fatalf("span %s status = %v, want error", span.Name(), span.Status())
		}
	}
}

func TestRollEnforcesMaxDice(t *testing.T) {
	svc, _ := newTestService(t, Config{MaxDice: 10})

	if _, err := svc.Roll(context.Background(), RollRequest{Notation: "10d6"}); err != nil {
		t.Fatalf("roll at the limit: %v", err)
	}
	_, err := svc.Roll(context.Background(), RollRequest{Notation: "11d6"})
	if apperrors.GetCode(err) != apperrors.CodeDiceLimitExceeded {
		t.Fatalf("expected limit error, got %v", err)
	}
	metadata := apperrors.GetMetadata(err)
	if metadata["Number"] != "11" || metadata["Limit"] != "10" {
		t.Fatalf("metadata = %v", metadata)
	}
}

func TestNewServiceDefaultsMaxDice(t *testing.T) {
	svc := NewService(Config{})
	if svc.maxDice != DefaultMaxDice {
		t.Fatalf("max dice = %d, want %d", svc.maxDice, DefaultMaxDice)
	}
}

func TestParseDoesNotRoll(t *testing.T) {
	store := &fakeHistoryStore{}
	svc, recorder := newTestService(t, Config{Store: store})

	spec, err := svc.Parse(context.Background(), "7(d20+1)-L-2H")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if spec.String() != "7(d20+1)-L-2H" {
		t.Fatalf("spec = %s", spec)
	}
	if len(store.records) != 0 {
		t.Fatal("parse must not record history")
	}
	if spans := recorder.Ended(); len(spans) != 1 || spans[0].Name() != "dice.parse" {
		t.Fatalf("spans = %v", spans)
	}
}

func TestRollRecordsHistory(t *testing.T) {
	store := &fakeHistoryStore{}
	svc, _ := newTestService(t, Config{Store: store})

	resp, err := svc.Roll(context.Background(), RollRequest{Notation: "2d8", ForceSum: true})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("records = %d, want 1", len(store.records))
	}
	record := store.records[0]
	if record.ID != resp.ID || record.Notation != "2d8" || !record.ForceSum || !record.Summed {
		t.Fatalf("record = %+v", record)
	}
	if record.Total != resp.Result.Total || record.Seed != 42 {
		t.Fatalf("record = %+v", record)
	}
}

func TestRollLogsHistoryFailure(t *testing.T) {
	store := &fakeHistoryStore{appendErr: errors.New("disk full")}
	svc, _ := newTestService(t, Config{Store: store})

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	if _, err := svc.Roll(context.Background(), RollRequest{Notation: "1d6"}); err != nil {
		t.Fatalf("history failure must not fail the roll: %v", err)
	}
	if !strings.Contains(buf.String(), "disk full") {
		t.Fatalf("expected history failure to be logged, got %q", buf.String())
	}
}

func TestHistoryAndReplay(t *testing.T) {
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "history.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	svc, _ := newTestService(t, Config{Store: store})

	original, err := svc.Roll(context.Background(), RollRequest{Notation: "5(d10+2)-L"})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}

	replayed, err := svc.Replay(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replayed.ID == original.ID {
		t.Fatal("replay should be recorded under a new id")
	}
	if replayed.RollMode != random.RollModeReplay || replayed.SeedSource != random.SeedSourceClient {
		t.Fatalf("replay rng = %s/%s", replayed.RollMode, replayed.SeedSource)
	}
	if !slices.Equal(replayed.Result.Rolls, original.Result.Rolls) || replayed.Result.Total != original.Result.Total {
		t.Fatalf("replay rolled %v, original %v", replayed.Result.Rolls, original.Result.Rolls)
	}

	history, err := svc.History(context.Background(), 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %d records, want 2", len(history))
	}
	if history[0].ID != replayed.ID || history[0].RollMode != string(random.RollModeReplay) {
		t.Fatalf("newest record = %+v", history[0])
	}
}

func TestReplayUnknownRoll(t *testing.T) {
	svc, _ := newTestService(t, Config{Store: &fakeHistoryStore{}})

	_, err := svc.Replay(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if apperrors.GetMetadata(err)["ID"] != "missing" {
		t.Fatalf("metadata = %v", apperrors.GetMetadata(err))
	}
}

func TestHistoryRequiresStore(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	if _, err := svc.History(context.Background(), 5); !errors.Is(err, ErrHistoryDisabled) {
		t.Fatalf("expected ErrHistoryDisabled, got %v", err)
	}
	if _, err := svc.Replay(context.Background(), "roll-a"); !errors.Is(err, ErrHistoryDisabled) {
		t.Fatalf("expected ErrHistoryDisabled, got %v", err)
	}
}
