package xcskit

import (
	"context"
	"strings"
	"testing"
)

func newMemoryClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return client
}

func TestTrainPersistsTheRun(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)

	summary, err := client.Train(ctx, TrainRequest{
		Environment: "multiplexer-6",
		Iterations:  50,
		Seed:        42,
	})
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	if !strings.HasPrefix(summary.RunID, "multiplexer-6-42-") {
		t.Fatalf("unexpected run id: %s", summary.RunID)
	}
	if summary.Iterations != 50 || summary.Environment != "multiplexer-6" || summary.Seed != 42 {
		t.Fatalf("summary does not echo the request: %+v", summary)
	}
	if summary.FinalRecords == 0 || summary.FinalNumerosity == 0 {
		t.Fatalf("training must leave a population behind: %+v", summary)
	}
	if len(summary.TopClassifiers) == 0 {
		t.Fatal("summary must include the top classifiers")
	}

	runs, err := client.Runs(ctx, RunsRequest{})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != summary.RunID {
		t.Fatalf("expected the persisted run listed, got %+v", runs)
	}

	run, err := client.Show(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if len(run.RewardHistory) != 50 {
		t.Fatalf("expected 50 recorded rewards, got %d", len(run.RewardHistory))
	}
	if run.Representation != RepresentationTernary {
		t.Fatalf("default representation must be persisted, got %s", run.Representation)
	}
}

func TestTrainRealValuedRepresentations(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)

	for _, representation := range []string{RepresentationCenterSpread, RepresentationOrderedBound} {
		summary, err := client.Train(ctx, TrainRequest{
			Environment:    "cart-pole",
			Representation: representation,
			Iterations:     5,
			Seed:           7,
			MaxSpread:      0.5,
			MinValue:       -2,
			MaxValue:       2,
		})
		if err != nil {
			t.Fatalf("%s: train: %v", representation, err)
		}
		if summary.FinalRecords == 0 {
			t.Fatalf("%s: training must leave a population behind", representation)
		}
	}
}

func TestTrainTournamentSelection(t *testing.T) {
	client := newMemoryClient(t)

	if _, err := client.Train(context.Background(), TrainRequest{
		Iterations: 10,
		Selection:  "tournament",
	}); err != nil {
		t.Fatalf("train: %v", err)
	}
}

func TestTrainRejectsUnknownNames(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)

	if _, err := client.Train(ctx, TrainRequest{Environment: "no-such-env", Iterations: 1}); err == nil {
		t.Fatal("expected an error for an unknown environment")
	}
	if _, err := client.Train(ctx, TrainRequest{Representation: "binary", Iterations: 1}); err == nil {
		t.Fatal("expected an error for an unknown representation")
	}
	if _, err := client.Train(ctx, TrainRequest{Selection: "rank", Iterations: 1}); err == nil {
		t.Fatal("expected an error for an unknown selection strategy")
	}
}

func TestShowValidation(t *testing.T) {
	ctx := context.Background()
	client := newMemoryClient(t)

	if _, err := client.Show(ctx, ""); err == nil {
		t.Fatal("expected an error for an empty run id")
	}
	if _, err := client.Show(ctx, "missing"); err == nil {
		t.Fatal("expected an error for a missing run")
	}
}

func TestEnvironmentsListsBuiltins(t *testing.T) {
	client := newMemoryClient(t)

	names := client.Environments()
	found := map[string]bool{}
	for _, name := range names {
		found[name] = true
	}
	for _, want := range []string{"multiplexer-6", "multiplexer-11", "cart-pole"} {
		if !found[want] {
			t.Fatalf("expected %s among %v", want, names)
		}
	}
}

func TestNewRejectsUnknownStore(t *testing.T) {
	if _, err := New(Options{StoreKind: "postgres"}); err == nil {
		t.Fatal("expected an error for an unknown store kind")
	}
}
