package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"xcskit/internal/storage"
	xcsapi "xcskit/pkg/xcskit"
)

const defaultDBPath = "xcskit.db"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "train":
		return runTrain(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "environments":
		return runEnvironments(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: xcskitctl <init|train|runs|show|environments> [flags]", msg)
}

func newClient(ctx context.Context, storeKind, dbPath string) (*xcsapi.Client, error) {
	client, err := xcsapi.New(xcsapi.Options{StoreKind: storeKind, DBPath: dbPath})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runTrain(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	envName := fs.String("env", "multiplexer-6", "environment name")
	representation := fs.String("representation", xcsapi.RepresentationTernary, "condition representation: ternary|center-spread|ordered-bound")
	iterations := fs.Int("iterations", 1000, "problem instances to run")
	seed := fs.Int64("seed", 1, "rng seed")
	popSize := fs.Int("pop", 200, "maximum population numerosity")
	exploreProb := fs.Float64("explore", 0.5, "per-instance exploration probability")
	selectionName := fs.String("selection", "roulette", "parent selection strategy: roulette|tournament")
	gamma := fs.Float64("gamma", 0.71, "multi-step discount factor")
	wildcardProb := fs.Float64("wildcard-prob", 0.33, "covering wildcard probability (ternary)")
	maxSpread := fs.Float64("max-spread", 1.0, "covering interval half-width (real-valued)")
	minValue := fs.Float64("min-value", 0, "lower input bound (real-valued)")
	maxValue := fs.Float64("max-value", 1, "upper input bound (real-valued)")
	mutateAction := fs.Bool("mutate-action", false, "let the discovery step mutate actions")
	asSubsumption := fs.Bool("as-subsumption", false, "enable action-set subsumption")
	gaSubsumption := fs.Bool("ga-subsumption", false, "enable discovery subsumption on insert")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit the summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Train(ctx, xcsapi.TrainRequest{
		Environment:            *envName,
		Representation:         *representation,
		Iterations:             *iterations,
		Seed:                   *seed,
		PopulationSize:         *popSize,
		ExploreProbability:     *exploreProb,
		Selection:              *selectionName,
		Gamma:                  *gamma,
		WildcardProbability:    *wildcardProb,
		MaxSpread:              *maxSpread,
		MinValue:               *minValue,
		MaxValue:               *maxValue,
		MutateAction:           *mutateAction,
		DoActionSetSubsumption: *asSubsumption,
		DoDiscoverySubsumption: *gaSubsumption,
	})
	if err != nil {
		return err
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Printf("train completed run_id=%s env=%s seed=%d iterations=%d\n",
		summary.RunID, summary.Environment, summary.Seed, summary.Iterations)
	fmt.Printf("mean_reward=%.6f final_records=%d final_numerosity=%d\n",
		summary.MeanReward, summary.FinalRecords, summary.FinalNumerosity)
	for i, cl := range summary.TopClassifiers {
		fmt.Printf("rank=%d condition=%s action=%d prediction=%.4f epsilon=%.4f fitness=%.4f numerosity=%d experience=%d\n",
			i+1, cl.Condition, cl.Action, cl.Prediction, cl.Epsilon, cl.Fitness, cl.Numerosity, cl.Experience)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, xcsapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	for _, item := range items {
		fmt.Printf("run_id=%s created_at=%s env=%s seed=%d iterations=%d mean_reward=%.6f\n",
			item.RunID, item.CreatedAtUTC, item.Environment, item.Seed, item.Iterations, item.MeanReward)
	}
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	jsonOut := fs.Bool("json", false, "emit run report as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("show requires --run-id")
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	run, err := client.Show(ctx, *runID)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	fmt.Printf("run_id=%s env=%s representation=%s seed=%d iterations=%d explore=%.2f created_at=%s\n",
		run.RunID, run.Environment, run.Representation, run.Seed, run.Iterations,
		run.ExploreProbability, run.CreatedAtUTC.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Printf("final_records=%d final_numerosity=%d\n", run.FinalRecords, run.FinalNumerosity)
	for i, cl := range run.TopClassifiers {
		fmt.Printf("rank=%d condition=%s action=%d prediction=%.4f epsilon=%.4f fitness=%.4f numerosity=%d experience=%d\n",
			i+1, cl.Condition, cl.Action, cl.Prediction, cl.Epsilon, cl.Fitness, cl.Numerosity, cl.Experience)
	}
	return nil
}

func runEnvironments(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("environments", flag.ContinueOnError)
	storeKind := fs.String("store", "memory", "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	for _, name := range client.Environments() {
		fmt.Println(name)
	}
	return nil
}
