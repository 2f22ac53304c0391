// Package xcskit is the public entry point: it assembles a learning
// engine from named options, trains it against a registered environment
// and persists the resulting run report.
package xcskit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"xcskit/internal/covering"
	"xcskit/internal/discovery"
	"xcskit/internal/engine"
	"xcskit/internal/environment"
	"xcskit/internal/learning"
	"xcskit/internal/performance"
	"xcskit/internal/population"
	"xcskit/internal/report"
	"xcskit/internal/rule"
	"xcskit/internal/selection"
	"xcskit/internal/storage"
	"xcskit/internal/subsumption"
	"xcskit/internal/training"
)

const (
	defaultDBPath         = "xcskit.db"
	defaultTopClassifiers = 20
)

// Representations of rule conditions.
const (
	RepresentationTernary      = "ternary"
	RepresentationCenterSpread = "center-spread"
	RepresentationOrderedBound = "ordered-bound"
)

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store storage.Store
}

// TrainRequest configures one training run. Zero values select defaults.
type TrainRequest struct {
	Environment        string
	Representation     string
	Iterations         int
	Seed               int64
	PopulationSize     int
	ExploreProbability float64
	Selection          string
	Gamma              float64
	// WildcardProbability applies to the ternary representation; MaxSpread
	// bounds the intervals the real-valued representations cover with.
	WildcardProbability    float64
	MaxSpread              float64
	MinValue               float64
	MaxValue               float64
	MutateAction           bool
	DoActionSetSubsumption bool
	DoDiscoverySubsumption bool
}

type TrainSummary struct {
	RunID           string
	Environment     string
	Seed            int64
	Iterations      int
	MeanReward      float64
	FinalRecords    int
	FinalNumerosity int
	TopClassifiers  []report.ClassifierSummary
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Environment  string
	Seed         int64
	Iterations   int
	MeanReward   float64
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// Environments lists the names Train accepts.
func (c *Client) Environments() []string {
	return environment.List()
}

// Train runs a full training session and persists its report.
func (c *Client) Train(ctx context.Context, req TrainRequest) (TrainSummary, error) {
	if req.Environment == "" {
		req.Environment = "multiplexer-6"
	}
	if req.Representation == "" {
		req.Representation = RepresentationTernary
	}
	if req.Iterations <= 0 {
		req.Iterations = 1000
	}
	if req.PopulationSize <= 0 {
		req.PopulationSize = 200
	}
	if req.ExploreProbability <= 0 {
		req.ExploreProbability = 0.5
	}
	if req.Selection == "" {
		req.Selection = "roulette"
	}
	if req.Gamma <= 0 {
		req.Gamma = 0.71
	}
	if req.WildcardProbability <= 0 {
		req.WildcardProbability = 0.33
	}
	if req.MaxSpread <= 0 {
		req.MaxSpread = 1.0
	}
	if req.MaxValue <= req.MinValue {
		req.MinValue = 0
		req.MaxValue = 1
	}

	rng := rand.New(rand.NewSource(req.Seed))
	env, err := environment.Resolve(req.Environment, rng)
	if err != nil {
		return TrainSummary{}, err
	}

	xcs, err := assembleEngine(req, env.AvailableActions(), rng)
	if err != nil {
		return TrainSummary{}, err
	}

	trainer, err := training.NewTrainer(req.ExploreProbability, rng)
	if err != nil {
		return TrainSummary{}, err
	}
	rewards, err := trainer.Train(ctx, xcs, env, req.Iterations)
	if err != nil {
		return TrainSummary{}, err
	}

	now := time.Now().UTC()
	runID := fmt.Sprintf("%s-%d-%d", req.Environment, req.Seed, now.Unix())

	members := xcs.Population().Members()
	run := report.Run{
		VersionedRecord: report.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		RunID:              runID,
		Environment:        req.Environment,
		Representation:     req.Representation,
		Seed:               req.Seed,
		Iterations:         req.Iterations,
		ExploreProbability: req.ExploreProbability,
		CreatedAtUTC:       now,
		RewardHistory:      append([]float64(nil), rewards...),
		FinalRecords:       xcs.Population().Len(),
		FinalNumerosity:    xcs.Population().NumerositySum(),
		TopClassifiers:     report.Summarize(members, defaultTopClassifiers),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return TrainSummary{}, err
	}
	if err := c.store.SaveRewardHistory(ctx, runID, rewards); err != nil {
		return TrainSummary{}, err
	}

	return TrainSummary{
		RunID:           runID,
		Environment:     req.Environment,
		Seed:            req.Seed,
		Iterations:      req.Iterations,
		MeanReward:      mean(rewards),
		FinalRecords:    run.FinalRecords,
		FinalNumerosity: run.FinalNumerosity,
		TopClassifiers:  run.TopClassifiers,
	}, nil
}

// Runs lists persisted runs, newest id last.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	ids, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) > req.Limit {
		ids = ids[:req.Limit]
	}

	out := make([]RunItem, 0, len(ids))
	for _, id := range ids {
		run, ok, err := c.store.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, RunItem{
			RunID:        run.RunID,
			CreatedAtUTC: run.CreatedAtUTC.Format(time.RFC3339Nano),
			Environment:  run.Environment,
			Seed:         run.Seed,
			Iterations:   run.Iterations,
			MeanReward:   mean(run.RewardHistory),
		})
	}
	return out, nil
}

// Show loads one persisted run report.
func (c *Client) Show(ctx context.Context, runID string) (report.Run, error) {
	if runID == "" {
		return report.Run{}, errors.New("run id is required")
	}
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return report.Run{}, err
	}
	if !ok {
		return report.Run{}, fmt.Errorf("run not found: %s", runID)
	}
	return run, nil
}

func assembleEngine(req TrainRequest, availableActions []int, rng *rand.Rand) (*engine.XCS, error) {
	strategy, err := selectionFromName(req.Selection)
	if err != nil {
		return nil, err
	}

	criteria := subsumption.DefaultExperiencePrecision()
	pop, err := population.New(req.PopulationSize, criteria, selection.RouletteWheel{}, population.DefaultConstants(), rng)
	if err != nil {
		return nil, err
	}

	ruleConstants := rule.DefaultConstants()
	var cov covering.Component
	var ga discovery.Component
	gaConstants := discovery.DefaultConstants()
	gaConstants.MutateAction = req.MutateAction
	boundConstants := discovery.DefaultBoundConstants()
	boundConstants.MinValue = req.MinValue
	boundConstants.MaxValue = req.MaxValue

	switch req.Representation {
	case RepresentationTernary:
		cov, err = covering.NewWildcards(req.WildcardProbability, ruleConstants, rng)
		if err != nil {
			return nil, err
		}
		ga, err = discovery.NewGeneticAlgorithm(availableActions, strategy, gaConstants, rng)
	case RepresentationCenterSpread:
		cov, err = covering.NewCenterSpread(req.MaxSpread, ruleConstants, rng)
		if err != nil {
			return nil, err
		}
		ga, err = discovery.NewCenterSpreadGA(availableActions, strategy, gaConstants, boundConstants, rng)
	case RepresentationOrderedBound:
		cov, err = covering.NewOrderedBound(req.MaxSpread, req.MinValue, req.MaxValue, true, ruleConstants, rng)
		if err != nil {
			return nil, err
		}
		ga, err = discovery.NewOrderedBoundGA(availableActions, strategy, gaConstants, boundConstants, rng)
	default:
		return nil, fmt.Errorf("unsupported representation: %s", req.Representation)
	}
	if err != nil {
		return nil, err
	}

	perf, err := performance.New(cov, availableActions, len(availableActions), rng)
	if err != nil {
		return nil, err
	}
	reinforcement, err := learning.NewQLearning(learning.DefaultConstants())
	if err != nil {
		return nil, err
	}

	return engine.New(engine.Config{
		Population:             pop,
		Performance:            perf,
		Discovery:              ga,
		Learning:               reinforcement,
		Criteria:               criteria,
		Gamma:                  req.Gamma,
		DoActionSetSubsumption: req.DoActionSetSubsumption,
		DoDiscoverySubsumption: req.DoDiscoverySubsumption,
	})
}

func selectionFromName(name string) (selection.Strategy, error) {
	switch name {
	case "roulette":
		return selection.RouletteWheel{}, nil
	case "tournament":
		t, err := selection.NewTournament(3)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported selection strategy: %s", name)
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
