// Package report defines the persisted record of a training run: its
// configuration, reward trajectory and a summary of the final rule
// population.
package report

import (
	"sort"
	"time"

	"xcskit/internal/rule"
)

// VersionedRecord stamps persisted records so stores can reject payloads
// written by incompatible code.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// ClassifierSummary is a compact, human-readable view of one rule.
type ClassifierSummary struct {
	Condition  string  `json:"condition"`
	Action     int     `json:"action"`
	Prediction float64 `json:"prediction"`
	Epsilon    float64 `json:"epsilon"`
	Fitness    float64 `json:"fitness"`
	Numerosity int     `json:"numerosity"`
	Experience int     `json:"experience"`
}

// Run is the persisted outcome of one training run.
type Run struct {
	VersionedRecord
	RunID              string              `json:"run_id"`
	Environment        string              `json:"environment"`
	Representation     string              `json:"representation"`
	Seed               int64               `json:"seed"`
	Iterations         int                 `json:"iterations"`
	ExploreProbability float64             `json:"explore_probability"`
	CreatedAtUTC       time.Time           `json:"created_at_utc"`
	RewardHistory      []float64           `json:"reward_history"`
	FinalRecords       int                 `json:"final_records"`
	FinalNumerosity    int                 `json:"final_numerosity"`
	TopClassifiers     []ClassifierSummary `json:"top_classifiers"`
}

// Summarize extracts the top rules of a set by fitness, ties broken by
// numerosity. The set itself is left untouched.
func Summarize(set rule.Set, top int) []ClassifierSummary {
	ranked := append(rule.Set(nil), set...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Fitness != ranked[j].Fitness {
			return ranked[i].Fitness > ranked[j].Fitness
		}
		return ranked[i].Numerosity > ranked[j].Numerosity
	})
	if top > len(ranked) {
		top = len(ranked)
	}
	summaries := make([]ClassifierSummary, 0, top)
	for _, cl := range ranked[:top] {
		summaries = append(summaries, ClassifierSummary{
			Condition:  cl.Condition.String(),
			Action:     cl.Action,
			Prediction: cl.Prediction,
			Epsilon:    cl.Epsilon,
			Fitness:    cl.Fitness,
			Numerosity: cl.Numerosity,
			Experience: cl.Experience,
		})
	}
	return summaries
}
