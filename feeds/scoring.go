package feeds

import (
	"time"

	"feedmix/config"
	"feedmix/models"
)

// Weights parameterizes the engagement scorer. One set of constants serves
// every call path, so the ranking cannot drift between consumers.
type Weights struct {
	Like    float64
	Comment float64
	View    float64

	// Linear decay window in hours and the floor it never drops below
	DecayHours float64
	DecayFloor float64

	// Step bonuses privileging very fresh content, independent of engagement
	FreshHours  float64
	FreshBonus  float64
	RecentHours float64
	RecentBonus float64

	// Additive correction for the structurally lower interaction volume of
	// resource items. A cross-source fairness correction, not a quality
	// signal.
	ResourceBonus float64
}

// DefaultWeights returns the stock ranking constants
func DefaultWeights() Weights {
	return WeightsFromConfig(config.Default().Scoring)
}

// WeightsFromConfig maps the TOML scoring section onto scorer weights
func WeightsFromConfig(cfg config.TomlScoring) Weights {
	return Weights{
		Like:          cfg.LikeWeight,
		Comment:       cfg.CommentWeight,
		View:          cfg.ViewWeight,
		DecayHours:    cfg.DecayHours,
		DecayFloor:    cfg.DecayFloor,
		FreshHours:    cfg.FreshHours,
		FreshBonus:    cfg.FreshBonus,
		RecentHours:   cfg.RecentHours,
		RecentBonus:   cfg.RecentBonus,
		ResourceBonus: cfg.ResourceBonus,
	}
}

// Scorer computes engagement scores. Score is a pure function of its inputs
// and the evaluation instant, so results are reproducible for a given now.
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) Scorer {
	return Scorer{weights: weights}
}

// Score combines weighted interaction counts, linear age decay and a
// freshness step bonus. Callers supply non-negative counts; normalization
// clamps anything below zero before it gets here.
func (s Scorer) Score(counts models.EngagementCounts, createdAt time.Time, kind models.SourceKind, now time.Time) float64 {
	ageHours := now.Sub(createdAt).Hours()
	if ageHours < 0 {
		// Clock skew, treat as brand new
		ageHours = 0
	}

	timeDecay := 1 - ageHours/s.weights.DecayHours
	if timeDecay < s.weights.DecayFloor {
		timeDecay = s.weights.DecayFloor
	}

	rawScore := float64(counts.Likes)*s.weights.Like +
		float64(counts.Comments)*s.weights.Comment +
		float64(counts.Views)*s.weights.View

	var recencyBonus float64
	switch {
	case ageHours < s.weights.FreshHours:
		recencyBonus = s.weights.FreshBonus
	case ageHours < s.weights.RecentHours:
		recencyBonus = s.weights.RecentBonus
	}

	score := rawScore*timeDecay + recencyBonus

	if kind == models.KindResource {
		score += s.weights.ResourceBonus
	}

	return score
}
