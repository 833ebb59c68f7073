package quality

import (
	"context"

	"github.com/blackrubyde-web/adruby-sub008/internal/domain"
	"github.com/blackrubyde-web/adruby-sub008/internal/infra"
)

// DefaultThreshold is the score a creative must reach before it is accepted
// without retrying. A high bar on purpose: the gate is the last check before
// a creative counts as finished.
const DefaultThreshold = 8.0

// Rubric dimension names shared with the scoring service.
const (
	DimVisualHierarchy     = "visual_hierarchy"
	DimHeadlineReadability = "headline_readability"
	DimProductProminence   = "product_prominence"
	DimColorHarmony        = "color_harmony"
	DimPolish              = "polish"
)

// Breakdown maps rubric dimension names to sub-scores on the 0..10 scale.
type Breakdown map[string]float64

// Result is one scoring verdict for a candidate image.
type Result struct {
	OverallScore float64   `json:"overall_score"`
	Breakdown    Breakdown `json:"breakdown,omitempty"`
	Passed       bool      `json:"passed"`
}

// Scorer is the external quality-scoring capability.
type Scorer interface {
	Score(ctx context.Context, image []byte, strategy domain.CreativeStrategy) (*Result, error)
}

// PassesGate is the gate's whole decision policy.
func PassesGate(res *Result, threshold float64) bool {
	return res != nil && res.OverallScore >= threshold
}

// Gate wraps a Scorer with the pass/retry decision and the degraded-mode
// policy: when the scorer itself fails, the gate substitutes a neutral
// passing score instead of blocking the pipeline. Availability over
// strictness; an unreachable scorer must not stop creative delivery.
type Gate struct {
	scorer    Scorer
	threshold float64
	logger    infra.Logger
}

// NewGate builds a gate around the scorer. A non-positive threshold selects
// DefaultThreshold.
func NewGate(scorer Scorer, threshold float64, logger infra.Logger) *Gate {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Gate{scorer: scorer, threshold: threshold, logger: logger}
}

// Threshold returns the configured passing score.
func (g *Gate) Threshold() float64 { return g.threshold }

// Evaluate scores the image and applies the threshold. Scorer failures are
// absorbed into DefaultResult.
func (g *Gate) Evaluate(ctx context.Context, image []byte, strategy domain.CreativeStrategy) *Result {
	res, err := g.scorer.Score(ctx, image, strategy)
	if err != nil || res == nil {
		g.logger.Warn().Err(err).Msg("quality: scorer unavailable, defaulting to pass")
		return DefaultResult()
	}
	res.Passed = PassesGate(res, g.threshold)
	return res
}

// DefaultResult is the verdict used when scoring is unavailable: a neutral
// score that passes the gate.
func DefaultResult() *Result {
	return &Result{OverallScore: 5, Passed: true}
}
