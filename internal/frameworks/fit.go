package frameworks

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/ahrav/go-stratagem/internal/domain"
)

// weightFloor keeps the weighted average defined when every weight is zero.
const weightFloor = 1e-6

// ComputeThemeFitScore returns the weight-averaged theme intensity
// Σ(w·t) / max(Σw, 1e-6), clamped to [0, 1].
//
// Components outside [0, 1] are clamped and NaN components count as zero, so
// the result is always a finite value in range. All-zero weights score 0.
func ComputeThemeFitScore(weights, themes domain.ThemeVector) float64 {
	w := weights.Clamp().Values()
	t := themes.Clamp().Values()

	var num, den float64
	for i := range w {
		num += w[i] * t[i]
		den += w[i]
	}

	score := num / math.Max(den, weightFloor)
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// RankFrameworks scores every framework against themes and orders them by
// descending score. Ties keep their input order. Ranks start at 1 and are
// contiguous.
func RankFrameworks(themes domain.ThemeVector, defs []domain.FrameworkDefinition) []domain.RankedFrameworkFit {
	fits := make([]domain.RankedFrameworkFit, len(defs))
	for i, d := range defs {
		fits[i] = domain.RankedFrameworkFit{
			FrameworkID: d.ID,
			Name:        d.Name,
			DeepSupport: d.Deep,
			Score:       ComputeThemeFitScore(d.Weights, themes),
		}
	}

	sort.SliceStable(fits, func(i, j int) bool { return fits[i].Score > fits[j].Score })
	for i := range fits {
		fits[i].Rank = i + 1
	}
	return fits
}

// ThemeInferrer derives a brief's theme profile.
type ThemeInferrer interface {
	InferThemes(ctx context.Context, brief domain.Brief) (domain.ThemeVector, error)
}

// Ranker orders frameworks by how well they fit a brief.
type Ranker struct {
	inferrer ThemeInferrer
	logger   *zap.Logger
}

// NewRanker creates a ranker. A nil inferrer selects the KeywordInferrer and
// a nil logger discards output.
func NewRanker(inferrer ThemeInferrer, logger *zap.Logger) *Ranker {
	if inferrer == nil {
		inferrer = NewKeywordInferrer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{inferrer: inferrer, logger: logger}
}

// RankFrameworkFitsForBrief infers the brief's themes and ranks frameworks
// against them. For a fixed brief and input order the result is deterministic
// as long as the inferrer is.
func (r *Ranker) RankFrameworkFitsForBrief(
	ctx context.Context,
	brief domain.Brief,
	defs []domain.FrameworkDefinition,
) ([]domain.RankedFrameworkFit, error) {
	if err := brief.Validate(); err != nil {
		return nil, err
	}

	themes, err := r.inferrer.InferThemes(ctx, brief)
	if err != nil {
		return nil, fmt.Errorf("failed to infer themes for brief %q: %w", brief.ID, err)
	}
	themes = themes.Clamp()

	fits := RankFrameworks(themes, defs)
	if len(fits) > 0 {
		r.logger.Debug("ranked frameworks",
			zap.String("brief_id", brief.ID),
			zap.Int("frameworks", len(fits)),
			zap.String("top", fits[0].FrameworkID),
			zap.Float64("top_score", fits[0].Score),
		)
	}
	return fits, nil
}
