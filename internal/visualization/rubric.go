package visualization

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ahrav/go-stratagem/internal/domain"
)

// Scorer grades the qualitative representation of a structurally valid payload.
type Scorer interface {
	Score(frameworkID string, data map[string]any) domain.RubricReport
}

// Rubric criterion names reported by HeuristicScorer.
const (
	CriterionCoverage        = "coverage"
	CriterionDifferentiation = "differentiation"
	CriterionSpecificity     = "specificity"
)

// DefaultRubricThreshold is the passing score of HeuristicScorer. With three
// criteria a single failure drops the score below it.
const DefaultRubricThreshold = 0.67

const (
	minDistinctLabels = 3
	minSpread         = 0.1
	minLabelRunes     = 3
)

// placeholderLabels are lower-cased labels that carry no analytical content.
var placeholderLabels = map[string]struct{}{
	"tbd": {}, "todo": {}, "n/a": {}, "na": {}, "none": {}, "unknown": {}, "placeholder": {},
	"example": {}, "lorem ipsum": {}, "item": {}, "...": {}, "xxx": {}, "foo": {}, "bar": {},
}

// HeuristicScorer is a deterministic rubric over the payload's text and
// normalized numbers:
//
//   - coverage: at least three distinct labels are named.
//   - differentiation: normalized scores are not all alike (spread >= 0.1).
//   - specificity: no label is a placeholder or shorter than three characters.
type HeuristicScorer struct {
	Threshold float64
}

var _ Scorer = HeuristicScorer{}

// NewHeuristicScorer returns a scorer with DefaultRubricThreshold.
func NewHeuristicScorer() HeuristicScorer {
	return HeuristicScorer{Threshold: DefaultRubricThreshold}
}

// Score grades data. The framework id does not change the criteria.
func (h HeuristicScorer) Score(_ string, data map[string]any) domain.RubricReport {
	var labels []string
	var units []float64
	collect(data, &labels, &units)

	threshold := h.Threshold
	if threshold <= 0 {
		threshold = DefaultRubricThreshold
	}
	return domain.NewRubricReport([]domain.RubricCriterion{
		coverage(labels),
		differentiation(units),
		specificity(labels),
	}, threshold)
}

func coverage(labels []string) domain.RubricCriterion {
	distinct := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		distinct[strings.ToLower(strings.TrimSpace(l))] = struct{}{}
	}
	c := domain.RubricCriterion{Name: CriterionCoverage, Passed: len(distinct) >= minDistinctLabels}
	if !c.Passed {
		c.Issue = fmt.Sprintf("names only %d distinct items; want at least %d", len(distinct), minDistinctLabels)
	}
	return c
}

func differentiation(units []float64) domain.RubricCriterion {
	c := domain.RubricCriterion{Name: CriterionDifferentiation, Passed: true}
	if len(units) < 2 {
		return c
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, u := range units {
		lo = math.Min(lo, u)
		hi = math.Max(hi, u)
	}
	if spread := hi - lo; spread < minSpread {
		c.Passed = false
		c.Issue = fmt.Sprintf("scores are nearly uniform (spread %.2f); differentiate the items", spread)
	}
	return c
}

func specificity(labels []string) domain.RubricCriterion {
	var vague []string
	for _, l := range labels {
		norm := strings.ToLower(strings.TrimSpace(l))
		if _, ok := placeholderLabels[norm]; ok || len([]rune(norm)) < minLabelRunes {
			vague = append(vague, l)
		}
	}
	c := domain.RubricCriterion{Name: CriterionSpecificity, Passed: len(vague) == 0}
	if !c.Passed {
		c.Issue = fmt.Sprintf("%d labels are placeholders, e.g. %q", len(vague), vague[0])
	}
	return c
}

// collect gathers every string and every number in [0, 1] from v. Object keys
// are visited in sorted order so results are deterministic.
func collect(v any, labels *[]string, units *[]float64) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collect(t[k], labels, units)
		}
	case []any:
		for _, item := range t {
			collect(item, labels, units)
		}
	case string:
		*labels = append(*labels, t)
	default:
		if f, ok := toFloat(t); ok && f >= 0 && f <= 1 {
			*units = append(*units, f)
		}
	}
}
