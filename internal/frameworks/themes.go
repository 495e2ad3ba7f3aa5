package frameworks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/llm/providers"
)

// defaultLexicon maps each theme dimension to word stems that signal it.
// A token matches a stem when it starts with it.
var defaultLexicon = map[string][]string{
	domain.ThemeRisk: {
		"risk", "threat", "danger", "exposure", "failure", "fail", "breach", "loss", "liabil", "compliance", "downside",
	},
	domain.ThemeUrgency: {
		"urgent", "deadline", "immediate", "asap", "now", "quick", "fast", "crisis", "critical", "overdue", "today",
	},
	domain.ThemeOpportunity: {
		"opportunit", "growth", "grow", "expand", "market", "launch", "upside", "innovat", "revenue", "new", "scale",
	},
	domain.ThemeUncertainty: {
		"uncertain", "unknown", "unclear", "volatil", "forecast", "scenario", "ambigu", "unpredict", "assum", "maybe", "might",
	},
	domain.ThemeResources: {
		"budget", "cost", "resourc", "staff", "headcount", "capacity", "capital", "spend", "fund", "hire", "time",
	},
	domain.ThemeStakeholderImpact: {
		"stakeholder", "customer", "employee", "team", "board", "investor", "partner", "union", "communit", "user", "regulator",
	},
}

// hitSaturation controls how fast keyword hits approach a score of 1.
const hitSaturation = 2.0

// KeywordInferrer scores theme dimensions by counting lexicon hits in the
// brief's title, summary and tags. It is deterministic and makes no calls.
type KeywordInferrer struct {
	lexicon map[string][]string
}

var _ ThemeInferrer = (*KeywordInferrer)(nil)

// NewKeywordInferrer returns an inferrer over the built-in lexicon.
func NewKeywordInferrer() *KeywordInferrer {
	return &KeywordInferrer{lexicon: defaultLexicon}
}

// InferThemes maps n hits on a dimension to n/(n+2), so one hit scores 1/3
// and the score approaches 1 as hits accumulate.
func (k *KeywordInferrer) InferThemes(_ context.Context, brief domain.Brief) (domain.ThemeVector, error) {
	tokens := tokenize(brief.Title + " " + brief.Summary + " " + strings.Join(brief.Tags, " "))

	score := func(dimension string) float64 {
		hits := 0
		for _, tok := range tokens {
			for _, stem := range k.lexicon[dimension] {
				if strings.HasPrefix(tok, stem) {
					hits++
					break
				}
			}
		}
		n := float64(hits)
		return n / (n + hitSaturation)
	}

	return domain.ThemeVector{
		Risk:              score(domain.ThemeRisk),
		Urgency:           score(domain.ThemeUrgency),
		Opportunity:       score(domain.ThemeOpportunity),
		Uncertainty:       score(domain.ThemeUncertainty),
		Resources:         score(domain.ThemeResources),
		StakeholderImpact: score(domain.ThemeStakeholderImpact),
	}, nil
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Generator produces schema-valid JSON through a routed provider.
// *providers.Router satisfies it.
type Generator interface {
	GenerateJSON(
		ctx context.Context,
		pref providers.Preference,
		req domain.GenerationRequest,
	) (json.RawMessage, providers.Provider, error)
}

const themeSystemPrompt = `You assess decision briefs. Rate how strongly each theme applies to the brief
on a scale from 0 (absent) to 1 (dominant): risk, urgency, opportunity,
uncertainty, resources, stakeholder_impact.`

// themeMaxTokens bounds the theme-inference response, which is a small object.
const themeMaxTokens = 256

// ModelInferrer asks a language model to score the brief's themes.
type ModelInferrer struct {
	gen    Generator
	pref   providers.Preference
	logger *zap.Logger
}

var _ ThemeInferrer = (*ModelInferrer)(nil)

// NewModelInferrer creates an inferrer that routes through gen with pref.
func NewModelInferrer(gen Generator, pref providers.Preference, logger *zap.Logger) *ModelInferrer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelInferrer{gen: gen, pref: pref, logger: logger}
}

// InferThemes returns the model's theme vector. Generation failures are
// returned unchanged so callers can inspect their kind.
func (m *ModelInferrer) InferThemes(ctx context.Context, brief domain.Brief) (domain.ThemeVector, error) {
	out, p, err := m.gen.GenerateJSON(ctx, m.pref, domain.GenerationRequest{
		SystemPrompt: themeSystemPrompt,
		UserPrompt:   briefPrompt(brief),
		Schema:       ThemeVectorSchema(),
		MaxTokens:    themeMaxTokens,
	})
	if err != nil {
		return domain.ThemeVector{}, err
	}

	var themes domain.ThemeVector
	if err := json.Unmarshal(out, &themes); err != nil {
		return domain.ThemeVector{}, fmt.Errorf("failed to decode theme vector: %w", err)
	}
	if err := themes.Validate(); err != nil {
		return domain.ThemeVector{}, err
	}

	m.logger.Debug("inferred brief themes",
		zap.String("brief_id", brief.ID),
		zap.String("provider", p.Name()),
		zap.Float64s("themes", themes.Values()),
	)
	return themes, nil
}

func briefPrompt(b domain.Brief) string {
	var sb strings.Builder
	sb.WriteString("Title: ")
	sb.WriteString(b.Title)
	if b.Summary != "" {
		sb.WriteString("\nSummary: ")
		sb.WriteString(b.Summary)
	}
	if len(b.Tags) > 0 {
		sb.WriteString("\nTags: ")
		sb.WriteString(strings.Join(b.Tags, ", "))
	}
	return sb.String()
}

// ThemeVectorSchema returns the JSON Schema of a theme vector: an object with
// every dimension required and bounded to [0, 1].
func ThemeVectorSchema() map[string]any {
	props := make(map[string]any, len(domain.ThemeDimensions))
	required := make([]any, 0, len(domain.ThemeDimensions))
	for _, d := range domain.ThemeDimensions {
		props[d] = map[string]any{"type": "number", "minimum": 0, "maximum": 1}
		required = append(required, d)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}
