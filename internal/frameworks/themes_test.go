package frameworks

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ahrav/go-stratagem/internal/domain"
	llmerrors "github.com/ahrav/go-stratagem/internal/llm/errors"
	"github.com/ahrav/go-stratagem/internal/llm/providers"
)

func TestKeywordInferrer(t *testing.T) {
	k := NewKeywordInferrer()

	t.Run("empty_brief_scores_zero", func(t *testing.T) {
		got, err := k.InferThemes(context.Background(), domain.Brief{Title: "Quarterly review"})
		require.NoError(t, err)
		assert.Equal(t, domain.ThemeVector{}, got)
	})

	t.Run("hits_raise_matching_dimensions", func(t *testing.T) {
		brief := domain.Brief{
			Title:   "Urgent: security breach risk",
			Summary: "The board must decide on a budget before the deadline.",
			Tags:    []string{"compliance"},
		}
		got, err := k.InferThemes(context.Background(), brief)
		require.NoError(t, err)

		// risk: risk, breach, compliance
		assert.InDelta(t, 3.0/5.0, got.Risk, 1e-9)
		// urgency: urgent, deadline
		assert.InDelta(t, 0.5, got.Urgency, 1e-9)
		// resources: budget
		assert.InDelta(t, 1.0/3.0, got.Resources, 1e-9)
		// stakeholder impact: board
		assert.InDelta(t, 1.0/3.0, got.StakeholderImpact, 1e-9)
		assert.Zero(t, got.Opportunity)
		assert.NoError(t, got.Validate())
	})

	t.Run("deterministic", func(t *testing.T) {
		brief := domain.Brief{Title: "Expand into a volatile market", Summary: "growth with unknown demand"}
		a, err := k.InferThemes(context.Background(), brief)
		require.NoError(t, err)
		b, err := k.InferThemes(context.Background(), brief)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Greater(t, a.Opportunity, 0.0)
		assert.Greater(t, a.Uncertainty, 0.0)
	})
}

func TestThemeVectorSchema(t *testing.T) {
	schema := ThemeVectorSchema()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])
	assert.Len(t, schema["required"], len(domain.ThemeDimensions))

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	for _, d := range domain.ThemeDimensions {
		assert.Contains(t, props, d)
	}
}

func TestModelInferrer(t *testing.T) {
	themes := `{"risk": 0.9, "urgency": 0.2, "opportunity": 0.4, "uncertainty": 0.7, "resources": 0.3, "stakeholder_impact": 0.5}`

	t.Run("decodes_generated_vector", func(t *testing.T) {
		local := providers.NewFake(providers.KindLocal, providers.NameOllama, json.RawMessage(themes))
		router := providers.NewRouter(local, nil)
		m := NewModelInferrer(router, providers.PreferenceLocal, zaptest.NewLogger(t))

		brief := domain.Brief{ID: "b-7", Title: "Replace the billing system", Summary: "Legacy platform", Tags: []string{"finance", "ops"}}
		got, err := m.InferThemes(context.Background(), brief)
		require.NoError(t, err)
		assert.Equal(t, domain.ThemeVector{
			Risk: 0.9, Urgency: 0.2, Opportunity: 0.4, Uncertainty: 0.7, Resources: 0.3, StakeholderImpact: 0.5,
		}, got)

		reqs := local.Requests()
		require.Len(t, reqs, 1)
		assert.Contains(t, reqs[0].UserPrompt, "Title: Replace the billing system")
		assert.Contains(t, reqs[0].UserPrompt, "Tags: finance, ops")
		assert.Equal(t, ThemeVectorSchema(), reqs[0].Schema)
		assert.Equal(t, themeMaxTokens, reqs[0].MaxTokens)
	})

	t.Run("routing_failure_passes_through", func(t *testing.T) {
		m := NewModelInferrer(providers.NewRouter(nil, nil), providers.PreferenceAuto, nil)
		_, err := m.InferThemes(context.Background(), domain.Brief{Title: "t"})
		assert.ErrorIs(t, err, llmerrors.ErrProviderUnavailable)
	})

	t.Run("out_of_range_vector_rejected", func(t *testing.T) {
		local := providers.NewFake(providers.KindLocal, providers.NameOllama, json.RawMessage(`{"risk": 4}`))
		m := NewModelInferrer(providers.NewRouter(local, nil), providers.PreferenceLocal, nil)
		_, err := m.InferThemes(context.Background(), domain.Brief{Title: "t"})
		assert.ErrorIs(t, err, domain.ErrInvalidThemeVector)
	})

	t.Run("feeds_ranker", func(t *testing.T) {
		hosted := providers.NewFake(providers.KindHosted, providers.NameGemini, json.RawMessage(themes))
		r := NewRanker(NewModelInferrer(providers.NewRouter(nil, hosted), providers.PreferenceAuto, nil), nil)

		defs, err := Catalogue()
		require.NoError(t, err)
		fits, err := r.RankFrameworkFitsForBrief(context.Background(), domain.Brief{Title: "t"}, defs)
		require.NoError(t, err)
		assert.Len(t, fits, CatalogueSize)
	})
}
