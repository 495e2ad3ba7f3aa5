package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-stratagem/internal/domain"
	llmerrors "github.com/ahrav/go-stratagem/internal/llm/errors"
)

const swotSpec = `{
	"chartType": "quadrant",
	"title": "Nordic entry",
	"schemaVersion": 2,
	"data": {"quadrants": {
		"strengths": [{"label": "Loyal enterprise customers", "weight": 0.8}],
		"weaknesses": [{"label": "Slow release cadence", "weight": 0.5}],
		"opportunities": [{"label": "Mid-market expansion", "weight": 0.7}],
		"threats": [{"label": "Open-source substitutes", "weight": 0.2}]
	}}
}`

// ollamaServer serves a model list and answers every chat with content.
func ollamaServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models": [{"name": "llama3.1"}]}`))
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "llama3.1",
			"message": map[string]string{"role": "assistant", "content": content},
			"done":    true,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// configFor points the local provider at endpoint and disables the hosted key.
func configFor(t *testing.T, endpoint string) string {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	return writeFile(t, "stratagem.yaml", `
local:
  endpoint: `+endpoint+`
routing:
  default_preference: local
observability:
  log_level: error
  log_format: console
  metrics_enabled: true
`)
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRoot()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRankCommand(t *testing.T) {
	cfg := configFor(t, "http://127.0.0.1:1")

	out, _, err := run(t, "rank", "--config", cfg, "--title", "Urgent budget decision", "--limit", "3", "--json")
	require.NoError(t, err)

	var fits []domain.RankedFrameworkFit
	require.NoError(t, json.Unmarshal([]byte(out), &fits))
	require.Len(t, fits, 3)
	assert.Equal(t, 1, fits[0].Rank)
	assert.GreaterOrEqual(t, fits[0].Score, fits[2].Score)
}

func TestRankCommandDeepTable(t *testing.T) {
	cfg := configFor(t, "http://127.0.0.1:1")

	out, _, err := run(t, "rank", "--config", cfg, "--title", "Market entry", "--deep", "--limit", "0")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 13)
	assert.True(t, strings.HasPrefix(lines[0], "RANK"))
	for _, line := range lines[1:] {
		assert.True(t, strings.HasSuffix(line, "true"), line)
	}
}

func TestRankCommandRequiresTitle(t *testing.T) {
	cfg := configFor(t, "http://127.0.0.1:1")
	_, _, err := run(t, "rank", "--config", cfg)
	require.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	cfg := configFor(t, "http://127.0.0.1:1")

	t.Run("valid", func(t *testing.T) {
		out, _, err := run(t, "validate", "--config", cfg, "--framework", "swot_analysis", writeFile(t, "spec.json", swotSpec))
		require.NoError(t, err)

		var res domain.ValidationResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.True(t, res.OK, res.Issues)
		assert.True(t, res.Canonical)
	})

	t.Run("invalid", func(t *testing.T) {
		spec := writeFile(t, "spec.json", `{"chartType": "bar", "title": "x", "schemaVersion": 1, "data": {}}`)
		out, _, err := run(t, "validate", "--config", cfg, "--framework", "swot_analysis", spec)
		require.ErrorIs(t, err, errValidationFailed)

		var res domain.ValidationResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.False(t, res.OK)
		assert.Contains(t, res.Issues, `chartType: expected "quadrant" for swot_analysis, received "bar"`)
	})

	t.Run("not_json", func(t *testing.T) {
		_, _, err := run(t, "validate", "--config", cfg, "--framework", "swot_analysis", writeFile(t, "spec.json", "nope"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, errValidationFailed)
	})
}

func TestHealthCommand(t *testing.T) {
	srv := ollamaServer(t, "{}")
	cfg := configFor(t, srv.URL)

	out, _, err := run(t, "health", "--config", cfg, "--json")
	require.NoError(t, err)

	var statuses []healthStatus
	require.NoError(t, json.Unmarshal([]byte(out), &statuses))
	require.Len(t, statuses, 2)
	assert.Equal(t, "local", string(statuses[0].Kind))
	assert.True(t, statuses[0].Healthy)
	assert.Equal(t, "hosted", string(statuses[1].Kind))
	assert.False(t, statuses[1].Healthy)
}

func TestHealthCommandInterrupted(t *testing.T) {
	srv := ollamaServer(t, "{}")
	cfg := configFor(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	root := NewRoot()
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"health", "--config", cfg, "--json"})

	err := root.ExecuteContext(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "health probe")
	assert.Empty(t, stdout.String())
}

func TestGenerateCommand(t *testing.T) {
	srv := ollamaServer(t, "Sure:\n```json\n{\"title\": \"Expand\", \"score\": 0.7}\n```")
	cfg := configFor(t, srv.URL)
	schema := writeFile(t, "schema.json", `{
		"type": "object",
		"required": ["title", "score"],
		"properties": {"title": {"type": "string"}, "score": {"type": "number", "minimum": 0, "maximum": 1}}
	}`)

	out, _, err := run(t, "generate", "--config", cfg, "--prompt", "Recommend a move", "--schema", schema)
	require.NoError(t, err)

	var res generateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "ollama", res.Provider)
	assert.JSONEq(t, `{"title": "Expand", "score": 0.7}`, string(res.Output))
}

func TestGenerateCommandReportsTypedFailure(t *testing.T) {
	cfg := configFor(t, "http://127.0.0.1:1")
	schema := writeFile(t, "schema.json", `{"type": "object"}`)

	_, stderr, err := run(t, "generate", "--config", cfg, "--prompt", "p", "--schema", schema, "--preference", "hosted")
	require.ErrorIs(t, err, llmerrors.ErrProviderUnavailable)

	var report llmerrors.Error
	require.NoError(t, json.Unmarshal([]byte(stderr), &report))
	assert.Equal(t, llmerrors.KindProviderUnavailable, report.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, report.Status)
}

func TestVisualizeCommand(t *testing.T) {
	srv := ollamaServer(t, swotSpec)
	cfg := configFor(t, srv.URL)

	out, _, err := run(t, "visualize", "--config", cfg, "--framework", "swot_analysis", "--title", "Enter the Nordic market")
	require.NoError(t, err)

	var analysis domain.FrameworkAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.Equal(t, "SWOT Analysis", analysis.Fit.Name)
	require.NotNil(t, analysis.Result)
	assert.True(t, analysis.Result.OK, analysis.Result.Issues)
}

func TestVisualizeCommandRejectsNonCanonical(t *testing.T) {
	cfg := configFor(t, "http://127.0.0.1:1")
	_, _, err := run(t, "visualize", "--config", cfg, "--framework", "scenario_planning", "--title", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no visualization contract")
}
