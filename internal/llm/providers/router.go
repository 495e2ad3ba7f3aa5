package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ahrav/go-stratagem/internal/domain"
	llmerrors "github.com/ahrav/go-stratagem/internal/llm/errors"
)

// Preference expresses which provider a caller wants.
type Preference string

// Supported routing preferences.
const (
	PreferenceLocal  Preference = "local"  // local provider only
	PreferenceHosted Preference = "hosted" // hosted provider only
	PreferenceAuto   Preference = "auto"   // local first, hosted as fallback
)

// ParsePreference converts user input into a Preference. Matching is case-insensitive.
func ParsePreference(s string) (Preference, error) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case PreferenceLocal, PreferenceHosted, PreferenceAuto:
		return p, nil
	default:
		return "", fmt.Errorf("unknown provider preference %q: want local, hosted or auto", s)
	}
}

// Router selects a healthy provider for a preference. It probes health on
// every call and never caches results, so a provider recovering between calls
// is picked up immediately.
type Router struct {
	local  Provider
	hosted Provider
	opts   options
}

// NewRouter creates a router over the given adapters. Either may be nil,
// in which case it is treated as permanently unavailable.
func NewRouter(local, hosted Provider, opts ...Option) *Router {
	return &Router{local: local, hosted: hosted, opts: newOptions(opts)}
}

// Resolve returns a healthy provider satisfying pref.
//
// local and hosted probe exactly that adapter. auto probes local first and
// falls back to hosted. Failures are provider-unavailable errors whose
// "providers" detail names every adapter that was tried.
func (r *Router) Resolve(ctx context.Context, pref Preference) (Provider, error) {
	var candidates []Provider
	switch pref {
	case PreferenceLocal:
		candidates = []Provider{r.local}
	case PreferenceHosted:
		candidates = []Provider{r.hosted}
	case PreferenceAuto:
		candidates = []Provider{r.local, r.hosted}
	default:
		return nil, llmerrors.Internal(fmt.Sprintf("unknown provider preference %q", pref), nil)
	}

	tried := make([]string, 0, len(candidates))
	for i, p := range candidates {
		if p == nil {
			tried = append(tried, string(slotKind(pref, i)))
			continue
		}
		if p.IsHealthy(ctx) {
			r.opts.metrics.ObserveRouting(string(pref), p.Name())
			r.opts.logger.Debug("provider resolved",
				zap.String("preference", string(pref)),
				zap.String("provider", p.Name()),
				zap.String("model", p.Model()),
			)
			return p, nil
		}
		tried = append(tried, p.Name())
	}

	r.opts.metrics.ObserveRouting(string(pref), "none")
	r.opts.logger.Warn("no healthy provider",
		zap.String("preference", string(pref)),
		zap.Strings("tried", tried),
	)

	var msg string
	switch pref {
	case PreferenceAuto:
		msg = "no healthy provider: " + strings.Join(tried, ", ") + " unavailable"
	default:
		msg = tried[0] + " provider is unavailable"
	}
	err := llmerrors.New(llmerrors.KindProviderUnavailable, msg, nil)
	return nil, err.WithDetail("providers", tried).WithDetail("preference", string(pref))
}

// GenerateJSON resolves a provider for pref and runs one structured-generation call on it.
func (r *Router) GenerateJSON(ctx context.Context, pref Preference, req domain.GenerationRequest) (json.RawMessage, Provider, error) {
	p, err := r.Resolve(ctx, pref)
	if err != nil {
		return nil, nil, err
	}
	out, err := p.GenerateJSON(ctx, req)
	if err != nil {
		return nil, p, err
	}
	return out, p, nil
}

// slotKind names an unset adapter slot for error details.
func slotKind(pref Preference, i int) Kind {
	switch {
	case pref == PreferenceHosted, pref == PreferenceAuto && i == 1:
		return KindHosted
	default:
		return KindLocal
	}
}
