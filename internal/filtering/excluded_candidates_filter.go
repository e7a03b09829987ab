package filtering

import (
	"context"
	"strings"

	"github.com/spigell/lp-recommender/internal/pathway"
)

type excludedCandidatesFilter struct {
	disabled   bool
	reason     string
	candidates []string
}

// NewExcludedCandidates creates a filter that removes candidates listed in the config.
func NewExcludedCandidates(candidates []string) Filter {
	return &excludedCandidatesFilter{
		candidates: candidates,
	}
}

func (f *excludedCandidatesFilter) Name() string { return "excluded_candidates" }

func (f *excludedCandidatesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludedCandidatesFilter) IsEnabled() bool { return !f.disabled }

func (f *excludedCandidatesFilter) Validate() error { return nil }

func (f *excludedCandidatesFilter) Apply(_ context.Context, p *pathway.Pool) (*pathway.Pool, Step, error) {
	initial := p.Len()
	if len(f.candidates) == 0 {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	excluded := p.Exclude(f.candidates)

	return p, Step{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}

func (f *excludedCandidatesFilter) Status() Status {
	details := map[string]string{}
	if len(f.candidates) > 0 {
		details["candidates"] = strings.Join(f.candidates, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
