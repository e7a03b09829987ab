package filtering

import (
	"context"

	"github.com/spigell/lp-recommender/internal/pathway"
)

type validityFilter struct{}

// NewValidity creates a filter that removes candidates whose stored row is
// malformed. They cannot be scored.
func NewValidity() Filter {
	return &validityFilter{}
}

func (f *validityFilter) Name() string { return "validity" }

func (f *validityFilter) Disable(string) {}

func (f *validityFilter) IsEnabled() bool { return true }

func (f *validityFilter) Validate() error { return nil }

func (f *validityFilter) Apply(_ context.Context, p *pathway.Pool) (*pathway.Pool, Step, error) {
	initial := p.Len()
	reasons := make(map[string]string)

	dropped := p.Drop(func(c *pathway.Candidate) bool {
		if err := c.Validate(); err != nil {
			reasons[c.ID] = err.Error()
			return true
		}
		return false
	})

	return p, Step{Initial: initial, Dropped: len(dropped), Left: p.Len(), Reasons: reasons}, nil
}
