package filtering

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/spigell/lp-recommender/internal/pathway"
)

// Filter represents a single filtering step applied to a candidate pool.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, p *pathway.Pool) (*pathway.Pool, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
	// Reasons maps a dropped candidate id to the reason it was dropped, when
	// the step can tell.
	Reasons map[string]string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Filtering runs an ordered list of filters.
type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, logger *zap.Logger) *Filtering {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filtering{steps: steps, logger: logger}
}

// WithLogger returns a copy of the pipeline logging through logger.
func (f *Filtering) WithLogger(logger *zap.Logger) *Filtering {
	return New(f.steps, logger)
}

// Validate checks every enabled filter.
func (f *Filtering) Validate() error {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}
	return nil
}

// RunFilters executes the filters sequentially and returns the remaining pool.
func (f *Filtering) RunFilters(ctx context.Context, p *pathway.Pool) (*pathway.Pool, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	for _, step := range f.steps {
		if !step.IsEnabled() {
			f.logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		f.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		ids := make([]string, 0, len(info.Reasons))
		for id := range info.Reasons {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			f.logger.Info("candidate dropped",
				zap.String("name", step.Name()),
				zap.String("candidate_id", id),
				zap.String("reason", info.Reasons[id]),
			)
		}

		p = next
	}

	return p, nil
}

// Describe returns status entries for the configured filters.
func (f *Filtering) Describe() []Status {
	return Describe(f.steps)
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
