package pathway

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spigell/lp-recommender/internal/trait"
)

// ErrMalformed marks a candidate whose stored row could not be used.
var ErrMalformed = errors.New("malformed candidate")

// Pool is the materialized candidate pool of one user.
type Pool struct {
	UserID string
	Items  []*Candidate
}

// Candidate is a job/pathway that can be recommended.
type Candidate struct {
	ID        string       `json:"id"`
	Traits    trait.Vector `json:"traits"`
	TopTraits []trait.Axis `json:"top_traits"`
	// Pinned marks the user's current top picks.
	Pinned bool `json:"pinned,omitempty"`

	// Problem is set when the stored row could not be decoded.
	Problem error `json:"-"`
}

// NewCandidate decodes a stored candidate row. A top-trait column that cannot
// be parsed is kept on the candidate as its Problem.
func NewCandidate(id string, traits trait.Vector, topTraits string, pinned bool) *Candidate {
	c := &Candidate{ID: id, Traits: traits, Pinned: pinned}
	axes, err := trait.ParseAxes(topTraits)
	if err != nil {
		c.Problem = err
		return c
	}
	c.TopTraits = axes
	return c
}

// Validate reports why the candidate cannot be scored, if at all.
func (c *Candidate) Validate() error {
	if c.Problem != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformed, c.ID, c.Problem)
	}
	if len(c.TopTraits) == 0 {
		return fmt.Errorf("%w: %s: no top traits", ErrMalformed, c.ID)
	}
	for _, axis := range c.TopTraits {
		if !axis.Valid() {
			return fmt.Errorf("%w: %s: top trait %d out of range", ErrMalformed, c.ID, axis)
		}
	}
	if err := c.Traits.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformed, c.ID, err)
	}
	if c.Traits.IsZero() {
		return fmt.Errorf("%w: %s: %w: all traits are zero", ErrMalformed, c.ID, trait.ErrDegenerateVector)
	}
	return nil
}

func (p *Pool) Len() int {
	return len(p.Items)
}

func (p *Pool) FindByID(id string) *Candidate {
	for _, c := range p.Items {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// IDs returns the candidate ids in pool order.
func (p *Pool) IDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, c := range p.Items {
		ids = append(ids, c.ID)
	}
	return ids
}

// PinnedIDs returns the ids of pinned candidates in pool order.
func (p *Pool) PinnedIDs() []string {
	var ids []string
	for _, c := range p.Items {
		if c.Pinned {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Exclude removes candidates by id and returns the removed ids. Pool order is
// preserved.
func (p *Pool) Exclude(targets []string) []string {
	if len(targets) == 0 {
		return nil
	}
	return p.Drop(func(c *Candidate) bool {
		return slices.Contains(targets, c.ID)
	})
}

// Drop removes every candidate matching fn and returns the removed ids. Pool
// order is preserved.
func (p *Pool) Drop(fn func(*Candidate) bool) []string {
	var dropped []string
	kept := p.Items[:0]
	for _, c := range p.Items {
		if fn(c) {
			dropped = append(dropped, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	clear(p.Items[len(kept):])
	p.Items = kept
	return dropped
}
