package strength

import (
	"fmt"
	"strings"

	"github.com/spigell/lp-recommender/internal/trait"
)

// LabelsPerAxis is the number of labels per axis in the default catalog.
const LabelsPerAxis = 7

// Catalog maps every trait axis to its ordered strength labels.
type Catalog struct {
	labels [trait.Dimensions][]string
}

// NewCatalog builds a catalog from labels keyed by axis. Every axis must have
// at least one label and labels must be unique across the catalog.
func NewCatalog(labels map[trait.Axis][]string) (*Catalog, error) {
	c := &Catalog{}
	seen := make(map[string]trait.Axis)

	for _, axis := range trait.Axes() {
		list := labels[axis]
		if len(list) == 0 {
			return nil, fmt.Errorf("no strength labels for axis %s", axis)
		}

		cleaned := make([]string, 0, len(list))
		for _, label := range list {
			label = strings.TrimSpace(label)
			if label == "" {
				return nil, fmt.Errorf("empty strength label for axis %s", axis)
			}
			if other, ok := seen[label]; ok {
				return nil, fmt.Errorf("strength %q is listed for both %s and %s", label, other, axis)
			}
			seen[label] = axis
			cleaned = append(cleaned, label)
		}
		c.labels[axis] = cleaned
	}

	return c, nil
}

// DefaultCatalog returns the default catalog of seven strengths per axis.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(map[trait.Axis][]string{
		trait.Cognitive:   {"Problem Solving", "Decisiveness", "Originality", "Simplifying the Complex", "Connecting the Dots", "Thinking ahead", "Sense Making"},
		trait.Interactive: {"Collaborating", "Valuing Relationships", "Engagement", "Diplomacy", "Eloquence", "Social Flexibility", "Being Persuasive"},
		trait.Emotive:     {"Empathy", "Self Awareness", "Calmness", "Trust", "Patience", "Gratitude", "Compassion"},
		trait.Adaptive:    {"Resilience", "Dealing with Adversity", "Will Power", "Self Discipline", "Persistence", "Humility", "Agility"},
		trait.Creative:    {"Curiosity", "Critical Thinking", "Taking Risk", "Entrepreneurship", "Exploring", "Pioneering", "Challenging the Norm"},
		trait.Motive:      {"Drive", "Passion", "Confidence", "Integrity", "Dependability", "Objectivity", "Sense of Purpose"},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Labels returns a copy of the ordered labels for an axis.
func (c *Catalog) Labels(axis trait.Axis) []string {
	if !axis.Valid() {
		return nil
	}
	return append([]string(nil), c.labels[axis]...)
}

// AxisOf returns the axis a label belongs to.
func (c *Catalog) AxisOf(label string) (trait.Axis, bool) {
	label = strings.TrimSpace(label)
	for i, list := range c.labels {
		for _, l := range list {
			if l == label {
				return trait.Axis(i), true
			}
		}
	}
	return 0, false
}
