package strength

import (
	"testing"

	"github.com/spigell/lp-recommender/internal/trait"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	for _, axis := range trait.Axes() {
		if got := len(c.Labels(axis)); got != LabelsPerAxis {
			t.Fatalf("expected %d labels for %s, got %d", LabelsPerAxis, axis, got)
		}
	}

	if got := c.Labels(trait.Emotive)[0]; got != "Empathy" {
		t.Fatalf("expected Empathy first for EMOTIVE, got %q", got)
	}

	axis, ok := c.AxisOf("Sense of Purpose")
	if !ok || axis != trait.Motive {
		t.Fatalf("expected MOTIVE for Sense of Purpose, got %s (%v)", axis, ok)
	}

	if _, ok := c.AxisOf("Juggling"); ok {
		t.Fatalf("did not expect an axis for unknown label")
	}
}

func TestCatalogLabelsIsCopy(t *testing.T) {
	c := DefaultCatalog()
	labels := c.Labels(trait.Cognitive)
	labels[0] = "mutated"

	if c.Labels(trait.Cognitive)[0] != "Problem Solving" {
		t.Fatalf("catalog must not be mutated through Labels")
	}
}

func TestNewCatalogRejectsInvalid(t *testing.T) {
	full := func() map[trait.Axis][]string {
		m := make(map[trait.Axis][]string)
		for _, axis := range trait.Axes() {
			m[axis] = []string{axis.String() + "-1", axis.String() + "-2"}
		}
		return m
	}

	if _, err := NewCatalog(full()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := full()
	delete(missing, trait.Creative)
	if _, err := NewCatalog(missing); err == nil {
		t.Fatalf("expected error for missing axis")
	}

	dup := full()
	dup[trait.Motive] = append(dup[trait.Motive], "COGNITIVE-1")
	if _, err := NewCatalog(dup); err == nil {
		t.Fatalf("expected error for duplicated label")
	}

	blank := full()
	blank[trait.Emotive] = []string{" "}
	if _, err := NewCatalog(blank); err == nil {
		t.Fatalf("expected error for blank label")
	}
}

func TestSet(t *testing.T) {
	s := NewSet(" Empathy ", "", "Drive", "Empathy")

	if s.Len() != 2 {
		t.Fatalf("expected 2 labels, got %d", s.Len())
	}
	if !s.Has("Empathy") || !s.Has(" Drive") {
		t.Fatalf("expected labels to be present: %v", s.Sorted())
	}
	if s.Has("") {
		t.Fatalf("empty label must never match")
	}
	if !s.Intersects([]string{"Trust", "Drive"}) || s.Intersects([]string{"Trust"}) {
		t.Fatalf("unexpected Intersects result")
	}
	if got := s.Sorted(); got[0] != "Drive" || got[1] != "Empathy" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestSplitLabels(t *testing.T) {
	got := SplitLabels("Empathy, Trust,,  ,Drive")
	if len(got) != 3 || got[0] != "Empathy" || got[1] != "Trust" || got[2] != "Drive" {
		t.Fatalf("unexpected labels: %v", got)
	}
	if SplitLabels("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
