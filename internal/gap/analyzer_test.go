package gap

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/spigell/lp-recommender/internal/strength"
	"github.com/spigell/lp-recommender/internal/trait"
)

func baseline(t *testing.T, user, candidate trait.Vector) float64 {
	t.Helper()
	sim, err := trait.CosineSimilarity(user, candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sim * 78
}

func newAnalyzer() *Analyzer {
	return New(DefaultConfig(), strength.DefaultCatalog())
}

func assertDisjoint(t *testing.T, res Result) {
	t.Helper()
	showcase := strength.NewSet(res.Showcase...)
	for _, label := range res.Develop {
		if showcase.Has(label) {
			t.Fatalf("label %q is both showcased and developed", label)
		}
	}
	if len(res.Develop) > DefaultConfig().MaxDevelop {
		t.Fatalf("develop list too long: %v", res.Develop)
	}
}

func TestAnalyzeConsistentImprovement(t *testing.T) {
	user := trait.Vector{4, 0, 0, 0, 1, 0}
	candidate := trait.Vector{2, 0, 0, 0, 10, 0}

	res := newAnalyzer().Analyze(Input{
		User:      user,
		Candidate: candidate,
		TopTraits: []trait.Axis{trait.Cognitive},
		Baseline:  baseline(t, user, candidate),
	}, strength.NewSet("Curiosity", "Problem Solving"))

	if res.Accepted != 1 {
		t.Fatalf("expected 1 accepted simulation, got %d", res.Accepted)
	}
	if res.Frequency[trait.Creative] != 1 || math.Abs(res.Delta[trait.Creative]-19) > 1e-9 {
		t.Fatalf("expected CREATIVE to improve by 19, got freq %v delta %v", res.Frequency, res.Delta)
	}

	expectDevelop := []string{"Critical Thinking", "Taking Risk", "Entrepreneurship", "Exploring", "Pioneering", "Challenging the Norm"}
	if !slices.Equal(res.Develop, expectDevelop) {
		t.Fatalf("unexpected develop list: %v", res.Develop)
	}

	if !slices.Equal(res.Showcase, []string{"Problem Solving"}) {
		t.Fatalf("unexpected showcase list: %v", res.Showcase)
	}

	assertDisjoint(t, res)
}

func TestAnalyzeDropsInconsistentImprovement(t *testing.T) {
	user := trait.Vector{10, 2, 0, 0, 0, 0}
	candidate := trait.Vector{10, 10, 0, 0, 0, 0}

	res := newAnalyzer().Analyze(Input{
		User:      user,
		Candidate: candidate,
		TopTraits: []trait.Axis{trait.Cognitive, trait.Interactive},
		Baseline:  baseline(t, user, candidate),
	}, strength.NewSet("Problem Solving", "Collaborating", "Decisiveness"))

	// both simulations beat the baseline but only the first improves
	// INTERACTIVE, 1/2 < 0.67
	if res.Accepted != 2 {
		t.Fatalf("expected 2 accepted simulations, got %d", res.Accepted)
	}
	if res.Frequency[trait.Interactive] != 1 {
		t.Fatalf("expected INTERACTIVE frequency 1, got %v", res.Frequency)
	}
	if res.Delta != (trait.Vector{}) {
		t.Fatalf("expected all deltas to be filtered out, got %v", res.Delta)
	}

	expectShowcase := []string{"Problem Solving", "Decisiveness", "Collaborating"}
	if !slices.Equal(res.Showcase, expectShowcase) {
		t.Fatalf("unexpected showcase list: %v", res.Showcase)
	}

	expectDevelop := []string{"Originality", "Simplifying the Complex", "Connecting the Dots", "Thinking ahead", "Sense Making", "Valuing Relationships"}
	if !slices.Equal(res.Develop, expectDevelop) {
		t.Fatalf("unexpected develop list: %v", res.Develop)
	}

	assertDisjoint(t, res)
}

func TestAnalyzeSkipsZeroAxis(t *testing.T) {
	user := trait.Vector{1, 1, 0, 0, 0, 0}
	candidate := trait.Vector{0, 5, 0, 0, 5, 0}

	res := newAnalyzer().Analyze(Input{
		User:      user,
		Candidate: candidate,
		TopTraits: []trait.Axis{trait.Cognitive, trait.Interactive},
		Baseline:  baseline(t, user, candidate),
	}, strength.NewSet("Drive"))

	if len(res.Skipped) != 1 || res.Skipped[0].Axis != trait.Cognitive {
		t.Fatalf("expected COGNITIVE to be skipped, got %+v", res.Skipped)
	}
	if !errors.Is(res.Skipped[0].Err, trait.ErrDegenerateVector) {
		t.Fatalf("expected ErrDegenerateVector, got %v", res.Skipped[0].Err)
	}

	if res.Accepted != 1 {
		t.Fatalf("expected the INTERACTIVE simulation to be accepted, got %d", res.Accepted)
	}
	if math.Abs(res.Delta[trait.Creative]-1) > 1e-9 {
		t.Fatalf("expected CREATIVE delta 1, got %v", res.Delta)
	}
	if res.Develop[0] != "Curiosity" {
		t.Fatalf("expected develop list to start with CREATIVE strengths, got %v", res.Develop)
	}

	assertDisjoint(t, res)
}

func TestAnalyzeNoAcceptedSimulation(t *testing.T) {
	user := trait.Vector{3, 1, 0, 0, 0, 0}
	candidate := trait.Vector{1, 3, 0, 0, 0, 0}

	res := newAnalyzer().Analyze(Input{
		User:      user,
		Candidate: candidate,
		TopTraits: []trait.Axis{trait.Interactive},
		Baseline:  1000,
	}, strength.NewSet("Collaborating"))

	if res.Accepted != 0 {
		t.Fatalf("expected no accepted simulation, got %d", res.Accepted)
	}
	if res.Delta != (trait.Vector{}) {
		t.Fatalf("expected zero deltas, got %v", res.Delta)
	}
	for _, d := range res.Delta {
		if math.IsNaN(d) {
			t.Fatalf("unexpected NaN delta")
		}
	}

	// zero deltas keep axis order: COGNITIVE is walked first
	expectDevelop := []string{"Problem Solving", "Decisiveness", "Originality", "Simplifying the Complex", "Connecting the Dots", "Thinking ahead"}
	if !slices.Equal(res.Develop, expectDevelop) {
		t.Fatalf("unexpected develop list: %v", res.Develop)
	}
	if !slices.Equal(res.Showcase, []string{"Collaborating"}) {
		t.Fatalf("unexpected showcase list: %v", res.Showcase)
	}
}

func TestAnalyzeFallbackDrain(t *testing.T) {
	catalog := strength.DefaultCatalog()

	unlocked := strength.NewSet()
	for _, axis := range trait.Axes() {
		for _, label := range catalog.Labels(axis) {
			if label != "Sense Making" {
				unlocked.Add(label)
			}
		}
	}

	res := New(DefaultConfig(), catalog).Analyze(Input{
		User:      trait.Vector{1, 1, 0, 0, 0, 0},
		Candidate: trait.Vector{1, 2, 0, 0, 0, 0},
		TopTraits: []trait.Axis{trait.Interactive},
		Baseline:  1000,
	}, unlocked)

	// only one locked label exists, so the strongest axis (COGNITIVE on
	// ties) is drained, skipping showcased labels
	expectDevelop := []string{"Sense Making", "Problem Solving", "Decisiveness", "Originality", "Simplifying the Complex", "Connecting the Dots"}
	if !slices.Equal(res.Develop, expectDevelop) {
		t.Fatalf("unexpected develop list: %v", res.Develop)
	}
	if len(res.Showcase) != strength.LabelsPerAxis {
		t.Fatalf("expected all INTERACTIVE labels to be showcased, got %v", res.Showcase)
	}

	assertDisjoint(t, res)
}

func TestAnalyzeFallbackNeverRepeatsShowcase(t *testing.T) {
	catalog := strength.DefaultCatalog()

	unlocked := strength.NewSet()
	for _, axis := range trait.Axes() {
		for _, label := range catalog.Labels(axis) {
			unlocked.Add(label)
		}
	}

	res := New(DefaultConfig(), catalog).Analyze(Input{
		User:      trait.Vector{1, 1, 0, 0, 0, 0},
		Candidate: trait.Vector{2, 1, 0, 0, 0, 0},
		TopTraits: []trait.Axis{trait.Cognitive},
		Baseline:  1000,
	}, unlocked)

	if len(res.Develop) != 0 {
		t.Fatalf("expected no develop labels when the drained axis is showcased, got %v", res.Develop)
	}
	assertDisjoint(t, res)
}

func TestShowcaseTopTwoAxes(t *testing.T) {
	res := newAnalyzer().Analyze(Input{
		User:      trait.Vector{1, 5, 3, 0, 0, 0},
		Candidate: trait.Vector{1, 1, 4, 0, 0, 0},
		TopTraits: []trait.Axis{trait.Cognitive, trait.Interactive, trait.Emotive},
		Baseline:  1000,
	}, strength.NewSet("Problem Solving", "Collaborating", "Empathy", "Trust"))

	// products: COGNITIVE 1, INTERACTIVE 5, EMOTIVE 12
	expect := []string{"Empathy", "Trust", "Collaborating"}
	if !slices.Equal(res.Showcase, expect) {
		t.Fatalf("expected %v, got %v", expect, res.Showcase)
	}
}

func TestRankAxes(t *testing.T) {
	got := RankAxes(trait.Vector{0, 2, 0, 5, 2, 0})
	expect := []trait.Axis{trait.Adaptive, trait.Interactive, trait.Creative, trait.Cognitive, trait.Emotive, trait.Motive}
	if !slices.Equal(got, expect) {
		t.Fatalf("expected %v, got %v", expect, got)
	}
}
