package engine

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/spigell/lp-recommender/internal/evidence"
	"github.com/spigell/lp-recommender/internal/pathway"
	"github.com/spigell/lp-recommender/internal/strength"
	"github.com/spigell/lp-recommender/internal/tiering"
	"github.com/spigell/lp-recommender/internal/trait"
)

func profile(v trait.Vector) *trait.Vector {
	return &v
}

func scenarioAInput() Input {
	return Input{
		UserID:  "42",
		Profile: profile(trait.Vector{10, 0, 0, 0, 0, 0}),
		Pool: &pathway.Pool{Items: []*pathway.Candidate{
			pathway.NewCandidate("a", trait.Vector{10, 0, 0, 0, 0, 0}, "0", false),
			pathway.NewCandidate("b", trait.Vector{0, 10, 0, 0, 0, 0}, "1", false),
			pathway.NewCandidate("c", trait.Vector{5, 5, 0, 0, 0, 0}, "0,1", false),
		}},
		Unlocked: strength.NewSet("Problem Solving"),
		Evidence: evidence.Records{
			Achievements: []evidence.Achievement{
				{ID: "5", Type: 1, Strength: "Problem Solving"},
				{ID: "6", Type: 0, Strength: "Trust"},
			},
		},
	}
}

func bigInput() Input {
	vectors := []trait.Vector{
		{9, 1, 2, 0, 3, 1}, {1, 9, 0, 2, 1, 0}, {5, 5, 5, 5, 5, 5}, {0, 0, 9, 1, 0, 2}, {3, 0, 0, 8, 1, 1},
		{2, 2, 2, 0, 9, 0}, {7, 3, 1, 1, 1, 6}, {0, 1, 0, 0, 1, 9}, {4, 4, 0, 4, 0, 4}, {6, 0, 6, 0, 6, 0},
	}
	tops := []string{"0", "1", "0,1,2", "2", "3", "4", "0,5", "5", "0,1,3", "0,2,4"}

	pool := &pathway.Pool{}
	for i, v := range vectors {
		id := string(rune('a' + i))
		pool.Items = append(pool.Items, pathway.NewCandidate(id, v, tops[i], i == 3 || i == 7))
	}

	return Input{
		UserID:   "42",
		Profile:  profile(trait.Vector{8, 2, 1, 5, 3, 4}),
		Pool:     pool,
		Unlocked: strength.NewSet("Problem Solving", "Resilience", "Drive", "Empathy", "Curiosity", "Engagement"),
		Evidence: evidence.Records{
			Achievements: []evidence.Achievement{{ID: "1", Type: 1, Strength: "Drive"}, {ID: "2", Type: 0, Strength: "Resilience"}},
			Moments:      []evidence.Moment{{ID: "3", Strengths: []string{"Problem Solving", "Patience"}}},
		},
	}
}

func TestRankScenarioA(t *testing.T) {
	res, err := Rank(DefaultConfig(), strength.DefaultCatalog(), scenarioAInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(res.CandidateIDs(), []string{"a", "c", "b"}) {
		t.Fatalf("unexpected order: %v", res.CandidateIDs())
	}

	first := res.Rows[0]
	if first.Raw != 78 || first.Percentage != 78 || first.Rank != 1 {
		t.Fatalf("expected perfect alignment to score 78 at rank 1, got %+v", first)
	}
	if first.Tier != tiering.Safety {
		t.Fatalf("expected Safety, got %s", first.Tier)
	}
	if !slices.Equal(first.Showcase, []string{"Problem Solving"}) {
		t.Fatalf("unexpected showcase: %v", first.Showcase)
	}
	if !slices.Equal(first.AchievementIDs, []string{"5"}) || len(first.PassionIDs) != 0 {
		t.Fatalf("unexpected evidence: %+v", first)
	}

	// 78 / sqrt(2) rounds to 55
	if res.Rows[1].Percentage != 55 || res.Rows[1].Tier != tiering.Likely {
		t.Fatalf("unexpected second row: %+v", res.Rows[1])
	}
	if res.Rows[2].Percentage != 0 || res.Rows[2].Tier != tiering.Reach {
		t.Fatalf("unexpected third row: %+v", res.Rows[2])
	}
	if len(res.Rows[2].Showcase) != 0 || len(res.Rows[2].AchievementIDs) != 0 {
		t.Fatalf("expected no showcase or evidence for the orthogonal candidate: %+v", res.Rows[2])
	}
}

func TestRankProperties(t *testing.T) {
	in := bigInput()
	cfg := DefaultConfig()
	catalog := strength.DefaultCatalog()

	res, err := Rank(cfg, catalog, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again, err := Rank(cfg, catalog, bigInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(res, again) {
		t.Fatalf("ranking is not deterministic")
	}

	if res.Counts.Total() != in.Pool.Len() || res.Len() != in.Pool.Len() {
		t.Fatalf("counts %+v do not cover %d candidates", res.Counts, in.Pool.Len())
	}

	for pos, row := range res.Rows {
		if pos > 0 && res.Rows[pos-1].Adjusted < row.Adjusted {
			t.Fatalf("rows are not sorted by adjusted score at %d", pos)
		}
		if row.Tier != res.Counts.TierAt(pos) {
			t.Fatalf("row %d has tier %s, expected %s", pos, row.Tier, res.Counts.TierAt(pos))
		}
		if row.Rank != pos+1 {
			t.Fatalf("row %d has rank %d", pos, row.Rank)
		}
		if len(row.Develop) > cfg.Gap.MaxDevelop {
			t.Fatalf("row %s develops %d strengths", row.CandidateID, len(row.Develop))
		}
		showcase := strength.NewSet(row.Showcase...)
		for _, label := range row.Develop {
			if showcase.Has(label) {
				t.Fatalf("row %s both showcases and develops %q", row.CandidateID, label)
			}
			if in.Unlocked.Has(label) {
				t.Fatalf("row %s develops unlocked strength %q", row.CandidateID, label)
			}
		}
		for _, label := range row.Showcase {
			if !in.Unlocked.Has(label) {
				t.Fatalf("row %s showcases locked strength %q", row.CandidateID, label)
			}
		}
		if row.Percentage < 0 || row.Percentage > 100 {
			t.Fatalf("row %s percentage out of range: %d", row.CandidateID, row.Percentage)
		}
		if row.Pinned && row.Adjusted == row.Raw {
			t.Fatalf("pinned row %s was not rescaled", row.CandidateID)
		}
		if !row.Pinned && row.Adjusted != row.Raw {
			t.Fatalf("unpinned row %s was rescaled", row.CandidateID)
		}
	}
}

func TestRankSkipsZeroTopTraitAxis(t *testing.T) {
	in := scenarioAInput()
	in.Pool = &pathway.Pool{Items: []*pathway.Candidate{
		pathway.NewCandidate("a", trait.Vector{10, 0, 0, 0, 0, 0}, "0,2", false),
		pathway.NewCandidate("b", trait.Vector{0, 10, 0, 0, 0, 0}, "1", false),
	}}

	res, err := Rank(DefaultConfig(), strength.DefaultCatalog(), in)
	if err != nil {
		t.Fatalf("a zero top-trait axis must not abort the run: %v", err)
	}

	row := res.Rows[0]
	if row.CandidateID != "a" || len(row.Skipped) != 1 || row.Skipped[0].Axis != trait.Emotive {
		t.Fatalf("expected EMOTIVE to be skipped for a, got %+v", row)
	}
	if !errors.Is(row.Skipped[0].Err, ErrDegenerateVector) {
		t.Fatalf("expected ErrDegenerateVector, got %v", row.Skipped[0].Err)
	}
	if len(row.Develop) == 0 {
		t.Fatalf("expected develop strengths despite the skipped axis")
	}
}

func TestRankPreconditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Input)
		expect error
	}{
		{name: "missing profile", mutate: func(in *Input) { in.Profile = nil }, expect: ErrMissingProfile},
		{name: "zero profile", mutate: func(in *Input) { in.Profile = profile(trait.Vector{}) }, expect: ErrDegenerateVector},
		{name: "negative profile", mutate: func(in *Input) { in.Profile = profile(trait.Vector{1, -1}) }, expect: ErrDegenerateVector},
		{name: "empty pool", mutate: func(in *Input) { in.Pool = &pathway.Pool{} }, expect: ErrEmptyCandidatePool},
		{name: "nil pool", mutate: func(in *Input) { in.Pool = nil }, expect: ErrEmptyCandidatePool},
		{name: "no unlocked strength", mutate: func(in *Input) { in.Unlocked = strength.NewSet() }, expect: ErrNoUnlockedStrength},
		{
			name: "profile is checked first",
			mutate: func(in *Input) {
				in.Profile = profile(trait.Vector{})
				in.Pool = nil
				in.Unlocked = nil
			},
			expect: ErrDegenerateVector,
		},
		{
			name: "malformed candidate",
			mutate: func(in *Input) {
				in.Pool.Items = append(in.Pool.Items, pathway.NewCandidate("z", trait.Vector{1}, "7", false))
			},
			expect: pathway.ErrMalformed,
		},
		{
			name: "degenerate distribution",
			mutate: func(in *Input) {
				in.Pool = &pathway.Pool{Items: []*pathway.Candidate{
					pathway.NewCandidate("a", trait.Vector{1, 1, 0, 0, 0, 0}, "0", true),
					pathway.NewCandidate("b", trait.Vector{1, 1, 0, 0, 0, 0}, "0", false),
				}}
			},
			expect: ErrDegenerateDistribution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := scenarioAInput()
			tt.mutate(&in)

			res, err := Rank(DefaultConfig(), strength.DefaultCatalog(), in)
			if !errors.Is(err, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, err)
			}
			if res != nil {
				t.Fatalf("expected no result on failure")
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score  float64
		expect int
	}{
		{score: 78, expect: 78},
		{score: 44.5, expect: 44},
		{score: 45.5, expect: 46},
		{score: 55.15, expect: 55},
		{score: -3, expect: 0},
		{score: 131.2, expect: 100},
	}

	for _, tt := range tests {
		if got := Percentage(tt.score); got != tt.expect {
			t.Fatalf("Percentage(%v): expected %d, got %d", tt.score, tt.expect, got)
		}
	}
}
