package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spigell/lp-recommender/internal/store"
	"github.com/spigell/lp-recommender/internal/tiering"
)

func (r *Result) Len() int {
	return len(r.Rows)
}

// CandidateIDs returns the ranked candidate ids.
func (r *Result) CandidateIDs() []string {
	ids := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		ids = append(ids, row.CandidateID)
	}
	return ids
}

// DumpToTmpFile writes the result as indented JSON into a new temporary file
// and returns its name.
func (r *Result) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "pathways_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByTier groups a short description of every row under its tier.
func (r *Result) ReportByTier() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, row := range r.Rows {
		key := fmt.Sprintf("%s (%d)", row.Tier, r.tierCount(row.Tier))
		report[key] = append(report[key], map[string]string{
			"rank":       fmt.Sprint(row.Rank),
			"candidate":  row.CandidateID,
			"similarity": fmt.Sprintf("%d%%", row.Percentage),
			"showcase":   strings.Join(row.Showcase, ", "),
			"develop":    strings.Join(row.Develop, ", "),
		})
	}
	return report
}

func (r *Result) tierCount(t tiering.Tier) int {
	switch t {
	case tiering.Safety:
		return r.Counts.Safety
	case tiering.Likely:
		return r.Counts.Likely
	default:
		return r.Counts.Reach
	}
}

// UserPathways converts the rows into stored rows created at the given time.
func (r *Result) UserPathways(createdAt time.Time) []*store.UserPathway {
	list := make([]*store.UserPathway, 0, len(r.Rows))
	for _, row := range r.Rows {
		list = append(list, &store.UserPathway{
			UserID:               row.UserID,
			JobID:                row.CandidateID,
			PercentageSimilarity: row.Percentage,
			Strength:             row.Showcase,
			DevelopStrength:      row.Develop,
			AchievementIDs:       row.AchievementIDs,
			PassionIDs:           row.PassionIDs,
			MomentIDs:            row.MomentIDs,
			Level:                string(row.Tier),
			CreatedAt:            createdAt,
		})
	}
	return list
}

// CountTiers counts stored rows per tier. An unknown tier label is an error.
func CountTiers(rows []*store.UserPathway) (tiering.Counts, error) {
	var counts tiering.Counts
	for _, row := range rows {
		tier, err := tiering.ParseTier(row.Level)
		if err != nil {
			return counts, fmt.Errorf("pathway %s of user %s: %w", row.JobID, row.UserID, err)
		}
		switch tier {
		case tiering.Safety:
			counts.Safety++
		case tiering.Likely:
			counts.Likely++
		default:
			counts.Reach++
		}
	}
	return counts, nil
}
