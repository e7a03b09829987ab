// Package store describes the relational data the recommender reads and the
// row set it writes.
package store

import (
	"strings"
	"time"

	"github.com/spigell/lp-recommender/internal/trait"
)

// TraitColumns are the trait column names in vector order.
var TraitColumns = []string{"COGNITIVE", "INTERACTIVE", "EMOTIVE", "ADAPTIVE", "CREATIVE", "MOTIVE"}

type TraitProfile struct {
	UserID string
	Traits trait.Vector
}

// Candidate is a job_details row. TopTraits is the raw comma-separated column.
type Candidate struct {
	ID        string
	Traits    trait.Vector
	TopTraits string
}

type CandidatePool struct {
	Candidates []*Candidate
	// PinnedIDs are the user's current top picks.
	PinnedIDs []string
}

type Achievement struct {
	ID       string
	Type     int
	Strength string
}

// Moment is an answer joined with its question; Strengths is comma-separated.
type Moment struct {
	ID        string
	Strengths string
}

// UserPathway is one stored recommendation row.
type UserPathway struct {
	UserID               string    `json:"user_id"`
	JobID                string    `json:"job_id"`
	PercentageSimilarity int       `json:"percentage_similarity"`
	Strength             []string  `json:"strength"`
	DevelopStrength      []string  `json:"develop_strength"`
	AchievementIDs       []string  `json:"id_user_achievements"`
	PassionIDs           []string  `json:"id_user_passion"`
	MomentIDs            []string  `json:"id_user_moment"`
	Level                string    `json:"lp_level"`
	CreatedAt            time.Time `json:"created_at"`
}

// JoinList encodes a list column.
func JoinList(items []string) string {
	return strings.Join(items, ",")
}

// SplitList decodes a list column, dropping empty entries.
func SplitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// UnionLists merges list columns keeping the first occurrence of every item.
func UnionLists(columns ...string) []string {
	seen := make(map[string]struct{})
	var items []string
	for _, column := range columns {
		for _, item := range SplitList(column) {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			items = append(items, item)
		}
	}
	return items
}
