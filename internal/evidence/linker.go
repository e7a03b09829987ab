// Package evidence links showcase strengths to the user's own records.
package evidence

import "github.com/spigell/lp-recommender/internal/strength"

// PassionType is the achievement type flag that marks a passion record.
const PassionType = 0

// Achievement is an achievement or passion record tagged with one strength.
type Achievement struct {
	ID       string
	Type     int
	Strength string
}

// IsPassion reports whether the record is a passion rather than an achievement.
func (a Achievement) IsPassion() bool {
	return a.Type == PassionType
}

// Moment is an answered question tagged with a set of strengths.
type Moment struct {
	ID        string
	Strengths []string
}

// Records holds every evidence record of one user.
type Records struct {
	Achievements []Achievement
	Moments      []Moment
}

// Evidence holds the ids of the records supporting a showcase list.
type Evidence struct {
	AchievementIDs []string
	PassionIDs     []string
	MomentIDs      []string
}

// Link collects, in record order, the ids of every record whose tags intersect
// the showcase set. Empty tags never match.
func (r Records) Link(showcase strength.Set) Evidence {
	var ev Evidence
	if showcase.Len() == 0 {
		return ev
	}

	for _, a := range r.Achievements {
		if !showcase.Has(a.Strength) {
			continue
		}
		if a.IsPassion() {
			ev.PassionIDs = append(ev.PassionIDs, a.ID)
		} else {
			ev.AchievementIDs = append(ev.AchievementIDs, a.ID)
		}
	}

	for _, m := range r.Moments {
		if showcase.Intersects(m.Strengths) {
			ev.MomentIDs = append(ev.MomentIDs, m.ID)
		}
	}

	return ev
}
