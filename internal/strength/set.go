package strength

import (
	"slices"
	"strings"
)

// Set is a set of strength labels, such as the labels a user has unlocked.
type Set map[string]struct{}

// NewSet builds a set from labels. Labels are trimmed; empty labels are dropped.
func NewSet(labels ...string) Set {
	s := make(Set, len(labels))
	for _, label := range labels {
		s.Add(label)
	}
	return s
}

// Add inserts a label.
func (s Set) Add(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	s[label] = struct{}{}
}

// Has reports whether the label is in the set.
func (s Set) Has(label string) bool {
	_, ok := s[strings.TrimSpace(label)]
	return ok
}

// Intersects reports whether any of the labels is in the set.
func (s Set) Intersects(labels []string) bool {
	for _, label := range labels {
		if s.Has(label) {
			return true
		}
	}
	return false
}

// Len returns the number of labels.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the labels in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for label := range s {
		out = append(out, label)
	}
	slices.Sort(out)
	return out
}

// SplitLabels splits a comma-separated tag column into trimmed, non-empty labels.
func SplitLabels(csv string) []string {
	var labels []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}
