package pathway

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// ExcludedPathways is the content of an exclude file.
type ExcludedPathways struct {
	Items []*ExcludedPathway
}

type ExcludedPathway struct {
	ID         string
	UserID     string
	ExcludedAt time.Time
}

// ToExcluded returns exclude file entries for every candidate in the pool,
// owned by the pool's user.
func (p *Pool) ToExcluded() *ExcludedPathways {
	excluded := &ExcludedPathways{}
	now := time.Now().UTC()
	for _, c := range p.Items {
		excluded.Items = append(excluded.Items, &ExcludedPathway{
			ID:         c.ID,
			UserID:     p.UserID,
			ExcludedAt: now,
		})
	}
	return excluded
}

// GetExcludedFromFile reads an exclude file. A missing or empty file yields an
// empty list.
func GetExcludedFromFile(path string) (*ExcludedPathways, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ExcludedPathways{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedPathways{}, nil
	}

	var excluded ExcludedPathways
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// Append adds entries not listed yet for the same user.
func (e *ExcludedPathways) Append(s *ExcludedPathways) {
	type key struct{ userID, id string }

	seen := make(map[key]struct{}, len(e.Items))
	for _, item := range e.Items {
		seen[key{item.UserID, item.ID}] = struct{}{}
	}
	for _, item := range s.Items {
		k := key{item.UserID, item.ID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

// IDsFor returns the ids excluded for a user. Entries without a user apply
// to everyone.
func (e *ExcludedPathways) IDsFor(userID string) []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if item.UserID == "" || item.UserID == userID {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func (e *ExcludedPathways) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
