// Package coffee tracks espresso brew entries and mirrors them to a remote
// JSON bin when sync is enabled.
package coffee

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one logged brew.
type Entry struct {
	ID           string    `json:"id"`
	BeanName     string    `json:"bean_name"`
	Temperature  int       `json:"temperature"`
	Volume       int       `json:"volume"`
	GrindSetting int       `json:"grind_setting"`
	BrewMinutes  int       `json:"brew_minutes"`
	BrewSeconds  int       `json:"brew_seconds"`
	Rating       int       `json:"rating"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks every numeric field against its accepted range.
func (e Entry) Validate() error {
	switch {
	case e.BeanName == "":
		return fmt.Errorf("bean name is required")
	case e.Temperature < 1 || e.Temperature > 100:
		return fmt.Errorf("temperature %d out of range 1-100", e.Temperature)
	case e.Volume < 1 || e.Volume > 1000:
		return fmt.Errorf("volume %d out of range 1-1000", e.Volume)
	case e.GrindSetting < 8 || e.GrindSetting > 24:
		return fmt.Errorf("grind setting %d out of range 8-24", e.GrindSetting)
	case e.BrewMinutes < 0 || e.BrewMinutes > 59:
		return fmt.Errorf("brew minutes %d out of range 0-59", e.BrewMinutes)
	case e.BrewSeconds < 0 || e.BrewSeconds > 59:
		return fmt.Errorf("brew seconds %d out of range 0-59", e.BrewSeconds)
	case e.Rating < 1 || e.Rating > 5:
		return fmt.Errorf("rating %d out of range 1-5", e.Rating)
	}
	return nil
}

// Stats summarizes the logged brews.
type Stats struct {
	Today         int     `json:"today"`
	Total         int     `json:"total"`
	TotalVolume   int     `json:"total_volume"`
	AverageRating float64 `json:"average_rating"`
}

// Store owns the brew entries.
type Store struct {
	mu      sync.RWMutex
	entries []Entry

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add validates and inserts a new entry, assigning its id and timestamp.
func (s *Store) Add(e Entry) (Entry, error) {
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	e.ID = uuid.NewString()
	e.CreatedAt = s.now()

	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return e, nil
}

// Update replaces an existing entry keeping its id and creation time.
func (s *Store) Update(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == e.ID {
			e.CreatedAt = s.entries[i].CreatedAt
			s.entries[i] = e
			return nil
		}
	}
	return fmt.Errorf("entry %s not found", e.ID)
}

// Delete removes an entry by id. Unknown ids are a no-op.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// All returns every entry, newest first.
func (s *Store) All() []Entry {
	s.mu.RLock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Replace swaps the full entry set, used when loading a synced copy.
func (s *Store) Replace(entries []Entry) {
	s.mu.Lock()
	s.entries = make([]Entry, len(entries))
	copy(s.entries, entries)
	s.mu.Unlock()
}

// Stats returns the brew counters. Today counts entries whose creation date
// matches the current local date.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	st := Stats{Total: len(s.entries)}
	ratingSum := 0
	for _, e := range s.entries {
		st.TotalVolume += e.Volume
		ratingSum += e.Rating
		ey, em, ed := e.CreatedAt.Date()
		ny, nm, nd := now.Date()
		if ey == ny && em == nm && ed == nd {
			st.Today++
		}
	}
	if st.Total > 0 {
		st.AverageRating = float64(ratingSum) / float64(st.Total)
	}
	return st
}
