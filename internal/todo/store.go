// Package todo implements the in-process todo list store.
package todo

import (
	"sort"
	"sync"
	"time"
)

// Item is one todo entry. CompletedAt is set only while the item is
// completed; Deadline is optional.
type Item struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Overdue reports whether the item has a deadline in the past and is not
// completed.
func (it Item) Overdue(now time.Time) bool {
	return it.Deadline != nil && it.Deadline.Before(now) && !it.IsCompleted
}

// Stats summarizes the store contents.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// Store owns the todo items. Ids are assigned sequentially; all mutations
// emit a change signal to every subscriber.
type Store struct {
	mu     sync.RWMutex
	items  []Item
	nextID int

	subMu sync.Mutex
	subs  []chan struct{}

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nextID: 1, now: time.Now}
}

// Subscribe returns a channel receiving a signal after every mutating
// operation. The channel is buffered; an observer that lags simply
// coalesces signals.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Add inserts a new item, assigning its id and creation time, and returns
// the stored copy.
func (s *Store) Add(item Item) Item {
	s.mu.Lock()
	item.ID = s.nextID
	s.nextID++
	item.CreatedAt = s.now()
	item.IsCompleted = false
	item.CompletedAt = nil
	s.items = append(s.items, item)
	s.mu.Unlock()

	s.notify()
	return item
}

// Update overwrites the mutable fields of an existing item. Unknown ids are
// a no-op; the returned bool reports whether anything changed.
func (s *Store) Update(item Item) bool {
	s.mu.Lock()
	idx := s.indexOf(item.ID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.items[idx].Title = item.Title
	s.items[idx].Description = item.Description
	s.items[idx].Deadline = item.Deadline
	s.mu.Unlock()

	s.notify()
	return true
}

// ToggleComplete flips an item's completion state, stamping or clearing the
// completion time. Unknown ids are a no-op.
func (s *Store) ToggleComplete(id int) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	it := &s.items[idx]
	it.IsCompleted = !it.IsCompleted
	if it.IsCompleted {
		t := s.now()
		it.CompletedAt = &t
	} else {
		it.CompletedAt = nil
	}
	s.mu.Unlock()

	s.notify()
	return true
}

// Delete removes an item by id. Unknown ids are a no-op.
func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.mu.Unlock()

	s.notify()
	return true
}

// Get returns the item with the given id.
func (s *Store) Get(id int) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Item{}, false
	}
	return s.items[idx], true
}

// All returns every item, newest creation first.
func (s *Store) All() []Item {
	out := s.copyItems(nil)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Active returns the open items ordered by soonest deadline first, items
// without a deadline last, ties broken by newest creation.
func (s *Store) Active() []Item {
	out := s.copyItems(func(it Item) bool { return !it.IsCompleted })
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Deadline, out[j].Deadline
		switch {
		case di == nil && dj == nil:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		case di == nil:
			return false
		case dj == nil:
			return true
		case di.Equal(*dj):
			return out[i].CreatedAt.After(out[j].CreatedAt)
		default:
			return di.Before(*dj)
		}
	})
	return out
}

// Completed returns the completed items, most recently completed first.
func (s *Store) Completed() []Item {
	out := s.copyItems(func(it Item) bool { return it.IsCompleted })
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].CompletedAt, out[j].CompletedAt
		if ci == nil || cj == nil {
			return cj == nil && ci != nil
		}
		return ci.After(*cj)
	})
	return out
}

// Overdue returns the items whose deadline has passed without completion.
func (s *Store) Overdue() []Item {
	now := s.now()
	return s.copyItems(func(it Item) bool { return it.Overdue(now) })
}

// Stats returns the store counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	st := Stats{Total: len(s.items)}
	for _, it := range s.items {
		if it.IsCompleted {
			st.Completed++
		} else {
			st.Active++
		}
		if it.Overdue(now) {
			st.Overdue++
		}
	}
	return st
}

func (s *Store) copyItems(keep func(Item) bool) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if keep == nil || keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// indexOf must be called with the mutex held.
func (s *Store) indexOf(id int) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
