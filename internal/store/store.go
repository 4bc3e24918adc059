// Package store holds the canonical, de-duplicated in-memory view of the
// requests and notifications visible to one session.
package store

import (
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

// Filter selects requests for View. The zero value matches everything.
type Filter struct {
	// Status compares case-insensitively; "" and "all" disable the check.
	Status string
	// Search is a case-insensitive substring of the text, the requester name
	// or the request number. A leading '#' is ignored for the number.
	Search string
}

// Match reports whether r passes f.
func (f Filter) Match(r domain.Request) bool {
	return f.compile()(r)
}

func (f Filter) compile() func(domain.Request) bool {
	status := strings.TrimSpace(f.Status)
	if strings.EqualFold(status, "all") {
		status = ""
	}
	search := strings.ToLower(f.Search)
	number := strings.TrimPrefix(strings.TrimSpace(search), "#")

	return func(r domain.Request) bool {
		if status != "" && !strings.EqualFold(strings.TrimSpace(string(r.Status)), status) {
			return false
		}
		if search == "" {
			return true
		}
		if strings.Contains(strings.ToLower(r.Text), search) ||
			strings.Contains(strings.ToLower(r.Requester.Name), search) {
			return true
		}
		return number != "" && r.RequestNo != nil &&
			strings.Contains(strconv.FormatInt(*r.RequestNo, 10), number)
	}
}

// Store is the single source of truth for one session. All methods are safe
// for concurrent use and each one is a single atomic step.
type Store struct {
	log *slog.Logger

	mu       sync.Mutex
	closed   bool
	requests map[string]domain.Request
	// order holds request ids newest first.
	order         []string
	notifications []domain.Notification
}

// New creates an empty store for the session user.
func New(logger *slog.Logger, sess domain.Session) *Store {
	return &Store{
		log:      logger.With("component", "store", "user_id", sess.UserID()),
		requests: make(map[string]domain.Request),
	}
}

// LoadInitial replaces the request collection wholesale with list, keeping
// its order. Prior contents, speculative records included, are discarded.
// Duplicate ids in list keep their first position and last value.
func (s *Store) LoadInitial(list []domain.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	requests := make(map[string]domain.Request, len(list))
	order := make([]string, 0, len(list))
	for _, r := range list {
		if _, seen := requests[r.ID]; !seen {
			order = append(order, r.ID)
		}
		r.Speculative = false
		requests[r.ID] = r
	}
	s.requests = requests
	s.order = order

	s.log.Debug("requests loaded", slog.Int("count", len(order)))
}

// Upsert inserts req at the head of the view when its id is unknown and
// otherwise replaces the stored record in place. It reports whether req was
// inserted. Applying the same value twice leaves the store unchanged.
func (s *Store) Upsert(req domain.Request) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	return s.upsertLocked(req)
}

// UpsertIf upserts req only when keep approves it. keep receives the stored
// record with the same id, if any, and runs under the store lock, so it must
// not call back into the store. It reports whether req was written.
func (s *Store) UpsertIf(req domain.Request, keep func(current domain.Request, known bool) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	current, known := s.requests[req.ID]
	if !keep(current, known) {
		return false
	}
	s.upsertLocked(req)
	return true
}

func (s *Store) upsertLocked(req domain.Request) bool {
	_, exists := s.requests[req.ID]
	s.requests[req.ID] = req
	if exists {
		return false
	}
	s.order = slices.Insert(s.order, 0, req.ID)
	return true
}

// Remove deletes the request with id. Unknown ids are a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeLocked(id)
}

func (s *Store) removeLocked(id string) bool {
	if _, ok := s.requests[id]; !ok {
		return false
	}
	delete(s.requests, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return true
}

// Get returns the request with id.
func (s *Store) Get(id string) (domain.Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	return r, ok
}

// Len returns the number of requests, speculative ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.order)
}

// View returns the requests matching f, newest first. The sequence is lazy
// and restartable: each iteration filters a snapshot taken when it starts, so
// the consumer may call back into the store while ranging.
func (s *Store) View(f Filter) iter.Seq[domain.Request] {
	match := f.compile()

	return func(yield func(domain.Request) bool) {
		for _, r := range s.snapshot() {
			if !match(r) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// All returns every request, newest first.
func (s *Store) All() iter.Seq[domain.Request] {
	return s.View(Filter{})
}

func (s *Store) snapshot() []domain.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Request, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.requests[id])
	}
	return out
}

// Close clears every collection and seals the store. Later writes are
// ignored, so a late event cannot repopulate a torn-down session.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.requests = make(map[string]domain.Request)
	s.order = nil
	s.notifications = nil

	s.log.Debug("store closed")
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
