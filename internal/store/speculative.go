package store

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

// InsertSpeculative adds a locally created request ahead of server
// confirmation. The stored copy is marked Speculative so it is never mistaken
// for a confirmed record.
func (s *Store) InsertSpeculative(req domain.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}
	if _, exists := s.requests[req.ID]; exists {
		return fmt.Errorf("store.InsertSpeculative %s: %w", req.ID, domain.ErrAlreadyExists)
	}

	req.Speculative = true
	s.upsertLocked(req)
	return nil
}

// Confirm swaps the speculative record localID for the server's record,
// keeping its position. When the confirmed id is already known (the push
// event won the race) the speculative copy is dropped and the known record is
// replaced in place. Confirming an unknown localID inserts confirmed at the
// head, as an upsert would.
func (s *Store) Confirm(localID string, confirmed domain.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	confirmed.Speculative = false

	spec, hasSpec := s.requests[localID]
	hasSpec = hasSpec && spec.Speculative
	_, known := s.requests[confirmed.ID]

	switch {
	case !hasSpec:
		s.upsertLocked(confirmed)
	case known && confirmed.ID != localID:
		s.removeLocked(localID)
		s.requests[confirmed.ID] = confirmed
	default:
		delete(s.requests, localID)
		s.requests[confirmed.ID] = confirmed
		if i := slices.Index(s.order, localID); i >= 0 {
			s.order[i] = confirmed.ID
		}
	}

	s.log.Debug("speculative request confirmed",
		slog.String("local_id", localID),
		slog.String("request_id", confirmed.ID),
	)
}

// Rollback removes the speculative record localID. Confirmed records are
// never touched.
func (s *Store) Rollback(localID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[localID]
	if !ok || !r.Speculative {
		return false
	}
	s.removeLocked(localID)

	s.log.Debug("speculative request rolled back", slog.String("local_id", localID))
	return true
}
