package store

import (
	"slices"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

// LoadNotifications replaces the notification sequence with list.
func (s *Store) LoadNotifications(list []domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	out := make([]domain.Notification, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, n := range list {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		out = append(out, n)
	}
	s.notifications = out
}

// PrependNotification puts n at the head of the sequence. A redelivered
// notification replaces the known one in place, and a read notification
// never becomes unread again.
func (s *Store) PrependNotification(n domain.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	i := slices.IndexFunc(s.notifications, func(x domain.Notification) bool { return x.ID == n.ID })
	if i >= 0 {
		n.IsRead = n.IsRead || s.notifications[i].IsRead
		s.notifications[i] = n
		return false
	}
	s.notifications = slices.Insert(s.notifications, 0, n)
	return true
}

// MarkAllNotificationsRead flips every notification to read in one step and
// returns how many changed.
func (s *Store) MarkAllNotificationsRead() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i := range s.notifications {
		if !s.notifications[i].IsRead {
			s.notifications[i].IsRead = true
			changed++
		}
	}
	return changed
}

// Notifications returns a copy of the sequence, newest first.
func (s *Store) Notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.notifications)
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, x := range s.notifications {
		if !x.IsRead {
			n++
		}
	}
	return n
}
