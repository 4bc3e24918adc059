// Package push turns server push events into store operations.
package push

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heartmarshall/teamqueries/internal/domain"
	"github.com/heartmarshall/teamqueries/internal/wire"
)

// Kind names a push event.
type Kind string

const (
	KindNewRequest           Kind = "new_request"
	KindStatusUpdate         Kind = "status_update"
	KindRequestDeleted       Kind = "request_deleted"
	KindNotificationReceived Kind = "notification_received"
)

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	switch k {
	case KindNewRequest, KindStatusUpdate, KindRequestDeleted, KindNotificationReceived:
		return true
	}
	return false
}

// Event is a decoded push event. Exactly one payload field is set, chosen by
// Kind.
type Event struct {
	Kind         Kind
	Request      *domain.Request
	DeletedID    string
	Notification *domain.Notification
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type deletedDTO struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
}

// Decode parses one websocket frame. Every failure wraps
// domain.ErrMalformedEvent; the returned Kind is set whenever the envelope
// itself could be read.
func Decode(frame []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Event{}, malformed("envelope: %v", err)
	}

	ev := Event{Kind: Kind(strings.TrimSpace(env.Event))}
	if !ev.Kind.IsValid() {
		return ev, malformed("unknown event %q", env.Event)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ev, malformed("%s: missing data", ev.Kind)
	}

	switch ev.Kind {
	case KindNewRequest, KindStatusUpdate:
		var dto wire.RequestDTO
		if err := json.Unmarshal(env.Data, &dto); err != nil {
			return ev, malformed("%s: %v", ev.Kind, err)
		}
		req, err := dto.ToDomain()
		if err != nil {
			return ev, malformed("%s: %v", ev.Kind, err)
		}
		ev.Request = &req

	case KindRequestDeleted:
		id, err := decodeDeletedID(env.Data)
		if err != nil {
			return ev, malformed("%s: %v", ev.Kind, err)
		}
		ev.DeletedID = id

	case KindNotificationReceived:
		var dto wire.NotificationDTO
		if err := json.Unmarshal(env.Data, &dto); err != nil {
			return ev, malformed("%s: %v", ev.Kind, err)
		}
		n, err := dto.ToDomain()
		if err != nil {
			return ev, malformed("%s: %v", ev.Kind, err)
		}
		ev.Notification = &n
	}
	return ev, nil
}

// decodeDeletedID accepts {"id": ...}, {"_id": ...} or a bare id string.
func decodeDeletedID(data json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return requireID(id)
	}
	var dto deletedDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return "", err
	}
	if dto.ID != "" {
		return requireID(dto.ID)
	}
	return requireID(dto.MongoID)
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("missing id")
	}
	return id, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrMalformedEvent, fmt.Sprintf(format, args...))
}
