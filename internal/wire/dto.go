// Package wire holds the JSON shapes exchanged with the team server, both over
// REST and over the push channel, and their conversion to domain types.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

// UserDTO is the server representation of a user.
type UserDTO struct {
	ID               string           `json:"_id"`
	Name             string           `json:"name"`
	Email            string           `json:"email,omitempty"`
	Mobile           string           `json:"mobile,omitempty"`
	Role             string           `json:"role,omitempty"`
	ProfileImage     string           `json:"profileImage,omitempty"`
	PaidLeaveBalance *decimal.Decimal `json:"paidLeaveBalance,omitempty"`
	CreatedAt        *time.Time       `json:"createdAt,omitempty"`
}

// UserRefDTO is a user reference that the server sends either populated
// (an object) or bare (the id string).
type UserRefDTO struct {
	ID           string `json:"_id"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Mobile       string `json:"mobile,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// UnmarshalJSON accepts both the populated object and the bare id.
func (r *UserRefDTO) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = UserRefDTO{ID: id}
		return nil
	}
	type plain UserRefDTO
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = UserRefDTO(p)
	return nil
}

// LeaveRangeDTO carries calendar dates as "2006-01-02" or RFC 3339 strings.
type LeaveRangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RequestDTO is the server representation of a request.
type RequestDTO struct {
	ID         string         `json:"_id"`
	RequestNo  *int64         `json:"requestNo,omitempty"`
	User       *UserRefDTO    `json:"user,omitempty"`
	Kind       string         `json:"kind,omitempty"`
	Query      string         `json:"query"`
	LeaveRange *LeaveRangeDTO `json:"leaveRange,omitempty"`
	Status     string         `json:"status"`
	Comment    *string        `json:"comment,omitempty"`
	ActionBy   *UserRefDTO    `json:"actionBy,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// NotificationDTO is the server representation of a notification.
type NotificationDTO struct {
	ID        string    `json:"_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// RequestList accepts both {"requests": [...]} and a bare array.
type RequestList []RequestDTO

func (l *RequestList) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Requests []RequestDTO `json:"requests"`
	}
	list, err := unwrapList(data, &wrapped, func() []RequestDTO { return wrapped.Requests })
	*l = list
	return err
}

// NotificationList accepts both {"notifications": [...]} and a bare array.
type NotificationList []NotificationDTO

func (l *NotificationList) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Notifications []NotificationDTO `json:"notifications"`
	}
	list, err := unwrapList(data, &wrapped, func() []NotificationDTO { return wrapped.Notifications })
	*l = list
	return err
}

// UserList accepts both {"users": [...]} and a bare array.
type UserList []UserDTO

func (l *UserList) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Users []UserDTO `json:"users"`
	}
	list, err := unwrapList(data, &wrapped, func() []UserDTO { return wrapped.Users })
	*l = list
	return err
}

// unwrapList decodes data into wrapped when it is an object and returns the
// list picked from it, or decodes data as a bare array.
func unwrapList[T any](data []byte, wrapped any, pick func() []T) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		if err := json.Unmarshal(data, wrapped); err != nil {
			return nil, err
		}
		return pick(), nil
	}
	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ---------------------------------------------------------------------------
// DTO -> domain
// ---------------------------------------------------------------------------

// ToDomain converts the DTO and checks the request invariants. A missing
// kind is read as a general request, matching servers that predate leave
// requests.
func (d RequestDTO) ToDomain() (domain.Request, error) {
	if strings.TrimSpace(d.ID) == "" {
		return domain.Request{}, fmt.Errorf("request: missing id")
	}

	kind := domain.RequestKind(strings.ToLower(strings.TrimSpace(d.Kind)))
	if kind == "" {
		kind = domain.KindGeneral
	}
	if !kind.IsValid() {
		return domain.Request{}, fmt.Errorf("request %s: unknown kind %q", d.ID, d.Kind)
	}

	status := domain.NormalizeStatus(d.Status)
	if !status.IsValid() {
		return domain.Request{}, fmt.Errorf("request %s: unknown status %q", d.ID, d.Status)
	}

	req := domain.Request{
		ID:        d.ID,
		RequestNo: d.RequestNo,
		Kind:      kind,
		Text:      d.Query,
		Status:    status,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.User != nil {
		req.Requester = d.User.toDomain()
	}

	if d.LeaveRange != nil {
		rng, err := d.LeaveRange.toDomain()
		if err != nil {
			return domain.Request{}, fmt.Errorf("request %s: %w", d.ID, err)
		}
		req.Leave = &rng
	}

	// The server leaves stale action data on records that went back to
	// pending; it carries no meaning there.
	if status != domain.StatusPending {
		if d.Comment != nil && strings.TrimSpace(*d.Comment) != "" {
			c := *d.Comment
			req.Comment = &c
		}
		if d.ActionBy != nil && d.ActionBy.ID != "" {
			ref := d.ActionBy.toDomain()
			req.ActionBy = &ref
		}
	}

	if err := req.CheckInvariants(); err != nil {
		return domain.Request{}, fmt.Errorf("request %s: %w", d.ID, err)
	}
	return req, nil
}

func (r UserRefDTO) toDomain() domain.UserRef {
	return domain.UserRef{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Mobile:       r.Mobile,
		ProfileImage: r.ProfileImage,
	}
}

func (r LeaveRangeDTO) toDomain() (domain.LeaveRange, error) {
	start, err := ParseDate(r.Start)
	if err != nil {
		return domain.LeaveRange{}, fmt.Errorf("leave start: %w", err)
	}
	end, err := ParseDate(r.End)
	if err != nil {
		return domain.LeaveRange{}, fmt.Errorf("leave end: %w", err)
	}
	return domain.LeaveRange{Start: start, End: end}, nil
}

// ToDomain converts the DTO. Unknown roles fall back to the plain user role.
func (d UserDTO) ToDomain() (domain.User, error) {
	if strings.TrimSpace(d.ID) == "" {
		return domain.User{}, fmt.Errorf("user: missing id")
	}
	role := domain.UserRole(strings.ToLower(strings.TrimSpace(d.Role)))
	if !role.IsValid() {
		role = domain.UserRoleUser
	}
	u := domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Mobile:       d.Mobile,
		Role:         role,
		ProfileImage: d.ProfileImage,
	}
	if d.PaidLeaveBalance != nil {
		if d.PaidLeaveBalance.IsNegative() {
			return domain.User{}, fmt.Errorf("user %s: negative leave balance", d.ID)
		}
		u.PaidLeaveBalance = *d.PaidLeaveBalance
	}
	if d.CreatedAt != nil {
		u.CreatedAt = *d.CreatedAt
	}
	return u, nil
}

// ToDomain converts the DTO.
func (d NotificationDTO) ToDomain() (domain.Notification, error) {
	if strings.TrimSpace(d.ID) == "" {
		return domain.Notification{}, fmt.Errorf("notification: missing id")
	}
	return domain.Notification{
		ID:        d.ID,
		Type:      domain.NotificationType(d.Type),
		Message:   d.Message,
		IsRead:    d.IsRead,
		CreatedAt: d.CreatedAt,
	}, nil
}

// ---------------------------------------------------------------------------
// domain -> DTO
// ---------------------------------------------------------------------------

// FromLeaveRange renders a range as date-only strings.
func FromLeaveRange(r *domain.LeaveRange) *LeaveRangeDTO {
	if r == nil {
		return nil
	}
	return &LeaveRangeDTO{
		Start: r.Start.Format(time.DateOnly),
		End:   r.End.Format(time.DateOnly),
	}
}

// ParseDate accepts "2006-01-02" or an RFC 3339 timestamp and returns the
// calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC), nil
}
