package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func validRequest() Request {
	return Request{
		ID:        "r1",
		Requester: UserRef{ID: "u1", Name: "Asha"},
		Kind:      KindGeneral,
		Text:      "need laptop",
		Status:    StatusPending,
	}
}

func TestRequest_CheckInvariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr bool
	}{
		{"valid general", func(r *Request) {}, false},
		{"valid leave", func(r *Request) {
			r.Kind = KindLeave
			r.Leave = &LeaveRange{Start: day("2024-05-01"), End: day("2024-05-03")}
		}, false},
		{"single day leave", func(r *Request) {
			r.Kind = KindLeave
			r.Leave = &LeaveRange{Start: day("2024-05-01"), End: day("2024-05-01")}
		}, false},
		{"missing id", func(r *Request) { r.ID = "" }, true},
		{"unknown kind", func(r *Request) { r.Kind = "holiday" }, true},
		{"unknown status", func(r *Request) { r.Status = "Rejected" }, true},
		{"text too long", func(r *Request) { r.Text = strings.Repeat("é", 1001) }, true},
		{"leave without range", func(r *Request) { r.Kind = KindLeave }, true},
		{"range on general", func(r *Request) {
			r.Leave = &LeaveRange{Start: day("2024-05-01"), End: day("2024-05-01")}
		}, true},
		{"end before start", func(r *Request) {
			r.Kind = KindLeave
			r.Leave = &LeaveRange{Start: day("2024-05-03"), End: day("2024-05-01")}
		}, true},
		{"pending with actor", func(r *Request) { r.ActionBy = &UserRef{ID: "admin"} }, true},
		{"pending with comment", func(r *Request) { r.Comment = ptr("ok") }, true},
		{"approved with actor", func(r *Request) {
			r.Status = StatusApproved
			r.ActionBy = &UserRef{ID: "admin"}
			r.Comment = ptr("ok")
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := validRequest()
			tt.mutate(&r)
			err := r.CheckInvariants()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRequest_TextLimitCountsCodePoints(t *testing.T) {
	t.Parallel()

	r := validRequest()
	r.Text = strings.Repeat("é", 1000) // 2000 bytes, 1000 code points
	if err := r.CheckInvariants(); err != nil {
		t.Fatalf("1000 code points should be accepted: %v", err)
	}
}

func TestSession_OwnershipAndRole(t *testing.T) {
	t.Parallel()

	s := Session{User: User{ID: "u1", Role: UserRoleUser}}
	r := validRequest()

	if !s.Owns(r) {
		t.Error("session user should own request")
	}
	if s.IsAdmin() {
		t.Error("plain user is not admin")
	}

	other := Session{User: User{ID: "u2", Role: UserRoleAdmin}}
	if other.Owns(r) {
		t.Error("other user should not own request")
	}
	if !other.IsAdmin() {
		t.Error("admin session should be admin")
	}

	if (Session{}).Owns(Request{}) {
		t.Error("empty ids never match")
	}
}

func TestSession_IsExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if (Session{}).IsExpired(now) {
		t.Error("zero expiry never expires")
	}
	if !(Session{ExpiresAt: now.Add(-time.Minute)}).IsExpired(now) {
		t.Error("past expiry should be expired")
	}
	if (Session{ExpiresAt: now.Add(time.Minute)}).IsExpired(now) {
		t.Error("future expiry should not be expired")
	}
}
