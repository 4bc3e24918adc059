package domain

import "testing"

func TestRequestStatus_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status RequestStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusApproved, true},
		{StatusResolved, true},
		{StatusCancelled, true},
		{RequestStatus("pending"), false},
		{RequestStatus("Rejected"), false},
		{RequestStatus(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("RequestStatus(%q).IsValid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestRequestStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	if StatusPending.IsTerminal() || StatusApproved.IsTerminal() {
		t.Error("Pending and Approved are not terminal")
	}
	if !StatusResolved.IsTerminal() || !StatusCancelled.IsTerminal() {
		t.Error("Resolved and Cancelled are terminal")
	}
}

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want RequestStatus
	}{
		{"Pending", StatusPending},
		{"pending ", StatusPending},
		{" Approved", StatusApproved},
		{"RESOLVED", StatusResolved},
		{"\tcancelled\n", StatusCancelled},
		{"", ""},
		{"   ", ""},
		{"on hold", RequestStatus("On Hold")},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeStatus(tt.raw); got != tt.want {
				t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRequestKind_IsValid(t *testing.T) {
	t.Parallel()

	if !KindGeneral.IsValid() || !KindLeave.IsValid() {
		t.Error("known kinds should be valid")
	}
	if RequestKind("holiday").IsValid() {
		t.Error("unknown kind should be invalid")
	}
}

func TestUserRole(t *testing.T) {
	t.Parallel()

	if !UserRoleAdmin.IsAdmin() {
		t.Error("admin should be admin")
	}
	if UserRoleUser.IsAdmin() {
		t.Error("user should not be admin")
	}
	if UserRole("owner").IsValid() {
		t.Error("unknown role should be invalid")
	}
	if got := UserRoleAdmin.String(); got != "admin" {
		t.Errorf("got %q, want admin", got)
	}
}
