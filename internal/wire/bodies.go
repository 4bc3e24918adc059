package wire

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LoginBody is the payload of POST /login.
type LoginBody struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// SubmitBody is the payload of POST /requests.
type SubmitBody struct {
	Query      string         `json:"query"`
	Kind       string         `json:"kind"`
	LeaveRange *LeaveRangeDTO `json:"leaveRange,omitempty"`
}

// StatusBody is the payload of PUT /requests/{id}.
type StatusBody struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// RoleBody is the payload of PUT /admin/users/role.
type RoleBody struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// LeaveBalanceBody is the payload of PUT /admin/users/leave-balance.
type LeaveBalanceBody struct {
	UserID  string      `json:"userId"`
	Balance json.Number `json:"paidLeaveBalance"`
	Reason  string      `json:"reason"`
}

// NewLeaveBalanceBody renders balance as a JSON number; decimal.Decimal
// marshals to a quoted string by default.
func NewLeaveBalanceBody(userID string, balance decimal.Decimal, reason string) LeaveBalanceBody {
	return LeaveBalanceBody{UserID: userID, Balance: json.Number(balance.String()), Reason: reason}
}

// ErrorBody is the error payload the server sends with non-2xx responses.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Text returns whichever of the two fields is set.
func (b ErrorBody) Text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}
