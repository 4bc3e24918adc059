package directory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

var _ userAPI = &userAPIMock{}

type userAPIMock struct {
	FetchUsersFunc         func(ctx context.Context) ([]domain.User, error)
	UpdateRoleFunc         func(ctx context.Context, userID string, role domain.UserRole) error
	UpdateLeaveBalanceFunc func(ctx context.Context, userID string, balance decimal.Decimal, reason string) error
	DeleteUserFunc         func(ctx context.Context, userID string) error

	calls struct {
		FetchUsers []struct{}
		UpdateRole []struct {
			UserID string
			Role   domain.UserRole
		}
		UpdateLeaveBalance []struct {
			UserID  string
			Balance decimal.Decimal
			Reason  string
		}
		DeleteUser []struct {
			UserID string
		}
	}
	lockFetchUsers         sync.RWMutex
	lockUpdateRole         sync.RWMutex
	lockUpdateLeaveBalance sync.RWMutex
	lockDeleteUser         sync.RWMutex
}

func (mock *userAPIMock) FetchUsers(ctx context.Context) ([]domain.User, error) {
	if mock.FetchUsersFunc == nil {
		panic("userAPIMock.FetchUsersFunc: method is nil but userAPI.FetchUsers was just called")
	}
	mock.lockFetchUsers.Lock()
	mock.calls.FetchUsers = append(mock.calls.FetchUsers, struct{}{})
	mock.lockFetchUsers.Unlock()
	return mock.FetchUsersFunc(ctx)
}

func (mock *userAPIMock) FetchUsersCalls() []struct{} {
	mock.lockFetchUsers.RLock()
	calls := mock.calls.FetchUsers
	mock.lockFetchUsers.RUnlock()
	return calls
}

func (mock *userAPIMock) UpdateRole(ctx context.Context, userID string, role domain.UserRole) error {
	if mock.UpdateRoleFunc == nil {
		panic("userAPIMock.UpdateRoleFunc: method is nil but userAPI.UpdateRole was just called")
	}
	callInfo := struct {
		UserID string
		Role   domain.UserRole
	}{UserID: userID, Role: role}
	mock.lockUpdateRole.Lock()
	mock.calls.UpdateRole = append(mock.calls.UpdateRole, callInfo)
	mock.lockUpdateRole.Unlock()
	return mock.UpdateRoleFunc(ctx, userID, role)
}

func (mock *userAPIMock) UpdateRoleCalls() []struct {
	UserID string
	Role   domain.UserRole
} {
	mock.lockUpdateRole.RLock()
	calls := mock.calls.UpdateRole
	mock.lockUpdateRole.RUnlock()
	return calls
}

func (mock *userAPIMock) UpdateLeaveBalance(ctx context.Context, userID string, balance decimal.Decimal, reason string) error {
	if mock.UpdateLeaveBalanceFunc == nil {
		panic("userAPIMock.UpdateLeaveBalanceFunc: method is nil but userAPI.UpdateLeaveBalance was just called")
	}
	callInfo := struct {
		UserID  string
		Balance decimal.Decimal
		Reason  string
	}{UserID: userID, Balance: balance, Reason: reason}
	mock.lockUpdateLeaveBalance.Lock()
	mock.calls.UpdateLeaveBalance = append(mock.calls.UpdateLeaveBalance, callInfo)
	mock.lockUpdateLeaveBalance.Unlock()
	return mock.UpdateLeaveBalanceFunc(ctx, userID, balance, reason)
}

func (mock *userAPIMock) UpdateLeaveBalanceCalls() []struct {
	UserID  string
	Balance decimal.Decimal
	Reason  string
} {
	mock.lockUpdateLeaveBalance.RLock()
	calls := mock.calls.UpdateLeaveBalance
	mock.lockUpdateLeaveBalance.RUnlock()
	return calls
}

func (mock *userAPIMock) DeleteUser(ctx context.Context, userID string) error {
	if mock.DeleteUserFunc == nil {
		panic("userAPIMock.DeleteUserFunc: method is nil but userAPI.DeleteUser was just called")
	}
	callInfo := struct {
		UserID string
	}{UserID: userID}
	mock.lockDeleteUser.Lock()
	mock.calls.DeleteUser = append(mock.calls.DeleteUser, callInfo)
	mock.lockDeleteUser.Unlock()
	return mock.DeleteUserFunc(ctx, userID)
}

func (mock *userAPIMock) DeleteUserCalls() []struct {
	UserID string
} {
	mock.lockDeleteUser.RLock()
	calls := mock.calls.DeleteUser
	mock.lockDeleteUser.RUnlock()
	return calls
}
