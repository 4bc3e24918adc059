package session

import (
	"context"
	"sync"

	"github.com/heartmarshall/teamqueries/internal/adapter/api"
	"github.com/heartmarshall/teamqueries/internal/domain"
)

var _ requestAPI = &requestAPIMock{}

type requestAPIMock struct {
	FetchRequestsFunc         func(ctx context.Context) ([]domain.Request, error)
	FetchNotificationsFunc    func(ctx context.Context) ([]domain.Notification, error)
	SubmitRequestFunc         func(ctx context.Context, in api.NewRequest) (domain.Request, error)
	UpdateStatusFunc          func(ctx context.Context, id string, status domain.RequestStatus, comment string) (domain.Request, error)
	DeleteRequestFunc         func(ctx context.Context, id string) error
	MarkNotificationsReadFunc func(ctx context.Context) error

	calls struct {
		FetchRequests      []struct{}
		FetchNotifications []struct{}
		SubmitRequest      []struct {
			In api.NewRequest
		}
		UpdateStatus []struct {
			ID      string
			Status  domain.RequestStatus
			Comment string
		}
		DeleteRequest []struct {
			ID string
		}
		MarkNotificationsRead []struct{}
	}
	lockFetchRequests         sync.RWMutex
	lockFetchNotifications    sync.RWMutex
	lockSubmitRequest         sync.RWMutex
	lockUpdateStatus          sync.RWMutex
	lockDeleteRequest         sync.RWMutex
	lockMarkNotificationsRead sync.RWMutex
}

func (mock *requestAPIMock) FetchRequests(ctx context.Context) ([]domain.Request, error) {
	if mock.FetchRequestsFunc == nil {
		panic("requestAPIMock.FetchRequestsFunc: method is nil but requestAPI.FetchRequests was just called")
	}
	mock.lockFetchRequests.Lock()
	mock.calls.FetchRequests = append(mock.calls.FetchRequests, struct{}{})
	mock.lockFetchRequests.Unlock()
	return mock.FetchRequestsFunc(ctx)
}

func (mock *requestAPIMock) FetchRequestsCalls() []struct{} {
	mock.lockFetchRequests.RLock()
	calls := mock.calls.FetchRequests
	mock.lockFetchRequests.RUnlock()
	return calls
}

func (mock *requestAPIMock) FetchNotifications(ctx context.Context) ([]domain.Notification, error) {
	if mock.FetchNotificationsFunc == nil {
		panic("requestAPIMock.FetchNotificationsFunc: method is nil but requestAPI.FetchNotifications was just called")
	}
	mock.lockFetchNotifications.Lock()
	mock.calls.FetchNotifications = append(mock.calls.FetchNotifications, struct{}{})
	mock.lockFetchNotifications.Unlock()
	return mock.FetchNotificationsFunc(ctx)
}

func (mock *requestAPIMock) FetchNotificationsCalls() []struct{} {
	mock.lockFetchNotifications.RLock()
	calls := mock.calls.FetchNotifications
	mock.lockFetchNotifications.RUnlock()
	return calls
}

func (mock *requestAPIMock) SubmitRequest(ctx context.Context, in api.NewRequest) (domain.Request, error) {
	if mock.SubmitRequestFunc == nil {
		panic("requestAPIMock.SubmitRequestFunc: method is nil but requestAPI.SubmitRequest was just called")
	}
	callInfo := struct {
		In api.NewRequest
	}{In: in}
	mock.lockSubmitRequest.Lock()
	mock.calls.SubmitRequest = append(mock.calls.SubmitRequest, callInfo)
	mock.lockSubmitRequest.Unlock()
	return mock.SubmitRequestFunc(ctx, in)
}

func (mock *requestAPIMock) SubmitRequestCalls() []struct {
	In api.NewRequest
} {
	mock.lockSubmitRequest.RLock()
	calls := mock.calls.SubmitRequest
	mock.lockSubmitRequest.RUnlock()
	return calls
}

func (mock *requestAPIMock) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus, comment string) (domain.Request, error) {
	if mock.UpdateStatusFunc == nil {
		panic("requestAPIMock.UpdateStatusFunc: method is nil but requestAPI.UpdateStatus was just called")
	}
	callInfo := struct {
		ID      string
		Status  domain.RequestStatus
		Comment string
	}{ID: id, Status: status, Comment: comment}
	mock.lockUpdateStatus.Lock()
	mock.calls.UpdateStatus = append(mock.calls.UpdateStatus, callInfo)
	mock.lockUpdateStatus.Unlock()
	return mock.UpdateStatusFunc(ctx, id, status, comment)
}

func (mock *requestAPIMock) UpdateStatusCalls() []struct {
	ID      string
	Status  domain.RequestStatus
	Comment string
} {
	mock.lockUpdateStatus.RLock()
	calls := mock.calls.UpdateStatus
	mock.lockUpdateStatus.RUnlock()
	return calls
}

func (mock *requestAPIMock) DeleteRequest(ctx context.Context, id string) error {
	if mock.DeleteRequestFunc == nil {
		panic("requestAPIMock.DeleteRequestFunc: method is nil but requestAPI.DeleteRequest was just called")
	}
	callInfo := struct {
		ID string
	}{ID: id}
	mock.lockDeleteRequest.Lock()
	mock.calls.DeleteRequest = append(mock.calls.DeleteRequest, callInfo)
	mock.lockDeleteRequest.Unlock()
	return mock.DeleteRequestFunc(ctx, id)
}

func (mock *requestAPIMock) DeleteRequestCalls() []struct {
	ID string
} {
	mock.lockDeleteRequest.RLock()
	calls := mock.calls.DeleteRequest
	mock.lockDeleteRequest.RUnlock()
	return calls
}

func (mock *requestAPIMock) MarkNotificationsRead(ctx context.Context) error {
	if mock.MarkNotificationsReadFunc == nil {
		panic("requestAPIMock.MarkNotificationsReadFunc: method is nil but requestAPI.MarkNotificationsRead was just called")
	}
	mock.lockMarkNotificationsRead.Lock()
	mock.calls.MarkNotificationsRead = append(mock.calls.MarkNotificationsRead, struct{}{})
	mock.lockMarkNotificationsRead.Unlock()
	return mock.MarkNotificationsReadFunc(ctx)
}

func (mock *requestAPIMock) MarkNotificationsReadCalls() []struct{} {
	mock.lockMarkNotificationsRead.RLock()
	calls := mock.calls.MarkNotificationsRead
	mock.lockMarkNotificationsRead.RUnlock()
	return calls
}
